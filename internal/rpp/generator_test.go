package rpp

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleTrackRequest() GenerateRequest {
	return GenerateRequest{
		Name:       "Template",
		Tempo:      120,
		SampleRate: 48000,
		Tracks: []TrackRequest{
			{Name: "Test Bank", MSB: 1, LSB: 2, Articulations: []ArticulationRequest{
				{Number: 1, Name: "Sustain"},
				{Number: 2, Name: "Staccato"},
			}},
		},
	}
}

// extStateRe captures the project-level extension-state JSON payload.
var extStateRe = regexp.MustCompile(`(?s)<EXTSTATE\n\s*<REATICULATE\n\s*\|(\{.*?\})\n`)

func TestGenerate_ProjectLevelExtensionState(t *testing.T) {
	out := Generate(singleTrackRequest())

	matches := extStateRe.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 1, "exactly one project-level extension-state block")

	var state struct {
		MSBLSBByGUID map[string]int `json:"msblsb_by_guid"`
		ChangeCookie string         `json:"change_cookie"`
		OK           bool           `json:"ok"`
	}
	require.NoError(t, json.Unmarshal([]byte(matches[0][1]), &state))

	require.Len(t, state.MSBLSBByGUID, 1)
	for _, msblsb := range state.MSBLSBByGUID {
		assert.Equal(t, 1*128+2, msblsb)
	}
	assert.True(t, state.OK)
	assert.NotEmpty(t, state.ChangeCookie)
}

func TestGenerate_TrackAssignmentPayload(t *testing.T) {
	out := Generate(singleTrackRequest())

	payloadRe := regexp.MustCompile(`\|(\{"bank":.*\})`)
	m := payloadRe.FindStringSubmatch(out)
	require.NotNil(t, m)

	var wrapper struct {
		Bank struct {
			Type string `json:"t"`
			GUID string `json:"guid"`
			Hash int64  `json:"hash"`
			Name string `json:"name"`
			Src  int    `json:"src"`
			Dst  int    `json:"dst"`
		} `json:"bank"`
	}
	require.NoError(t, json.Unmarshal([]byte(m[1]), &wrapper))

	assert.Equal(t, "b", wrapper.Bank.Type)
	assert.Equal(t, "Test Bank", wrapper.Bank.Name)
	assert.Equal(t, 17, wrapper.Bank.Src)
	assert.Equal(t, 1, wrapper.Bank.Dst)
	assert.Negative(t, wrapper.Bank.Hash)
	// Bank guids are bare lowercase-hyphenated, unlike braced track GUIDs.
	assert.NotContains(t, wrapper.Bank.GUID, "{")
	assert.Equal(t, strings.ToLower(wrapper.Bank.GUID), wrapper.Bank.GUID)

	// The assignment guid must appear in the project-level map.
	state := extStateRe.FindStringSubmatch(out)
	require.NotNil(t, state)
	assert.Contains(t, state[1], wrapper.Bank.GUID)
}

// identifierRe matches every minted identifier shape: braced-upper GUIDs
// and bare lowercase uuids.
var identifierRe = regexp.MustCompile(`\{?[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\}?`)

func TestGenerate_DeterministicModuloIdentifiers(t *testing.T) {
	req := GenerateRequest{
		Name:  "Det",
		Tempo: 140,
		Tracks: []TrackRequest{
			{Name: "BBCSO Violins 1 Long", MSB: 1, LSB: 0, Folder: "Strings"},
			{Name: "BBCSO Celli Long", MSB: 1, LSB: 4, Folder: "Strings"},
			{Name: "CSB Horns a4", MSB: 9, LSB: 0},
		},
	}

	a := identifierRe.ReplaceAllString(Generate(req), "ID")
	b := identifierRe.ReplaceAllString(Generate(req), "ID")
	assert.Equal(t, a, b)
}

func TestGenerate_FolderFlags(t *testing.T) {
	req := GenerateRequest{
		Tracks: []TrackRequest{
			{Name: "Violins", MSB: 1, LSB: 0, Folder: "Strings"},
			{Name: "Celli", MSB: 1, LSB: 1, Folder: "Strings"},
			{Name: "Solo Horn", MSB: 2, LSB: 0},
		},
	}
	out := Generate(req)

	// Bus track opens the folder before its members; the last member
	// closes it; the ungrouped track is plain.
	busIdx := strings.Index(out, "ISBUS 1 1")
	lastIdx := strings.Index(out, "ISBUS 2 -1")
	require.Positive(t, busIdx)
	require.Positive(t, lastIdx)
	assert.Less(t, busIdx, lastIdx)
	assert.Equal(t, 2, strings.Count(out, "ISBUS 0 0"))

	// Folder name precedes member names in output order.
	assert.Less(t, strings.Index(out, `NAME "Strings"`), strings.Index(out, `NAME "Violins"`))
}

func TestGenerate_NoAssignmentsNoProjectState(t *testing.T) {
	out := Generate(GenerateRequest{Name: "Empty"})
	assert.NotContains(t, out, "EXTSTATE")
	assert.Contains(t, out, "TEMPO 120 4 4")
	assert.Contains(t, out, "SAMPLERATE 48000 0 0")
}

func TestGenerate_OrderPreservedOneTrackPerEntry(t *testing.T) {
	req := GenerateRequest{
		Tracks: []TrackRequest{
			{Name: "Zebra", MSB: 1, LSB: 0},
			{Name: "Apple", MSB: 2, LSB: 0},
			{Name: "Mango", MSB: 3, LSB: 0},
		},
	}
	out := Generate(req)

	assert.Equal(t, 3, strings.Count(out, "<TRACK"))
	zebra := strings.Index(out, `NAME "Zebra"`)
	apple := strings.Index(out, `NAME "Apple"`)
	mango := strings.Index(out, `NAME "Mango"`)
	assert.Less(t, zebra, apple)
	assert.Less(t, apple, mango)
}

func TestGenerate_QuoteEscaping(t *testing.T) {
	out := Generate(GenerateRequest{
		Tracks: []TrackRequest{{Name: `My "Special" Bank`, MSB: 1, LSB: 0}},
	})
	assert.Contains(t, out, `NAME 'My "Special" Bank'`)
}

func TestGenerate_Indentation(t *testing.T) {
	out := Generate(singleTrackRequest())

	lines := strings.Split(out, "\n")
	assert.Equal(t, "<REAPER_PROJECT 0.1 \"7.0/cubby\" 0", lines[0])
	assert.Contains(t, lines, "  <TRACK "+extractTrackGUID(t, out))
	assert.Contains(t, out, "\n    <FXCHAIN\n")
	assert.True(t, strings.HasSuffix(out, ">\n"))
}

func extractTrackGUID(t *testing.T, out string) string {
	t.Helper()
	re := regexp.MustCompile(`<TRACK (\{[0-9A-F-]+\})`)
	m := re.FindStringSubmatch(out)
	require.NotNil(t, m)
	return m[1]
}

func TestColorForName(t *testing.T) {
	tests := []struct {
		name  string
		color int
	}{
		{"BBCSO Violins 1", trackColors[0].color},
		{"Solo VIOLIN legato", trackColors[0].color},
		{"CSB Horns a4", 0x1000000 | 0xC87850},
		{"Century Percussion Toms", 0x1000000 | 0xB050C8},
		{"Completely Unrelated", DefaultTrackColor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.color, ColorForName(tt.name), tt.name)
	}
}

func TestNameHash(t *testing.T) {
	h := NameHash("Test Bank")
	assert.Negative(t, h)
	assert.Equal(t, h, NameHash("Test Bank"))
	assert.NotEqual(t, h, NameHash("Other Bank"))
	assert.Negative(t, NameHash(""))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `'has "quotes"'`, Quote(`has "quotes"`))
	assert.Equal(t, "`both \" and '`", Quote(`both " and '`))
}
