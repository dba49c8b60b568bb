package rpp

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
)

const (
	// Fixed Reaticulate routing: source channel 17 is "any", destination
	// channel 1. Every generated assignment uses these.
	bankSourceChannel = 17
	bankDestChannel   = 1

	defaultTempo      = 120.0
	defaultSampleRate = 48000
)

// ArticulationRequest is the subset of articulation data the project file
// needs.
type ArticulationRequest struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// TrackRequest maps to exactly one output track. Folder, when non-empty,
// groups consecutive tracks under a bus track with that name.
type TrackRequest struct {
	Name          string                `json:"name"`
	MSB           int                   `json:"msb"`
	LSB           int                   `json:"lsb"`
	Articulations []ArticulationRequest `json:"articulations"`
	Folder        string                `json:"folder,omitempty"`
}

// GenerateRequest describes one whole project. Track order is preserved
// in the output.
type GenerateRequest struct {
	Name       string         `json:"name"`
	Tempo      float64        `json:"tempo"`
	SampleRate int            `json:"sampleRate"`
	Tracks     []TrackRequest `json:"tracks"`
}

// bankAssignment is the JSON payload of a track-level extension block.
// The consuming plugin matches assignments to banks through the guid and
// the project-level guid map, not through the hash.
type bankAssignment struct {
	Type string `json:"t"`
	GUID string `json:"guid"`
	Hash int64  `json:"hash"`
	Name string `json:"name"`
	Src  int    `json:"src"`
	Dst  int    `json:"dst"`
}

// bankRef is one generated assignment: its minted guid and the packed
// msb*128+lsb value the project-level block maps it to.
type bankRef struct {
	guid   string
	msblsb int
}

// Generate serializes the request into REAPER project text. Two calls
// with the same request differ only in freshly minted identifiers; the
// surrounding structure is byte-identical. Invalid input (out-of-range
// MSB/LSB, empty names) passes through verbatim; validation belongs to
// the caller.
func Generate(req GenerateRequest) string {
	tempo := req.Tempo
	if tempo == 0 {
		tempo = defaultTempo
	}
	sampleRate := req.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}

	root := &Element{Name: "REAPER_PROJECT", Attrs: []string{"0.1", Quote("7.0/cubby"), "0"}}
	if req.Name != "" {
		root.AddLine("TITLE", Quote(req.Name))
	}
	root.AddLine("TEMPO", fmt.Sprintf("%g", tempo), "4", "4")
	root.AddLine("SAMPLERATE", fmt.Sprintf("%d", sampleRate), "0", "0")

	var refs []bankRef

	for _, group := range groupTracks(req.Tracks) {
		if group.folder != "" {
			writeFolderTrack(root, group.folder)
		}
		for i, track := range group.tracks {
			bankGUID := uuid.New().String()
			refs = append(refs, bankRef{guid: bankGUID, msblsb: track.MSB*128 + track.LSB})
			flag := busFlagNone
			if group.folder != "" {
				if i == len(group.tracks)-1 {
					flag = busFlagLast
				} else {
					flag = busFlagMember
				}
			}
			writeTrack(root, track, bankGUID, flag)
		}
	}

	if len(refs) > 0 {
		writeProjectState(root, refs)
	}

	return root.String()
}

type trackGroup struct {
	folder string
	tracks []TrackRequest
}

// groupTracks splits the ordered track list into runs sharing a folder
// label. Ungrouped tracks form single-track runs with no folder.
func groupTracks(tracks []TrackRequest) []trackGroup {
	var groups []trackGroup
	for _, track := range tracks {
		n := len(groups)
		if n > 0 && groups[n-1].folder != "" && groups[n-1].folder == track.Folder {
			groups[n-1].tracks = append(groups[n-1].tracks, track)
			continue
		}
		groups = append(groups, trackGroup{folder: track.Folder, tracks: []TrackRequest{track}})
	}
	return groups
}

type busFlag int

const (
	busFlagNone busFlag = iota
	busFlagMember
	busFlagLast
)

// writeFolderTrack emits the grouping bus track that precedes its member
// tracks. ISBUS 1 1 opens the folder.
func writeFolderTrack(root *Element, name string) {
	track := root.AddChild("TRACK", trackGUID())
	track.AddLine("NAME", Quote(name))
	track.AddLine("PEAKCOL", fmt.Sprintf("%d", ColorForName(name)))
	track.AddLine("ISBUS", "1", "1")
	track.AddLine("TRACKID", trackGUID())
}

// writeTrack emits one bank-assigned track: header, empty instrument
// placeholder, the articulation engine plugin, and the extension block
// carrying the bank assignment.
func writeTrack(root *Element, req TrackRequest, bankGUID string, flag busFlag) {
	track := root.AddChild("TRACK", trackGUID())
	track.AddLine("NAME", Quote(req.Name))
	track.AddLine("PEAKCOL", fmt.Sprintf("%d", ColorForName(req.Name)))
	switch flag {
	case busFlagLast:
		// Closes the enclosing folder.
		track.AddLine("ISBUS", "2", "-1")
	default:
		track.AddLine("ISBUS", "0", "0")
	}
	track.AddLine("TRACKID", trackGUID())

	fxchain := track.AddChild("FXCHAIN")
	fxchain.AddLine("WNDRECT", "0", "0", "0", "0")
	fxchain.AddLine("SHOW", "0")

	// Instrument slot ships empty; the user loads content after import.
	instrument := fxchain.AddChild("VST",
		Quote("VSTi: Kontakt (Native Instruments)"), "Kontakt.vst3", "0", Quote(""), pluginGUID(), Quote(""))
	instrument.AddLine("BYPASS", "0", "0", "0")

	engine := fxchain.AddChild("VST",
		Quote("VST3: Cubby Remote (Cubby)"), "CubbyRemote.vst3", "0", Quote(""), pluginGUID(), Quote(""))
	engine.AddLine("BYPASS", "0", "0", "0")

	// The articulation list rides along as track notes so an imported
	// project documents its own switch layout.
	if len(req.Articulations) > 0 {
		notes := track.AddChild("NOTES")
		for _, a := range req.Articulations {
			notes.AddLine(fmt.Sprintf("|%d %s", a.Number, a.Name))
		}
	}

	assignment := bankAssignment{
		Type: "b",
		GUID: bankGUID,
		Hash: NameHash(req.Name),
		Name: req.Name,
		Src:  bankSourceChannel,
		Dst:  bankDestChannel,
	}
	payload, _ := json.Marshal(map[string]bankAssignment{"bank": assignment})

	ext := track.AddChild("EXT")
	ext.AddChild("REATICULATE").AddLine("|" + string(payload))
}

// writeProjectState emits the single project-level extension-state block.
// The guid map is written in track order by hand: marshaling a Go map
// would sort the random guid keys and shuffle the value order between
// runs, breaking the determinism-modulo-identifiers guarantee.
func writeProjectState(root *Element, refs []bankRef) {
	var sb strings.Builder
	sb.WriteString(`{"msblsb_by_guid":{`)
	for i, ref := range refs {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `%q:%d`, ref.guid, ref.msblsb)
	}
	fmt.Fprintf(&sb, `},"change_cookie":%q,"ok":true}`, uuid.New().String())

	ext := root.AddChild("EXTSTATE")
	ext.AddChild("REATICULATE").AddLine("|" + sb.String())
}

// trackGUID mints a braced upper-case GUID for track and TRACKID fields.
func trackGUID() string {
	return "{" + strings.ToUpper(uuid.New().String()) + "}"
}

// pluginGUID mints the GUID token embedded in VST lines.
func pluginGUID() string {
	return "{" + strings.ToUpper(uuid.New().String()) + "}"
}

// NameHash derives the numeric hash field from a bank name: FNV-1a folded
// to a guaranteed-negative value. The consuming plugin keys off presence
// and sign, not the algorithm, so any deterministic negative hash
// satisfies it.
func NameHash(name string) int64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return -(int64(h.Sum32()&0x7FFFFFFF) + 1)
}
