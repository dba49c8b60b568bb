package rpp

import "strings"

// trackColor pairs an instrument-family keyword with a REAPER PEAKCOL
// value (0x1000000 | BGR). Matched in order against the lowercased bank
// name, first hit wins; keep the specific families above the broad ones.
type trackColor struct {
	keyword string
	color   int
}

var trackColors = []trackColor{
	{"violin", 0x1000000 | 0x5050C8},
	{"viola", 0x1000000 | 0x5070C8},
	{"cello", 0x1000000 | 0x5090C8},
	{"bassoon", 0x1000000 | 0x50C8D8},
	{"bass", 0x1000000 | 0x50B0C8},
	{"harp", 0x1000000 | 0x70C8A0},
	{"horn", 0x1000000 | 0xC87850},
	{"trumpet", 0x1000000 | 0xC89850},
	{"trombone", 0x1000000 | 0xC8B850},
	{"tuba", 0x1000000 | 0xC8D850},
	{"flute", 0x1000000 | 0x50C878},
	{"piccolo", 0x1000000 | 0x50C878},
	{"oboe", 0x1000000 | 0x50C898},
	{"clarinet", 0x1000000 | 0x50C8B8},
	{"timpani", 0x1000000 | 0x9050C8},
	{"percussion", 0x1000000 | 0xB050C8},
	{"perc", 0x1000000 | 0xB050C8},
	{"choir", 0x1000000 | 0xC850A0},
	{"piano", 0x1000000 | 0xC8C8C8},
	{"strings", 0x1000000 | 0x5050C8},
	{"brass", 0x1000000 | 0xC87850},
}

// DefaultTrackColor applies when no family keyword matches.
const DefaultTrackColor = 0x1000000 | 0x808080

// ColorForName resolves the track color for a bank name by
// case-insensitive substring containment.
func ColorForName(name string) int {
	lower := strings.ToLower(name)
	for _, tc := range trackColors {
		if strings.Contains(lower, tc.keyword) {
			return tc.color
		}
	}
	return DefaultTrackColor
}
