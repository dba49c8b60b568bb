// Package reabank parses Reaticulate-style bank definition files into
// structured bank records. The parser is a pure function over its input:
// it performs no I/O, holds no global state, and never fails outright on
// malformed input; bad lines are reported and skipped.
package reabank

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultColor is assigned to articulations with no color metadata
	DefaultColor = "default"
)

// Articulation is a single program-change entry inside a bank.
type Articulation struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon,omitempty"`
	OutputSpec string `json:"outputSpec,omitempty"`
}

// Bank is a named collection of articulations addressed by a MIDI
// bank-select MSB/LSB pair.
type Bank struct {
	MSB           int            `json:"msb"`
	LSB           int            `json:"lsb"`
	Name          string         `json:"name"`
	Articulations []Articulation `json:"articulations"`
}

// Key returns the selection identity key for a bank. Banks declared twice
// with the same MSB/LSB collide on this key; key-indexed consumers apply
// insert-or-replace (last declaration wins).
func (b *Bank) Key() string {
	return fmt.Sprintf("%d-%d", b.MSB, b.LSB)
}

// MIDIEvent is a decoded 3-byte MIDI message.
type MIDIEvent struct {
	Status int `json:"status"`
	Data1  int `json:"data1"`
	Data2  int `json:"data2"`
}

// KeySwitch returns the note number when the output spec encodes a key
// switch (o=note:N). The second return is false for cc/empty/garbage specs.
func (a Articulation) KeySwitch() (int, bool) {
	spec := strings.TrimSpace(a.OutputSpec)
	if !strings.HasPrefix(spec, "note:") {
		return 0, false
	}
	note, err := strconv.Atoi(strings.TrimPrefix(spec, "note:"))
	if err != nil {
		return 0, false
	}
	return note, true
}

// MIDIEvents decodes the output spec into the MIDI messages that trigger
// this articulation on the given channel (0-based). Decoding is done here,
// on demand, so the parser stays agnostic of the transport encoding.
//
// Supported specs: "note:N" (note-on, velocity 127) and "cc:C,V".
func (a Articulation) MIDIEvents(channel int) []MIDIEvent {
	spec := strings.TrimSpace(a.OutputSpec)
	switch {
	case strings.HasPrefix(spec, "note:"):
		note, ok := a.KeySwitch()
		if !ok {
			return nil
		}
		return []MIDIEvent{{Status: 0x90 | (channel & 0x0F), Data1: note, Data2: 127}}
	case strings.HasPrefix(spec, "cc:"):
		parts := strings.SplitN(strings.TrimPrefix(spec, "cc:"), ",", 2)
		if len(parts) != 2 {
			return nil
		}
		cc, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		val, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil
		}
		return []MIDIEvent{{Status: 0xB0 | (channel & 0x0F), Data1: cc, Data2: val}}
	}
	return nil
}
