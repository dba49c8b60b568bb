// Package bridge relays JSON envelopes between the DAW-side script and
// browser clients over WebSocket. Envelopes are decoded once, here at the
// transport boundary, into closed typed variants; nothing downstream ever
// dispatches on a raw "type" string.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

// Message is the closed set of envelope variants. Only types in this
// package implement it.
type Message interface {
	messageType() string
}

// MIDI carries one opaque 3-byte MIDI message.
type MIDI struct {
	Status int `json:"status"`
	Data1  int `json:"data1"`
	Data2  int `json:"data2"`
}

// TrackChange announces the DAW's selected track, with the bank pair when
// one is assigned.
type TrackChange struct {
	TrackName string `json:"trackName"`
	MSB       *int   `json:"msb,omitempty"`
	LSB       *int   `json:"lsb,omitempty"`
}

// BankData pushes the selected track's full bank contents. Its
// articulation array is shape-identical to the parser's output; the DAW
// script and the parser feed the same consumers.
type BankData struct {
	TrackName     string                 `json:"trackName"`
	BankName      string                 `json:"bankName"`
	MSB           int                    `json:"msb"`
	LSB           int                    `json:"lsb"`
	Articulations []reabank.Articulation `json:"articulations"`
}

// Ping and Pong are the application-level keepalive pair.
type Ping struct{}
type Pong struct{}

func (MIDI) messageType() string        { return "midi" }
func (TrackChange) messageType() string { return "trackChange" }
func (BankData) messageType() string    { return "bankData" }
func (Ping) messageType() string        { return "ping" }
func (Pong) messageType() string        { return "pong" }

// envelope mirrors the wire shape: a type tag plus every possible field.
type envelope struct {
	Type string `json:"type"`

	Status int `json:"status,omitempty"`
	Data1  int `json:"data1,omitempty"`
	Data2  int `json:"data2,omitempty"`

	TrackName string `json:"trackName,omitempty"`
	MSB       *int   `json:"msb,omitempty"`
	LSB       *int   `json:"lsb,omitempty"`

	BankName      string                 `json:"bankName,omitempty"`
	Articulations []reabank.Articulation `json:"articulations,omitempty"`
}

// Decode parses one raw envelope into its typed variant. Unknown or
// missing type tags are an error; they never travel past the boundary.
func Decode(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}

	switch env.Type {
	case "midi":
		return MIDI{Status: env.Status, Data1: env.Data1, Data2: env.Data2}, nil
	case "trackChange":
		return TrackChange{TrackName: env.TrackName, MSB: env.MSB, LSB: env.LSB}, nil
	case "bankData":
		return BankData{
			TrackName:     env.TrackName,
			BankName:      env.BankName,
			MSB:           intOrZero(env.MSB),
			LSB:           intOrZero(env.LSB),
			Articulations: env.Articulations,
		}, nil
	case "ping":
		return Ping{}, nil
	case "pong":
		return Pong{}, nil
	case "":
		return nil, fmt.Errorf("envelope missing type tag")
	default:
		return nil, fmt.Errorf("unknown envelope type %q", env.Type)
	}
}

// Encode renders a typed message back into its wire envelope. Each
// variant marshals its own shape so absent fields stay absent instead of
// leaking zero values across envelope types.
func Encode(msg Message) ([]byte, error) {
	type tagged struct {
		Type string `json:"type"`
	}
	tag := tagged{Type: msg.messageType()}

	switch m := msg.(type) {
	case MIDI:
		return json.Marshal(struct {
			tagged
			MIDI
		}{tag, m})
	case TrackChange:
		return json.Marshal(struct {
			tagged
			TrackChange
		}{tag, m})
	case BankData:
		return json.Marshal(struct {
			tagged
			BankData
		}{tag, m})
	default:
		return json.Marshal(tag)
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
