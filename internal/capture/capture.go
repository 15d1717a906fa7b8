// Package capture reads captured-run artifacts into an immutable event log.
package capture

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Capture is the reader-level view of an artifact, before symbolication
// and stack normalisation.
type Capture struct {
	ExecutablePath string     `json:"executable"`
	Symbols        []Symbol   `json:"symbols"`
	Events         []RawEvent `json:"events"`

	// InnermostFirst is set when stacks are stored with the executing frame
	// at index 0.
	InnermostFirst bool `json:"-"`
}

// Symbol is one entry of a capture's symbol table.
type Symbol struct {
	Name    string `json:"name"`
	Address uint32 `json:"address"`
	Size    uint32 `json:"size"`
}

// RawEvent is an event as stored in the artifact.
type RawEvent struct {
	Timestamp uint64     `json:"timestamp"`
	Type      string     `json:"type"`
	Ptr       uint64     `json:"ptr"`
	Size      uint64     `json:"size"`
	InKernel  bool       `json:"in_kernel"`
	Stack     []RawFrame `json:"stack"`
}

// RawFrame is one stack entry. Symbol is empty when the artifact only
// recorded the address.
type RawFrame struct {
	Address uint32 `json:"address"`
	Offset  uint32 `json:"offset"`
	Symbol  string `json:"symbol"`
}

type rawFrameObject RawFrame

// UnmarshalJSON accepts either a bare address or a frame object.
func (f *RawFrame) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '{' {
		var obj rawFrameObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*f = RawFrame(obj)
		return nil
	}
	addr, err := strconv.ParseUint(string(b), 10, 32)
	if err != nil {
		return err
	}
	*f = RawFrame{Address: uint32(addr)}
	return nil
}
