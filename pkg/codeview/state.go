package codeview

import (
	"encoding/json"
	"fmt"
)

// ExtractedCode is the decoded code text and its display language.
type ExtractedCode struct {
	Text             string `json:"text"`
	Language         string `json:"language"`
	SourceTableIndex int    `json:"sourceTableIndex"`
}

// StateKind identifies the RenderState variant.
type StateKind int

const (
	// StateEmpty means no table was flagged as code.
	StateEmpty StateKind = iota
	// StateError means the selected table could not yield code.
	StateError
	// StateReady means code is available for display.
	StateReady
)

// String returns the string representation of a StateKind.
func (k StateKind) String() string {
	switch k {
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// RenderState is the outcome handed to a renderer. It is a plain value:
// copying it never shares mutable state with the pipeline.
type RenderState struct {
	Kind StateKind

	// Err is set when Kind is StateError.
	Err ErrorKind

	// Code is set when Kind is StateReady.
	Code ExtractedCode
}

// Empty returns the "no code" state.
func Empty() RenderState { return RenderState{Kind: StateEmpty} }

// Failed returns an error state of the given kind.
func Failed(kind ErrorKind) RenderState { return RenderState{Kind: StateError, Err: kind} }

// Ready returns a state carrying code for display.
func Ready(code ExtractedCode) RenderState { return RenderState{Kind: StateReady, Code: code} }

// RenderPayload is what a highlighting renderer consumes.
// Line numbers and line wrapping are always on.
type RenderPayload struct {
	Text        string `json:"text"`
	Language    string `json:"language"`
	LineNumbers bool   `json:"lineNumbers"`
	WrapLines   bool   `json:"wrapLines"`
}

// Payload returns the renderer input for a ready state.
func (s RenderState) Payload() (RenderPayload, bool) {
	if s.Kind != StateReady {
		return RenderPayload{}, false
	}
	return RenderPayload{
		Text:        s.Code.Text,
		Language:    s.Code.Language,
		LineNumbers: true,
		WrapLines:   true,
	}, true
}

// Notice returns the user-facing message for empty and error states.
func (s RenderState) Notice() string {
	switch s.Kind {
	case StateEmpty:
		return "No code to display"
	case StateError:
		switch s.Err {
		case NoColumns:
			return "The code result has no columns"
		case EmptyValues:
			return "The code result has no rows"
		}
		return "The code result could not be read"
	default:
		return ""
	}
}

type stateJSON struct {
	State   string         `json:"state"`
	Error   string         `json:"error,omitempty"`
	Notice  string         `json:"notice,omitempty"`
	Payload *RenderPayload `json:"payload,omitempty"`
	Source  *int           `json:"sourceTableIndex,omitempty"`
}

// MarshalJSON encodes the state for web clients.
func (s RenderState) MarshalJSON() ([]byte, error) {
	out := stateJSON{State: s.Kind.String(), Notice: s.Notice()}
	if s.Kind == StateError {
		out.Error = s.Err.String()
	}
	if p, ok := s.Payload(); ok {
		idx := s.Code.SourceTableIndex
		out.Payload = &p
		out.Source = &idx
	}
	return json.Marshal(out)
}
