// Package streaming defines the WebSocket protocol between an editing UI and
// a coursekit server. Every frame is an Envelope. Client frames carry editor
// event names as Type; server frames use the Type constants below.
package streaming

import (
	"encoding/json"

	"github.com/conecourse/editor/pkg/core"
)

// Server to client message types.
const (
	TypeAck   = "ack"
	TypeError = "error"

	// surface
	TypePlaceMarker  = "place_marker"
	TypeRemoveMarker = "remove_marker"
	TypeShowPreview  = "show_preview"
	TypeClearPreview = "clear_preview"
	TypeDrawGrid     = "draw_grid"
	TypeDrawLine     = "draw_line"
	TypeRemoveLine   = "remove_line"

	// hooks
	TypeConeCount     = "cone_count"
	TypePathLength    = "path_length"
	TypeSelection     = "selection"
	TypePasteState    = "paste_state"
	TypeGroupRotation = "group_rotation"
	TypeUndoRedo      = "undo_redo"
	TypeMeasurement   = "measurement"
	TypeWarning       = "warning"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is the server's acknowledgement of a client event.
type AckMessage struct {
	Type   string `json:"type"` // always "ack"
	For    string `json:"for"`  // the event being acknowledged
	Result any    `json:"result,omitempty"`
}

// ErrorMessage reports a failed client event.
type ErrorMessage struct {
	Type  string `json:"type"` // always "error"
	For   string `json:"for"`
	Error string `json:"error"`
}

// MarkerPayload places or replaces one cone marker.
type MarkerPayload struct {
	Cone      core.Cone `json:"cone"`
	Draggable bool      `json:"draggable"`
}

// IDPayload names a marker or line to remove.
type IDPayload struct {
	ID uint64 `json:"id"`
}

// LinePayload draws or redraws one line between two cones.
type LinePayload struct {
	ID      uint64      `json:"id"`
	From    core.LatLng `json:"from"`
	To      core.LatLng `json:"to"`
	Color   string      `json:"color"`
	Weight  float64     `json:"weight"`
	Opacity float64     `json:"opacity"`
}

// CountPayload carries the cone count.
type CountPayload struct {
	Count int `json:"count"`
}

// LengthPayload carries a distance in metres and its display form in feet.
type LengthPayload struct {
	Metres  float64 `json:"metres"`
	Display string  `json:"display"`
}

// SessionPayload reports whether a paste or group rotation is in progress.
type SessionPayload struct {
	Active bool    `json:"active"`
	Angle  float64 `json:"angle"`
}

// UndoRedoPayload carries button state for undo and redo.
type UndoRedoPayload struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// WarningPayload carries a user-facing message.
type WarningPayload struct {
	Message string `json:"message"`
}

// Marshal builds a JSON-encoded Envelope from a message type and payload.
// A nil payload is omitted.
func Marshal(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
