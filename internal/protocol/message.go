// Package protocol defines the wire shapes the engine speaks: the event
// envelope recorded in the match history and the view documents handed to
// clients. Everything here is plain JSON with no engine internals.
package protocol

import "encoding/json"

// Message is the envelope for every recorded event.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage wraps a payload into an envelope. Payloads are engine-built
// structs, so a marshal failure is a programming error and reported as one.
func NewMessage(msgType string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}
