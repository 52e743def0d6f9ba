package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chessnote-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// client -> server
	MessageTypeGesture MessageType = "gesture"
	MessageTypePromote MessageType = "promote"
	MessageTypeSetText MessageType = "setText"

	// server -> client
	MessageTypeView      MessageType = "view"
	MessageTypePromotion MessageType = "promotion"
	MessageTypeText      MessageType = "text"
	MessageTypeResult    MessageType = "result"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type GesturePayload struct {
	From model.Square `json:"from"`
	To   model.Square `json:"to"`
}

type PromotePayload struct {
	Piece string `json:"piece"`
}

type TextPayload struct {
	Text string `json:"text"`
}

type ResultPayload struct {
	Result string `json:"result"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage wraps payload into an envelope of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
