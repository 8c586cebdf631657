package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client
	TypeEntityCreated MessageType = "entity.created"
	TypeEntityUpdated MessageType = "entity.updated"
	TypeEntityDeleted MessageType = "entity.deleted"

	// Client -> Server
	TypePing MessageType = "ping"

	// Server -> Client responses
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return msg, err
		}
		msg.Payload = raw
	}
	return msg, nil
}

// ParseMessage decodes a message envelope.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return msg, err
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntityPayload is the payload of entity.* messages. Item holds the wire DTO
// and is omitted for deletions.
type EntityPayload struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
	Item     any    `json:"item,omitempty"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
