package websocket

import (
	"encoding/json"
	"log/slog"
	"time"

	"shohorbari/internal/microservices/http-api/models"
)

// Message protocol: the server only pushes, clients never send anything meaningful

type MessageType string

const (
	TypeNotification MessageType = "notification" // a new persisted notification
	TypeSystem       MessageType = "system"       // connection level notices
)

type Message struct {
	Type         MessageType          `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	Content      string               `json:"content,omitempty"`
	Timestamp    time.Time            `json:"timestamp"` // UTC
}

func NewNotificationMessage(n models.Notification) *Message {
	return &Message{
		Type:         TypeNotification,
		Notification: &n,
		Timestamp:    time.Now().UTC(),
	}
}

func NewSystemMessage(content string) *Message {
	return &Message{
		Type:      TypeSystem,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// MessageFromJSON: unmarshal JSON data to Message struct
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Error("Failed to unmarshal message from JSON", "error", err)
		return nil, err
	}
	return &msg, nil
}
