package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageTypeChat   = "message"
	MessageTypeSystem = "system"
)

// Message is a room chat entry.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	GameID    string    `json:"gameId,omitempty"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage creates a chat message for a room.
func NewMessage(roomID, userID, content, messageType string) *Message {
	if messageType == "" {
		messageType = MessageTypeChat
	}

	return &Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Content:   content,
		Type:      messageType,
		CreatedAt: time.Now().UTC(),
	}
}
