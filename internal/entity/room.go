package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoomStatusWaiting  = "waiting"
	RoomStatusActive   = "active"
	RoomStatusFinished = "finished"

	RoomCapacity = 2

	// DefaultRoomTag is attached to rooms created by quick-match.
	DefaultRoomTag = "casual"
)

// Room is a matchmaking lobby with fixed capacity that transitions to a
// Game once full. Occupancy never exceeds MaxPlayers and the status never
// reverts to waiting once active.
type Room struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatorID      string    `json:"creatorId"`
	MaxPlayers     int       `json:"maxPlayers"`
	CurrentPlayers int       `json:"currentPlayers"`
	Status         string    `json:"status"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewRoom creates a waiting room with the fixed two-player capacity.
func NewRoom(name, creatorID string, tags []string) *Room {
	if len(tags) == 0 {
		tags = []string{}
	}

	return &Room{
		ID:         uuid.NewString(),
		Name:       name,
		CreatorID:  creatorID,
		MaxPlayers: RoomCapacity,
		Status:     RoomStatusWaiting,
		Tags:       tags,
		CreatedAt:  time.Now().UTC(),
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == RoomStatusWaiting
}

// IsFull reports whether occupancy reached capacity.
func (that *Room) IsFull() bool {
	return that.CurrentPlayers >= that.MaxPlayers
}

// HasTag reports whether the room carries any of the given tags. An empty
// filter matches every room.
func (that *Room) HasTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, tag := range that.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// Participant is a join record linking a room and a player identity.
// A given (room, player) pair is unique.
type Participant struct {
	RoomID   string    `json:"roomId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}
