package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a player identity with gameplay stats. Stats are mutated exactly
// once per finished game per participant and never decremented except the
// streak reset on a loss.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	GamesPlayed   int       `json:"gamesPlayed"`
	CurrentStreak int       `json:"currentStreak"`
	BestTime      int       `json:"bestTime,omitempty"` // seconds, 0 = unset
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewUser creates a user with zeroed stats.
func NewUser(username string) *User {
	now := time.Now().UTC()

	return &User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordWin applies a won game to the stats. gameTime is the completion
// time in seconds and is kept only if strictly improved; 0 is ignored.
func (that *User) RecordWin(gameTime int) {
	that.GamesPlayed++
	that.Wins++
	that.CurrentStreak++
	if gameTime > 0 && (that.BestTime == 0 || gameTime < that.BestTime) {
		that.BestTime = gameTime
	}
}

// RecordLoss applies a lost game to the stats and resets the streak.
func (that *User) RecordLoss() {
	that.GamesPlayed++
	that.Losses++
	that.CurrentStreak = 0
}

// RecordDraw bumps games-played only; wins and losses are untouched on a
// draw.
func (that *User) RecordDraw() {
	that.GamesPlayed++
}
