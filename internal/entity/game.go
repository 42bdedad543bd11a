package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
)

const (
	GameStatusWaiting  = "waiting"
	GameStatusActive   = "active"
	GameStatusFinished = "finished"
	GameStatusDraw     = "draw"

	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	BoardSize = 3
)

// Board is a 3x3 grid of cell values: "" (empty), "X" or "O".
// It is kept as nested slices so it serializes as the wire format expects,
// a 3x3 array of single-character strings.
type Board [][]string

// NewBoard returns an empty 3x3 board.
func NewBoard() Board {
	board := make(Board, BoardSize)
	for i := range board {
		board[i] = make([]string, BoardSize)
	}
	return board
}

// IsWellFormed reports whether the board has the expected dimensions.
func (that Board) IsWellFormed() bool {
	if len(that) != BoardSize {
		return false
	}
	for _, row := range that {
		if len(row) != BoardSize {
			return false
		}
	}
	return true
}

// IsFull reports whether every cell is occupied.
func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}
	return true
}

// Game is one played-out instance of the ruleset between two players.
// Player1 always holds MarkX and moves first; marks are assigned at
// creation and never renegotiated.
type Game struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"roomId"`
	Player1ID       string     `json:"player1Id"`
	Player2ID       string     `json:"player2Id"`
	CurrentPlayerID string     `json:"currentPlayerId"`
	Board           Board      `json:"board"`
	Status          string     `json:"status"`
	WinnerID        string     `json:"winnerId,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

// NewGame creates an active game for a filled room. Both player identities
// must be distinct and non-empty.
func NewGame(roomID, player1ID, player2ID string) (*Game, error) {
	if player1ID == "" || player2ID == "" || player1ID == player2ID {
		return nil, apperror.ErrInvalidParticipants
	}

	return &Game{
		ID:              uuid.NewString(),
		RoomID:          roomID,
		Player1ID:       player1ID,
		Player2ID:       player2ID,
		CurrentPlayerID: player1ID,
		Board:           NewBoard(),
		Status:          GameStatusActive,
		StartedAt:       time.Now().UTC(),
	}, nil
}

// MarkOf returns the mark assigned to the given player, or EmptyCell if the
// player is not part of the game.
func (that *Game) MarkOf(playerID string) string {
	switch playerID {
	case that.Player1ID:
		return MarkX
	case that.Player2ID:
		return MarkO
	default:
		return EmptyCell
	}
}

// Opponent returns the other player's identity.
func (that *Game) Opponent(playerID string) string {
	if playerID == that.Player1ID {
		return that.Player2ID
	}
	return that.Player1ID
}

func (that *Game) IsActive() bool {
	return that.Status == GameStatusActive
}

// IsTerminal reports whether the game accepts no further moves.
func (that *Game) IsTerminal() bool {
	return that.Status == GameStatusFinished || that.Status == GameStatusDraw
}

// Duration returns the elapsed play time in whole seconds, or 0 when the
// game has not finished.
func (that *Game) Duration() int {
	if that.FinishedAt == nil {
		return 0
	}
	return int(that.FinishedAt.Sub(that.StartedAt).Seconds())
}
