package tictactoe

import (
	"fmt"
	"time"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

// MoveOutcome reports the committed state transition of a single move.
type MoveOutcome struct {
	Board        entity.Board
	WinnerID     string
	IsDraw       bool
	NextPlayerID string
}

// ApplyMove validates actor's move and applies it to the game. All failure
// conditions are checked before any cell write, so a rejected move never
// leaves a partial mutation behind.
func ApplyMove(game *entity.Game, actorID string, row, col int) (MoveOutcome, error) {
	if !game.IsActive() {
		return MoveOutcome{}, apperror.ErrGameNotActive
	}

	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return MoveOutcome{}, fmt.Errorf("%w: row=%d col=%d", apperror.ErrOutOfBounds, row, col)
	}

	if actorID != game.CurrentPlayerID {
		return MoveOutcome{}, apperror.ErrNotYourTurn
	}

	if game.Board[row][col] != entity.EmptyCell {
		return MoveOutcome{}, apperror.ErrCellOccupied
	}

	game.Board[row][col] = game.MarkOf(actorID)

	result, err := Evaluate(game.Board)
	if err != nil {
		return MoveOutcome{}, fmt.Errorf("failed to evaluate board: %w", err)
	}

	switch {
	case result.Winner != entity.EmptyCell:
		now := time.Now().UTC()
		game.Status = entity.GameStatusFinished
		game.WinnerID = actorID
		game.CurrentPlayerID = ""
		game.FinishedAt = &now
	case result.IsDraw:
		now := time.Now().UTC()
		game.Status = entity.GameStatusDraw
		game.CurrentPlayerID = ""
		game.FinishedAt = &now
	default:
		game.CurrentPlayerID = game.Opponent(actorID)
	}

	return MoveOutcome{
		Board:        game.Board,
		WinnerID:     game.WinnerID,
		IsDraw:       result.IsDraw,
		NextPlayerID: game.CurrentPlayerID,
	}, nil
}
