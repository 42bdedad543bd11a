package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

func newTestGame(t *testing.T) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("room-1", "player-1", "player-2")
	require.NoError(t, err)

	return game
}

func TestApplyMove(t *testing.T) {
	t.Run("Player1 wins on the top row", func(t *testing.T) {
		// Given: a fresh game and the sequence (0,0)X (1,1)O (0,1)X (2,2)O (0,2)X
		game := newTestGame(t)
		moves := []struct {
			actor    string
			row, col int
		}{
			{"player-1", 0, 0},
			{"player-2", 1, 1},
			{"player-1", 0, 1},
			{"player-2", 2, 2},
			{"player-1", 0, 2},
		}

		// When: applying the moves in order
		var outcome MoveOutcome
		var err error
		for _, move := range moves {
			outcome, err = ApplyMove(game, move.actor, move.row, move.col)
			require.NoError(t, err)
		}

		// Then: player1 wins with the top row and the game is terminal
		assert.Equal(t, "player-1", outcome.WinnerID)
		assert.Equal(t, entity.GameStatusFinished, game.Status)
		assert.Empty(t, game.CurrentPlayerID)
		assert.NotNil(t, game.FinishedAt)
		assert.Equal(t, []string{"X", "X", "X"}, []string(game.Board[0]))
	})

	t.Run("Filling the board with no line ends in a draw", func(t *testing.T) {
		// Given: a fresh game and nine moves with no three-in-a-row
		game := newTestGame(t)
		moves := []struct {
			actor    string
			row, col int
		}{
			{"player-1", 0, 0}, // X O X
			{"player-2", 0, 1}, // X O O
			{"player-1", 0, 2}, // O X X
			{"player-2", 1, 1},
			{"player-1", 1, 0},
			{"player-2", 1, 2},
			{"player-1", 2, 1},
			{"player-2", 2, 0},
			{"player-1", 2, 2},
		}

		// When: applying all moves
		var outcome MoveOutcome
		var err error
		for _, move := range moves {
			outcome, err = ApplyMove(game, move.actor, move.row, move.col)
			require.NoError(t, err)
		}

		// Then: the game ends in a draw with no winner
		assert.True(t, outcome.IsDraw)
		assert.Empty(t, outcome.WinnerID)
		assert.Equal(t, entity.GameStatusDraw, game.Status)
		assert.NotNil(t, game.FinishedAt)
	})

	t.Run("Turn strictly alternates between the players", func(t *testing.T) {
		// Given: a fresh game
		game := newTestGame(t)

		// When/Then: after each accepted move the turn passes to the opponent
		outcome, err := ApplyMove(game, "player-1", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, "player-2", outcome.NextPlayerID)

		outcome, err = ApplyMove(game, "player-2", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "player-1", outcome.NextPlayerID)
	})

	t.Run("Rejects player2 moving first", func(t *testing.T) {
		// Given: a freshly created game, player1 to move
		game := newTestGame(t)

		// When: player2 attempts the first move
		_, err := ApplyMove(game, "player-2", 0, 0)

		// Then: the move is rejected and the board stays empty
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.EmptyCell, game.Board[0][0])
		assert.Equal(t, "player-1", game.CurrentPlayerID)
	})

	t.Run("Rejects out of bounds coordinates without mutating the board", func(t *testing.T) {
		// Given: a fresh game
		game := newTestGame(t)

		// When: moving at row=3
		_, err := ApplyMove(game, "player-1", 3, 0)

		// Then: the move is rejected and nothing changed
		assert.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.False(t, game.Board.IsFull())
		assert.Equal(t, "player-1", game.CurrentPlayerID)
	})

	t.Run("Rejects a move into an occupied cell", func(t *testing.T) {
		// Given: a game where (1,1) is taken
		game := newTestGame(t)
		_, err := ApplyMove(game, "player-1", 1, 1)
		require.NoError(t, err)

		// When: player2 targets the same cell
		_, err = ApplyMove(game, "player-2", 1, 1)

		// Then: the move is rejected and the cell keeps its mark
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.MarkX, game.Board[1][1])
		assert.Equal(t, "player-2", game.CurrentPlayerID)
	})

	t.Run("Rejects moves on a terminal game without mutating the board", func(t *testing.T) {
		// Given: a finished game
		game := newTestGame(t)
		game.Status = entity.GameStatusFinished
		game.CurrentPlayerID = ""

		// When: any player submits a move
		_, err := ApplyMove(game, "player-1", 0, 0)

		// Then: the move is rejected and the board is untouched
		assert.ErrorIs(t, err, apperror.ErrGameNotActive)
		assert.Equal(t, entity.EmptyCell, game.Board[0][0])
	})
}

func TestNewGame(t *testing.T) {
	t.Run("Assigns marks and first turn at creation", func(t *testing.T) {
		// Given/When: a game between two distinct players
		game, err := entity.NewGame("room-1", "alice", "bob")

		// Then: player1 holds X, player2 holds O, player1 moves first
		require.NoError(t, err)
		assert.Equal(t, entity.MarkX, game.MarkOf("alice"))
		assert.Equal(t, entity.MarkO, game.MarkOf("bob"))
		assert.Equal(t, "alice", game.CurrentPlayerID)
		assert.Equal(t, entity.GameStatusActive, game.Status)
	})

	t.Run("Rejects identical participants", func(t *testing.T) {
		// When: creating a game where both seats hold the same player
		_, err := entity.NewGame("room-1", "alice", "alice")

		// Then: creation fails
		assert.ErrorIs(t, err, apperror.ErrInvalidParticipants)
	})

	t.Run("Rejects empty participants", func(t *testing.T) {
		// When: creating a game with a missing player
		_, err := entity.NewGame("room-1", "alice", "")

		// Then: creation fails
		assert.ErrorIs(t, err, apperror.ErrInvalidParticipants)
	})
}
