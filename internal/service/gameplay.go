package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridroom/tictactoe-backend/internal/entity"
	"github.com/gridroom/tictactoe-backend/internal/metrics"
	"github.com/gridroom/tictactoe-backend/internal/tictactoe"
)

type statsUpdater interface {
	ApplyGameResult(ctx context.Context, game *entity.Game) error
}

type GamePlayService interface {
	SubmitMove(ctx context.Context, gameID, actorID string, row, col int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

// gamePlayService is the enforcement point for the per-game concurrency
// contract: at most one move per game identity is in flight and committing
// at any instant, while moves on different games proceed independently.
type gamePlayService struct {
	logger *slog.Logger

	gameRepo gameRepo
	roomRepo roomRepo
	stats    statsUpdater

	locks *KeyLock
}

func NewGamePlayService(logger *slog.Logger, gameRepo gameRepo, roomRepo roomRepo, stats statsUpdater, locks *KeyLock) GamePlayService {
	return &gamePlayService{
		logger:   logger,
		gameRepo: gameRepo,
		roomRepo: roomRepo,
		stats:    stats,
		locks:    locks,
	}
}

// SubmitMove validates and commits a single move under the game's lock.
// A concurrent submission that loses the race re-reads the committed state
// and fails with ErrNotYourTurn or ErrCellOccupied.
func (that *gamePlayService) SubmitMove(ctx context.Context, gameID, actorID string, row, col int) (*entity.Game, error) {
	release := that.locks.Acquire(gameLockKey(gameID))
	defer release()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	outcome, err := tictactoe.ApplyMove(game, actorID, row, col)
	if err != nil {
		metrics.MovesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	metrics.MovesTotal.WithLabelValues("committed").Inc()

	if game.IsTerminal() {
		that.finishGame(ctx, game, outcome)
	}

	return game, nil
}

// finishGame closes out the room and the participants' stats once a game
// reaches a terminal status. Stats failures are logged, not surfaced: the
// move itself already committed.
func (that *gamePlayService) finishGame(ctx context.Context, game *entity.Game, outcome tictactoe.MoveOutcome) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	if outcome.IsDraw {
		metrics.GamesFinished.WithLabelValues("draw").Inc()
	} else {
		metrics.GamesFinished.WithLabelValues("win").Inc()
	}

	if err := that.stats.ApplyGameResult(ctx, game); err != nil {
		log.Error("failed to update participant stats", "error", err)
	}

	release := that.locks.Acquire(roomLockKey(game.RoomID))
	defer release()

	room, err := that.roomRepo.GetByID(ctx, game.RoomID)
	if err != nil {
		log.Error("failed to get room for finished game", "error", err)
		return
	}

	room.Status = entity.RoomStatusFinished
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		log.Error("failed to close room", "error", err)
	}

	log.Info("game finished", "winnerID", game.WinnerID, "draw", outcome.IsDraw)
}

func (that *gamePlayService) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}
