package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

const defaultLeaderboardSize = 10

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Leaderboard(ctx context.Context, limit int) ([]*entity.User, error)
}

type UserService interface {
	GetOrCreate(ctx context.Context, username string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Leaderboard(ctx context.Context, limit int) ([]*entity.User, error)

	ApplyGameResult(ctx context.Context, game *entity.Game) error
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// GetOrCreate returns the user record for a username, creating the stats
// row on first authentication.
func (that *userService) GetOrCreate(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrUserNotFound) {
		return nil, fmt.Errorf("could not get user by username: %w", err)
	}

	user = entity.NewUser(username)
	if err = that.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	return user, nil
}

func (that *userService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := that.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return user, nil
}

func (that *userService) Leaderboard(ctx context.Context, limit int) ([]*entity.User, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	users, err := that.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not load leaderboard: %w", err)
	}

	return users, nil
}

// ApplyGameResult records a terminal game against both participants'
// stats: a win and a loss, or games-played only on a draw.
func (that *userService) ApplyGameResult(ctx context.Context, game *entity.Game) error {
	if !game.IsTerminal() {
		return nil
	}

	for _, playerID := range []string{game.Player1ID, game.Player2ID} {
		user, err := that.userRepo.GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("could not get participant: %w", err)
		}

		switch {
		case game.WinnerID == "":
			user.RecordDraw()
		case game.WinnerID == playerID:
			user.RecordWin(game.Duration())
		default:
			user.RecordLoss()
		}

		user.UpdatedAt = time.Now().UTC()
		if err = that.userRepo.Save(ctx, user); err != nil {
			return fmt.Errorf("could not save participant stats: %w", err)
		}
	}

	return nil
}
