package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

type UserRepository interface {
	Save(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Leaderboard(ctx context.Context, limit int) ([]*entity.User, error)
}

type userRepository struct {
	conn *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (that *userRepository) Save(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (id, username, wins, losses, games_played, current_streak, best_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			wins = excluded.wins,
			losses = excluded.losses,
			games_played = excluded.games_played,
			current_streak = excluded.current_streak,
			best_time = excluded.best_time,
			updated_at = excluded.updated_at`

	_, err := that.conn.ExecContext(ctx, query,
		user.ID, user.Username, user.Wins, user.Losses, user.GamesPlayed,
		user.CurrentStreak, user.BestTime, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, username, wins, losses, games_played, current_streak, best_time, created_at, updated_at
		FROM users WHERE id = ?`

	return that.scanUser(that.conn.QueryRowContext(ctx, query, id))
}

func (that *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT id, username, wins, losses, games_played, current_streak, best_time, created_at, updated_at
		FROM users WHERE username = ?`

	return that.scanUser(that.conn.QueryRowContext(ctx, query, username))
}

func (that *userRepository) Leaderboard(ctx context.Context, limit int) ([]*entity.User, error) {
	query := `SELECT id, username, wins, losses, games_played, current_streak, best_time, created_at, updated_at
		FROM users ORDER BY wins DESC, current_streak DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err = rows.Scan(&user.ID, &user.Username, &user.Wins, &user.Losses, &user.GamesPlayed,
			&user.CurrentStreak, &user.BestTime, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("can't scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't iterate leaderboard: %w", err)
	}

	return users, nil
}

func (that *userRepository) scanUser(row *sql.Row) (*entity.User, error) {
	var user entity.User

	err := row.Scan(&user.ID, &user.Username, &user.Wins, &user.Losses, &user.GamesPlayed,
		&user.CurrentStreak, &user.BestTime, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}
