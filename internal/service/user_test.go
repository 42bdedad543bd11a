package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridroom/tictactoe-backend/internal/entity"
)

func finishedGame(t *testing.T, winnerID string, duration time.Duration) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("room-1", "alice", "bob")
	require.NoError(t, err)

	game.StartedAt = time.Now().UTC().Add(-duration)
	finished := time.Now().UTC()
	game.FinishedAt = &finished
	if winnerID == "" {
		game.Status = entity.GameStatusDraw
	} else {
		game.Status = entity.GameStatusFinished
		game.WinnerID = winnerID
	}
	game.CurrentPlayerID = ""

	return game
}

func seedUsers(t *testing.T, repo *fakeUserRepo, ids ...string) {
	t.Helper()

	now := time.Now().UTC()
	for _, id := range ids {
		require.NoError(t, repo.Save(context.Background(), &entity.User{ID: id, Username: id, CreatedAt: now, UpdatedAt: now}))
	}
}

func TestUserService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the stats row on first authentication", func(t *testing.T) {
		// Given: no stored users
		repo := newFakeUserRepo()
		users := NewUserService(repo)

		// When: a new username authenticates
		user, err := users.GetOrCreate(ctx, "alice")

		// Then: a fresh record with zeroed stats exists
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Zero(t, user.GamesPlayed)
	})

	t.Run("Returns the existing record on repeat authentication", func(t *testing.T) {
		// Given: alice already exists
		repo := newFakeUserRepo()
		users := NewUserService(repo)
		first, err := users.GetOrCreate(ctx, "alice")
		require.NoError(t, err)

		// When: she authenticates again
		second, err := users.GetOrCreate(ctx, "alice")

		// Then: the same identity comes back
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestUserService_ApplyGameResult(t *testing.T) {
	ctx := context.Background()

	t.Run("Win extends the streak and records best time when improved", func(t *testing.T) {
		// Given: alice with an existing streak and best time
		repo := newFakeUserRepo()
		seedUsers(t, repo, "alice", "bob")
		alice, err := repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		alice.Wins = 2
		alice.CurrentStreak = 2
		alice.BestTime = 120
		require.NoError(t, repo.Save(ctx, alice))

		users := NewUserService(repo)

		// When: alice wins a 45-second game
		err = users.ApplyGameResult(ctx, finishedGame(t, "alice", 45*time.Second))

		// Then: her streak grows and the faster time is kept
		require.NoError(t, err)
		alice, err = repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 3, alice.Wins)
		assert.Equal(t, 3, alice.CurrentStreak)
		assert.Equal(t, 45, alice.BestTime)
	})

	t.Run("Loss resets the streak", func(t *testing.T) {
		// Given: bob riding a streak
		repo := newFakeUserRepo()
		seedUsers(t, repo, "alice", "bob")
		bob, err := repo.GetByID(ctx, "bob")
		require.NoError(t, err)
		bob.CurrentStreak = 4
		require.NoError(t, repo.Save(ctx, bob))

		users := NewUserService(repo)

		// When: bob loses to alice
		err = users.ApplyGameResult(ctx, finishedGame(t, "alice", time.Minute))

		// Then: his streak resets to zero
		require.NoError(t, err)
		bob, err = repo.GetByID(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, 1, bob.Losses)
		assert.Equal(t, 0, bob.CurrentStreak)
	})

	t.Run("Slower win keeps the old best time", func(t *testing.T) {
		// Given: alice with a 30-second best
		repo := newFakeUserRepo()
		seedUsers(t, repo, "alice", "bob")
		alice, err := repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		alice.BestTime = 30
		require.NoError(t, repo.Save(ctx, alice))

		users := NewUserService(repo)

		// When: alice wins a slower game
		err = users.ApplyGameResult(ctx, finishedGame(t, "alice", 90*time.Second))

		// Then: the record stands
		require.NoError(t, err)
		alice, err = repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 30, alice.BestTime)
	})

	t.Run("Non-terminal games are ignored", func(t *testing.T) {
		// Given: an active game
		repo := newFakeUserRepo()
		seedUsers(t, repo, "alice", "bob")
		users := NewUserService(repo)

		game, err := entity.NewGame("room-1", "alice", "bob")
		require.NoError(t, err)

		// When: applying the result of a game still in progress
		err = users.ApplyGameResult(ctx, game)

		// Then: nothing is recorded
		require.NoError(t, err)
		alice, err := repo.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, alice.GamesPlayed)
	})
}

func TestAuthService(t *testing.T) {
	t.Run("Token round-trips the user ID", func(t *testing.T) {
		// Given: an auth service with a secret
		auth := NewAuthService("test-secret")

		// When: generating and parsing a token
		token, err := auth.GenerateToken("user-42")
		require.NoError(t, err)
		userID, err := auth.ParseToken(token)

		// Then: the same user ID comes back
		require.NoError(t, err)
		assert.Equal(t, "user-42", userID)
	})

	t.Run("Rejects a token signed with a different secret", func(t *testing.T) {
		// Given: two services with different secrets
		auth := NewAuthService("test-secret")
		other := NewAuthService("other-secret")

		token, err := other.GenerateToken("user-42")
		require.NoError(t, err)

		// When: parsing with the wrong secret
		_, err = auth.ParseToken(token)

		// Then: the token is rejected
		require.Error(t, err)
	})

	t.Run("Rejects garbage tokens", func(t *testing.T) {
		// Given: an auth service
		auth := NewAuthService("test-secret")

		// When: parsing a malformed token
		_, err := auth.ParseToken("not-a-token")

		// Then: parsing fails
		require.Error(t, err)
	})
}
