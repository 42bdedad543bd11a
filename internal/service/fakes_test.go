package service

import (
	"context"
	"sync"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

// In-memory repositories for service tests. They are safe for concurrent
// use so the coordinator race tests can hammer them from multiple
// goroutines.

type fakeRoomRepo struct {
	mu           sync.Mutex
	rooms        map[string]*entity.Room
	participants map[string][]entity.Participant
	activeGames  map[string]string
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:        make(map[string]*entity.Room),
		participants: make(map[string][]entity.Participant),
		activeGames:  make(map[string]string),
	}
}

func (that *fakeRoomRepo) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	clone := *room
	that.rooms[room.ID] = &clone
	return nil
}

func (that *fakeRoomRepo) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}
	clone := *room
	return &clone, nil
}

func (that *fakeRoomRepo) List(_ context.Context) ([]*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	rooms := make([]*entity.Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		clone := *room
		rooms = append(rooms, &clone)
	}
	return rooms, nil
}

func (that *fakeRoomRepo) GetParticipants(_ context.Context, roomID string) ([]entity.Participant, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Participant{}, that.participants[roomID]...), nil
}

func (that *fakeRoomRepo) SetParticipants(_ context.Context, roomID string, participants []entity.Participant) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.participants[roomID] = append([]entity.Participant{}, participants...)
	return nil
}

func (that *fakeRoomRepo) SetActiveGameID(_ context.Context, roomID, gameID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.activeGames[roomID] = gameID
	return nil
}

func (that *fakeRoomRepo) GetActiveGameID(_ context.Context, roomID string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	gameID, ok := that.activeGames[roomID]
	if !ok {
		return "", apperror.ErrGameNotFound
	}
	return gameID, nil
}

type fakeGameRepo struct {
	mu        sync.Mutex
	games     map[string]*entity.Game
	userGames map[string][]string
	saves     int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{
		games:     make(map[string]*entity.Game),
		userGames: make(map[string][]string),
	}
}

func (that *fakeGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	clone := *game
	clone.Board = cloneBoard(game.Board)
	that.games[game.ID] = &clone
	that.saves++
	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}
	clone := *game
	clone.Board = cloneBoard(game.Board)
	return &clone, nil
}

func (that *fakeGameRepo) AddUserGame(_ context.Context, userID, gameID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.userGames[userID] = append(that.userGames[userID], gameID)
	return nil
}

func (that *fakeGameRepo) gameCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.games)
}

func cloneBoard(board entity.Board) entity.Board {
	clone := make(entity.Board, len(board))
	for i, row := range board {
		clone[i] = append([]string{}, row...)
	}
	return clone
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]*entity.User),
	}
}

func (that *fakeUserRepo) Save(_ context.Context, user *entity.User) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	clone := *user
	that.users[user.ID] = &clone
	return nil
}

func (that *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	user, ok := that.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (that *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, user := range that.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (that *fakeUserRepo) Leaderboard(_ context.Context, _ int) ([]*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	users := make([]*entity.User, 0, len(that.users))
	for _, user := range that.users {
		clone := *user
		users = append(users, &clone)
	}
	return users, nil
}
