package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
	"github.com/gridroom/tictactoe-backend/internal/metrics"
)

const quickMatchRoomName = "Quick Match"

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	List(ctx context.Context) ([]*entity.Room, error)

	GetParticipants(ctx context.Context, roomID string) ([]entity.Participant, error)
	SetParticipants(ctx context.Context, roomID string, participants []entity.Participant) error

	SetActiveGameID(ctx context.Context, roomID, gameID string) error
	GetActiveGameID(ctx context.Context, roomID string) (string, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	AddUserGame(ctx context.Context, userID, gameID string) error
}

// JoinResult reports the room state after a join, plus the game when the
// join filled the room.
type JoinResult struct {
	Room          *entity.Room `json:"room"`
	Game          *entity.Game `json:"game,omitempty"`
	AlreadyJoined bool         `json:"alreadyJoined,omitempty"`
}

type MatchmakerService interface {
	CreateRoom(ctx context.Context, name, creatorID string, tags []string) (*JoinResult, error)
	Join(ctx context.Context, roomID, userID string) (*JoinResult, error)
	Leave(ctx context.Context, roomID, userID string) error
	QuickMatch(ctx context.Context, userID string) (*JoinResult, error)

	GetRoom(ctx context.Context, id string) (*entity.Room, error)
	ListRooms(ctx context.Context, tags []string) ([]*entity.Room, error)
	GetRoomGame(ctx context.Context, roomID string) (*entity.Game, error)
}

type matchmakerService struct {
	logger *slog.Logger

	roomRepo roomRepo
	gameRepo gameRepo

	// locks serializes the occupancy-check/increment/create-game
	// sequence per room identity.
	locks *KeyLock
}

func NewMatchmakerService(logger *slog.Logger, roomRepo roomRepo, gameRepo gameRepo, locks *KeyLock) MatchmakerService {
	return &matchmakerService{
		logger:   logger,
		roomRepo: roomRepo,
		gameRepo: gameRepo,
		locks:    locks,
	}
}

// CreateRoom creates a waiting room and seats the creator as its first
// participant.
func (that *matchmakerService) CreateRoom(ctx context.Context, name, creatorID string, tags []string) (*JoinResult, error) {
	room := entity.NewRoom(name, creatorID, tags)

	if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	metrics.RoomsCreated.Inc()

	result, err := that.Join(ctx, room.ID, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to seat creator: %w", err)
	}

	return result, nil
}

// Join adds the player to the room. Re-joining is an idempotent no-op.
// When the join fills the room, the room flips to active and the game is
// created exactly once, with participants ordered by join time.
func (that *matchmakerService) Join(ctx context.Context, roomID, userID string) (*JoinResult, error) {
	release := that.locks.Acquire(roomLockKey(roomID))
	defer release()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	participants, err := that.roomRepo.GetParticipants(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	for _, participant := range participants {
		if participant.UserID == userID {
			game, _ := that.activeGame(ctx, roomID)
			return &JoinResult{Room: room, Game: game, AlreadyJoined: true}, nil
		}
	}

	if len(participants) >= room.MaxPlayers {
		return nil, apperror.ErrRoomFull
	}

	participants = append(participants, entity.Participant{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	})

	if err = that.roomRepo.SetParticipants(ctx, roomID, participants); err != nil {
		return nil, fmt.Errorf("failed to set participants: %w", err)
	}

	room.CurrentPlayers = len(participants)

	var game *entity.Game
	if room.CurrentPlayers == room.MaxPlayers {
		room.Status = entity.RoomStatusActive

		game, err = that.startGame(ctx, room, participants)
		if err != nil {
			return nil, err
		}
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return &JoinResult{Room: room, Game: game}, nil
}

// startGame creates the room's game. The caller holds the room lock; the
// has-active-game check keeps creation exactly-once even when two joins
// race past the capacity check.
func (that *matchmakerService) startGame(ctx context.Context, room *entity.Room, participants []entity.Participant) (*entity.Game, error) {
	if existing, err := that.activeGame(ctx, room.ID); err == nil && existing != nil && !existing.IsTerminal() {
		return existing, nil
	}

	// earliest joiner takes player1, first move and the X mark
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})

	game, err := entity.NewGame(room.ID, participants[0].UserID, participants[1].UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	if err = that.roomRepo.SetActiveGameID(ctx, room.ID, game.ID); err != nil {
		return nil, fmt.Errorf("failed to bind game to room: %w", err)
	}

	for _, participant := range participants {
		if err = that.gameRepo.AddUserGame(ctx, participant.UserID, game.ID); err != nil {
			return nil, fmt.Errorf("failed to record user game: %w", err)
		}
	}

	metrics.GamesCreated.Inc()
	that.logger.Info("game created", "roomID", room.ID, "gameID", game.ID)

	return game, nil
}

// Leave removes the participant and decrements occupancy. Leaving is a
// no-op for non-participants and never forfeits a running game; the game
// keeps referencing the departed player until it finishes.
func (that *matchmakerService) Leave(ctx context.Context, roomID, userID string) error {
	release := that.locks.Acquire(roomLockKey(roomID))
	defer release()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	participants, err := that.roomRepo.GetParticipants(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}

	remaining := make([]entity.Participant, 0, len(participants))
	for _, participant := range participants {
		if participant.UserID != userID {
			remaining = append(remaining, participant)
		}
	}

	if len(remaining) == len(participants) {
		return nil
	}

	if err = that.roomRepo.SetParticipants(ctx, roomID, remaining); err != nil {
		return fmt.Errorf("failed to set participants: %w", err)
	}

	room.CurrentPlayers = len(remaining)
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

// QuickMatch seats the player in the first waiting room with a free seat,
// or creates a fresh casual room when none qualifies. First-fit is
// deliberate: rooms are small and short-lived, so selection optimality
// buys nothing.
func (that *matchmakerService) QuickMatch(ctx context.Context, userID string) (*JoinResult, error) {
	rooms, err := that.ListRooms(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	metrics.QuickMatches.Inc()

	for _, room := range rooms {
		if !room.IsWaiting() || room.IsFull() {
			continue
		}

		result, err := that.Join(ctx, room.ID, userID)
		if errors.Is(err, apperror.ErrRoomFull) {
			continue // lost the seat to a concurrent join, try the next room
		}
		if err != nil {
			return nil, err
		}

		return result, nil
	}

	result, err := that.CreateRoom(ctx, quickMatchRoomName, userID, []string{entity.DefaultRoomTag})
	if err != nil {
		return nil, fmt.Errorf("failed to create quick-match room: %w", err)
	}

	return result, nil
}

func (that *matchmakerService) GetRoom(ctx context.Context, id string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// ListRooms returns rooms ordered newest first, optionally filtered by tag.
func (that *matchmakerService) ListRooms(ctx context.Context, tags []string) ([]*entity.Room, error) {
	rooms, err := that.roomRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	filtered := make([]*entity.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.HasTag(tags) {
			filtered = append(filtered, room)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}

func (that *matchmakerService) GetRoomGame(ctx context.Context, roomID string) (*entity.Game, error) {
	game, err := that.activeGame(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *matchmakerService) activeGame(ctx context.Context, roomID string) (*entity.Game, error) {
	gameID, err := that.roomRepo.GetActiveGameID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}
