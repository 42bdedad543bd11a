package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridroom/tictactoe-backend/internal/apperror"
	"github.com/gridroom/tictactoe-backend/internal/entity"
)

const roomIndexKey = "rooms"

type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	List(ctx context.Context) ([]*entity.Room, error)

	GetParticipants(ctx context.Context, roomID string) ([]entity.Participant, error)
	SetParticipants(ctx context.Context, roomID string, participants []entity.Participant) error

	SetActiveGameID(ctx context.Context, roomID, gameID string) error
	GetActiveGameID(ctx context.Context, roomID string) (string, error)
	ClearActiveGameID(ctx context.Context, roomID string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	roomKey := "room:" + room.ID
	if err = that.client.Set(ctx, roomKey, roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	if err = that.client.SAdd(ctx, roomIndexKey, room.ID).Err(); err != nil {
		return fmt.Errorf("failed to index room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	roomKey := "room:" + id

	response, err := that.client.Get(ctx, roomKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *dbRoom) List(ctx context.Context) ([]*entity.Room, error) {
	ids, err := that.client.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list room index: %w", err)
	}

	rooms := make([]*entity.Room, 0, len(ids))
	for _, id := range ids {
		room, err := that.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrRoomNotFound) {
			continue // index entry outlived the room record
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (that *dbRoom) GetParticipants(ctx context.Context, roomID string) ([]entity.Participant, error) {
	participantsKey := "room:" + roomID + ":participants"

	response, err := that.client.Get(ctx, participantsKey).Result()

	if errors.Is(err, redis.Nil) {
		return []entity.Participant{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	var participants []entity.Participant
	if err = json.Unmarshal([]byte(response), &participants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
	}

	return participants, nil
}

func (that *dbRoom) SetParticipants(ctx context.Context, roomID string, participants []entity.Participant) error {
	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return fmt.Errorf("could not marshal participants: %w", err)
	}

	participantsKey := "room:" + roomID + ":participants"
	if err = that.client.Set(ctx, participantsKey, participantsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set participants: %w", err)
	}

	return nil
}

func (that *dbRoom) SetActiveGameID(ctx context.Context, roomID, gameID string) error {
	gameKey := "room:" + roomID + ":game"

	if err := that.client.Set(ctx, gameKey, gameID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set active game: %w", err)
	}

	return nil
}

func (that *dbRoom) GetActiveGameID(ctx context.Context, roomID string) (string, error) {
	gameKey := "room:" + roomID + ":game"

	gameID, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", apperror.ErrGameNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get active game: %w", err)
	}

	return gameID, nil
}

func (that *dbRoom) ClearActiveGameID(ctx context.Context, roomID string) error {
	gameKey := "room:" + roomID + ":game"

	if err := that.client.Del(ctx, gameKey).Err(); err != nil {
		return fmt.Errorf("failed to clear active game: %w", err)
	}

	return nil
}
