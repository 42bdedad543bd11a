package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridroom/tictactoe-backend/internal/entity"
)

type MessageRepository interface {
	Add(ctx context.Context, message *entity.Message) error
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error)
}

type dbMessage struct {
	client *redis.Client
}

func NewMessageRepository(client *redis.Client) MessageRepository {
	return &dbMessage{
		client: client,
	}
}

func (that *dbMessage) Add(ctx context.Context, message *entity.Message) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}

	messagesKey := "room:" + message.RoomID + ":messages"
	if err = that.client.RPush(ctx, messagesKey, messageJSON).Err(); err != nil {
		return fmt.Errorf("failed to push message: %w", err)
	}

	return nil
}

// ListByRoom returns up to limit of the latest messages in chronological
// order.
func (that *dbMessage) ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error) {
	messagesKey := "room:" + roomID + ":messages"

	raw, err := that.client.LRange(ctx, messagesKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*entity.Message, 0, len(raw))
	for _, item := range raw {
		var message entity.Message
		if err = json.Unmarshal([]byte(item), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}
