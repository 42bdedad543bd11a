package service

import (
	"context"
	"fmt"

	"github.com/gridroom/tictactoe-backend/internal/entity"
)

const defaultMessageLimit = 50

type messageRepo interface {
	Add(ctx context.Context, message *entity.Message) error
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error)
}

type MessageService interface {
	Post(ctx context.Context, roomID, userID, content, messageType string) (*entity.Message, error)
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error)
}

type messageService struct {
	messageRepo messageRepo
	roomRepo    roomRepo
}

func NewMessageService(messageRepo messageRepo, roomRepo roomRepo) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
	}
}

func (that *messageService) Post(ctx context.Context, roomID, userID, content, messageType string) (*entity.Message, error) {
	if _, err := that.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	message := entity.NewMessage(roomID, userID, content, messageType)
	if err := that.messageRepo.Add(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return message, nil
}

func (that *messageService) ListByRoom(ctx context.Context, roomID string, limit int) ([]*entity.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	messages, err := that.messageRepo.ListByRoom(ctx, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}
