package message

import (
	"context"

	"github.com/localaichat/localaichat/internal/domain"
)

// MessageRepository handles message persistence. Messages are append-only,
// so there is no update operation.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// FindByChatID returns the chat's messages in insertion order.
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	DeleteByChatID(ctx context.Context, chatID uint) error
	CountByChatID(ctx context.Context, chatID uint) (int64, error)
}
