package chat

import (
	"context"

	"github.com/localaichat/localaichat/internal/domain"
)

// ChatRepository handles chat thread persistence.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, chatID uint) (*domain.Chat, error)
	// FindByUserID returns the user's chats ordered by most recently updated.
	FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error)
	FindByFolderID(ctx context.Context, folderID uint) ([]domain.Chat, error)
	Update(ctx context.Context, chat *domain.Chat) error
	// MoveToFolder sets the chat's folder; a nil folderID moves it to unsorted.
	MoveToFolder(ctx context.Context, chatID uint, folderID *uint) error
	// ClearFolder moves every chat in the folder to unsorted.
	ClearFolder(ctx context.Context, folderID uint) error
	TouchUpdatedAt(ctx context.Context, chatID uint) error
	Delete(ctx context.Context, chatID uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}
