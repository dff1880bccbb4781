package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/localaichat/localaichat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	if chat.UserID == 0 {
		return nil, errors.New("chat must belong to a user")
	}
	if chat.Title == "" {
		chat.Title = domain.DefaultChatTitle
	}
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return nil, fmt.Errorf("database error creating chat: %w", err)
	}
	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID uint) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}
	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error finding chat: %w", err)
	}
	return &chat, nil
}

func (r *gormChatRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing chats: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) FindByFolderID(ctx context.Context, folderID uint) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing folder chats: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) Update(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == 0 {
		return errors.New("invalid chat ID")
	}
	if err := r.db.WithContext(ctx).Save(chat).Error; err != nil {
		return fmt.Errorf("database error updating chat: %w", err)
	}
	return nil
}

func (r *gormChatRepository) MoveToFolder(ctx context.Context, chatID uint, folderID *uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Updates(map[string]interface{}{"folder_id": folderID, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("database error moving chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *gormChatRepository) ClearFolder(ctx context.Context, folderID uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("folder_id = ?", folderID).
		Update("folder_id", nil).Error
	if err != nil {
		return fmt.Errorf("database error clearing folder: %w", err)
	}
	return nil
}

func (r *gormChatRepository) TouchUpdatedAt(ctx context.Context, chatID uint) error {
	return r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Update("updated_at", time.Now()).Error
}

func (r *gormChatRepository) Delete(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return errors.New("invalid chat ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Chat{}, chatID)
	if result.Error != nil {
		return fmt.Errorf("database error deleting chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *gormChatRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Chat{}).Error
	if err != nil {
		return fmt.Errorf("database error deleting user chats: %w", err)
	}
	return nil
}
