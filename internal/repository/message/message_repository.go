package message

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/localaichat/localaichat/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.ChatID == 0 {
		return nil, errors.New("message must belong to a chat")
	}
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
		return nil, fmt.Errorf("invalid message role %q", msg.Role)
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("database error creating message: %w", err)
	}
	return msg, nil
}

func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing messages: %w", err)
	}
	return messages, nil
}

func (r *gormMessageRepository) DeleteByChatID(ctx context.Context, chatID uint) error {
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Delete(&domain.Message{}).Error
	if err != nil {
		return fmt.Errorf("database error clearing messages: %w", err)
	}
	return nil
}

func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error counting messages: %w", err)
	}
	return count, nil
}
