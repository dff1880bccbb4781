package memory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/localaichat/localaichat/internal/domain"
)

var ErrMemoryNotFound = errors.New("memory not found")

type gormMemoryRepository struct {
	db *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &gormMemoryRepository{db: db}
}

func (r *gormMemoryRepository) Create(ctx context.Context, memory *domain.Memory) (*domain.Memory, error) {
	if memory.UserID == 0 {
		return nil, errors.New("memory must belong to a user")
	}
	if memory.Content == "" {
		return nil, errors.New("memory content is required")
	}
	if memory.Category == "" {
		memory.Category = domain.DefaultMemoryCategory
	}
	if err := r.db.WithContext(ctx).Create(memory).Error; err != nil {
		return nil, fmt.Errorf("database error creating memory: %w", err)
	}
	return memory, nil
}

func (r *gormMemoryRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Memory, error) {
	var memories []domain.Memory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing memories: %w", err)
	}
	return memories, nil
}

func (r *gormMemoryRepository) FindOldestByUserID(ctx context.Context, userID uint) (*domain.Memory, error) {
	var memory domain.Memory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		First(&memory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error finding oldest memory: %w", err)
	}
	return &memory, nil
}

func (r *gormMemoryRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Memory{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error counting memories: %w", err)
	}
	return count, nil
}

func (r *gormMemoryRepository) Delete(ctx context.Context, memoryID uint) error {
	if memoryID == 0 {
		return errors.New("invalid memory ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Memory{}, memoryID)
	if result.Error != nil {
		return fmt.Errorf("database error deleting memory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemoryNotFound
	}
	return nil
}

func (r *gormMemoryRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Memory{}).Error
	if err != nil {
		return fmt.Errorf("database error deleting user memories: %w", err)
	}
	return nil
}
