package setting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/localaichat/localaichat/internal/domain"
)

var ErrSettingNotFound = errors.New("setting not found")

type gormSettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &gormSettingRepository{db: db}
}

func (r *gormSettingRepository) Get(ctx context.Context, key string) (string, error) {
	var entry domain.Setting
	err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("database error reading setting: %w", err)
	}
	return entry.Value, nil
}

func (r *gormSettingRepository) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("setting key is required")
	}
	entry := domain.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("database error writing setting: %w", err)
	}
	return nil
}

func (r *gormSettingRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Delete(&domain.Setting{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("database error deleting setting: %w", err)
	}
	return nil
}
