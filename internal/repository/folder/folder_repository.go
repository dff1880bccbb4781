package folder

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/localaichat/localaichat/internal/domain"
)

var ErrFolderNotFound = errors.New("folder not found")

type gormFolderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &gormFolderRepository{db: db}
}

func (r *gormFolderRepository) Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error) {
	if folder.UserID == 0 {
		return nil, errors.New("folder must belong to a user")
	}
	if folder.Name == "" {
		return nil, errors.New("folder name is required")
	}
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, fmt.Errorf("database error creating folder: %w", err)
	}
	return folder, nil
}

func (r *gormFolderRepository) FindByID(ctx context.Context, folderID uint) (*domain.Folder, error) {
	if folderID == 0 {
		return nil, errors.New("invalid folder ID")
	}
	var folder domain.Folder
	err := r.db.WithContext(ctx).First(&folder, folderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFolderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error finding folder: %w", err)
	}
	return &folder, nil
}

func (r *gormFolderRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order asc").
		Find(&folders).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing folders: %w", err)
	}
	return folders, nil
}

func (r *gormFolderRepository) Update(ctx context.Context, folder *domain.Folder) error {
	if folder.ID == 0 {
		return errors.New("invalid folder ID")
	}
	if err := r.db.WithContext(ctx).Save(folder).Error; err != nil {
		return fmt.Errorf("database error updating folder: %w", err)
	}
	return nil
}

func (r *gormFolderRepository) Delete(ctx context.Context, folderID uint) error {
	if folderID == 0 {
		return errors.New("invalid folder ID")
	}
	result := r.db.WithContext(ctx).Delete(&domain.Folder{}, folderID)
	if result.Error != nil {
		return fmt.Errorf("database error deleting folder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFolderNotFound
	}
	return nil
}

func (r *gormFolderRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Folder{}).Error
	if err != nil {
		return fmt.Errorf("database error deleting user folders: %w", err)
	}
	return nil
}

func (r *gormFolderRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Folder{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error counting folders: %w", err)
	}
	return count, nil
}
