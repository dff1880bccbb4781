package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/localaichat/localaichat/internal/domain"
	chatrepo "github.com/localaichat/localaichat/internal/repository/chat"
	folderrepo "github.com/localaichat/localaichat/internal/repository/folder"
)

var ErrFolderForbidden = errors.New("folder belongs to another user")

// FolderService manages chat folders. Deleting a folder never deletes
// the chats in it; they go back to unsorted.
type FolderService struct {
	folders folderrepo.FolderRepository
	chats   chatrepo.ChatRepository
	logger  Logger
}

func NewFolderService(folders folderrepo.FolderRepository, chats chatrepo.ChatRepository, logger Logger) *FolderService {
	return &FolderService{folders: folders, chats: chats, logger: logger}
}

// CreateFolder appends a folder at the end of the user's folder list.
func (s *FolderService) CreateFolder(ctx context.Context, userID uint, name, color string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}
	count, err := s.folders.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting folders: %w", err)
	}
	folder := &domain.Folder{
		UserID:    userID,
		Name:      name,
		Color:     color,
		SortOrder: int(count),
	}
	created, err := s.folders.Create(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}
	s.logger.Info("Folder created", "folder_id", created.ID, "user_id", userID)
	return created, nil
}

func (s *FolderService) ListFolders(ctx context.Context, userID uint) ([]domain.Folder, error) {
	return s.folders.FindByUserID(ctx, userID)
}

// UpdateFolder changes the fields that are set in the input.
func (s *FolderService) UpdateFolder(ctx context.Context, userID, folderID uint, name, color *string, sortOrder *int) (*domain.Folder, error) {
	folder, err := s.loadOwnedFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("folder name is required")
		}
		folder.Name = trimmed
	}
	if color != nil {
		folder.Color = *color
	}
	if sortOrder != nil {
		folder.SortOrder = *sortOrder
	}
	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("updating folder: %w", err)
	}
	return folder, nil
}

// DeleteFolder removes the folder and moves its chats to unsorted.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID uint) error {
	if _, err := s.loadOwnedFolder(ctx, userID, folderID); err != nil {
		return err
	}
	if err := s.chats.ClearFolder(ctx, folderID); err != nil {
		return fmt.Errorf("unfiling chats: %w", err)
	}
	if err := s.folders.Delete(ctx, folderID); err != nil {
		return fmt.Errorf("deleting folder: %w", err)
	}
	s.logger.Info("Folder deleted", "folder_id", folderID, "user_id", userID)
	return nil
}

func (s *FolderService) loadOwnedFolder(ctx context.Context, userID, folderID uint) (*domain.Folder, error) {
	folder, err := s.folders.FindByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, ErrFolderForbidden
	}
	return folder, nil
}
