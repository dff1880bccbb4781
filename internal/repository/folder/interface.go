package folder

import (
	"context"

	"github.com/localaichat/localaichat/internal/domain"
)

// FolderRepository handles folder persistence.
type FolderRepository interface {
	Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error)
	FindByID(ctx context.Context, folderID uint) (*domain.Folder, error)
	// FindByUserID returns the user's folders in sort order.
	FindByUserID(ctx context.Context, userID uint) ([]domain.Folder, error)
	Update(ctx context.Context, folder *domain.Folder) error
	Delete(ctx context.Context, folderID uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}
