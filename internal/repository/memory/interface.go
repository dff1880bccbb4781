package memory

import (
	"context"

	"github.com/localaichat/localaichat/internal/domain"
)

// MemoryRepository handles cross-chat memory persistence. The per-user cap
// and eviction policy live in the memory service, not here.
type MemoryRepository interface {
	Create(ctx context.Context, memory *domain.Memory) (*domain.Memory, error)
	// FindByUserID returns the user's memories newest first.
	FindByUserID(ctx context.Context, userID uint) ([]domain.Memory, error)
	// FindOldestByUserID returns the user's oldest memory by creation time.
	FindOldestByUserID(ctx context.Context, userID uint) (*domain.Memory, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, memoryID uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}
