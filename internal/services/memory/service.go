package memory

import (
	"context"
	"fmt"

	"github.com/localaichat/localaichat/internal/domain"
	memoryrepo "github.com/localaichat/localaichat/internal/repository/memory"
)

const DefaultLimit = 50

// Logger is the minimal logging interface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service manages per-user memories, holding each user to a fixed cap
// by evicting the oldest entries first.
type Service struct {
	repo   memoryrepo.MemoryRepository
	limit  int
	logger Logger
}

func NewService(repo memoryrepo.MemoryRepository, limit int, logger Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{repo: repo, limit: limit, logger: logger}
}

// Remember stores a memory and evicts the oldest entries if the user is
// over the cap.
func (s *Service) Remember(ctx context.Context, userID uint, content, category string) error {
	if _, err := s.repo.Create(ctx, &domain.Memory{
		UserID:   userID,
		Content:  content,
		Category: category,
	}); err != nil {
		return fmt.Errorf("saving memory: %w", err)
	}

	count, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting memories: %w", err)
	}
	for count > int64(s.limit) {
		oldest, err := s.repo.FindOldestByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("finding oldest memory: %w", err)
		}
		if err := s.repo.Delete(ctx, oldest.ID); err != nil {
			return fmt.Errorf("evicting memory: %w", err)
		}
		s.logger.Debug("Evicted oldest memory", "user_id", userID, "memory_id", oldest.ID)
		count--
	}
	return nil
}

// List returns the user's memories, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]domain.Memory, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Forget deletes a single memory.
func (s *Service) Forget(ctx context.Context, memoryID uint) error {
	return s.repo.Delete(ctx, memoryID)
}

// ForgetAll deletes every memory the user has.
func (s *Service) ForgetAll(ctx context.Context, userID uint) error {
	return s.repo.DeleteByUserID(ctx, userID)
}
