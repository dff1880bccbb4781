package services

import (
	"context"
	"fmt"

	"github.com/localaichat/localaichat/internal/domain"
	chatrepo "github.com/localaichat/localaichat/internal/repository/chat"
	folderrepo "github.com/localaichat/localaichat/internal/repository/folder"
	memoryrepo "github.com/localaichat/localaichat/internal/repository/memory"
	messagerepo "github.com/localaichat/localaichat/internal/repository/message"
	userrepo "github.com/localaichat/localaichat/internal/repository/user"
)

// UserService manages user profiles. Deleting a user removes everything
// they own: chats, messages, folders, and memories.
type UserService struct {
	users    userrepo.UserRepository
	chats    chatrepo.ChatRepository
	messages messagerepo.MessageRepository
	folders  folderrepo.FolderRepository
	memories memoryrepo.MemoryRepository
	logger   Logger
}

func NewUserService(
	users userrepo.UserRepository,
	chats chatrepo.ChatRepository,
	messages messagerepo.MessageRepository,
	folders folderrepo.FolderRepository,
	memories memoryrepo.MemoryRepository,
	logger Logger,
) *UserService {
	return &UserService{
		users:    users,
		chats:    chats,
		messages: messages,
		folders:  folders,
		memories: memories,
		logger:   logger,
	}
}

// CreateUser adds a profile. An empty color picks one from the avatar
// palette.
func (s *UserService) CreateUser(ctx context.Context, name, color string) (*domain.User, error) {
	user := domain.NewUser(name, color)
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.logger.Info("User created", "user_id", created.ID, "name", created.Name)
	return created, nil
}

// EnsureDefault creates a profile with the given name when no users
// exist yet, so a fresh install can skip the profile picker.
func (s *UserService) EnsureDefault(ctx context.Context, name string) (*domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	if len(users) > 0 {
		return &users[0], nil
	}
	return s.CreateUser(ctx, name, "")
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

// UpdateUser changes the profile fields that are set in the input.
func (s *UserService) UpdateUser(ctx context.Context, userID uint, name, color, settings *string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		user.Name = *name
	}
	if color != nil {
		user.Color = *color
	}
	if settings != nil {
		user.Settings = *settings
	}
	if err := user.IsValid(); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the user and cascades over all owned records.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	chats, err := s.chats.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading chats for delete: %w", err)
	}
	for _, chat := range chats {
		if err := s.messages.DeleteByChatID(ctx, chat.ID); err != nil {
			return fmt.Errorf("deleting chat messages: %w", err)
		}
	}
	if err := s.chats.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("deleting chats: %w", err)
	}
	if err := s.folders.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("deleting folders: %w", err)
	}
	if err := s.memories.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("deleting memories: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	s.logger.Info("User deleted", "user_id", userID, "chats_removed", len(chats))
	return nil
}
