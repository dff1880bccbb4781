package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/localaichat/localaichat/internal/domain"
	chatrepo "github.com/localaichat/localaichat/internal/repository/chat"
	folderrepo "github.com/localaichat/localaichat/internal/repository/folder"
	memoryrepo "github.com/localaichat/localaichat/internal/repository/memory"
	messagerepo "github.com/localaichat/localaichat/internal/repository/message"
	settingrepo "github.com/localaichat/localaichat/internal/repository/setting"
	userrepo "github.com/localaichat/localaichat/internal/repository/user"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Chat{},
		&domain.Message{},
		&domain.Folder{},
		&domain.Memory{},
		&domain.Setting{},
	))
	return db
}

type repos struct {
	users    userrepo.UserRepository
	chats    chatrepo.ChatRepository
	messages messagerepo.MessageRepository
	folders  folderrepo.FolderRepository
	memories memoryrepo.MemoryRepository
	settings settingrepo.SettingRepository
}

func newRepos(t *testing.T) repos {
	db := newTestDB(t)
	return repos{
		users:    userrepo.NewUserRepository(db),
		chats:    chatrepo.NewChatRepository(db),
		messages: messagerepo.NewMessageRepository(db),
		folders:  folderrepo.NewFolderRepository(db),
		memories: memoryrepo.NewMemoryRepository(db),
		settings: settingrepo.NewSettingRepository(db),
	}
}

func TestEnsureDefaultUser(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users, r.chats, r.messages, r.folders, r.memories, &NoOpLogger{})
	ctx := context.Background()

	created, err := svc.EnsureDefault(ctx, "User")
	require.NoError(t, err)
	assert.Equal(t, "User", created.Name)
	assert.NotEmpty(t, created.Color)

	// A second call must not add another profile.
	again, err := svc.EnsureDefault(ctx, "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDeleteUserCascades(t *testing.T) {
	r := newRepos(t)
	svc := NewUserService(r.users, r.chats, r.messages, r.folders, r.memories, &NoOpLogger{})
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Sam", "")
	require.NoError(t, err)

	chat, err := r.chats.Create(ctx, &domain.Chat{UserID: user.ID})
	require.NoError(t, err)
	_, err = r.messages.Create(ctx, &domain.Message{ChatID: chat.ID, Role: domain.RoleUser, Content: "hi"})
	require.NoError(t, err)
	_, err = r.folders.Create(ctx, &domain.Folder{UserID: user.ID, Name: "Work"})
	require.NoError(t, err)
	_, err = r.memories.Create(ctx, &domain.Memory{UserID: user.ID, Content: "likes tea"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))

	_, err = r.users.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, userrepo.ErrUserNotFound)

	chats, _ := r.chats.FindByUserID(ctx, user.ID)
	assert.Empty(t, chats)
	count, _ := r.messages.CountByChatID(ctx, chat.ID)
	assert.Zero(t, count)
	folders, _ := r.folders.FindByUserID(ctx, user.ID)
	assert.Empty(t, folders)
	memories, _ := r.memories.FindByUserID(ctx, user.ID)
	assert.Empty(t, memories)
}

func TestCreateFolderAppendsSortOrder(t *testing.T) {
	r := newRepos(t)
	svc := NewFolderService(r.folders, r.chats, &NoOpLogger{})
	ctx := context.Background()

	first, err := svc.CreateFolder(ctx, 1, "Work", "#f00")
	require.NoError(t, err)
	second, err := svc.CreateFolder(ctx, 1, "Play", "#0f0")
	require.NoError(t, err)

	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)

	// Other users start their own sequence.
	other, err := svc.CreateFolder(ctx, 2, "Theirs", "")
	require.NoError(t, err)
	assert.Equal(t, 0, other.SortOrder)
}

func TestDeleteFolderUnfilesChats(t *testing.T) {
	r := newRepos(t)
	svc := NewFolderService(r.folders, r.chats, &NoOpLogger{})
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, 1, "Work", "")
	require.NoError(t, err)
	chat, err := r.chats.Create(ctx, &domain.Chat{UserID: 1})
	require.NoError(t, err)
	require.NoError(t, r.chats.MoveToFolder(ctx, chat.ID, &folder.ID))

	require.NoError(t, svc.DeleteFolder(ctx, 1, folder.ID))

	found, err := r.chats.FindByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Nil(t, found.FolderID)
}

func TestDeleteFolderOwnership(t *testing.T) {
	r := newRepos(t)
	svc := NewFolderService(r.folders, r.chats, &NoOpLogger{})
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, 1, "Work", "")
	require.NoError(t, err)

	err = svc.DeleteFolder(ctx, 2, folder.ID)
	assert.ErrorIs(t, err, ErrFolderForbidden)
}

func TestClientSettingsDefaultsAndRoundTrip(t *testing.T) {
	r := newRepos(t)
	defaults := domain.ClientSettings{APIEndpoint: "http://127.0.0.1:11434/v1", StreamingEnabled: true}
	svc := NewSettingsService(r.settings, defaults, &NoOpLogger{})
	ctx := context.Background()

	got, err := svc.GetClientSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	saved := domain.ClientSettings{
		APIEndpoint:      "http://127.0.0.1:11434/v1",
		Model:            "llama3",
		SystemPrompt:     "Be terse.",
		StreamingEnabled: false,
	}
	require.NoError(t, svc.SaveClientSettings(ctx, saved))

	got, err = svc.GetClientSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestSaveClientSettingsNotifiesEndpointChange(t *testing.T) {
	r := newRepos(t)
	defaults := domain.ClientSettings{APIEndpoint: "http://old:11434/v1"}
	svc := NewSettingsService(r.settings, defaults, &NoOpLogger{})
	ctx := context.Background()

	var notified []string
	svc.OnEndpointChange(func(endpoint string) { notified = append(notified, endpoint) })

	require.NoError(t, svc.SaveClientSettings(ctx, domain.ClientSettings{APIEndpoint: "http://new:11434/v1"}))
	require.NoError(t, svc.SaveClientSettings(ctx, domain.ClientSettings{APIEndpoint: "http://new:11434/v1"}))

	assert.Equal(t, []string{"http://new:11434/v1"}, notified)
}

func TestLastUserLifecycle(t *testing.T) {
	r := newRepos(t)
	svc := NewSettingsService(r.settings, domain.ClientSettings{}, &NoOpLogger{})
	ctx := context.Background()

	id, err := svc.LastUser(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, svc.SetLastUser(ctx, 3))
	id, err = svc.LastUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	require.NoError(t, svc.ClearLastUser(ctx))
	id, err = svc.LastUser(ctx)
	require.NoError(t, err)
	assert.Zero(t, id)
}
