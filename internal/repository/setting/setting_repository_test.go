package setting

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/localaichat/localaichat/internal/domain"
)

func newTestRepo(t *testing.T) SettingRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Setting{}))
	return NewSettingRepository(db)
}

func TestPutGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "settings", `{"model":"llama3"}`))

	value, err := repo.Get(ctx, "settings")
	require.NoError(t, err)
	assert.Equal(t, `{"model":"llama3"}`, value)
}

func TestPutUpserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "last_user", "1"))
	require.NoError(t, repo.Put(ctx, "last_user", "2"))

	value, err := repo.Get(ctx, "last_user")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}

func TestGetMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "last_user", "1"))
	require.NoError(t, repo.Delete(ctx, "last_user"))

	_, err := repo.Get(ctx, "last_user")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, repo.Delete(ctx, "last_user"))
}
