package setting

import "context"

// SettingRepository is a small key-value store for client settings and the
// last-active-user marker.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
