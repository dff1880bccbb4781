package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/localaichat/localaichat/internal/domain"
	settingrepo "github.com/localaichat/localaichat/internal/repository/setting"
)

// SettingsService persists client settings and the last-active-user
// marker in the key-value settings table.
type SettingsService struct {
	settings settingrepo.SettingRepository
	defaults domain.ClientSettings
	// onEndpointChange is notified when the saved API endpoint differs
	// from the previous one, so the inference client can be repointed.
	onEndpointChange func(string)
	logger           Logger
}

func NewSettingsService(settings settingrepo.SettingRepository, defaults domain.ClientSettings, logger Logger) *SettingsService {
	return &SettingsService{settings: settings, defaults: defaults, logger: logger}
}

// OnEndpointChange registers the callback invoked with the new endpoint
// whenever it changes.
func (s *SettingsService) OnEndpointChange(fn func(string)) {
	s.onEndpointChange = fn
}

// GetClientSettings returns the stored settings, or the defaults when
// nothing has been saved yet.
func (s *SettingsService) GetClientSettings(ctx context.Context) (domain.ClientSettings, error) {
	raw, err := s.settings.Get(ctx, domain.SettingKeyClient)
	if errors.Is(err, settingrepo.ErrSettingNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return domain.ClientSettings{}, fmt.Errorf("loading settings: %w", err)
	}
	settings := s.defaults
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.Warn("Stored settings were unreadable, using defaults", "error", err)
		return s.defaults, nil
	}
	return settings, nil
}

// SaveClientSettings stores the settings and reports endpoint changes.
func (s *SettingsService) SaveClientSettings(ctx context.Context, settings domain.ClientSettings) error {
	previous, err := s.GetClientSettings(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.settings.Put(ctx, domain.SettingKeyClient, string(raw)); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if settings.APIEndpoint != previous.APIEndpoint && s.onEndpointChange != nil {
		s.logger.Info("API endpoint changed", "endpoint", settings.APIEndpoint)
		s.onEndpointChange(settings.APIEndpoint)
	}
	return nil
}

// LastUser returns the remembered active user, or zero when none is set.
func (s *SettingsService) LastUser(ctx context.Context) (uint, error) {
	raw, err := s.settings.Get(ctx, domain.SettingKeyLastUser)
	if errors.Is(err, settingrepo.ErrSettingNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading last user: %w", err)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, nil
	}
	return uint(id), nil
}

// SetLastUser remembers the active user across restarts.
func (s *SettingsService) SetLastUser(ctx context.Context, userID uint) error {
	return s.settings.Put(ctx, domain.SettingKeyLastUser, strconv.FormatUint(uint64(userID), 10))
}

// ClearLastUser forgets the active user, e.g. when that user is deleted.
func (s *SettingsService) ClearLastUser(ctx context.Context) error {
	return s.settings.Delete(ctx, domain.SettingKeyLastUser)
}
