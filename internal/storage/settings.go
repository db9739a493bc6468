package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/logger"
	"github.com/julianstephens/micromind/internal/models"
)

// SettingsStore persists the Settings record. Every mutation is written
// immediately.
type SettingsStore struct {
	kv kv.Store
}

func NewSettingsStore(store kv.Store) *SettingsStore {
	return &SettingsStore{kv: store}
}

// Load returns the persisted settings, or defaults when the record is
// missing or malformed.
func (s *SettingsStore) Load() models.Settings {
	data, err := s.kv.Get(constants.SettingsKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn("Failed to read settings", "error", err)
		}
		return models.DefaultSettings()
	}

	settings := models.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.Warn("Stored settings are unparseable, using defaults", "error", err)
		return models.DefaultSettings()
	}
	return settings
}

func (s *SettingsStore) Save(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.kv.Set(constants.SettingsKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ToggleDarkMode flips the dark mode flag and persists the result.
func (s *SettingsStore) ToggleDarkMode() (models.Settings, error) {
	settings := s.Load()
	settings.DarkMode = !settings.DarkMode
	if err := s.Save(settings); err != nil {
		return s.Load(), err
	}
	return settings, nil
}

// SetLastEntryDate records the day of the most recent save.
func (s *SettingsStore) SetLastEntryDate(date string) (models.Settings, error) {
	settings := s.Load()
	if settings.LastEntryDate == date {
		return settings, nil
	}
	settings.LastEntryDate = date
	if err := s.Save(settings); err != nil {
		return s.Load(), err
	}
	return settings, nil
}
