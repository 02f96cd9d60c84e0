package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/mitchellh/mapstructure"
)

// maxStringSettingLength bounds free-text settings such as site_name.
const maxStringSettingLength = 500

// limitSettings must stay at or above one.
var limitSettings = map[string]bool{
	models.SettingMaxStudentInterests: true,
	models.SettingMaxStudentFavorites: true,
}

// SettingsService exposes the config_settings table both as raw rows and as
// the typed AppSettings view.
type SettingsService struct {
	store    SettingsStore
	activity *ActivityService
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store SettingsStore, activity *ActivityService) *SettingsService {
	return &SettingsService{store: store, activity: activity}
}

// AppSettings reads every row and decodes it over the defaults. Rows are
// read on each call so admin changes apply to the next request.
func (s *SettingsService) AppSettings(ctx context.Context) (models.AppSettings, error) {
	settings := models.DefaultAppSettings()

	rows, err := s.store.List(ctx, false)
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}

	raw := make(map[string]interface{}, len(rows))
	for _, row := range rows {
		raw[row.Key] = row.Value
	}
	if err := mapstructure.WeakDecode(raw, &settings); err != nil {
		debug.Error("failed to decode settings, using defaults: %v", err)
		return models.DefaultAppSettings(), nil
	}
	return settings, nil
}

// List returns all settings, or only the public ones.
func (s *SettingsService) List(ctx context.Context, publicOnly bool) ([]models.ConfigSetting, error) {
	settings, err := s.store.List(ctx, publicOnly)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []models.ConfigSetting{}
	}
	return settings, nil
}

// Update validates and stores one or more values atomically, then returns
// the full settings list.
func (s *SettingsService) Update(ctx context.Context, actor *models.Actor, values map[string]string) ([]models.ConfigSetting, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if len(values) == 0 {
		return nil, validation.NewFieldError("settings", "At least one setting is required")
	}

	normalized := make(map[string]string, len(values))
	previous := make(map[string]string, len(values))
	for key, value := range values {
		setting, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		value, err = validateSettingValue(setting, value)
		if err != nil {
			return nil, err
		}
		normalized[key] = value
		previous[key] = setting.Value
	}

	actorID := actor.ID
	if err := s.store.Update(ctx, normalized, &actorID); err != nil {
		return nil, err
	}

	for key, value := range normalized {
		debug.Info("setting %s changed by %s", key, actor.ID)
		s.activity.Audit(ctx, actor, models.AuditSettingUpdated, models.EntitySetting, key, map[string]string{
			"from": previous[key],
			"to":   value,
		})
	}
	return s.List(ctx, false)
}

// validateSettingValue checks value against the declared data type and
// returns its canonical form.
func validateSettingValue(setting *models.ConfigSetting, value string) (string, error) {
	value = strings.TrimSpace(value)

	switch setting.DataType {
	case models.SettingTypeInteger:
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", validation.NewFieldError(setting.Key, "Must be a whole number")
		}
		if n < 0 {
			return "", validation.NewFieldError(setting.Key, "Must be zero or greater")
		}
		if limitSettings[setting.Key] && n < 1 {
			return "", validation.NewFieldError(setting.Key, "Must be at least 1")
		}
		return strconv.Itoa(n), nil
	case models.SettingTypeBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", validation.NewFieldError(setting.Key, "Must be true or false")
		}
		return strconv.FormatBool(b), nil
	case models.SettingTypeString:
		if value == "" {
			return "", validation.NewFieldError(setting.Key, "Must not be empty")
		}
		if len(value) > maxStringSettingLength {
			return "", validation.NewFieldError(setting.Key, fmt.Sprintf("Must be at most %d characters", maxStringSettingLength))
		}
		return value, nil
	default:
		return "", errors.New("unknown setting data type " + setting.DataType)
	}
}
