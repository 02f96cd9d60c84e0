package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting value types stored in config_settings.data_type.
const (
	SettingTypeString  = "string"
	SettingTypeInteger = "integer"
	SettingTypeBoolean = "boolean"
)

// Known setting keys.
const (
	SettingMaxStudentInterests    = "max_student_interests"
	SettingMaxStudentFavorites    = "max_student_favorites"
	SettingRegistrationOpen       = "registration_open"
	SettingSiteName               = "site_name"
	SettingAnalyticsRetentionDays = "analytics_retention_days"
	SettingAuditRetentionDays     = "audit_retention_days"
	SettingErrorLogRetentionDays  = "error_log_retention_days"
)

// ConfigSetting is one row of the key/value settings table.
type ConfigSetting struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Description *string    `json:"description,omitempty"`
	DataType    string     `json:"data_type"`
	IsPublic    bool       `json:"is_public"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty"`
}

// AppSettings is the typed view of config_settings used by services.
type AppSettings struct {
	MaxStudentInterests    int    `mapstructure:"max_student_interests"`
	MaxStudentFavorites    int    `mapstructure:"max_student_favorites"`
	RegistrationOpen       bool   `mapstructure:"registration_open"`
	SiteName               string `mapstructure:"site_name"`
	AnalyticsRetentionDays int    `mapstructure:"analytics_retention_days"`
	AuditRetentionDays     int    `mapstructure:"audit_retention_days"`
	ErrorLogRetentionDays  int    `mapstructure:"error_log_retention_days"`
}

// DefaultAppSettings returns the values used when a key is missing.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		MaxStudentInterests:    5,
		MaxStudentFavorites:    20,
		RegistrationOpen:       true,
		SiteName:               "Capstone Hub",
		AnalyticsRetentionDays: 365,
		AuditRetentionDays:     0,
		ErrorLogRetentionDays:  90,
	}
}
