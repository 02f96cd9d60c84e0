package queries

const (
	ListSettingsQuery = `
SELECT key, value, description, data_type, is_public, updated_at, updated_by
FROM config_settings
ORDER BY key`

	ListPublicSettingsQuery = `
SELECT key, value, description, data_type, is_public, updated_at, updated_by
FROM config_settings
WHERE is_public
ORDER BY key`

	GetSettingQuery = `
SELECT key, value, description, data_type, is_public, updated_at, updated_by
FROM config_settings
WHERE key = $1`

	UpdateSettingQuery = `
UPDATE config_settings
SET value = $1, updated_at = $2, updated_by = $3
WHERE key = $4`
)
