package queries

// --- Audit log queries ---

const (
	CreateAuditLogQuery = `
INSERT INTO audit_logs (id, actor_type, actor_id, action, entity_type, entity_id, details, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	// ListAuditLogsBaseQuery is extended with WHERE/LIMIT by the repository.
	ListAuditLogsBaseQuery = `
SELECT id, actor_type, actor_id, action, entity_type, entity_id, details, ip_address, created_at
FROM audit_logs`

	DeleteAuditLogsBeforeQuery = `DELETE FROM audit_logs WHERE created_at < $1`
)

// --- Error log queries ---

const (
	CreateErrorLogQuery = `
INSERT INTO error_logs (id, request_id, method, path, status_code, message, actor_type, actor_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ListErrorLogsQuery = `
SELECT id, request_id, method, path, status_code, message, actor_type, actor_id, created_at
FROM error_logs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	CountErrorLogsQuery = `SELECT COUNT(*) FROM error_logs`

	DeleteErrorLogsBeforeQuery = `DELETE FROM error_logs WHERE created_at < $1`
)

// --- Analytics queries ---

const (
	CreateAnalyticsEventQuery = `
INSERT INTO analytics_events (id, event_type, actor_type, actor_id, entity_id, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	CountEventsByTypeQuery = `
SELECT event_type, COUNT(*)
FROM analytics_events
WHERE created_at >= $1
GROUP BY event_type
ORDER BY COUNT(*) DESC`

	CountEventsByDayQuery = `
SELECT date_trunc('day', created_at) AS day, COUNT(*)
FROM analytics_events
WHERE created_at >= $1
GROUP BY day
ORDER BY day`

	TopViewedProjectsQuery = `
SELECT e.entity_id, p.title, COUNT(*) AS views
FROM analytics_events e
JOIN projects p ON p.id = e.entity_id
WHERE e.event_type = 'project_view' AND e.created_at >= $1
GROUP BY e.entity_id, p.title
ORDER BY views DESC
LIMIT $2`

	DeleteAnalyticsBeforeQuery = `DELETE FROM analytics_events WHERE created_at < $1`
)
