package queries

// projectSelect returns projects with the owning organization name and the
// number of active interests.
const projectSelect = `
SELECT p.id, p.client_id, p.title, p.description, p.required_skills, p.industry, p.team_size,
       p.duration_weeks, p.deliverables, p.status, p.rejection_reason, p.admin_notes,
       p.submitted_at, p.reviewed_at, p.reviewed_by, p.created_at, p.updated_at,
       c.organization_name,
       (SELECT COUNT(*) FROM student_interests si WHERE si.project_id = p.id AND si.is_active) AS interest_count
FROM projects p
JOIN clients c ON c.id = p.client_id`

const (
	CreateProjectQuery = `
INSERT INTO projects (id, client_id, title, description, required_skills, industry, team_size,
                      duration_weeks, deliverables, status, submitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	GetProjectByIDQuery = projectSelect + `
WHERE p.id = $1`

	// SearchProjectsBaseQuery is extended with WHERE/ORDER/LIMIT by the repository.
	SearchProjectsBaseQuery = projectSelect

	CountProjectsBaseQuery = `
SELECT COUNT(*)
FROM projects p
JOIN clients c ON c.id = p.client_id`

	UpdateProjectQuery = `
UPDATE projects
SET title = $1, description = $2, required_skills = $3, industry = $4, team_size = $5,
    duration_weeks = $6, deliverables = $7, status = $8, rejection_reason = $9,
    submitted_at = $10, updated_at = $11
WHERE id = $12 AND status = $13`

	// UpdateProjectStatusQuery only applies when the row still holds the
	// expected status, so concurrent reviews cannot both succeed.
	UpdateProjectStatusQuery = `
UPDATE projects
SET status = $1, rejection_reason = $2, admin_notes = COALESCE($3, admin_notes),
    reviewed_at = COALESCE($4, reviewed_at), reviewed_by = COALESCE($5, reviewed_by), updated_at = $6,
    submitted_at = COALESCE($9, submitted_at)
WHERE id = $7 AND status = $8`

	DeleteProjectQuery = `DELETE FROM projects WHERE id = $1`

	CountProjectsByStatusQuery = `SELECT status, COUNT(*) FROM projects GROUP BY status`
)
