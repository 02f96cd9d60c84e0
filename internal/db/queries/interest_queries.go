package queries

// --- Student interest queries ---

const (
	GetInterestQuery = `
SELECT id, student_id, project_id, message, is_active, created_at, updated_at
FROM student_interests
WHERE student_id = $1 AND project_id = $2`

	CreateInterestQuery = `
INSERT INTO student_interests (id, student_id, project_id, message, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, TRUE, $5, $6)`

	ReactivateInterestQuery = `
UPDATE student_interests
SET is_active = TRUE, message = $1, updated_at = $2
WHERE id = $3`

	DeactivateInterestQuery = `
UPDATE student_interests
SET is_active = FALSE, updated_at = $1
WHERE student_id = $2 AND project_id = $3 AND is_active`

	CountActiveInterestsByStudentQuery = `
SELECT COUNT(*) FROM student_interests WHERE student_id = $1 AND is_active`

	ListStudentInterestsQuery = `
SELECT si.id, si.student_id, si.project_id, si.message, si.is_active, si.created_at, si.updated_at,
       p.title, p.status, c.organization_name
FROM student_interests si
JOIN projects p ON p.id = si.project_id
JOIN clients c ON c.id = p.client_id
WHERE si.student_id = $1 AND ($2 OR si.is_active)
ORDER BY si.updated_at DESC`

	ListProjectInterestsQuery = `
SELECT si.id, s.id, s.student_number, s.first_name, s.last_name, s.email, s.major,
       s.graduation_year, s.skills, si.message, si.created_at
FROM student_interests si
JOIN students s ON s.id = si.student_id
WHERE si.project_id = $1 AND si.is_active
ORDER BY si.created_at ASC`

	CountActiveInterestsQuery = `SELECT COUNT(*) FROM student_interests WHERE is_active`
)

// --- Student favorite queries ---

const (
	CreateFavoriteQuery = `
INSERT INTO student_favorites (id, student_id, project_id, created_at)
VALUES ($1, $2, $3, $4)`

	DeleteFavoriteQuery = `DELETE FROM student_favorites WHERE student_id = $1 AND project_id = $2`

	FavoriteExistsQuery = `
SELECT EXISTS(SELECT 1 FROM student_favorites WHERE student_id = $1 AND project_id = $2)`

	CountFavoritesByStudentQuery = `SELECT COUNT(*) FROM student_favorites WHERE student_id = $1`

	ListFavoritesQuery = `
SELECT f.id, f.student_id, f.project_id, f.created_at, p.title, p.status, c.organization_name
FROM student_favorites f
JOIN projects p ON p.id = f.project_id
JOIN clients c ON c.id = p.client_id
WHERE f.student_id = $1
ORDER BY f.created_at DESC`

	CountFavoritesQuery = `SELECT COUNT(*) FROM student_favorites`
)
