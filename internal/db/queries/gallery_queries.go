package queries

const galleryColumns = `id, project_id, title, description, client_name, image_url, academic_year, team_members, is_featured, display_order, is_published, created_at, updated_at`

const (
	CreateGalleryItemQuery = `
INSERT INTO project_gallery (id, project_id, title, description, client_name, image_url, academic_year,
                             team_members, is_featured, display_order, is_published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	GetGalleryItemQuery = `SELECT ` + galleryColumns + ` FROM project_gallery WHERE id = $1`

	ListPublishedGalleryQuery = `
SELECT ` + galleryColumns + `
FROM project_gallery
WHERE is_published
ORDER BY is_featured DESC, display_order ASC, created_at DESC`

	ListAllGalleryQuery = `
SELECT ` + galleryColumns + `
FROM project_gallery
ORDER BY is_featured DESC, display_order ASC, created_at DESC`

	UpdateGalleryItemQuery = `
UPDATE project_gallery
SET project_id = $1, title = $2, description = $3, client_name = $4, image_url = $5, academic_year = $6,
    team_members = $7, is_featured = $8, display_order = $9, is_published = $10, updated_at = $11
WHERE id = $12`

	DeleteGalleryItemQuery = `DELETE FROM project_gallery WHERE id = $1`

	CountGalleryQuery = `SELECT COUNT(*) FROM project_gallery`
)
