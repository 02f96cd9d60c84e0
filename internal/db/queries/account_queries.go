package queries

// --- Admin user queries ---

const adminColumns = `id, email, full_name, password_hash, is_active, mfa_enabled, mfa_secret, last_login_at, created_at, updated_at`

const (
	CreateAdminUserQuery = `
INSERT INTO admin_users (id, email, full_name, password_hash, is_active, mfa_enabled, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)`

	GetAdminUserByIDQuery = `SELECT ` + adminColumns + ` FROM admin_users WHERE id = $1`

	GetAdminUserByEmailQuery = `SELECT ` + adminColumns + ` FROM admin_users WHERE email = $1`

	UpdateAdminPasswordQuery = `UPDATE admin_users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	UpdateAdminLastLoginQuery = `UPDATE admin_users SET last_login_at = $1 WHERE id = $2`

	SetAdminMFASecretQuery = `UPDATE admin_users SET mfa_secret = $1, updated_at = $2 WHERE id = $3`

	SetAdminMFAEnabledQuery = `UPDATE admin_users SET mfa_enabled = $1, mfa_secret = CASE WHEN $1 THEN mfa_secret ELSE NULL END, updated_at = $2 WHERE id = $3`
)

// --- Client queries ---

const clientColumns = `id, organization_name, contact_name, email, password_hash, phone, website, industry, description, is_active, last_login_at, created_at, updated_at`

const (
	CreateClientQuery = `
INSERT INTO clients (id, organization_name, contact_name, email, password_hash, phone, website, industry, description, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	GetClientByIDQuery = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	GetClientByEmailQuery = `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`

	UpdateClientProfileQuery = `
UPDATE clients
SET organization_name = $1, contact_name = $2, phone = $3, website = $4, industry = $5, description = $6, updated_at = $7
WHERE id = $8`

	UpdateClientPasswordQuery = `UPDATE clients SET password_hash = $1, updated_at = $2 WHERE id = $3`

	UpdateClientLastLoginQuery = `UPDATE clients SET last_login_at = $1 WHERE id = $2`

	SetClientActiveQuery = `UPDATE clients SET is_active = $1, updated_at = $2 WHERE id = $3`

	// ListClientsBaseQuery is extended with WHERE/LIMIT clauses by the repository.
	ListClientsBaseQuery = `
SELECT c.id, c.organization_name, c.contact_name, c.email, c.password_hash, c.phone, c.website,
       c.industry, c.description, c.is_active, c.last_login_at, c.created_at, c.updated_at,
       (SELECT COUNT(*) FROM projects p WHERE p.client_id = c.id) AS project_count
FROM clients c`

	CountClientsBaseQuery = `SELECT COUNT(*) FROM clients c`

	ClientStatsQuery = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM clients`
)

// --- Student queries ---

const studentColumns = `id, student_number, first_name, last_name, email, password_hash, major, graduation_year, skills, bio, is_active, last_login_at, created_at, updated_at`

const (
	CreateStudentQuery = `
INSERT INTO students (id, student_number, first_name, last_name, email, password_hash, major, graduation_year, skills, bio, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	GetStudentByIDQuery = `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	GetStudentByEmailQuery = `SELECT ` + studentColumns + ` FROM students WHERE email = $1`

	UpdateStudentProfileQuery = `
UPDATE students
SET first_name = $1, last_name = $2, major = $3, graduation_year = $4, skills = $5, bio = $6, updated_at = $7
WHERE id = $8`

	UpdateStudentPasswordQuery = `UPDATE students SET password_hash = $1, updated_at = $2 WHERE id = $3`

	UpdateStudentLastLoginQuery = `UPDATE students SET last_login_at = $1 WHERE id = $2`

	SetStudentActiveQuery = `UPDATE students SET is_active = $1, updated_at = $2 WHERE id = $3`

	ListStudentsBaseQuery = `SELECT ` + studentColumns + ` FROM students s`

	CountStudentsBaseQuery = `SELECT COUNT(*) FROM students s`

	StudentStatsQuery = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM students`
)

// --- Auth token queries ---

const (
	StoreTokenQuery = `
INSERT INTO auth_tokens (id, subject_id, role, token, expires_at, last_activity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	GetTokenQuery = `
SELECT id, subject_id, role, token, expires_at, last_activity, created_at
FROM auth_tokens
WHERE token = $1`

	TouchTokenQuery = `UPDATE auth_tokens SET last_activity = $1 WHERE token = $2`

	RemoveTokenQuery = `DELETE FROM auth_tokens WHERE token = $1`

	RemoveSubjectTokensQuery = `DELETE FROM auth_tokens WHERE subject_id = $1 AND role = $2`

	DeleteExpiredTokensQuery = `DELETE FROM auth_tokens WHERE expires_at < $1`
)
