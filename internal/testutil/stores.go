package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/repository"
	"github.com/google/uuid"
)

// Stores bundles in-memory implementations of every repository the services
// depend on. Methods follow the repository semantics, including sentinel
// errors, but skip SQL entirely.
type Stores struct {
	Admins    *AdminStore
	Clients   *ClientStore
	Students  *StudentStore
	Projects  *ProjectStore
	Interests *InterestStore
	Favorites *FavoriteStore
	Tokens    *TokenStore
	Gallery   *GalleryStore
	Settings  *SettingsStore
	Audit     *AuditStore
	ErrorLogs *ErrorLogStore
	Analytics *AnalyticsStore
}

// NewStores creates empty stores with default settings rows.
func NewStores() *Stores {
	s := &Stores{
		Admins:    &AdminStore{rows: map[uuid.UUID]*models.AdminUser{}},
		Clients:   &ClientStore{rows: map[uuid.UUID]*models.Client{}},
		Students:  &StudentStore{rows: map[uuid.UUID]*models.Student{}},
		Tokens:    &TokenStore{rows: map[string]*models.AuthToken{}},
		Gallery:   &GalleryStore{rows: map[uuid.UUID]*models.GalleryItem{}},
		Settings:  NewSettingsStore(),
		Audit:     &AuditStore{},
		ErrorLogs: &ErrorLogStore{},
		Analytics: &AnalyticsStore{},
	}
	s.Projects = &ProjectStore{rows: map[uuid.UUID]*models.Project{}, clients: s.Clients}
	s.Interests = &InterestStore{students: s.Students, projects: s.Projects}
	s.Favorites = &FavoriteStore{projects: s.Projects}
	s.Projects.interests = s.Interests
	return s
}

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", what, id, models.ErrNotFound)
}

// ----- admins

// AdminStore is an in-memory admin repository.
type AdminStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.AdminUser
}

func (s *AdminStore) Create(ctx context.Context, a *models.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == a.Email {
			return fmt.Errorf("admin email taken: %w", models.ErrDuplicate)
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *AdminStore) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, notFound("admin", id)
	}
	cp := *row
	return &cp, nil
}

func (s *AdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, notFound("admin", email)
}

func (s *AdminStore) update(id uuid.UUID, fn func(*models.AdminUser)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return notFound("admin", id)
	}
	fn(row)
	return nil
}

func (s *AdminStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return s.update(id, func(a *models.AdminUser) { a.PasswordHash = hash })
}

func (s *AdminStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return s.update(id, func(a *models.AdminUser) { a.LastLoginAt = &now })
}

func (s *AdminStore) SetMFASecret(ctx context.Context, id uuid.UUID, secret string) error {
	return s.update(id, func(a *models.AdminUser) { a.MFASecret = &secret })
}

func (s *AdminStore) SetMFAEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return s.update(id, func(a *models.AdminUser) {
		a.MFAEnabled = enabled
		if !enabled {
			a.MFASecret = nil
		}
	})
}

// ----- clients

// ClientStore is an in-memory client repository.
type ClientStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Client
}

func (s *ClientStore) Create(ctx context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == c.Email {
			return fmt.Errorf("client email taken: %w", models.ErrDuplicate)
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	s.rows[c.ID] = &cp
	return nil
}

func (s *ClientStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, notFound("client", id)
	}
	cp := *row
	return &cp, nil
}

func (s *ClientStore) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, notFound("client", email)
}

func (s *ClientStore) update(id uuid.UUID, fn func(*models.Client)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return notFound("client", id)
	}
	fn(row)
	return nil
}

func (s *ClientStore) UpdateProfile(ctx context.Context, c *models.Client) error {
	return s.update(c.ID, func(row *models.Client) {
		email, hash, active := row.Email, row.PasswordHash, row.IsActive
		*row = *c
		row.Email, row.PasswordHash, row.IsActive = email, hash, active
	})
}

func (s *ClientStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return s.update(id, func(c *models.Client) { c.PasswordHash = hash })
}

func (s *ClientStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return s.update(id, func(c *models.Client) { c.LastLoginAt = &now })
}

func (s *ClientStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.update(id, func(c *models.Client) { c.IsActive = active })
}

func (s *ClientStore) List(ctx context.Context, filter models.UserFilter) ([]models.Client, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Client{}
	for _, row := range s.rows {
		if filter.IsActive != nil && row.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !containsFold(row.OrganizationName+" "+row.ContactName+" "+row.Email, filter.Search) {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrganizationName < out[j].OrganizationName })
	total := len(out)
	return pageOf(out, filter.Limit, filter.Offset), total, nil
}

func (s *ClientStore) Stats(ctx context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := 0
	for _, row := range s.rows {
		if row.IsActive {
			active++
		}
	}
	return len(s.rows), active, nil
}

// ----- students

// StudentStore is an in-memory student repository.
type StudentStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.Student
}

func (s *StudentStore) Create(ctx context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == st.Email || row.StudentNumber == st.StudentNumber {
			return fmt.Errorf("student already registered: %w", models.ErrDuplicate)
		}
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	cp := *st
	s.rows[st.ID] = &cp
	return nil
}

func (s *StudentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, notFound("student", id)
	}
	cp := *row
	return &cp, nil
}

func (s *StudentStore) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, notFound("student", email)
}

func (s *StudentStore) update(id uuid.UUID, fn func(*models.Student)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return notFound("student", id)
	}
	fn(row)
	return nil
}

func (s *StudentStore) UpdateProfile(ctx context.Context, st *models.Student) error {
	return s.update(st.ID, func(row *models.Student) {
		email, number, hash, active := row.Email, row.StudentNumber, row.PasswordHash, row.IsActive
		*row = *st
		row.Email, row.StudentNumber, row.PasswordHash, row.IsActive = email, number, hash, active
	})
}

func (s *StudentStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return s.update(id, func(st *models.Student) { st.PasswordHash = hash })
}

func (s *StudentStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return s.update(id, func(st *models.Student) { st.LastLoginAt = &now })
}

func (s *StudentStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.update(id, func(st *models.Student) { st.IsActive = active })
}

func (s *StudentStore) List(ctx context.Context, filter models.UserFilter) ([]models.Student, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Student{}
	for _, row := range s.rows {
		if filter.IsActive != nil && row.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !containsFold(row.FullName()+" "+row.Email+" "+row.StudentNumber, filter.Search) {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	total := len(out)
	return pageOf(out, filter.Limit, filter.Offset), total, nil
}

func (s *StudentStore) Stats(ctx context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := 0
	for _, row := range s.rows {
		if row.IsActive {
			active++
		}
	}
	return len(s.rows), active, nil
}

// ----- projects

// ProjectStore is an in-memory project repository. ClientName and
// InterestCount are filled from the sibling stores like the SQL joins do.
type ProjectStore struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.Project
	clients   *ClientStore
	interests *InterestStore
}

// Put stores a project as-is, bypassing Create's defaults.
func (s *ProjectStore) Put(p *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.rows[p.ID] = &cp
}

func (s *ProjectStore) decorate(p models.Project) models.Project {
	if c, err := s.clients.GetByID(context.Background(), p.ClientID); err == nil {
		p.ClientName = c.OrganizationName
	}
	p.InterestCount = s.interests.activeForProject(p.ID)
	return p
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = now
	}
	s.Put(p)
	return nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	row, ok := s.rows[id]
	var cp models.Project
	if ok {
		cp = *row
	}
	s.mu.Unlock()
	if !ok {
		return nil, notFound("project", id)
	}
	cp = s.decorate(cp)
	return &cp, nil
}

func (s *ProjectStore) Search(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	s.mu.Lock()
	var out []models.Project
	for _, row := range s.rows {
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, row.Status) {
			continue
		}
		if filter.ClientID != nil && row.ClientID != *filter.ClientID {
			continue
		}
		if filter.Search != "" && !containsFold(row.Title+" "+row.Description+" "+strings.Join(row.RequiredSkills, " "), filter.Search) {
			continue
		}
		if filter.Industry != "" && (row.Industry == nil || !strings.EqualFold(*row.Industry, filter.Industry)) {
			continue
		}
		if filter.Skill != "" && !hasSkill(row.RequiredSkills, filter.Skill) {
			continue
		}
		out = append(out, *row)
	}
	s.mu.Unlock()

	for i := range out {
		out[i] = s.decorate(out[i])
	}
	switch filter.Sort {
	case models.SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	case models.SortTitle:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title) })
	case models.SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].InterestCount > out[j].InterestCount })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	}
	total := len(out)
	if out == nil {
		out = []models.Project{}
	}
	return pageOf(out, filter.Limit, filter.Offset), total, nil
}

func (s *ProjectStore) Update(ctx context.Context, p *models.Project, expected models.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[p.ID]
	if !ok {
		return notFound("project", p.ID)
	}
	if row.Status != expected {
		return fmt.Errorf("project %s is no longer %s: %w", p.ID, expected, models.ErrConflict)
	}
	p.UpdatedAt = time.Now()
	cp := *p
	cp.ClientName, cp.InterestCount = "", 0
	s.rows[p.ID] = &cp
	return nil
}

func (s *ProjectStore) UpdateStatus(ctx context.Context, change repository.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[change.ProjectID]
	if !ok || row.Status != change.From {
		return fmt.Errorf("project %s is no longer %s: %w", change.ProjectID, change.From, models.ErrConflict)
	}
	now := time.Now()
	row.Status = change.To
	row.RejectionReason = change.RejectionReason
	if change.AdminNotes != nil {
		row.AdminNotes = change.AdminNotes
	}
	if change.ReviewedBy != nil {
		reviewer := *change.ReviewedBy
		row.ReviewedBy = &reviewer
		row.ReviewedAt = &now
	}
	if change.SubmittedAt != nil {
		row.SubmittedAt = *change.SubmittedAt
	}
	row.UpdatedAt = now
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.rows[id]; !ok {
		s.mu.Unlock()
		return notFound("project", id)
	}
	delete(s.rows, id)
	s.mu.Unlock()
	s.interests.deleteProject(id)
	return nil
}

func (s *ProjectStore) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.ProjectStatus]int, len(models.AllProjectStatuses))
	for _, st := range models.AllProjectStatuses {
		counts[st] = 0
	}
	for _, row := range s.rows {
		counts[row.Status]++
	}
	return counts, nil
}

// ----- interests

// InterestStore is an in-memory interest repository.
type InterestStore struct {
	mu       sync.Mutex
	rows     []*models.StudentInterest
	students *StudentStore
	projects *ProjectStore
}

func (s *InterestStore) find(studentID, projectID uuid.UUID) *models.StudentInterest {
	for _, row := range s.rows {
		if row.StudentID == studentID && row.ProjectID == projectID {
			return row
		}
	}
	return nil
}

func (s *InterestStore) activeForProject(projectID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.ProjectID == projectID && row.IsActive {
			n++
		}
	}
	return n
}

func (s *InterestStore) deleteProject(projectID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.ProjectID != projectID {
			kept = append(kept, row)
		}
	}
	s.rows = kept
}

func (s *InterestStore) Get(ctx context.Context, studentID, projectID uuid.UUID) (*models.StudentInterest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.find(studentID, projectID)
	if row == nil {
		return nil, notFound("interest", projectID)
	}
	cp := *row
	return &cp, nil
}

func (s *InterestStore) Create(ctx context.Context, i *models.StudentInterest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(i.StudentID, i.ProjectID) != nil {
		return fmt.Errorf("interest already recorded: %w", models.ErrConflict)
	}
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now()
	i.CreatedAt, i.UpdatedAt, i.IsActive = now, now, true
	cp := *i
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *InterestStore) Reactivate(ctx context.Context, i *models.StudentInterest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == i.ID {
			i.UpdatedAt, i.IsActive = time.Now(), true
			row.Message, row.IsActive, row.UpdatedAt = i.Message, true, i.UpdatedAt
			return nil
		}
	}
	return notFound("interest", i.ID)
}

func (s *InterestStore) Deactivate(ctx context.Context, studentID, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.find(studentID, projectID)
	if row == nil || !row.IsActive {
		return notFound("active interest", projectID)
	}
	row.IsActive = false
	row.UpdatedAt = time.Now()
	return nil
}

func (s *InterestStore) CountActiveByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.StudentID == studentID && row.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *InterestStore) ListByStudent(ctx context.Context, studentID uuid.UUID, includeInactive bool) ([]models.StudentInterest, error) {
	s.mu.Lock()
	var out []models.StudentInterest
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if row.StudentID == studentID && (includeInactive || row.IsActive) {
			out = append(out, *row)
		}
	}
	s.mu.Unlock()
	for i := range out {
		if p, err := s.projects.GetByID(ctx, out[i].ProjectID); err == nil {
			out[i].ProjectTitle, out[i].ProjectStatus, out[i].ClientName = p.Title, p.Status, p.ClientName
		}
	}
	return out, nil
}

func (s *InterestStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.InterestedStudent, error) {
	s.mu.Lock()
	var rows []models.StudentInterest
	for _, row := range s.rows {
		if row.ProjectID == projectID && row.IsActive {
			rows = append(rows, *row)
		}
	}
	s.mu.Unlock()

	out := []models.InterestedStudent{}
	for _, row := range rows {
		st, err := s.students.GetByID(ctx, row.StudentID)
		if err != nil {
			continue
		}
		out = append(out, models.InterestedStudent{
			InterestID:     row.ID,
			StudentID:      st.ID,
			StudentNumber:  st.StudentNumber,
			FirstName:      st.FirstName,
			LastName:       st.LastName,
			Email:          st.Email,
			Major:          st.Major,
			GraduationYear: st.GraduationYear,
			Skills:         st.Skills,
			Message:        row.Message,
			CreatedAt:      row.CreatedAt,
		})
	}
	return out, nil
}

func (s *InterestStore) CountActive(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.IsActive {
			n++
		}
	}
	return n, nil
}

// ----- favorites

// FavoriteStore is an in-memory favorite repository.
type FavoriteStore struct {
	mu       sync.Mutex
	rows     []*models.StudentFavorite
	projects *ProjectStore
}

func (s *FavoriteStore) Create(ctx context.Context, f *models.StudentFavorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.StudentID == f.StudentID && row.ProjectID == f.ProjectID {
			return fmt.Errorf("project already in favorites: %w", models.ErrDuplicate)
		}
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	cp := *f
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *FavoriteStore) Delete(ctx context.Context, studentID, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.StudentID == studentID && row.ProjectID == projectID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return notFound("favorite", projectID)
}

func (s *FavoriteStore) Exists(ctx context.Context, studentID, projectID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.StudentID == studentID && row.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (s *FavoriteStore) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (s *FavoriteStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.StudentFavorite, error) {
	s.mu.Lock()
	var out []models.StudentFavorite
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].StudentID == studentID {
			out = append(out, *s.rows[i])
		}
	}
	s.mu.Unlock()
	for i := range out {
		if p, err := s.projects.GetByID(ctx, out[i].ProjectID); err == nil {
			out[i].ProjectTitle, out[i].ProjectStatus, out[i].ClientName = p.Title, p.Status, p.ClientName
		}
	}
	return out, nil
}

func (s *FavoriteStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

// ----- tokens

// TokenStore is an in-memory auth token repository.
type TokenStore struct {
	mu   sync.Mutex
	rows map[string]*models.AuthToken
}

func (s *TokenStore) Store(ctx context.Context, t *models.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt, t.LastActivity = now, now
	cp := *t
	s.rows[t.Token] = &cp
	return nil
}

func (s *TokenStore) Get(ctx context.Context, token string) (*models.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok {
		return nil, fmt.Errorf("token: %w", models.ErrNotFound)
	}
	cp := *row
	return &cp, nil
}

func (s *TokenStore) Touch(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[token]; ok {
		row.LastActivity = time.Now()
	}
	return nil
}

func (s *TokenStore) Remove(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, token)
	return nil
}

func (s *TokenStore) RemoveForSubject(ctx context.Context, subjectID uuid.UUID, role string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for key, row := range s.rows {
		if row.SubjectID == subjectID && row.Role == role {
			delete(s.rows, key)
			n++
		}
	}
	return n, nil
}

func (s *TokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for key, row := range s.rows {
		if row.ExpiresAt.Before(now) {
			delete(s.rows, key)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored tokens.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// ----- gallery

// GalleryStore is an in-memory gallery repository.
type GalleryStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.GalleryItem
}

func (s *GalleryStore) Create(ctx context.Context, g *models.GalleryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now()
	g.CreatedAt, g.UpdatedAt = now, now
	cp := *g
	s.rows[g.ID] = &cp
	return nil
}

func (s *GalleryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, notFound("gallery item", id)
	}
	cp := *row
	return &cp, nil
}

func (s *GalleryStore) List(ctx context.Context, publishedOnly bool) ([]models.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.GalleryItem{}
	for _, row := range s.rows {
		if publishedOnly && !row.IsPublished {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFeatured != out[j].IsFeatured {
			return out[i].IsFeatured
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (s *GalleryStore) Update(ctx context.Context, g *models.GalleryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[g.ID]; !ok {
		return notFound("gallery item", g.ID)
	}
	g.UpdatedAt = time.Now()
	cp := *g
	s.rows[g.ID] = &cp
	return nil
}

func (s *GalleryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return notFound("gallery item", id)
	}
	delete(s.rows, id)
	return nil
}

func (s *GalleryStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

// ----- settings

// SettingsStore is an in-memory config_settings table seeded like the
// migration.
type SettingsStore struct {
	mu   sync.Mutex
	rows map[string]*models.ConfigSetting
}

// NewSettingsStore returns a store holding the default settings rows.
func NewSettingsStore() *SettingsStore {
	s := &SettingsStore{rows: map[string]*models.ConfigSetting{}}
	seed := []models.ConfigSetting{
		{Key: models.SettingMaxStudentInterests, Value: "5", DataType: models.SettingTypeInteger, IsPublic: true},
		{Key: models.SettingMaxStudentFavorites, Value: "20", DataType: models.SettingTypeInteger, IsPublic: true},
		{Key: models.SettingRegistrationOpen, Value: "true", DataType: models.SettingTypeBoolean, IsPublic: true},
		{Key: models.SettingSiteName, Value: "Capstone Hub", DataType: models.SettingTypeString, IsPublic: true},
		{Key: models.SettingAnalyticsRetentionDays, Value: "365", DataType: models.SettingTypeInteger},
		{Key: models.SettingAuditRetentionDays, Value: "0", DataType: models.SettingTypeInteger},
		{Key: models.SettingErrorLogRetentionDays, Value: "90", DataType: models.SettingTypeInteger},
	}
	for i := range seed {
		row := seed[i]
		row.UpdatedAt = time.Now()
		s.rows[row.Key] = &row
	}
	return s
}

// Set overwrites a value directly.
func (s *SettingsStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[key]; ok {
		row.Value = value
	}
}

func (s *SettingsStore) Get(ctx context.Context, key string) (*models.ConfigSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[key]
	if !ok {
		return nil, notFound("setting", key)
	}
	cp := *row
	return &cp, nil
}

func (s *SettingsStore) List(ctx context.Context, publicOnly bool) ([]models.ConfigSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ConfigSetting{}
	for _, row := range s.rows {
		if publicOnly && !row.IsPublic {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *SettingsStore) Update(ctx context.Context, values map[string]string, updatedBy *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range values {
		if _, ok := s.rows[key]; !ok {
			return notFound("setting", key)
		}
	}
	now := time.Now()
	for key, value := range values {
		row := s.rows[key]
		row.Value, row.UpdatedAt, row.UpdatedBy = value, now, updatedBy
	}
	return nil
}

// ----- logs

// AuditStore is an in-memory audit log.
type AuditStore struct {
	mu   sync.Mutex
	rows []models.AuditLog
}

func (s *AuditStore) Create(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	s.rows = append(s.rows, *entry)
	return nil
}

func (s *AuditStore) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AuditLog{}
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if filter.EntityType != "" && row.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && row.EntityID != filter.EntityID {
			continue
		}
		if filter.Action != "" && row.Action != filter.Action {
			continue
		}
		if filter.ActorID != nil && (row.ActorID == nil || *row.ActorID != *filter.ActorID) {
			continue
		}
		out = append(out, row)
	}
	return pageOf(out, filter.Limit, filter.Offset), nil
}

func (s *AuditStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	var n int64
	for _, row := range s.rows {
		if row.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return n, nil
}

// Actions returns the recorded actions in insertion order.
func (s *AuditStore) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rows))
	for i, row := range s.rows {
		out[i] = row.Action
	}
	return out
}

// ErrorLogStore is an in-memory error log.
type ErrorLogStore struct {
	mu   sync.Mutex
	rows []models.ErrorLog
}

func (s *ErrorLogStore) Create(ctx context.Context, entry *models.ErrorLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	s.rows = append(s.rows, *entry)
	return nil
}

func (s *ErrorLogStore) List(ctx context.Context, limit, offset int) ([]models.ErrorLog, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ErrorLog, 0, len(s.rows))
	for i := len(s.rows) - 1; i >= 0; i-- {
		out = append(out, s.rows[i])
	}
	return pageOf(out, limit, offset), len(out), nil
}

func (s *ErrorLogStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	var n int64
	for _, row := range s.rows {
		if row.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return n, nil
}

// AnalyticsStore is an in-memory analytics event table.
type AnalyticsStore struct {
	mu     sync.Mutex
	Events []models.AnalyticsEvent
}

func (s *AnalyticsStore) Create(ctx context.Context, e *models.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.Events = append(s.Events, *e)
	return nil
}

func (s *AnalyticsStore) CountByType(ctx context.Context, since time.Time) ([]models.EventTypeCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, e := range s.Events {
		if !e.CreatedAt.Before(since) {
			counts[e.EventType]++
		}
	}
	out := []models.EventTypeCount{}
	for t, n := range counts {
		out = append(out, models.EventTypeCount{EventType: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventType < out[j].EventType })
	return out, nil
}

func (s *AnalyticsStore) CountByDay(ctx context.Context, since time.Time) ([]models.DailyEventCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[time.Time]int{}
	for _, e := range s.Events {
		if !e.CreatedAt.Before(since) {
			y, m, d := e.CreatedAt.Date()
			counts[time.Date(y, m, d, 0, 0, 0, 0, e.CreatedAt.Location())]++
		}
	}
	out := []models.DailyEventCount{}
	for day, n := range counts {
		out = append(out, models.DailyEventCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (s *AnalyticsStore) TopViewedProjects(ctx context.Context, since time.Time, limit int) ([]models.ProjectViews, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[uuid.UUID]int{}
	for _, e := range s.Events {
		if e.EventType == models.EventProjectView && e.EntityID != nil && !e.CreatedAt.Before(since) {
			counts[*e.EntityID]++
		}
	}
	out := []models.ProjectViews{}
	for id, n := range counts {
		out = append(out, models.ProjectViews{ProjectID: id, Views: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return pageOf(out, limit, 0), nil
}

func (s *AnalyticsStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.Events[:0]
	var n int64
	for _, e := range s.Events {
		if e.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	s.Events = kept
	return n, nil
}

// EventTypes returns the recorded event types in insertion order.
func (s *AnalyticsStore) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Events))
	for i, e := range s.Events {
		out[i] = e.EventType
	}
	return out
}

// ----- helpers

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasStatus(statuses []models.ProjectStatus, st models.ProjectStatus) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

func hasSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
