package services

import (
	"context"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// harness wires every service against in-memory stores.
type harness struct {
	stores      *testutil.Stores
	mailer      *testutil.MockMailer
	activity    *ActivityService
	settings    *SettingsService
	mfa         *MFAService
	auth        *AuthService
	projects    *ProjectService
	interests   *InterestService
	favorites   *FavoriteService
	accounts    *AccountService
	gallery     *GalleryService
	dashboard   *DashboardService
	maintenance *MaintenanceService

	admin   *models.Actor
	client  *models.Actor
	student *models.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("JWT_SECRET", testutil.TestJWTSecret)

	st := testutil.NewStores()
	mailer := testutil.NewMockMailer()
	h := &harness{stores: st, mailer: mailer}

	h.activity = NewActivityService(st.Audit, st.Analytics, st.ErrorLogs)
	h.settings = NewSettingsService(st.Settings, h.activity)
	h.mfa = NewMFAService(st.Admins, h.activity, "Capstone Hub")
	h.auth = NewAuthService(st.Admins, st.Clients, st.Students, st.Tokens, h.settings, h.mfa, h.activity, 60)
	h.projects = NewProjectService(st.Projects, st.Clients, h.activity, mailer)
	h.interests = NewInterestService(st.Interests, st.Projects, st.Students, st.Clients, h.settings, h.activity, mailer)
	h.favorites = NewFavoriteService(st.Favorites, st.Projects, h.settings, h.activity)
	h.accounts = NewAccountService(st.Clients, st.Students, st.Tokens, h.activity, mailer)
	h.gallery = NewGalleryService(st.Gallery, st.Projects, h.activity)
	h.dashboard = NewDashboardService(h.projects, h.accounts, h.interests, h.favorites, h.gallery)
	h.maintenance = NewMaintenanceService(st.Tokens, st.Audit, st.Analytics, st.ErrorLogs, h.settings)

	ctx := context.Background()
	admin := testutil.NewAdmin()
	require.NoError(t, st.Admins.Create(ctx, admin))
	client := testutil.NewClient()
	require.NoError(t, st.Clients.Create(ctx, client))
	student := testutil.NewStudent()
	require.NoError(t, st.Students.Create(ctx, student))

	h.admin = testutil.ActorFor(admin.ID, models.RoleAdmin)
	h.client = testutil.ActorFor(client.ID, models.RoleClient)
	h.student = testutil.ActorFor(student.ID, models.RoleStudent)
	return h
}

// seedProject stores a project owned by the harness client.
func (h *harness) seedProject(status models.ProjectStatus) *models.Project {
	p := testutil.NewProject(h.client.ID, status)
	h.stores.Projects.Put(p)
	return p
}

// newStudent registers another student and returns its actor.
func (h *harness) newStudent(t *testing.T) *models.Actor {
	t.Helper()
	s := testutil.NewStudent()
	require.NoError(t, h.stores.Students.Create(context.Background(), s))
	return testutil.ActorFor(s.ID, models.RoleStudent)
}

// otherClient registers a client that does not own the seeded projects.
func (h *harness) otherClient(t *testing.T) *models.Actor {
	t.Helper()
	c := testutil.NewClient()
	require.NoError(t, h.stores.Clients.Create(context.Background(), c))
	return testutil.ActorFor(c.ID, models.RoleClient)
}

func (h *harness) projectStatus(t *testing.T, id uuid.UUID) models.ProjectStatus {
	t.Helper()
	p, err := h.stores.Projects.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Status
}
