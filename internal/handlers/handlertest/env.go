// Package handlertest wires the services against in-memory stores for
// handler tests.
package handlertest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/capstonehub/backend/internal/middleware"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/services"
	"github.com/capstonehub/backend/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// Env is a fully wired service layer plus one account of each role.
type Env struct {
	Stores *testutil.Stores
	Mailer *testutil.MockMailer

	Activity  *services.ActivityService
	Settings  *services.SettingsService
	MFA       *services.MFAService
	Auth      *services.AuthService
	Projects  *services.ProjectService
	Interests *services.InterestService
	Favorites *services.FavoriteService
	Accounts  *services.AccountService
	Gallery   *services.GalleryService
	Dashboard *services.DashboardService

	AdminUser *models.AdminUser
	Client    *models.Client
	Student   *models.Student

	Admin        *models.Actor
	ClientActor  *models.Actor
	StudentActor *models.Actor
}

// New builds an Env. JWT_SECRET is set for the duration of the test.
func New(t *testing.T) *Env {
	t.Helper()
	testutil.SetTestJWTSecret(t)

	st := testutil.NewStores()
	e := &Env{Stores: st, Mailer: testutil.NewMockMailer()}

	e.Activity = services.NewActivityService(st.Audit, st.Analytics, st.ErrorLogs)
	e.Settings = services.NewSettingsService(st.Settings, e.Activity)
	e.MFA = services.NewMFAService(st.Admins, e.Activity, "Capstone Hub")
	e.Auth = services.NewAuthService(st.Admins, st.Clients, st.Students, st.Tokens, e.Settings, e.MFA, e.Activity, 60)
	e.Projects = services.NewProjectService(st.Projects, st.Clients, e.Activity, e.Mailer)
	e.Interests = services.NewInterestService(st.Interests, st.Projects, st.Students, st.Clients, e.Settings, e.Activity, e.Mailer)
	e.Favorites = services.NewFavoriteService(st.Favorites, st.Projects, e.Settings, e.Activity)
	e.Accounts = services.NewAccountService(st.Clients, st.Students, st.Tokens, e.Activity, e.Mailer)
	e.Gallery = services.NewGalleryService(st.Gallery, st.Projects, e.Activity)
	e.Dashboard = services.NewDashboardService(e.Projects, e.Accounts, e.Interests, e.Favorites, e.Gallery)

	ctx := context.Background()
	e.AdminUser = testutil.NewAdmin()
	require.NoError(t, st.Admins.Create(ctx, e.AdminUser))
	e.Client = testutil.NewClient()
	require.NoError(t, st.Clients.Create(ctx, e.Client))
	e.Student = testutil.NewStudent()
	require.NoError(t, st.Students.Create(ctx, e.Student))

	e.Admin = testutil.ActorFor(e.AdminUser.ID, models.RoleAdmin)
	e.ClientActor = testutil.ActorFor(e.Client.ID, models.RoleClient)
	e.StudentActor = testutil.ActorFor(e.Student.ID, models.RoleStudent)
	return e
}

// Router returns a mux router behind Observe, as the server mounts it.
func (e *Env) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Observe(e.Activity))
	return router
}

// Authed wraps h with RequireAuth and, when roles are given, RequireRole.
func (e *Env) Authed(h http.HandlerFunc, roles ...string) http.Handler {
	var handler http.Handler = h
	if len(roles) > 0 {
		handler = middleware.RequireRole(roles...)(handler)
	}
	return middleware.RequireAuth(e.Auth)(handler)
}

// Optional wraps h with OptionalAuth.
func (e *Env) Optional(h http.HandlerFunc) http.Handler {
	return middleware.OptionalAuth(e.Auth)(h)
}

// Do serves one request. actor may be nil for anonymous requests.
func (e *Env) Do(t *testing.T, h http.Handler, method, url string, body interface{}, actor *models.Actor) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if actor != nil {
		req = testutil.MakeAuthenticatedRequest(t, e.Stores.Tokens, method, url, body, actor)
	} else {
		req = testutil.MakeRequest(t, method, url, body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// SeedProject stores a project owned by the Env client.
func (e *Env) SeedProject(status models.ProjectStatus) *models.Project {
	p := testutil.NewProject(e.Client.ID, status)
	e.Stores.Projects.Put(p)
	return p
}
