package routes

import (
	"net/http"

	"github.com/capstonehub/backend/internal/handlers/client"
	"github.com/capstonehub/backend/internal/handlers/project"
	"github.com/capstonehub/backend/internal/handlers/student"
	"github.com/capstonehub/backend/internal/models"
	"github.com/gorilla/mux"
)

// setupProjectRoutes configures /api/projects. Browsing works anonymously;
// mutations need the owning client or an admin.
func setupProjectRoutes(api *mux.Router, g *group) {
	h := project.NewHandler(g.deps.Projects, g.deps.Interests)
	owners := []string{models.RoleClient, models.RoleAdmin}

	r := api.PathPrefix("/projects").Subrouter()
	r.Handle("", g.optional(h.ListProjects)).Methods(http.MethodGet)
	r.Handle("", g.authed(h.CreateProject, models.RoleClient)).Methods(http.MethodPost)
	r.Handle("/{id}", g.optional(h.GetProject)).Methods(http.MethodGet)
	r.Handle("/{id}", g.authed(h.UpdateProject, owners...)).Methods(http.MethodPut)
	r.Handle("/{id}", g.authed(h.DeleteProject, owners...)).Methods(http.MethodDelete)
	r.Handle("/{id}/status", g.authed(h.ChangeStatus, owners...)).Methods(http.MethodPatch)
	r.Handle("/{id}/history", g.authed(h.GetHistory, owners...)).Methods(http.MethodGet)
	r.Handle("/{id}/interests", g.authed(h.GetInterests, owners...)).Methods(http.MethodGet)
}

// setupStudentRoutes configures /api/students/me.
func setupStudentRoutes(api *mux.Router, g *group) {
	h := student.NewHandler(g.deps.Accounts, g.deps.Interests, g.deps.Favorites)
	st := func(fn http.HandlerFunc) http.Handler { return g.authed(fn, models.RoleStudent) }

	r := api.PathPrefix("/students/me").Subrouter()
	r.Handle("", st(h.GetProfile)).Methods(http.MethodGet)
	r.Handle("", st(h.UpdateProfile)).Methods(http.MethodPut)
	r.Handle("/interests", st(h.ListInterests)).Methods(http.MethodGet)
	r.Handle("/interests/{projectId}", st(h.ExpressInterest)).Methods(http.MethodPost)
	r.Handle("/interests/{projectId}", st(h.WithdrawInterest)).Methods(http.MethodDelete)
	r.Handle("/favorites", st(h.ListFavorites)).Methods(http.MethodGet)
	r.Handle("/favorites/{projectId}", st(h.ToggleFavorite)).Methods(http.MethodPost)
	r.Handle("/favorites/{projectId}", st(h.RemoveFavorite)).Methods(http.MethodDelete)
}

// setupClientRoutes configures /api/clients/me.
func setupClientRoutes(api *mux.Router, g *group) {
	h := client.NewHandler(g.deps.Accounts, g.deps.Projects)
	cl := func(fn http.HandlerFunc) http.Handler { return g.authed(fn, models.RoleClient) }

	r := api.PathPrefix("/clients/me").Subrouter()
	r.Handle("", cl(h.GetProfile)).Methods(http.MethodGet)
	r.Handle("", cl(h.UpdateProfile)).Methods(http.MethodPut)
	r.Handle("/projects", cl(h.ListProjects)).Methods(http.MethodGet)
}
