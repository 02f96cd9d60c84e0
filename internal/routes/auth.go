package routes

import (
	"net/http"

	"github.com/capstonehub/backend/internal/handlers/auth"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/gorilla/mux"
)

// setupAuthRoutes configures /api/auth and the admin MFA endpoints.
func setupAuthRoutes(api *mux.Router, g *group) {
	debug.Debug("Setting up auth routes")
	h := auth.NewHandler(g.deps.Auth, g.deps.MFA, g.deps.Config.IsProduction())

	r := api.PathPrefix("/auth").Subrouter()
	r.Handle("/register/student", g.authLimit(http.HandlerFunc(h.RegisterStudentHandler))).Methods(http.MethodPost)
	r.Handle("/register/client", g.authLimit(http.HandlerFunc(h.RegisterClientHandler))).Methods(http.MethodPost)
	r.Handle("/login", g.authLimit(http.HandlerFunc(h.LoginHandler))).Methods(http.MethodPost)
	r.Handle("/logout", g.optional(h.LogoutHandler)).Methods(http.MethodPost)
	r.Handle("/me", g.authed(h.MeHandler)).Methods(http.MethodGet)
	r.Handle("/password", g.authLimit(g.authed(h.ChangePasswordHandler))).Methods(http.MethodPut)

	mfa := api.PathPrefix("/admin/mfa").Subrouter()
	mfa.Handle("/setup", g.authed(h.SetupMFAHandler, models.RoleAdmin)).Methods(http.MethodPost)
	mfa.Handle("/enable", g.authLimit(g.authed(h.EnableMFAHandler, models.RoleAdmin))).Methods(http.MethodPost)
	mfa.Handle("/disable", g.authLimit(g.authed(h.DisableMFAHandler, models.RoleAdmin))).Methods(http.MethodPost)
}
