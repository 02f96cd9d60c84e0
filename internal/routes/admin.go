package routes

import (
	"net/http"

	"github.com/capstonehub/backend/internal/handlers/admin"
	"github.com/capstonehub/backend/internal/middleware"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/gorilla/mux"
)

// setupAdminRoutes configures /api/admin. Every route requires the admin
// role.
func setupAdminRoutes(api *mux.Router, g *group) {
	debug.Debug("Setting up admin routes")
	h := admin.NewHandler(g.deps.Dashboard, g.deps.Projects, g.deps.Accounts, g.deps.Activity, g.deps.Settings)

	r := api.PathPrefix("/admin").Subrouter()
	r.Use(middleware.RequireAuth(g.deps.Auth), middleware.AdminOnly)

	r.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)

	r.HandleFunc("/projects/pending", h.ListPending).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/approve", h.ApproveProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/reject", h.RejectProject).Methods(http.MethodPost)

	r.HandleFunc("/students", h.ListStudents).Methods(http.MethodGet)
	r.HandleFunc("/students/{id}/status", h.SetStudentStatus).Methods(http.MethodPatch)
	r.HandleFunc("/clients", h.ListClients).Methods(http.MethodGet)
	r.HandleFunc("/clients/{id}/status", h.SetClientStatus).Methods(http.MethodPatch)

	r.HandleFunc("/audit-logs", h.ListAuditLogs).Methods(http.MethodGet)
	r.HandleFunc("/error-logs", h.ListErrorLogs).Methods(http.MethodGet)
	r.HandleFunc("/analytics", h.GetAnalytics).Methods(http.MethodGet)

	r.HandleFunc("/settings", h.ListSettings).Methods(http.MethodGet)
	r.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)
}
