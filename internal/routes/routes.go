/*
 * Package routes wires every handler into a single gorilla/mux router.
 * Routes are grouped by area, each group in its own file, and the finished
 * router is wrapped in CORS.
 */
package routes

import (
	"net/http"
	"time"

	"github.com/capstonehub/backend/internal/config"
	"github.com/capstonehub/backend/internal/handlers/public"
	"github.com/capstonehub/backend/internal/middleware"
	"github.com/capstonehub/backend/internal/services"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies carries everything the routes need.
type Dependencies struct {
	Config *config.Config
	DB     public.Pinger

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
}

// group bundles the shared middleware factories handed to each route file.
type group struct {
	deps *Dependencies
	// authLimit is shared by every credential endpoint so the budget is per
	// client, not per route.
	authLimit func(http.Handler) http.Handler
}

// authed wraps h with RequireAuth and, when roles are given, RequireRole.
func (g *group) authed(h http.HandlerFunc, roles ...string) http.Handler {
	var handler http.Handler = h
	if len(roles) > 0 {
		handler = middleware.RequireRole(roles...)(handler)
	}
	return middleware.RequireAuth(g.deps.Auth)(handler)
}

// optional wraps h with OptionalAuth.
func (g *group) optional(h http.HandlerFunc) http.Handler {
	return middleware.OptionalAuth(g.deps.Auth)(h)
}

/*
 * SetupRoutes builds the HTTP handler for the whole application.
 *
 * Route Groups:
 *   - /health, /metrics
 *   - /api/auth (registration and login are rate limited more strictly)
 *   - /api/projects, /api/students, /api/clients
 *   - /api/admin (admin role only)
 *   - /api/gallery, /api/settings
 *   - static frontend from STATIC_DIR when configured
 */
func SetupRoutes(deps *Dependencies) http.Handler {
	cfg := deps.Config
	debug.Info("Setting up routes")

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondWithErrorCode(w, http.StatusNotFound, httputil.CodeNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.Use(middleware.Observe(deps.Activity))

	g := &group{
		deps:      deps,
		authLimit: middleware.RateLimit(cfg.AuthRateLimitRequests, cfg.RateLimitWindow, "auth"),
	}

	publicHandler := public.NewHandler(deps.Settings, deps.DB)
	router.HandleFunc("/health", publicHandler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow, "api"))

	setupAuthRoutes(api, g)
	setupProjectRoutes(api, g)
	setupStudentRoutes(api, g)
	setupClientRoutes(api, g)
	setupAdminRoutes(api, g)
	setupPublicRoutes(api, g, publicHandler)

	if cfg.StaticDir != "" {
		debug.Info("Serving frontend from %s", cfg.StaticDir)
		router.PathPrefix("/").Handler(newSPAHandler(cfg.StaticDir))
	}

	debug.Info("Routes configured, CORS origins: %v", cfg.CORSAllowedOrigins)
	return corsHandler(cfg.CORSAllowedOrigins)(router)
}

// corsHandler allows credentialed requests from the configured origins.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	})
}
