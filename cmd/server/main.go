package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/capstonehub/backend/internal/config"
	"github.com/capstonehub/backend/internal/database"
	"github.com/capstonehub/backend/internal/email"
	"github.com/capstonehub/backend/internal/middleware"
	"github.com/capstonehub/backend/internal/repository"
	"github.com/capstonehub/backend/internal/routes"
	"github.com/capstonehub/backend/internal/services"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/joho/godotenv"
)

func main() {
	// Initialize debug package first with default settings
	debug.Reinitialize()

	// Load .env file; a missing file is fine when the environment is set
	// by the container.
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			debug.Warning("No .env file loaded: %v", err)
		} else {
			debug.Info("Loaded .env file from project root")
		}
	} else {
		debug.Info("Loaded .env file from current directory")
	}

	// Reinitialize debug package with loaded environment variables
	debug.Reinitialize()

	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		debug.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}
	httputil.ExposeInternalErrors(!cfg.IsProduction())
	middleware.TrustProxyHeaders(cfg.TrustProxy)
	debug.Info("Initializing application (environment: %s)", cfg.Environment)

	if err := database.RunMigrations(cfg.Database); err != nil {
		debug.Error("Database migrations failed: %v", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		debug.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	mailer, err := email.NewService(cfg.Email, cfg.FrontendURL)
	if err != nil {
		debug.Error("Email service initialization failed: %v", err)
		os.Exit(1)
	}

	// Repositories
	admins := repository.NewAdminUserRepository(db)
	clients := repository.NewClientRepository(db)
	students := repository.NewStudentRepository(db)
	tokens := repository.NewAuthTokenRepository(db)
	projects := repository.NewProjectRepository(db)
	interests := repository.NewInterestRepository(db)
	favorites := repository.NewFavoriteRepository(db)
	gallery := repository.NewGalleryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	audit := repository.NewAuditLogRepository(db)
	analytics := repository.NewAnalyticsRepository(db)
	errorLogs := repository.NewErrorLogRepository(db)

	// Services
	activity := services.NewActivityService(audit, analytics, errorLogs)
	settings := services.NewSettingsService(settingsRepo, activity)
	mfa := services.NewMFAService(admins, activity, cfg.MFAIssuer)
	auth := services.NewAuthService(admins, clients, students, tokens, settings, mfa, activity, cfg.JWTExpiryMinutes)
	projectService := services.NewProjectService(projects, clients, activity, mailer)
	interestService := services.NewInterestService(interests, projects, students, clients, settings, activity, mailer)
	favoriteService := services.NewFavoriteService(favorites, projects, settings, activity)
	accounts := services.NewAccountService(clients, students, tokens, activity, mailer)
	galleryService := services.NewGalleryService(gallery, projects, activity)
	dashboard := services.NewDashboardService(projectService, accounts, interestService, favoriteService, galleryService)

	maintenance := services.NewMaintenanceService(tokens, audit, analytics, errorLogs, settings)
	if err := maintenance.Start(); err != nil {
		debug.Error("Failed to start maintenance jobs: %v", err)
		os.Exit(1)
	}

	handler := routes.SetupRoutes(&routes.Dependencies{
		Config:    cfg,
		DB:        db,
		Activity:  activity,
		Settings:  settings,
		MFA:       mfa,
		Auth:      auth,
		Projects:  projectService,
		Interests: interestService,
		Favorites: favoriteService,
		Accounts:  accounts,
		Gallery:   galleryService,
		Dashboard: dashboard,
	})

	server := &http.Server{
		Addr:              cfg.GetAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		debug.Info("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		debug.Info("Received signal %v, shutting down", sig)
	case err := <-serverErr:
		debug.Error("Server failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		debug.Error("Server shutdown error: %v", err)
	}
	maintenance.Stop(ctx)
	debug.Info("Server stopped")
}
