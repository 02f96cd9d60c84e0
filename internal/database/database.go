package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/capstonehub/backend/internal/db"
	"github.com/capstonehub/backend/pkg/debug"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

/*
 * Connect opens the application connection pool described by cfg.
 * The connection is verified with a ping before returning.
 */
func Connect(cfg db.Config) (*db.DB, error) {
	debug.Info("Attempting database connection")
	debug.Debug("Database configuration - Host: %s, Port: %d, User: %s, Database: %s, SSL: %s",
		cfg.Host, cfg.Port, cfg.User, cfg.DBName, cfg.SSLMode)

	database, err := db.New(cfg)
	if err != nil {
		debug.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	debug.Info("Successfully connected to database")
	return database, nil
}

/*
 * NewMigrator builds a migrate instance over the embedded SQL files.
 * Callers must Close the returned instance.
 */
func NewMigrator(cfg db.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

/*
 * RunMigrations applies every pending migration.
 * ErrNoChange is not treated as a failure.
 */
func RunMigrations(cfg db.Config) error {
	debug.Info("Starting database migrations")

	m, err := NewMigrator(cfg)
	if err != nil {
		debug.Error("Failed to create migration instance: %v", err)
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		debug.Error("Migration failed: %v", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		debug.Info("Database migrations completed successfully (version %d, dirty=%v)", version, dirty)
	}
	return nil
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(cfg db.Config, steps int) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if steps <= 0 {
		steps = 1
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback failed: %w", err)
	}
	debug.Info("Rolled back %d migration(s)", steps)
	return nil
}

// MigrationVersion reports the current schema version.
func MigrationVersion(cfg db.Config) (uint, bool, error) {
	m, err := NewMigrator(cfg)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		debug.Warning("Failed to close migration source: %v", srcErr)
	}
	if dbErr != nil {
		debug.Warning("Failed to close migration database: %v", dbErr)
	}
}
