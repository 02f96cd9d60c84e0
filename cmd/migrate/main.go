// Command migrate manages the database schema and bootstraps admin accounts.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/capstonehub/backend/internal/config"
	"github.com/capstonehub/backend/internal/database"
	"github.com/capstonehub/backend/internal/repository"
	"github.com/capstonehub/backend/internal/services"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	debug.Reinitialize()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the capstone database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(upCmd(), downCmd(), versionCmd(), createAdminCmd())
	return cmd
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.RunMigrations(config.NewConfig().Database)
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return database.RollbackMigrations(config.NewConfig().Database, steps)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := database.MigrationVersion(config.NewConfig().Database)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%v)\n", version, dirty)
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var (
		email    string
		fullName string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Example: `  migrate create-admin --email admin@uni.edu --name "Course Coordinator"
  ADMIN_PASSWORD=... migrate create-admin --email admin@uni.edu --name Admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("--password or ADMIN_PASSWORD is required")
			}

			cfg := config.NewConfig()
			db, err := database.Connect(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			admins := repository.NewAdminUserRepository(db)
			activity := services.NewActivityService(
				repository.NewAuditLogRepository(db),
				repository.NewAnalyticsRepository(db),
				repository.NewErrorLogRepository(db),
			)
			settings := services.NewSettingsService(repository.NewSettingsRepository(db), activity)
			auth := services.NewAuthService(
				admins,
				repository.NewClientRepository(db),
				repository.NewStudentRepository(db),
				repository.NewAuthTokenRepository(db),
				settings,
				services.NewMFAService(admins, activity, cfg.MFAIssuer),
				activity,
				cfg.JWTExpiryMinutes,
			)

			admin, err := auth.CreateAdmin(context.Background(), email, fullName, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&fullName, "name", "", "Admin full name")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (or ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
