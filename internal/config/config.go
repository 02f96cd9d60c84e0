package config

import (
	"fmt"
	"time"

	"github.com/capstonehub/backend/internal/db"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/capstonehub/backend/pkg/env"
)

// Config holds the application configuration
type Config struct {
	Environment string
	Host        string
	Port        int

	Database db.Config

	JWTExpiryMinutes int

	CORSAllowedOrigins []string

	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitRequests int

	// TrustProxy makes client IPs come from X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	StaticDir   string
	FrontendURL string
	MFAIssuer   string

	Email emailtypes.Config

	ShutdownTimeout time.Duration
}

// NewConfig creates a new Config instance with values from environment variables
func NewConfig() *Config {
	origins := env.GetList("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return &Config{
		Environment: env.GetOrDefault("APP_ENV", "development"),
		Host:        env.GetOrDefault("HOST", "localhost"),
		Port:        env.GetIntOrDefault("PORT", 8080),

		Database: db.Config{
			Host:     env.GetOrDefault("DB_HOST", "localhost"),
			Port:     env.GetIntOrDefault("DB_PORT", 5432),
			User:     env.GetOrDefault("DB_USER", "postgres"),
			Password: env.GetOrDefault("DB_PASSWORD", ""),
			DBName:   env.GetOrDefault("DB_NAME", "capstone"),
			SSLMode:  env.GetOrDefault("DB_SSLMODE", "disable"),
		},

		JWTExpiryMinutes: env.GetIntOrDefault("JWT_EXPIRY_MINUTES", 1440),

		CORSAllowedOrigins: origins,

		RateLimitRequests:     env.GetIntOrDefault("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:       env.GetDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		AuthRateLimitRequests: env.GetIntOrDefault("AUTH_RATE_LIMIT_REQUESTS", 10),

		TrustProxy: env.GetBoolOrDefault("TRUST_PROXY", false),

		StaticDir:   env.GetOrDefault("STATIC_DIR", ""),
		FrontendURL: env.GetOrDefault("FRONTEND_URL", "http://localhost:3000"),
		MFAIssuer:   env.GetOrDefault("MFA_ISSUER", "Capstone Hub"),

		Email: emailtypes.Config{
			ProviderType: emailtypes.ProviderType(env.GetOrDefault("EMAIL_PROVIDER", string(emailtypes.ProviderNone))),
			APIKey:       env.GetOrDefault("EMAIL_API_KEY", ""),
			Domain:       env.GetOrDefault("EMAIL_DOMAIN", ""),
			FromEmail:    env.GetOrDefault("EMAIL_FROM", ""),
			FromName:     env.GetOrDefault("EMAIL_FROM_NAME", "Capstone Hub"),
		},

		ShutdownTimeout: env.GetDurationOrDefault("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if env.GetOrDefault("JWT_SECRET", "") == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.RateLimitRequests < 1 || c.AuthRateLimitRequests < 1 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

// GetAPIEndpoint returns the API endpoint URL
func (c *Config) GetAPIEndpoint() string {
	return fmt.Sprintf("http://%s:%d/api", c.Host, c.Port)
}

// GetAddress returns the full address for the server to listen on
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
