package providers

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
)

var (
	// ErrProviderNotConfigured is returned when the email provider is not properly configured
	ErrProviderNotConfigured = errors.New("email provider not configured")
	// ErrInvalidTemplate is returned when the template is invalid or missing
	ErrInvalidTemplate = errors.New("invalid email template")
	// ErrUnsupportedProvider is returned by New for unknown provider types
	ErrUnsupportedProvider = errors.New("unsupported email provider type")
)

// Provider defines the interface for email providers
type Provider interface {
	// Initialize sets up the provider with the given configuration
	Initialize(cfg *emailtypes.Config) error

	// Send sends an email using the provider
	Send(ctx context.Context, data *emailtypes.EmailData) error
}

// ProviderFactory is a function that creates a new Provider instance
type ProviderFactory func() Provider

var providers = make(map[emailtypes.ProviderType]ProviderFactory)

// Register registers a new provider factory for the given provider type
func Register(providerType emailtypes.ProviderType, factory ProviderFactory) {
	debug.Debug("registering email provider: %s", providerType)
	providers[providerType] = factory
}

// New creates a new Provider instance for the given provider type
func New(providerType emailtypes.ProviderType) (Provider, error) {
	factory, exists := providers[providerType]
	if !exists {
		debug.Error("unsupported email provider type: %s", providerType)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, providerType)
	}
	return factory(), nil
}

// requireSender checks the fields every provider needs.
func requireSender(cfg *emailtypes.Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("%w: API key is required", ErrProviderNotConfigured)
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("%w: from email is required", ErrProviderNotConfigured)
	}
	return nil
}

// Render executes the template's text and HTML bodies with the message variables.
func Render(data *emailtypes.EmailData) (text string, html string, err error) {
	if data.Template == nil {
		return "", "", ErrInvalidTemplate
	}

	textTmpl, err := texttemplate.New("email_text").Parse(data.Template.TextContent)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse text template: %w", err)
	}
	htmlTmpl, err := htmltemplate.New("email_html").Parse(data.Template.HTMLContent)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML template: %w", err)
	}

	var textBuf, htmlBuf strings.Builder
	if err := textTmpl.Execute(&textBuf, data.Variables); err != nil {
		return "", "", fmt.Errorf("failed to execute text template: %w", err)
	}
	if err := htmlTmpl.Execute(&htmlBuf, data.Variables); err != nil {
		return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}
