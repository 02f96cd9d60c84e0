package providers

import (
	"context"
	"fmt"

	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridProvider implements the Provider interface for SendGrid
type sendgridProvider struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func init() {
	Register(emailtypes.ProviderSendGrid, func() Provider {
		return &sendgridProvider{}
	})
}

// Initialize sets up the SendGrid client
func (p *sendgridProvider) Initialize(cfg *emailtypes.Config) error {
	if err := requireSender(cfg); err != nil {
		debug.Error("sendgrid configuration invalid: %v", err)
		return err
	}

	p.client = sendgrid.NewSendClient(cfg.APIKey)
	p.fromName = cfg.FromName
	p.fromEmail = cfg.FromEmail
	debug.Info("initialized sendgrid client with sender: %s <%s>", cfg.FromName, cfg.FromEmail)
	return nil
}

// Send sends an email using SendGrid
func (p *sendgridProvider) Send(ctx context.Context, data *emailtypes.EmailData) error {
	if p.client == nil {
		return ErrProviderNotConfigured
	}

	textContent, htmlContent, err := Render(data)
	if err != nil {
		return err
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(p.fromName, p.fromEmail))
	message.Subject = data.Subject

	personalization := mail.NewPersonalization()
	for _, to := range data.To {
		personalization.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", textContent))
	message.AddContent(mail.NewContent("text/html", htmlContent))

	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid API error: %d - %s", response.StatusCode, response.Body)
	}

	debug.Debug("sendgrid accepted message for %v with status %d", data.To, response.StatusCode)
	return nil
}
