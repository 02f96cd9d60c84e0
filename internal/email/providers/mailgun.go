package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/mailgun/mailgun-go/v4"
)

// mailgunProvider implements the Provider interface for Mailgun
type mailgunProvider struct {
	mg        *mailgun.MailgunImpl
	fromName  string
	fromEmail string
}

func init() {
	Register(emailtypes.ProviderMailgun, func() Provider {
		return &mailgunProvider{}
	})
}

// Initialize sets up the Mailgun client
func (p *mailgunProvider) Initialize(cfg *emailtypes.Config) error {
	if err := requireSender(cfg); err != nil {
		debug.Error("mailgun configuration invalid: %v", err)
		return err
	}
	if cfg.Domain == "" {
		debug.Error("mailgun domain not provided")
		return errors.New("mailgun domain is required")
	}

	p.mg = mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	p.fromName = cfg.FromName
	p.fromEmail = cfg.FromEmail
	debug.Info("initialized mailgun client for domain: %s with sender: %s <%s>", cfg.Domain, cfg.FromName, cfg.FromEmail)
	return nil
}

// Send sends an email using Mailgun
func (p *mailgunProvider) Send(ctx context.Context, data *emailtypes.EmailData) error {
	if p.mg == nil {
		return ErrProviderNotConfigured
	}

	textContent, htmlContent, err := Render(data)
	if err != nil {
		return err
	}

	from := p.fromEmail
	if p.fromName != "" {
		from = fmt.Sprintf("%s <%s>", p.fromName, p.fromEmail)
	}
	message := p.mg.NewMessage(from, data.Subject, textContent, data.To...)
	message.SetHtml(htmlContent)

	_, id, err := p.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}

	debug.Debug("mailgun accepted message %s for %v", id, data.To)
	return nil
}
