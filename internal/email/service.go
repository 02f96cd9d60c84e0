package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/capstonehub/backend/internal/email/providers"
	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "email-provider"

var (
	// ErrTemplateNotFound is returned for an unknown template type
	ErrTemplateNotFound = errors.New("email template not found")
	// ErrNoRecipient is returned when the recipient address is empty
	ErrNoRecipient = errors.New("email recipient is required")
)

// Service renders notification templates and delivers them through the
// configured provider behind a circuit breaker.
type Service struct {
	provider providers.Provider
	cb       *gobreaker.CircuitBreaker[interface{}]
	siteURL  string
	timeout  time.Duration
}

// NewService creates the email service for cfg. ProviderNone, or an empty
// provider type, yields a service that logs and drops messages.
func NewService(cfg emailtypes.Config, siteURL string) (*Service, error) {
	if cfg.ProviderType == "" || cfg.ProviderType == emailtypes.ProviderNone {
		debug.Info("email delivery disabled")
		return newService(nil, siteURL), nil
	}

	provider, err := providers.New(cfg.ProviderType)
	if err != nil {
		return nil, err
	}
	if err := provider.Initialize(&cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.ProviderType, err)
	}
	return newService(provider, siteURL), nil
}

func newService(provider providers.Provider, siteURL string) *Service {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			debug.Warning("circuit breaker %s: %s -> %s", name, from, to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Service{
		provider: provider,
		cb:       cb,
		siteURL:  siteURL,
		timeout:  10 * time.Second,
	}
}

// Enabled reports whether messages are actually delivered.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

// SendTemplate renders the template for templateType and sends it to one recipient.
func (s *Service) SendTemplate(ctx context.Context, to string, templateType emailtypes.TemplateType, vars map[string]string) error {
	if strings.TrimSpace(to) == "" {
		return ErrNoRecipient
	}
	tmpl, ok := lookupTemplate(templateType)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, templateType)
	}

	data := &emailtypes.EmailData{
		To:        []string{to},
		Variables: make(map[string]string, len(vars)+1),
		Template:  tmpl,
	}
	for k, v := range vars {
		data.Variables[k] = v
	}
	if _, ok := data.Variables[VarSiteURL]; !ok {
		data.Variables[VarSiteURL] = s.siteURL
	}

	subject, err := renderSubject(tmpl.Subject, data.Variables)
	if err != nil {
		return err
	}
	data.Subject = subject

	if s.provider == nil {
		debug.Info("email disabled, dropping %s message to %s", templateType, to)
		metrics.RecordEmail(string(templateType), "skipped")
		return nil
	}

	if err := s.send(ctx, data); err != nil {
		metrics.RecordEmail(string(templateType), "failure")
		return err
	}
	metrics.RecordEmail(string(templateType), "success")
	return nil
}

func (s *Service) send(ctx context.Context, data *emailtypes.EmailData) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.provider.Send(sendCtx, data)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return nil
}

func renderSubject(subject string, vars map[string]string) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", fmt.Errorf("failed to parse subject template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute subject template: %w", err)
	}
	return buf.String(), nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
