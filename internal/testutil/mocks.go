package testutil

import (
	"context"
	"sync"

	emailtypes "github.com/capstonehub/backend/pkg/email"
)

// SentMail is one message captured by MockMailer.
type SentMail struct {
	To       string
	Template emailtypes.TemplateType
	Vars     map[string]string
}

// MockMailer records templated messages instead of sending them.
type MockMailer struct {
	mu        sync.Mutex
	Sent      []SentMail
	SendError error
}

// NewMockMailer creates a new mock mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendTemplate implements services.Mailer
func (m *MockMailer) SendTemplate(ctx context.Context, to string, templateType emailtypes.TemplateType, vars map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, SentMail{To: to, Template: templateType, Vars: vars})
	return nil
}

// Count returns the number of captured messages
func (m *MockMailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Last returns the most recent message, if any
func (m *MockMailer) Last() (SentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
