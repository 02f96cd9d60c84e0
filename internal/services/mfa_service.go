package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"
)

const (
	totpPeriod = 30
	totpSkew   = 1
	totpDigits = otp.DigitsSix
)

// totpAlgorithm is SHA1 because common authenticator apps ignore the
// algorithm parameter of the provisioning URL.
const totpAlgorithm = otp.AlgorithmSHA1

// MFAService manages TOTP enrolment for administrators.
type MFAService struct {
	admins   AdminStore
	activity *ActivityService
	issuer   string
	now      func() time.Time
}

// NewMFAService creates a new MFAService. issuer labels the entry in the
// authenticator app.
func NewMFAService(admins AdminStore, activity *ActivityService, issuer string) *MFAService {
	return &MFAService{
		admins:   admins,
		activity: activity,
		issuer:   issuer,
		now:      time.Now,
	}
}

// Setup generates a new secret for the admin and stores it pending
// confirmation. MFA is not enforced until Enable succeeds.
func (s *MFAService) Setup(ctx context.Context, actor *models.Actor) (*models.MFASetupResponse, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	admin, err := s.admins.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if admin.MFAEnabled {
		return nil, fmt.Errorf("mfa already enabled: %w", models.ErrConflict)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: admin.Email,
		Digits:      totpDigits,
		Period:      totpPeriod,
		Algorithm:   totpAlgorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	qr, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	if err := s.admins.SetMFASecret(ctx, admin.ID, key.Secret()); err != nil {
		return nil, err
	}
	debug.Info("pending MFA setup stored for admin %s", admin.ID)

	return &models.MFASetupResponse{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qr),
		URL:    key.URL(),
	}, nil
}

// Enable turns on MFA after the admin proves possession of the secret.
func (s *MFAService) Enable(ctx context.Context, actor *models.Actor, code string) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}
	admin, err := s.admins.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if admin.MFAEnabled {
		return fmt.Errorf("mfa already enabled: %w", models.ErrConflict)
	}
	if admin.MFASecret == nil || *admin.MFASecret == "" {
		return fmt.Errorf("mfa setup has not been started: %w", models.ErrConflict)
	}
	if !s.ValidateCode(*admin.MFASecret, code) {
		return validation.NewFieldError("code", "Invalid verification code")
	}

	if err := s.admins.SetMFAEnabled(ctx, admin.ID, true); err != nil {
		return err
	}
	s.activity.Audit(ctx, actor, models.AuditMFAEnabled, models.EntityAdmin, admin.ID.String(), nil)
	return nil
}

// Disable turns off MFA and discards the secret. A current code is required.
func (s *MFAService) Disable(ctx context.Context, actor *models.Actor, code string) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}
	admin, err := s.admins.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !admin.MFAEnabled || admin.MFASecret == nil {
		return fmt.Errorf("mfa is not enabled: %w", models.ErrConflict)
	}
	if !s.ValidateCode(*admin.MFASecret, code) {
		return validation.NewFieldError("code", "Invalid verification code")
	}

	if err := s.admins.SetMFAEnabled(ctx, admin.ID, false); err != nil {
		return err
	}
	s.activity.Audit(ctx, actor, models.AuditMFADisabled, models.EntityAdmin, admin.ID.String(), nil)
	return nil
}

// ValidateCode checks a TOTP code against secret, allowing one period of skew.
func (s *MFAService) ValidateCode(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, s.now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    totpDigits,
		Algorithm: totpAlgorithm,
	})
	if err != nil {
		debug.Debug("TOTP validation error: %v", err)
		return false
	}
	return valid
}
