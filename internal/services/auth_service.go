package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/jwt"
	"github.com/capstonehub/backend/pkg/password"
	"github.com/google/uuid"
)

// errInvalidCredentials is deliberately the same for unknown accounts and
// wrong passwords.
var errInvalidCredentials = fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)

// AuthService handles registration, login, session tokens and passwords for
// all three roles.
type AuthService struct {
	admins        AdminStore
	clients       ClientStore
	students      StudentStore
	tokens        TokenStore
	settings      *SettingsService
	mfa           *MFAService
	activity      *ActivityService
	expiryMinutes int
	policy        password.Policy
	now           func() time.Time
}

// NewAuthService creates a new AuthService. expiryMinutes is the session
// token lifetime.
func NewAuthService(admins AdminStore, clients ClientStore, students StudentStore, tokens TokenStore, settings *SettingsService, mfa *MFAService, activity *ActivityService, expiryMinutes int) *AuthService {
	if expiryMinutes <= 0 {
		expiryMinutes = 1440
	}
	return &AuthService{
		admins:        admins,
		clients:       clients,
		students:      students,
		tokens:        tokens,
		settings:      settings,
		mfa:           mfa,
		activity:      activity,
		expiryMinutes: expiryMinutes,
		policy:        password.DefaultPolicy,
		now:           time.Now,
	}
}

// ExpiryMinutes returns the configured session lifetime.
func (s *AuthService) ExpiryMinutes() int {
	return s.expiryMinutes
}

func (s *AuthService) checkPolicy(field, plain string) error {
	if err := password.Validate(plain, s.policy); err != nil {
		var pe *password.ValidationError
		if errors.As(err, &pe) {
			return validation.NewFieldError(field, pe.Message)
		}
		return validation.NewFieldError(field, err.Error())
	}
	return nil
}

func (s *AuthService) registrationOpen(ctx context.Context) error {
	settings, err := s.settings.AppSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.RegistrationOpen {
		return fmt.Errorf("registration is closed: %w", models.ErrForbidden)
	}
	return nil
}

// RegisterStudent creates a student account.
func (s *AuthService) RegisterStudent(ctx context.Context, reg *models.StudentRegistration) (*models.Student, error) {
	if err := s.registrationOpen(ctx); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(reg); err != nil {
		return nil, err
	}
	if err := s.checkPolicy("password", reg.Password); err != nil {
		return nil, err
	}
	hash, err := models.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		StudentNumber:  strings.TrimSpace(reg.StudentNumber),
		FirstName:      strings.TrimSpace(reg.FirstName),
		LastName:       strings.TrimSpace(reg.LastName),
		Email:          models.NormalizeEmail(reg.Email),
		PasswordHash:   hash,
		Major:          reg.Major,
		GraduationYear: reg.GraduationYear,
		Skills:         reg.Skills,
		Bio:            reg.Bio,
		IsActive:       true,
	}
	if student.Skills == nil {
		student.Skills = []string{}
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	debug.Info("student %s registered", student.ID)
	s.activity.Track(ctx, &models.Actor{ID: student.ID, Role: models.RoleStudent}, models.EventRegistration, nil, nil)
	return student, nil
}

// RegisterClient creates a client account.
func (s *AuthService) RegisterClient(ctx context.Context, reg *models.ClientRegistration) (*models.Client, error) {
	if err := s.registrationOpen(ctx); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(reg); err != nil {
		return nil, err
	}
	if err := s.checkPolicy("password", reg.Password); err != nil {
		return nil, err
	}
	hash, err := models.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	client := &models.Client{
		OrganizationName: strings.TrimSpace(reg.OrganizationName),
		ContactName:      strings.TrimSpace(reg.ContactName),
		Email:            models.NormalizeEmail(reg.Email),
		PasswordHash:     hash,
		Phone:            reg.Phone,
		Website:          reg.Website,
		Industry:         reg.Industry,
		Description:      reg.Description,
		IsActive:         true,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	debug.Info("client %s registered", client.ID)
	s.activity.Track(ctx, &models.Actor{ID: client.ID, Role: models.RoleClient}, models.EventRegistration, nil, nil)
	return client, nil
}

// CreateAdmin creates an administrator. Used by the migrate CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, email, fullName, plain string) (*models.AdminUser, error) {
	if err := validation.ValidateVar("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := s.checkPolicy("password", plain); err != nil {
		return nil, err
	}
	hash, err := models.HashPassword(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.AdminUser{
		Email:        models.NormalizeEmail(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// lookupByEmail returns the shared account view and the full profile.
func (s *AuthService) lookupByEmail(ctx context.Context, role, email string) (*models.Account, interface{}, error) {
	switch role {
	case models.RoleAdmin:
		a, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return nil, nil, err
		}
		return a.Account(), a, nil
	case models.RoleClient:
		c, err := s.clients.GetByEmail(ctx, email)
		if err != nil {
			return nil, nil, err
		}
		return c.Account(), c, nil
	case models.RoleStudent:
		st, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return nil, nil, err
		}
		return st.Account(), st, nil
	}
	return nil, nil, fmt.Errorf("unknown role %q: %w", role, models.ErrInvalidInput)
}

// lookupByID returns the shared account view and the full profile.
func (s *AuthService) lookupByID(ctx context.Context, role string, id uuid.UUID) (*models.Account, interface{}, error) {
	switch role {
	case models.RoleAdmin:
		a, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return a.Account(), a, nil
	case models.RoleClient:
		c, err := s.clients.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return c.Account(), c, nil
	case models.RoleStudent:
		st, err := s.students.GetByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return st.Account(), st, nil
	}
	return nil, nil, fmt.Errorf("unknown role %q: %w", role, models.ErrInvalidInput)
}

// Login verifies credentials and issues a stored session token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, ip string) (*models.LoginResponse, error) {
	req.Email = models.NormalizeEmail(req.Email)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	account, user, err := s.lookupByEmail(ctx, req.Role, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			debug.Info("login failed for unknown %s account", req.Role)
			metrics.RecordLogin(req.Role, false)
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !account.CheckPassword(req.Password) {
		debug.Info("login failed for %s %s: wrong password", req.Role, account.ID)
		metrics.RecordLogin(req.Role, false)
		return nil, errInvalidCredentials
	}
	if !account.IsActive {
		metrics.RecordLogin(req.Role, false)
		return nil, models.ErrAccountDisabled
	}
	if account.MFAEnabled {
		if req.TOTPCode == "" {
			return nil, models.ErrMFARequired
		}
		if account.MFASecret == nil || !s.mfa.ValidateCode(*account.MFASecret, req.TOTPCode) {
			metrics.RecordLogin(req.Role, false)
			return nil, fmt.Errorf("invalid verification code: %w", models.ErrUnauthorized)
		}
	}

	token, err := jwt.GenerateToken(account.ID.String(), account.Role, s.expiryMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	stored := &models.AuthToken{
		SubjectID: account.ID,
		Role:      account.Role,
		Token:     token,
		ExpiresAt: s.now().Add(time.Duration(s.expiryMinutes) * time.Minute),
	}
	if err := s.tokens.Store(ctx, stored); err != nil {
		return nil, err
	}

	if err := s.updateLastLogin(ctx, account); err != nil {
		debug.Warning("failed to update last login for %s %s: %v", account.Role, account.ID, err)
	}
	metrics.RecordLogin(account.Role, true)
	actor := &models.Actor{ID: account.ID, Role: account.Role, IP: ip}
	s.activity.Track(ctx, actor, models.EventLogin, nil, nil)
	debug.Info("%s %s logged in", account.Role, account.ID)

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: stored.ExpiresAt,
		Role:      account.Role,
		User:      user,
	}, nil
}

func (s *AuthService) updateLastLogin(ctx context.Context, account *models.Account) error {
	switch account.Role {
	case models.RoleAdmin:
		return s.admins.UpdateLastLogin(ctx, account.ID)
	case models.RoleClient:
		return s.clients.UpdateLastLogin(ctx, account.ID)
	default:
		return s.students.UpdateLastLogin(ctx, account.ID)
	}
}

// Authenticate resolves a raw token to the calling actor. The token must
// verify, be stored and not be expired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Actor, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		debug.Debug("token rejected: %v", err)
		return nil, fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}

	stored, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("token revoked: %w", models.ErrUnauthorized)
		}
		return nil, err
	}
	if !stored.ExpiresAt.After(s.now()) {
		if err := s.tokens.Remove(ctx, token); err != nil && !errors.Is(err, models.ErrNotFound) {
			debug.Warning("failed to remove expired token: %v", err)
		}
		return nil, fmt.Errorf("token expired: %w", models.ErrUnauthorized)
	}

	subjectID, err := uuid.Parse(claims.UserID)
	if err != nil || subjectID != stored.SubjectID || claims.Role != stored.Role {
		return nil, fmt.Errorf("token does not match its session: %w", models.ErrUnauthorized)
	}

	if err := s.tokens.Touch(ctx, token); err != nil {
		debug.Debug("failed to touch token: %v", err)
	}
	return &models.Actor{ID: subjectID, Role: stored.Role}, nil
}

// Logout revokes the token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.Remove(ctx, token); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}

// Me returns the caller's own profile.
func (s *AuthService) Me(ctx context.Context, actor *models.Actor) (interface{}, error) {
	if actor == nil {
		return nil, models.ErrUnauthorized
	}
	_, user, err := s.lookupByID(ctx, actor.Role, actor.ID)
	return user, err
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor *models.Actor, req *models.PasswordChangeRequest) error {
	if actor == nil {
		return models.ErrUnauthorized
	}
	if err := validation.ValidateStruct(req); err != nil {
		return err
	}

	account, _, err := s.lookupByID(ctx, actor.Role, actor.ID)
	if err != nil {
		return err
	}
	if !account.CheckPassword(req.CurrentPassword) {
		return validation.NewFieldError("currentPassword", "Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return validation.NewFieldError("newPassword", "New password must differ from the current password")
	}
	if err := s.checkPolicy("newPassword", req.NewPassword); err != nil {
		return err
	}

	hash, err := models.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	switch actor.Role {
	case models.RoleAdmin:
		err = s.admins.UpdatePassword(ctx, actor.ID, hash)
	case models.RoleClient:
		err = s.clients.UpdatePassword(ctx, actor.ID, hash)
	default:
		err = s.students.UpdatePassword(ctx, actor.ID, hash)
	}
	if err != nil {
		return err
	}
	debug.Info("%s %s changed password", actor.Role, actor.ID)
	return nil
}
