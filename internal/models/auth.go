package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is an issued session token. Deleting the row revokes it.
type AuthToken struct {
	ID           uuid.UUID `json:"id"`
	SubjectID    uuid.UUID `json:"subjectId"`
	Role         string    `json:"role"`
	Token        string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin client student"`
	TOTPCode string `json:"totp_code,omitempty" validate:"omitempty,numeric,len=6"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Role      string      `json:"role"`
	User      interface{} `json:"user"`
}

// StudentRegistration is the body of POST /api/auth/register/student.
type StudentRegistration struct {
	StudentNumber  string   `json:"studentNumber" validate:"required,alphanum,min=3,max=20"`
	FirstName      string   `json:"firstName" validate:"required,max=100"`
	LastName       string   `json:"lastName" validate:"required,max=100"`
	Email          string   `json:"email" validate:"required,email,max=255"`
	Password       string   `json:"password" validate:"required"`
	Major          *string  `json:"major,omitempty" validate:"omitempty,max=100"`
	GraduationYear *int     `json:"graduationYear,omitempty" validate:"omitempty,min=2000,max=2100"`
	Skills         []string `json:"skills" validate:"max=30,dive,required,max=60"`
	Bio            *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// ClientRegistration is the body of POST /api/auth/register/client.
type ClientRegistration struct {
	OrganizationName string  `json:"organizationName" validate:"required,max=200"`
	ContactName      string  `json:"contactName" validate:"required,max=200"`
	Email            string  `json:"email" validate:"required,email,max=255"`
	Password         string  `json:"password" validate:"required"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Website          *string `json:"website,omitempty" validate:"omitempty,url,max=255"`
	Industry         *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// StudentProfileUpdate is the body of PUT /api/students/me.
type StudentProfileUpdate struct {
	FirstName      string   `json:"firstName" validate:"required,max=100"`
	LastName       string   `json:"lastName" validate:"required,max=100"`
	Major          *string  `json:"major,omitempty" validate:"omitempty,max=100"`
	GraduationYear *int     `json:"graduationYear,omitempty" validate:"omitempty,min=2000,max=2100"`
	Skills         []string `json:"skills" validate:"max=30,dive,required,max=60"`
	Bio            *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// ClientProfileUpdate is the body of PUT /api/clients/me.
type ClientProfileUpdate struct {
	OrganizationName string  `json:"organizationName" validate:"required,max=200"`
	ContactName      string  `json:"contactName" validate:"required,max=200"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Website          *string `json:"website,omitempty" validate:"omitempty,url,max=255"`
	Industry         *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// PasswordChangeRequest is the body of PUT /api/auth/password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// MFASetupResponse carries a freshly generated TOTP secret.
type MFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
	URL    string `json:"url"`
}

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role string
	IP   string
}

// IsAdmin reports whether the actor has the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Is reports whether the actor has the given role.
func (a *Actor) Is(role string) bool {
	return a != nil && a.Role == role
}
