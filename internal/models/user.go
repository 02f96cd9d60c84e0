package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Roles carried in session tokens.
const (
	RoleAdmin   = "admin"
	RoleClient  = "client"
	RoleStudent = "student"
)

// IsValidRole reports whether role is one of the known account roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleClient, RoleStudent:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Account is the part of every principal the auth flow needs.
type Account struct {
	ID           uuid.UUID
	Role         string
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	MFAEnabled   bool
	MFASecret    *string
}

// CheckPassword verifies a plain password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(a.PasswordHash, password)
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a bcrypt hash with a candidate password.
func CheckPasswordHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminUser is a platform administrator.
type AdminUser struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"isActive"`
	MFAEnabled   bool       `json:"mfaEnabled"`
	MFASecret    *string    `json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Account adapts the admin to the shared auth view.
func (a *AdminUser) Account() *Account {
	return &Account{
		ID:           a.ID,
		Role:         RoleAdmin,
		Email:        a.Email,
		DisplayName:  a.FullName,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		MFAEnabled:   a.MFAEnabled,
		MFASecret:    a.MFASecret,
	}
}

// Client is an industry organization that submits capstone projects.
type Client struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationName string     `json:"organizationName"`
	ContactName      string     `json:"contactName"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Phone            *string    `json:"phone,omitempty"`
	Website          *string    `json:"website,omitempty"`
	Industry         *string    `json:"industry,omitempty"`
	Description      *string    `json:"description,omitempty"`
	IsActive         bool       `json:"isActive"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	ProjectCount int `json:"projectCount,omitempty"`
}

// Account adapts the client to the shared auth view.
func (c *Client) Account() *Account {
	return &Account{
		ID:           c.ID,
		Role:         RoleClient,
		Email:        c.Email,
		DisplayName:  c.OrganizationName,
		PasswordHash: c.PasswordHash,
		IsActive:     c.IsActive,
	}
}

// Student is a capstone student browsing projects.
type Student struct {
	ID             uuid.UUID  `json:"id"`
	StudentNumber  string     `json:"studentNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Major          *string    `json:"major,omitempty"`
	GraduationYear *int       `json:"graduationYear,omitempty"`
	Skills         []string   `json:"skills"`
	Bio            *string    `json:"bio,omitempty"`
	IsActive       bool       `json:"isActive"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// FullName joins first and last name.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Account adapts the student to the shared auth view.
func (s *Student) Account() *Account {
	return &Account{
		ID:           s.ID,
		Role:         RoleStudent,
		Email:        s.Email,
		DisplayName:  s.FullName(),
		PasswordHash: s.PasswordHash,
		IsActive:     s.IsActive,
	}
}

// UserFilter narrows admin listings of clients and students.
type UserFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}
