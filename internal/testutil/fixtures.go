package testutil

import (
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/google/uuid"
)

// Test JWT secret
const TestJWTSecret = "test-jwt-secret-for-testing-only"

// Default test passwords
const (
	DefaultTestPassword = "TestPassword123"
	WeakTestPassword    = "weak"
)

// MustHash returns a bcrypt hash or panics; fixtures only.
func MustHash(password string) string {
	hash, err := models.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

// NewAdmin returns an active admin with DefaultTestPassword.
func NewAdmin() *models.AdminUser {
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        "admin@test.edu",
		FullName:     "Test Admin",
		PasswordHash: MustHash(DefaultTestPassword),
		IsActive:     true,
	}
}

// NewClient returns an active client with DefaultTestPassword.
func NewClient() *models.Client {
	id := uuid.New()
	return &models.Client{
		ID:               id,
		OrganizationName: "Acme Robotics",
		ContactName:      "Ada Lovelace",
		Email:            "contact-" + id.String()[:8] + "@acme.test",
		PasswordHash:     MustHash(DefaultTestPassword),
		IsActive:         true,
	}
}

// NewStudent returns an active student with DefaultTestPassword.
func NewStudent() *models.Student {
	id := uuid.New()
	return &models.Student{
		ID:            id,
		StudentNumber: "S" + id.String()[:8],
		FirstName:     "Grace",
		LastName:      "Hopper",
		Email:         "student-" + id.String()[:8] + "@uni.test",
		PasswordHash:  MustHash(DefaultTestPassword),
		Skills:        []string{"go", "sql"},
		IsActive:      true,
	}
}

// NewProject returns a project owned by clientID in the given status.
func NewProject(clientID uuid.UUID, status models.ProjectStatus) *models.Project {
	now := time.Now()
	return &models.Project{
		ID:             uuid.New(),
		ClientID:       clientID,
		Title:          "Warehouse robot navigation",
		Description:    "Build a navigation stack for an autonomous warehouse robot.",
		RequiredSkills: []string{"go", "robotics"},
		TeamSize:       4,
		Status:         status,
		SubmittedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ValidProjectInput returns input that passes validation.
func ValidProjectInput() *models.ProjectInput {
	return &models.ProjectInput{
		Title:          "Campus energy dashboard",
		Description:    "Visualize live energy consumption across campus buildings.",
		RequiredSkills: []string{"javascript", "sql"},
		TeamSize:       5,
	}
}

// ActorFor builds an actor for tests.
func ActorFor(id uuid.UUID, role string) *models.Actor {
	return &models.Actor{ID: id, Role: role}
}
