package models

import (
	"time"

	"github.com/google/uuid"
)

// StudentInterest records that a student wants to work on a project.
// Withdrawn interests keep their row with IsActive=false.
type StudentInterest struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"studentId"`
	ProjectID uuid.UUID `json:"projectId"`
	Message   *string   `json:"message,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProjectTitle  string        `json:"projectTitle,omitempty"`
	ProjectStatus ProjectStatus `json:"projectStatus,omitempty"`
	ClientName    string        `json:"clientName,omitempty"`
}

// InterestedStudent is the view a project owner gets of an interest.
type InterestedStudent struct {
	InterestID     uuid.UUID `json:"interestId"`
	StudentID      uuid.UUID `json:"studentId"`
	StudentNumber  string    `json:"studentNumber"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Major          *string   `json:"major,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	Skills         []string  `json:"skills"`
	Message        *string   `json:"message,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StudentFavorite is a bookmarked project.
type StudentFavorite struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"studentId"`
	ProjectID uuid.UUID `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`

	ProjectTitle  string        `json:"projectTitle,omitempty"`
	ProjectStatus ProjectStatus `json:"projectStatus,omitempty"`
	ClientName    string        `json:"clientName,omitempty"`
}

// MaxInterestMessageLength bounds the note attached to an interest.
const MaxInterestMessageLength = 1000
