package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a capstone project.
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusApproved  ProjectStatus = "approved"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusInactive  ProjectStatus = "inactive"
	ProjectStatusRejected  ProjectStatus = "rejected"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// AllProjectStatuses in display order.
var AllProjectStatuses = []ProjectStatus{
	ProjectStatusPending,
	ProjectStatusApproved,
	ProjectStatusActive,
	ProjectStatusInactive,
	ProjectStatusRejected,
	ProjectStatusCompleted,
}

// projectTransitions lists every permitted edge of the lifecycle.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusPending:   {ProjectStatusApproved, ProjectStatusRejected},
	ProjectStatusRejected:  {ProjectStatusPending},
	ProjectStatusApproved:  {ProjectStatusActive, ProjectStatusInactive, ProjectStatusCompleted},
	ProjectStatusActive:    {ProjectStatusInactive, ProjectStatusCompleted},
	ProjectStatusInactive:  {ProjectStatusActive, ProjectStatusCompleted},
	ProjectStatusCompleted: {},
}

// ParseProjectStatus validates a raw status string.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	status := ProjectStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown project status %q: %w", s, ErrInvalidInput)
	}
	return status, nil
}

// IsValid reports whether s is a known status.
func (s ProjectStatus) IsValid() bool {
	_, ok := projectTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows s -> to.
func (s ProjectStatus) CanTransitionTo(to ProjectStatus) bool {
	for _, next := range projectTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s.
func (s ProjectStatus) NextStatuses() []ProjectStatus {
	return append([]ProjectStatus(nil), projectTransitions[s]...)
}

// IsBrowsable reports whether students can see and act on the project.
func (s ProjectStatus) IsBrowsable() bool {
	return s == ProjectStatusApproved || s == ProjectStatusActive
}

// IsOwnerEditable reports whether the owning client may edit or delete.
func (s ProjectStatus) IsOwnerEditable() bool {
	return s == ProjectStatusPending || s == ProjectStatusRejected
}

// IsReviewEdge reports whether s -> to is an approval decision, which only
// administrators may take.
func (s ProjectStatus) IsReviewEdge(to ProjectStatus) bool {
	return s == ProjectStatusPending && (to == ProjectStatusApproved || to == ProjectStatusRejected)
}

// Project is a capstone project submitted by a client.
type Project struct {
	ID              uuid.UUID     `json:"id"`
	ClientID        uuid.UUID     `json:"clientId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	RequiredSkills  []string      `json:"requiredSkills"`
	Industry        *string       `json:"industry,omitempty"`
	TeamSize        int           `json:"teamSize"`
	DurationWeeks   *int          `json:"durationWeeks,omitempty"`
	Deliverables    *string       `json:"deliverables,omitempty"`
	Status          ProjectStatus `json:"status"`
	RejectionReason *string       `json:"rejectionReason,omitempty"`
	AdminNotes      *string       `json:"adminNotes,omitempty"`
	SubmittedAt     time.Time     `json:"submittedAt"`
	ReviewedAt      *time.Time    `json:"reviewedAt,omitempty"`
	ReviewedBy      *uuid.UUID    `json:"reviewedBy,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	// Read-only fields populated by list/detail queries.
	ClientName    string `json:"clientName,omitempty"`
	InterestCount int    `json:"interestCount"`
}

// ProjectInput is the editable part of a project as submitted by a client.
type ProjectInput struct {
	Title          string   `json:"title" validate:"required,min=5,max=200"`
	Description    string   `json:"description" validate:"required,min=20,max=10000"`
	RequiredSkills []string `json:"requiredSkills" validate:"max=30,dive,required,max=60"`
	Industry       *string  `json:"industry,omitempty" validate:"omitempty,max=100"`
	TeamSize       int      `json:"teamSize" validate:"omitempty,min=1,max=20"`
	DurationWeeks  *int     `json:"durationWeeks,omitempty" validate:"omitempty,min=1,max=52"`
	Deliverables   *string  `json:"deliverables,omitempty" validate:"omitempty,max=5000"`
}

// Apply copies the input onto p.
func (in *ProjectInput) Apply(p *Project) {
	p.Title = in.Title
	p.Description = in.Description
	p.RequiredSkills = in.RequiredSkills
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	p.Industry = in.Industry
	p.TeamSize = in.TeamSize
	if p.TeamSize == 0 {
		p.TeamSize = DefaultTeamSize
	}
	p.DurationWeeks = in.DurationWeeks
	p.Deliverables = in.Deliverables
}

// DefaultTeamSize is used when a submission leaves the team size empty.
const DefaultTeamSize = 4

// Project sort orders accepted by search.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortTitle   = "title"
	SortPopular = "popular"
)

// ProjectFilter holds search criteria for project listings.
type ProjectFilter struct {
	Search   string
	Statuses []ProjectStatus
	Industry string
	Skill    string
	ClientID *uuid.UUID
	Sort     string
	Limit    int
	Offset   int
}

// ProjectStatusCount is one row of the dashboard breakdown.
type ProjectStatusCount struct {
	Status ProjectStatus `json:"status"`
	Count  int           `json:"count"`
}
