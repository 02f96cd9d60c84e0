package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit actions.
const (
	AuditProjectSubmitted     = "project.submitted"
	AuditProjectUpdated       = "project.updated"
	AuditProjectStatusChanged = "project.status_changed"
	AuditProjectDeleted       = "project.deleted"
	AuditInterestExpressed    = "interest.expressed"
	AuditInterestWithdrawn    = "interest.withdrawn"
	AuditAccountStatusChanged = "account.status_changed"
	AuditSettingUpdated       = "setting.updated"
	AuditGalleryCreated       = "gallery.created"
	AuditGalleryUpdated       = "gallery.updated"
	AuditGalleryDeleted       = "gallery.deleted"
	AuditMFAEnabled           = "mfa.enabled"
	AuditMFADisabled          = "mfa.disabled"
)

// Entity types referenced by audit rows.
const (
	EntityProject  = "project"
	EntityInterest = "interest"
	EntityStudent  = "student"
	EntityClient   = "client"
	EntityAdmin    = "admin"
	EntitySetting  = "setting"
	EntityGallery  = "gallery"
)

// Analytics event types.
const (
	EventLogin             = "login"
	EventRegistration      = "registration"
	EventProjectView       = "project_view"
	EventProjectSearch     = "project_search"
	EventInterestExpressed = "interest_expressed"
	EventFavoriteAdded     = "favorite_added"
)

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID         uuid.UUID       `json:"id"`
	ActorType  string          `json:"actorType"`
	ActorID    *uuid.UUID      `json:"actorId,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPAddress  *string         `json:"ipAddress,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	EntityType string
	EntityID   string
	ActorID    *uuid.UUID
	Action     string
	Limit      int
	Offset     int
}

// ErrorLog records a server-side failure surfaced to a client.
type ErrorLog struct {
	ID         uuid.UUID  `json:"id"`
	RequestID  string     `json:"requestId"`
	Method     string     `json:"method"`
	Path       string     `json:"path"`
	StatusCode int        `json:"statusCode"`
	Message    string     `json:"message"`
	ActorType  *string    `json:"actorType,omitempty"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// AnalyticsEvent is one usage event.
type AnalyticsEvent struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"eventType"`
	ActorType *string         `json:"actorType,omitempty"`
	ActorID   *uuid.UUID      `json:"actorId,omitempty"`
	EntityID  *uuid.UUID      `json:"entityId,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// EventTypeCount aggregates events by type.
type EventTypeCount struct {
	EventType string `json:"eventType"`
	Count     int    `json:"count"`
}

// DailyEventCount aggregates events by calendar day.
type DailyEventCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// AnalyticsSummary is the admin analytics report.
type AnalyticsSummary struct {
	Days    int               `json:"days"`
	ByType  []EventTypeCount  `json:"byType"`
	ByDay   []DailyEventCount `json:"byDay"`
	TopView []ProjectViews    `json:"topViewed"`
}

// ProjectViews counts project_view events for one project.
type ProjectViews struct {
	ProjectID uuid.UUID `json:"projectId"`
	Title     string    `json:"title"`
	Views     int       `json:"views"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	ProjectsByStatus map[ProjectStatus]int `json:"projectsByStatus"`
	TotalProjects    int                   `json:"totalProjects"`
	Students         int                   `json:"students"`
	ActiveStudents   int                   `json:"activeStudents"`
	Clients          int                   `json:"clients"`
	ActiveClients    int                   `json:"activeClients"`
	ActiveInterests  int                   `json:"activeInterests"`
	Favorites        int                   `json:"favorites"`
	GalleryItems     int                   `json:"galleryItems"`
}
