package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/google/uuid"
)

// MaxAnalyticsDays bounds the window of the analytics report.
const MaxAnalyticsDays = 365

// ActivityService records audit rows, analytics events and error logs, and
// serves the admin reports built from them.
type ActivityService struct {
	audit     AuditStore
	analytics AnalyticsStore
	errors    ErrorLogStore
	now       func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(audit AuditStore, analytics AnalyticsStore, errorLogs ErrorLogStore) *ActivityService {
	return &ActivityService{
		audit:     audit,
		analytics: analytics,
		errors:    errorLogs,
		now:       time.Now,
	}
}

// Audit writes an audit row. A failed write is logged, not returned: the
// action it describes has already happened.
func (s *ActivityService) Audit(ctx context.Context, actor *models.Actor, action, entityType, entityID string, details interface{}) {
	entry := &models.AuditLog{
		ActorType:  "system",
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if actor != nil {
		entry.ActorType = actor.Role
		actorID := actor.ID
		entry.ActorID = &actorID
		if actor.IP != "" {
			ip := actor.IP
			entry.IPAddress = &ip
		}
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			debug.Warning("failed to encode audit details for %s %s: %v", action, entityID, err)
		} else {
			entry.Details = raw
		}
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		debug.Error("failed to write audit log %s for %s %s: %v", action, entityType, entityID, err)
	}
}

// Track records an analytics event. Failures are logged only.
func (s *ActivityService) Track(ctx context.Context, actor *models.Actor, eventType string, entityID *uuid.UUID, metadata interface{}) {
	event := &models.AnalyticsEvent{
		EventType: eventType,
		EntityID:  entityID,
	}
	if actor != nil {
		role := actor.Role
		actorID := actor.ID
		event.ActorType = &role
		event.ActorID = &actorID
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			event.Metadata = raw
		}
	}

	if err := s.analytics.Create(ctx, event); err != nil {
		debug.Error("failed to record analytics event %s: %v", eventType, err)
	}
}

// RecordError stores a server-side failure. Failures are logged only.
func (s *ActivityService) RecordError(ctx context.Context, entry *models.ErrorLog) {
	if err := s.errors.Create(ctx, entry); err != nil {
		debug.Error("failed to write error log for %s %s: %v", entry.Method, entry.Path, err)
	}
}

// AuditLogs lists audit rows matching filter, newest first.
func (s *ActivityService) AuditLogs(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	return s.audit.List(ctx, filter)
}

// ErrorLogs pages through stored error logs, newest first.
func (s *ActivityService) ErrorLogs(ctx context.Context, limit, offset int) ([]models.ErrorLog, int, error) {
	return s.errors.List(ctx, limit, offset)
}

// Summary aggregates analytics events over the last days days.
func (s *ActivityService) Summary(ctx context.Context, days int) (*models.AnalyticsSummary, error) {
	if days < 1 {
		days = 30
	}
	if days > MaxAnalyticsDays {
		days = MaxAnalyticsDays
	}
	since := s.now().AddDate(0, 0, -days)

	byType, err := s.analytics.CountByType(ctx, since)
	if err != nil {
		return nil, err
	}
	byDay, err := s.analytics.CountByDay(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.analytics.TopViewedProjects(ctx, since, 10)
	if err != nil {
		return nil, err
	}

	if byType == nil {
		byType = []models.EventTypeCount{}
	}
	if byDay == nil {
		byDay = []models.DailyEventCount{}
	}
	if top == nil {
		top = []models.ProjectViews{}
	}
	return &models.AnalyticsSummary{Days: days, ByType: byType, ByDay: byDay, TopView: top}, nil
}
