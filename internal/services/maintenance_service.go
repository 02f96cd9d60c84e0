package services

import (
	"context"
	"time"

	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/robfig/cron/v3"
)

// Default schedules for the maintenance jobs.
const (
	TokenPurgeSchedule = "@hourly"
	LogPruneSchedule   = "0 3 * * *"
)

// jobTimeout bounds one run of a maintenance job.
const jobTimeout = 5 * time.Minute

// MaintenanceService runs periodic cleanup: expired session tokens and
// analytics, audit and error rows past their retention.
type MaintenanceService struct {
	tokens    TokenStore
	audit     AuditStore
	analytics AnalyticsStore
	errorLogs ErrorLogStore
	settings  *SettingsService
	cron      *cron.Cron
	now       func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(tokens TokenStore, audit AuditStore, analytics AnalyticsStore, errorLogs ErrorLogStore, settings *SettingsService) *MaintenanceService {
	return &MaintenanceService{
		tokens:    tokens,
		audit:     audit,
		analytics: analytics,
		errorLogs: errorLogs,
		settings:  settings,
		now:       time.Now,
	}
}

// Start schedules the jobs and runs a token purge immediately.
func (s *MaintenanceService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(TokenPurgeSchedule, s.runTokenPurge); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(LogPruneSchedule, s.runLogPrune); err != nil {
		return err
	}
	s.cron.Start()
	debug.Info("maintenance scheduler started (tokens %s, logs %s)", TokenPurgeSchedule, LogPruneSchedule)

	go s.runTokenPurge()
	return nil
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *MaintenanceService) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
		debug.Info("maintenance scheduler stopped")
	case <-ctx.Done():
		debug.Warning("maintenance scheduler did not stop before shutdown deadline")
	}
}

func (s *MaintenanceService) runTokenPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.PurgeExpiredTokens(ctx); err != nil {
		debug.Error("token purge failed: %v", err)
	}
}

func (s *MaintenanceService) runLogPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.PruneLogs(ctx); err != nil {
		debug.Error("log retention prune failed: %v", err)
	}
}

// PurgeExpiredTokens deletes sessions past their expiry.
func (s *MaintenanceService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.RecordPurge("auth_tokens", n)
	if n > 0 {
		debug.Info("purged %d expired tokens", n)
	}
	return n, nil
}

// PruneLogs deletes analytics, audit and error rows older than their
// configured retention. A retention of zero keeps rows forever.
func (s *MaintenanceService) PruneLogs(ctx context.Context) error {
	settings, err := s.settings.AppSettings(ctx)
	if err != nil {
		return err
	}

	jobs := []struct {
		table string
		days  int
		prune func(context.Context, time.Time) (int64, error)
	}{
		{"analytics_events", settings.AnalyticsRetentionDays, s.analytics.DeleteBefore},
		{"audit_logs", settings.AuditRetentionDays, s.audit.DeleteBefore},
		{"error_logs", settings.ErrorLogRetentionDays, s.errorLogs.DeleteBefore},
	}

	var firstErr error
	for _, job := range jobs {
		if job.days <= 0 {
			continue
		}
		cutoff := s.now().AddDate(0, 0, -job.days)
		n, err := job.prune(ctx, cutoff)
		if err != nil {
			debug.Error("failed to prune %s: %v", job.table, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		metrics.RecordPurge(job.table, n)
		debug.Info("pruned %d rows from %s older than %d days", n, job.table, job.days)
	}
	return firstErr
}
