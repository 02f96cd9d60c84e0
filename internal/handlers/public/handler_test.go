package public

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/capstonehub/backend/internal/handlers/handlertest"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func TestGetPublicSettings(t *testing.T) {
	e := handlertest.New(t)
	h := NewHandler(e.Settings, stubPinger{})

	rr := httptest.NewRecorder()
	h.GetPublicSettings(rr, httptest.NewRequest(http.MethodGet, "/api/settings/public", nil))

	var settings []models.ConfigSetting
	testutil.AssertDataResponse(t, rr, http.StatusOK, &settings)
	keys := make([]string, 0, len(settings))
	for _, s := range settings {
		assert.True(t, s.IsPublic)
		keys = append(keys, s.Key)
	}
	assert.ElementsMatch(t, []string{
		models.SettingMaxStudentInterests,
		models.SettingMaxStudentFavorites,
		models.SettingRegistrationOpen,
		models.SettingSiteName,
	}, keys)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantState  string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantState: "ok"},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantState: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(nil, stubPinger{err: tt.pingErr})
			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			var resp HealthResponse
			testutil.AssertJSONResponse(t, rr, tt.wantStatus, &resp)
			assert.Equal(t, tt.wantState, resp.Status)
		})
	}
}
