package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/projects", "200"))
	RecordAPIRequest("GET", "/api/projects", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/projects", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("student", "failure"))
	RecordLogin("student", false)
	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("student", "failure")))
}

func TestRecordPurgeIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(MaintenanceRowsPurged.WithLabelValues("auth_tokens"))
	RecordPurge("auth_tokens", 0)
	RecordPurge("auth_tokens", 4)
	assert.Equal(t, before+4, testutil.ToFloat64(MaintenanceRowsPurged.WithLabelValues("auth_tokens")))
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}
