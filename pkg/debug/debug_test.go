package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	oldEnabled, oldLevel := IsEnabled, CurrentLevel
	t.Cleanup(func() {
		IsEnabled, CurrentLevel = oldEnabled, oldLevel
		Reinitialize()
	})

	IsEnabled = true
	CurrentLevel = LevelWarning

	Info("should be dropped")
	assert.Zero(t, buf.Len())

	Error("disk %s", "full")
	require.NotZero(t, buf.Len())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "disk full", line["message"])
}

func TestLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	oldEnabled := IsEnabled
	t.Cleanup(func() {
		IsEnabled = oldEnabled
		Reinitialize()
	})

	IsEnabled = false
	Error("nothing")
	assert.Zero(t, buf.Len())
}

func TestReinitializeReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEBUG", "true")
	Reinitialize()
	assert.True(t, IsEnabled)
	assert.Equal(t, LevelDebug, CurrentLevel)
	assert.Equal(t, "DEBUG", LevelName(CurrentLevel))

	t.Setenv("DEBUG", "0")
	Reinitialize()
	assert.False(t, IsEnabled)
}
