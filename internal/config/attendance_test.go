package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/timeclock/internal/attendance"
)

func TestLoadAttendanceDefaults(t *testing.T) {
	t.Setenv("TIMEZONE", "")
	t.Setenv("TOLERANCE_MINUTES", "")
	t.Setenv("SCHEDULE_FILE", "")

	att, err := LoadAttendance()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, att.Location.String())
	assert.Equal(t, attendance.DefaultTolerance, att.Tolerance)
	assert.Nil(t, att.Slots)
}

func TestLoadAttendanceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	doc := `timezone: America/Sao_Paulo
tolerance_minutes: 10
schedule:
  - event: Entrada
    time: "07:30"
  - event: Saída
    time: "17:30"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TOLERANCE_MINUTES", "3")
	t.Setenv("SCHEDULE_FILE", path)

	att, err := LoadAttendance()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", att.Location.String())
	assert.Equal(t, 10, att.Tolerance)
	require.Len(t, att.Slots, 2)

	sched, err := attendance.ParseSchedule(att.Slots)
	require.NoError(t, err)
	assert.Equal(t, "17:30", sched[1].Clock())
}

func TestLoadAttendanceErrors(t *testing.T) {
	t.Setenv("SCHEDULE_FILE", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := LoadAttendance()
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TOLERANCE_MINUTES", "-1")
	_, err = LoadAttendance()
	assert.Error(t, err)

	t.Setenv("TOLERANCE_MINUTES", "")
	t.Setenv("SCHEDULE_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadAttendance()
	assert.Error(t, err)
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 5*time.Second, cfg.TTL)
}

func TestCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", " get, head ,")
	cfg := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
}
