package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("AIRHOCKEY_TEST_KEY", "set")

	assert.Equal(t, "set", GetEnv("AIRHOCKEY_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("AIRHOCKEY_TEST_MISSING", "fallback"))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("AIRHOCKEY_TEST_IDLE", "90s")
	t.Setenv("AIRHOCKEY_TEST_BAD", "soon")

	assert.Equal(t, 90*time.Second, GetEnvDuration("AIRHOCKEY_TEST_IDLE", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("AIRHOCKEY_TEST_BAD", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("AIRHOCKEY_TEST_MISSING", time.Minute))
}

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())

	assert.InDelta(t, 4.0/3.0, d.Height(), 1e-9)
	assert.Equal(t, time.Second/60, d.TickPeriod())
}

func TestParseTuningOverlaysDefaults(t *testing.T) {
	got, err := ParseTuning([]byte(`
stick_move_power: 10
puck:
  radius: 0.03
  friction: 0.2
  mass: 2
puck_respawn_delay: 2s
`))
	require.NoError(t, err)

	want := Default()
	want.StickMovePower = 10
	want.Puck = Body{Radius: 0.03, Friction: 0.2, Mass: 2}
	want.PuckRespawnDelay = 2 * time.Second

	assert.Equal(t, want, got)
}

func TestParseTuningEmpty(t *testing.T) {
	got, err := ParseTuning(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestParseTuningErrors(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"unknown key", "stick_speed: 3", false},
		{"bad yaml", "tick_rate: [", false},
		{"zero tick rate", "tick_rate: 0", true},
		{"consumption above one", "wall_consumption: 1.5", true},
		{"gate wider than rink", "gate_width: 0.95", true},
		{"massless puck", "puck: {radius: 0.02, mass: 0}", true},
		{"negative friction", "stick: {radius: 0.05, mass: 1, friction: -1}", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseTuning([]byte(c.yaml))
			require.Error(t, err)
			assert.Equal(t, c.invalid, errors.Is(err, ErrInvalidTuning))
		})
	}
}

func TestLoadTuning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wall_consumption: 0.5\n"), 0o644))

	got, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.WallConsumption)

	_, err = LoadTuning(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stick_move_power: 5\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("stick_move_power: 7\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case tuning := <-w.Updates:
			if tuning.StickMovePower == 7 {
				return
			}
		case err := <-w.Errors:
			t.Fatalf("unexpected watch error: %v", err)
		case <-timeout:
			t.Fatal("no reload within timeout")
		}
	}
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: 60\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("tick_rate: -1\n"), 0o644))

	select {
	case err := <-w.Errors:
		assert.ErrorIs(t, err, ErrInvalidTuning)
	case tuning := <-w.Updates:
		t.Fatalf("invalid tuning delivered: %+v", tuning)
	case <-time.After(5 * time.Second):
		t.Fatal("no error within timeout")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Updates
	assert.False(t, ok)
}

func TestNewLoggerLevelFromEnv(t *testing.T) {
	cases := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"shouting", false},
	}

	for _, c := range cases {
		t.Run(c.level, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", c.level)

			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Debug("tick")
			logger.Info("goal")

			assert.Equal(t, c.wantDebug, strings.Contains(buf.String(), "tick"))
			assert.Contains(t, buf.String(), "goal")
		})
	}
}
