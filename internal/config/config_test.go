package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "animus_logs.json", cfg.Collect.Output)
	assert.Equal(t, 48, cfg.Collect.HoursBack)
	assert.Equal(t, 500, cfg.Collect.MaxEvents)
	assert.True(t, cfg.Collect.IncludeSystem)
	assert.True(t, cfg.Collect.IncludeApplication)
	assert.False(t, cfg.Collect.IncludeSecurity, "Security log needs elevation, off by default")
	assert.Equal(t, 60, cfg.Collect.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Collect.SampleCap)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".animus.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
format: json
collect:
  hours_back: 12
  max_events: 100
  include_security: true
log:
  level: debug
  file: animus.log
`), 0o644))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, 12, cfg.Collect.HoursBack)
		assert.Equal(t, 100, cfg.Collect.MaxEvents)
		assert.True(t, cfg.Collect.IncludeSecurity)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "animus.log", cfg.Log.File)

		// Untouched keys keep their defaults
		assert.Equal(t, "animus_logs.json", cfg.Collect.Output)
		assert.True(t, cfg.Collect.IncludeSystem)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".animus.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: [unclosed"), 0o644))
		_, err := LoadFromFile(path)
		require.Error(t, err)
	})
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ANIMUS_FORMAT", "json")
	t.Setenv("ANIMUS_QUIET", "1")
	t.Setenv("ANIMUS_OUTPUT", "/tmp/custom.json")
	t.Setenv("ANIMUS_HOURS_BACK", "6")
	t.Setenv("ANIMUS_MAX_EVENTS", "not-a-number")

	cfg := Default()
	applyEnvOverrides(cfg)

	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "/tmp/custom.json", cfg.Collect.Output)
	assert.Equal(t, 6, cfg.Collect.HoursBack)
	assert.Equal(t, 500, cfg.Collect.MaxEvents, "invalid value is ignored")
}
