package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKeyTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DATABASE_DSN", "database.dsn"},
		{"QUEUE_URL", "queue.url"},
		{"QUEUE_NAME", "queue.name"},
		{"QUEUE_PREFETCH", "queue.prefetch"},
		{"LOG_PATH", "log.path"},
		{"QUEUE", "queue"}, // no section separator -> passthrough
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, envKeyTransform(tt.in), "envKeyTransform(%q)", tt.in)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "simulation_jobs", cfg.Queue.Name)
	assert.Equal(t, 1, cfg.Queue.Prefetch)
	assert.Contains(t, cfg.Database.DSN, "thermal_sim")
	assert.Empty(t, cfg.Log.Path)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "simulation_jobs", cfg.Queue.Name)
}

func TestLoadConfigYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.yaml")
	body := []byte("queue:\n  name: sim_jobs_test\n  prefetch: 4\nlog:\n  path: /tmp/worker.log\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sim_jobs_test", cfg.Queue.Name)
	assert.Equal(t, 4, cfg.Queue.Prefetch)
	assert.Equal(t, "/tmp/worker.log", cfg.Log.Path)
	// Untouched keys keep their defaults.
	assert.Contains(t, cfg.Database.DSN, "thermal_sim")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("THERMALSIM_QUEUE_NAME", "priority_jobs")
	t.Setenv("THERMALSIM_DATABASE_DSN", "user:pass@tcp(localhost:3306)/other")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "priority_jobs", cfg.Queue.Name)
	assert.Equal(t, "user:pass@tcp(localhost:3306)/other", cfg.Database.DSN)
}

func TestLoadConfigRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
