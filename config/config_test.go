package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, msg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Using default/environment configuration.", msg)
	assert.Equal(t, "8778", cfg.Server.Port)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "http://localhost:8778/api", cfg.Client.BaseURL)
	assert.Equal(t, "openkeep.db", filepath.Base(cfg.Database.Path))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  path: /tmp/notes-test.db
server:
  port: "9100"
  shutdown_timeout: 2s
logging:
  level: debug
`), 0o600))
	t.Setenv("OPENKEEP_SERVER_PORT", "9200")
	t.Setenv("OPENKEEP_METRICS_ENABLED", "false")

	cfg, msg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, msg, "custom.yaml")
	assert.Equal(t, "/tmp/notes-test.db", cfg.Database.Path)
	assert.Equal(t, "9200", cfg.Server.Port, "env overrides file")
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes.db"), ExpandTilde("~/notes.db"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
}
