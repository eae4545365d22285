package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, Duration(30*time.Second), cfg.LockTimeout)
	assert.Equal(t, 50, cfg.MemoryWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mazemesh.yaml")
	data := `
database_url: postgres://localhost/mazes
lock_timeout: 90s
memory_window: 10
log_level: debug
log_format: text
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/mazes", cfg.DatabaseURL)
	assert.Equal(t, Duration(90*time.Second), cfg.LockTimeout)
	assert.Equal(t, 10, cfg.MemoryWindow)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().MemoryWindow, cfg.MemoryWindow)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mazemesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("memory_window: 10\nlock_timeout: 5s\n"), 0o600))

	t.Setenv(EnvMemoryWindow, "99")
	t.Setenv(EnvLockTimeout, "2m")
	t.Setenv(EnvDatabaseURL, "postgres://override/db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.MemoryWindow)
	assert.Equal(t, Duration(2*time.Minute), cfg.LockTimeout)
	assert.Equal(t, "postgres://override/db", cfg.DatabaseURL)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Setenv(EnvLockTimeout, "not-a-duration")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_BadYAMLDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mazemesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lock_timeout: banana\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
