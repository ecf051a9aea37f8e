package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSyncRetries, "")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoad(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSyncRetries, "")
	dir := t.TempDir()

	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.Gantt.Title = "Shop launch"
	cfg.Sync.MaxRetries = 5
	cfg.Sync.Timeout = Duration{time.Minute}
	require.NoError(t, Save(dir, cfg))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_PartialFileFilledFromDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvSyncRetries, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("[gantt]\ntitle = \"Roadmap\"\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", cfg.Gantt.Title)
	assert.Equal(t, DefaultAxisFormat, cfg.Gantt.AxisFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultSyncTimeout, cfg.Sync.Timeout.Duration)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvSyncRetries, "7")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 7, cfg.Sync.MaxRetries)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(Path(dir), []byte("log_level = [\n"), 0644))
	_, err := Load(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(Path(dir), []byte("[sync]\ntimeout = \"soon\"\n"), 0644))
	_, err = Load(dir)
	assert.Error(t, err)
}
