package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/appdiag/internal/config"
	"codeberg.org/mutker/appdiag/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "appdiag.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "debug"
settings_db = "/path/to/settings.db"
backup_dir = "/path/to/backups"
once = true
set = ['url="https://example.com"']

[app]
version = "1.2.3"
resources_path = "/opt/app/resources"
sandboxed = true
mas = false
windows_store = true
`)

	// Set environment variable to point to the test config file
	t.Setenv("APPDIAG_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, "/path/to/settings.db", cfg.SettingsDB)
	assert.Equal(t, "/path/to/backups", cfg.BackupDir)
	assert.True(t, cfg.Once, "Expected Once true")
	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, "/opt/app/resources", cfg.App.ResourcesPath)
	assert.True(t, cfg.App.Sandboxed)
	assert.False(t, cfg.App.MAS)
	assert.True(t, cfg.App.WindowsStore)

	assignments, err := cfg.Assignments()
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "url", assignments[0].Name)
	assert.JSONEq(t, `"https://example.com"`, string(assignments[0].Value))
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("APPDIAG_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.NotEmpty(t, cfg.SettingsDB)
	assert.Equal(t, "settings.db", filepath.Base(cfg.SettingsDB))
	assert.False(t, cfg.Once)
	assert.Empty(t, cfg.Set)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("APPDIAG_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("APPDIAG_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestFlagsOverrideFile(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "error"
set = ['memoryRefresh=60']
`)

	cfg, err := config.Load([]string{
		"--config", configPath,
		"--log-level", "debug",
		"--set", `customFlags={"disableGpu":true,"gpu":"a,b"}`,
		"--once",
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.True(t, cfg.Once)

	assignments, err := cfg.Assignments()
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "memoryRefresh", assignments[0].Name)
	assert.Equal(t, "customFlags", assignments[1].Name)
	assert.JSONEq(t, `{"disableGpu":true,"gpu":"a,b"}`, string(assignments[1].Value))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("APPDIAG_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APPDIAG_LOG_LEVEL", "warning")
	t.Setenv("APPDIAG_APP_VERSION", "9.9.9")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, "9.9.9", cfg.App.Version)
}

func TestInvalidAssignment(t *testing.T) {
	t.Setenv("APPDIAG_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := config.Load([]string{"--set", "url=not-json"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))

	_, err = config.Load([]string{"--set", "=1"})
	require.Error(t, err)
}

func TestUnknownFlag(t *testing.T) {
	_, err := config.Load([]string{"--no-such-flag"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}
