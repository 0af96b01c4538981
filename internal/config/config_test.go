package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()

	dir := filepath.Join(home, ".config", "jobgate")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.StaleAfter)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 4, cfg.StopConcurrency)
	assert.Equal(t, filepath.Join(home, ".config", "jobgate", "plans.toml"), cfg.PlansPath)
	assert.Equal(t, filepath.Join(home, ".config", "jobgate", "secrets"), cfg.SecretsDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, SecretsBackendFile, cfg.SecretsBackend)
	assert.ErrorContains(t, cfg.RequireService(), "account.id, service.base_url")
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[account]
id = "acct-42"

[service]
base_url = "https://jobs.example.com/api"
request_timeout = "3s"

[poll]
interval = "30s"

[stop]
concurrency = 8
`)
	t.Setenv("JG_SERVICE_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("JG_ADMISSION_STALE_AFTER", "1s")
	t.Setenv("JG_TOKEN", "env-token")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "acct-42", cfg.AccountID)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Second, cfg.StaleAfter)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 8, cfg.StopConcurrency)
	assert.Equal(t, "env-token", cfg.Token)
	assert.NoError(t, cfg.RequireService())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[poll]
interval = "0s"

[stop]
concurrency = 0

[secrets]
backend = "vault"
`)

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "poll.interval must be positive")
	assert.ErrorContains(t, err, "stop.concurrency must be at least 1")
	assert.ErrorContains(t, err, `secrets.backend must be "file" or "pass", got "vault"`)
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[account\nid = ")

	_, err := Load(viper.New())
	require.ErrorContains(t, err, "read config file")
}
