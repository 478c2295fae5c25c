package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c := Default()
	require.NoError(t, Load("", &c))

	assert.Equal(t, 8080, c.HTTP.Port)
	assert.Equal(t, "memory", c.Storage.Type)
	assert.Equal(t, 2500*time.Millisecond, c.Session.RevealDelay)
	assert.Equal(t, 60*time.Second, c.Questions.FetchTimeout)
	require.NoError(t, c.Validate())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
http:
  port: 9090
storage:
  type: redis
  redis:
    url: redis://cache:6379/1
session:
  revealdelay: 1s
`), 0o600)
	require.NoError(t, err)

	c := Default()
	require.NoError(t, Load(path, &c))

	assert.Equal(t, 9090, c.HTTP.Port)
	assert.Equal(t, "redis", c.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", c.Storage.Redis.URL)
	assert.Equal(t, 10, c.Storage.Redis.PoolSize)
	assert.Equal(t, time.Second, c.Session.RevealDelay)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: 9090\n"), 0o600))
	t.Setenv("TRIVIA_HTTP_PORT", "7070")
	t.Setenv("TRIVIA_LOG_LEVEL", "debug")
	t.Setenv("TRIVIA_SESSION_REVEALDELAY", "500ms")

	c := Default()
	require.NoError(t, Load(path, &c))

	assert.Equal(t, 7070, c.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, slog.LevelDebug, c.LogLevel())
	assert.Equal(t, 500*time.Millisecond, c.Session.RevealDelay)
}

func TestLoadMissingFile(t *testing.T) {
	c := Default()
	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &c)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"redis storage", func(c *Config) { c.Storage.Type = "redis" }, false},
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, true},
		{"zero reveal delay", func(c *Config) { c.Session.RevealDelay = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		c := Default()
		c.Log.Level = in
		assert.Equal(t, want, c.LogLevel(), in)
	}
}
