package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 2*time.Second, cfg.Client.PollInterval)
	assert.Equal(t, 20, cfg.Client.PageSize)
	assert.Equal(t, 300*time.Millisecond, cfg.Client.SearchDebounce)
	assert.False(t, cfg.Client.DiscardStale)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"bad scheme":     func(c *Config) { c.Client.BaseURL = "ftp://host" },
		"no host":        func(c *Config) { c.Client.BaseURL = "http://" },
		"zero interval":  func(c *Config) { c.Client.PollInterval = 0 },
		"zero page size": func(c *Config) { c.Client.PageSize = 0 },
		"bad storage":    func(c *Config) { c.Storage.Type = "sqlite" },
		"mongo no uri":   func(c *Config) { c.Storage.Type = "mongodb"; c.Storage.URI = "" },
		"bad level":      func(c *Config) { c.Logging.Level = "trace" },
		"bad format":     func(c *Config) { c.Logging.Format = "xml" },
		"bad port":       func(c *Config) { c.Server.Port = 70000 },
		"metrics port":   func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 },
		"bad webhook":    func(c *Config) { c.Client.ChangeWebhook = "mailto:ops" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrapewatch.yaml")
	yaml := []byte(`client:
  base_url: http://status.internal:8000
  poll_interval: 5s
  discard_stale: true
storage:
  type: mongodb
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	t.Setenv("SCRAPEWATCH_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://status.internal:8000", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.PollInterval)
	assert.True(t, cfg.Client.DiscardStale)
	assert.Equal(t, 20, cfg.Client.PageSize)
	assert.Equal(t, "mongodb", cfg.Storage.Type)
	assert.Equal(t, "scrapers_status", cfg.Storage.Collection)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, Validate(cfg))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
