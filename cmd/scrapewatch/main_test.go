package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/scrapewatch/internal/config"
)

func TestApplyClientOverrides(t *testing.T) {
	baseURL, pageSize, pollInterval, discardStale = "http://status.local:9000/", 50, "5s", true
	t.Cleanup(func() { baseURL, pageSize, pollInterval, discardStale = "", 0, "", false })

	cfg := config.DefaultConfig()
	require.NoError(t, applyClientOverrides(cfg))

	assert.Equal(t, "http://status.local:9000", cfg.Client.BaseURL)
	assert.Equal(t, 50, cfg.Client.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Client.PollInterval)
	assert.True(t, cfg.Client.DiscardStale)
}

func TestApplyClientOverridesBadInterval(t *testing.T) {
	pollInterval = "2x"
	t.Cleanup(func() { pollInterval = "" })

	cfg := config.DefaultConfig()
	err := applyClientOverrides(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --interval "2x"`)
	assert.Equal(t, config.DefaultConfig().Client.PollInterval, cfg.Client.PollInterval)

	_, err = loadConfig(applyClientOverrides)
	assert.Error(t, err)
}

func TestApplyServeOverrides(t *testing.T) {
	servePort, serveStore, serveNoWeb = 9001, "mongodb", true
	t.Cleanup(func() { servePort, serveStore, serveNoWeb = 0, "", false })

	cfg := config.DefaultConfig()
	require.NoError(t, applyServeOverrides(cfg))

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "mongodb", cfg.Storage.Type)
	assert.False(t, cfg.Server.Web)
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.log")
	logger, closeLog, err := setupLogger(&config.LoggingConfig{Level: "debug", Format: "json", Output: path}, true)
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
