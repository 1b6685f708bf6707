package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateBaseURL(cfg.Client.BaseURL); err != nil {
		return fmt.Errorf("client.base_url: %w", err)
	}
	if cfg.Client.PollInterval <= 0 {
		return fmt.Errorf("client.poll_interval must be > 0")
	}
	if cfg.Client.PageSize < 1 {
		return fmt.Errorf("client.page_size must be >= 1, got %d", cfg.Client.PageSize)
	}
	if cfg.Client.SearchDebounce < 0 {
		return fmt.Errorf("client.search_debounce must be >= 0")
	}
	if cfg.Client.RequestTimeout <= 0 {
		return fmt.Errorf("client.request_timeout must be > 0")
	}
	if cfg.Client.MaxBodySize <= 0 {
		return fmt.Errorf("client.max_body_size must be > 0")
	}
	if cfg.Client.ChangeWebhook != "" {
		if err := ValidateBaseURL(cfg.Client.ChangeWebhook); err != nil {
			return fmt.Errorf("client.change_webhook: %w", err)
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}

	switch cfg.Storage.Type {
	case "memory":
	case "mongodb":
		if cfg.Storage.URI == "" || cfg.Storage.Database == "" || cfg.Storage.Collection == "" {
			return fmt.Errorf("storage.uri, storage.database and storage.collection are required for mongodb")
		}
	default:
		return fmt.Errorf("storage.type %q is not supported (valid: memory, mongodb)", cfg.Storage.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateBaseURL checks that the status backend address is usable.
func ValidateBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
