package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for scrapewatch.
type Config struct {
	Client  ClientConfig  `mapstructure:"client"  yaml:"client"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ClientConfig controls the dashboard client.
type ClientConfig struct {
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	PollInterval   time.Duration `mapstructure:"poll_interval"   yaml:"poll_interval"`
	PageSize       int           `mapstructure:"page_size"       yaml:"page_size"`
	SearchDebounce time.Duration `mapstructure:"search_debounce" yaml:"search_debounce"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`
	DiscardStale   bool          `mapstructure:"discard_stale"   yaml:"discard_stale"`
	UserAgent      string        `mapstructure:"user_agent"      yaml:"user_agent"`
	ChangeWebhook  string        `mapstructure:"change_webhook"  yaml:"change_webhook"`
}

// ServerConfig controls the development status backend.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      yaml:"port"`
	SeedFile string `mapstructure:"seed_file" yaml:"seed_file"`
	Web      bool   `mapstructure:"web"       yaml:"web"`
}

// StorageConfig selects where the status backend keeps scraper state.
type StorageConfig struct {
	Type       string `mapstructure:"type"       yaml:"type"` // memory, mongodb
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the Prometheus text endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			BaseURL:        "http://localhost:8080",
			PollInterval:   2 * time.Second,
			PageSize:       20,
			SearchDebounce: 300 * time.Millisecond,
			RequestTimeout: 10 * time.Second,
			MaxBodySize:    8 * 1024 * 1024, // 8MB
		},
		Server: ServerConfig{
			Port: 8080,
			Web:  true,
		},
		Storage: StorageConfig{
			Type:       "memory",
			URI:        "mongodb://localhost:27017",
			Database:   "scrapewatch",
			Collection: "scrapers_status",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
