package pagescrape

import (
	"log/slog"
	"time"
)

// Config configures the page scraper.
type Config struct {
	// Timeout bounds each page request. Default: 30s.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// MaxBytes caps each page body. Default: 10MB.
	MaxBytes int64 `yaml:"max_bytes" json:"max_bytes"`
	// UserAgent overrides the browser-like default.
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	Rules     Rules  `yaml:",inline" json:"rules"`

	// URLValidator checks each URL and redirect. Default: horosafe.ValidateHTTPURL.
	URLValidator func(string) error `yaml:"-" json:"-"`
	Logger       *slog.Logger       `yaml:"-" json:"-"`
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
