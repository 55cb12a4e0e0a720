// CLAUDE:SUMMARY findata YAML configuration: flow sections, ledger path, log level, .env and FINDATA_* overrides, validation.
// CLAUDE:DEPENDS docfetch, pagescrape, indicator, horosafe
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/findata/docfetch"
	"github.com/hazyhaar/findata/horosafe"
	"github.com/hazyhaar/findata/indicator"
	"github.com/hazyhaar/findata/pagescrape"
)

// Environment variables that override the file.
const (
	EnvOutputDir        = "FINDATA_OUTPUT_DIR"
	EnvIndicatorBaseURL = "FINDATA_INDICATOR_BASE_URL"
	EnvLedger           = "FINDATA_LEDGER"
	EnvLogLevel         = "FINDATA_LOG_LEVEL"
)

// Config holds the full findata configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Documents  DocumentsConfig  `yaml:"documents"`
	Pages      PagesConfig      `yaml:"pages"`
	Indicators indicator.Config `yaml:"indicators"`
}

// LedgerConfig locates the run ledger. An empty path disables it.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// DocumentsConfig is the document retriever section.
type DocumentsConfig struct {
	URLs            []string `yaml:"urls"`
	docfetch.Config `yaml:",inline"`
}

// PagesConfig is the page scraper section.
type PagesConfig struct {
	URLs              []string `yaml:"urls"`
	pagescrape.Config `yaml:",inline"`
}

// DefaultConfig returns sane defaults with empty URL lists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Documents: DocumentsConfig{Config: docfetch.Config{
			OutputDir:    "pdf_dumps",
			Timeout:      10 * time.Second,
			TablesFormat: docfetch.FormatCSV,
		}},
		Pages: PagesConfig{Config: pagescrape.Config{
			Timeout: 30 * time.Second,
			Rules:   pagescrape.Rules{SocialPlatforms: pagescrape.DefaultSocialPlatforms},
		}},
		Indicators: indicator.Config{
			BaseURL: indicator.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. An empty path
// returns the defaults. The result is not validated: callers apply
// overrides first, then Validate.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads a dotenv file into the process environment without
// overwriting variables already set. A missing file is ignored unless
// required is true.
func LoadEnv(path string, required bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from FINDATA_* variables. lookup is
// os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.Documents.OutputDir = v
	}
	if v, ok := lookup(EnvIndicatorBaseURL); ok && v != "" {
		c.Indicators.BaseURL = v
	}
	if v, ok := lookup(EnvLedger); ok {
		c.Ledger.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate checks that values are sane. All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	d := c.Documents
	if d.OutputDir == "" {
		errs = append(errs, errors.New("documents.output_dir is required"))
	}
	if d.Timeout <= 0 {
		errs = append(errs, errors.New("documents.timeout must be > 0"))
	}
	if d.MaxBytes < 0 {
		errs = append(errs, errors.New("documents.max_bytes must be >= 0"))
	}
	if !d.TablesFormat.Valid() {
		errs = append(errs, fmt.Errorf("documents.tables_format %q unsupported (use csv or xlsx)", d.TablesFormat))
	}
	errs = append(errs, checkURLs("documents", d.URLs)...)

	p := c.Pages
	if p.Timeout <= 0 {
		errs = append(errs, errors.New("pages.timeout must be > 0"))
	}
	if p.MaxBytes < 0 {
		errs = append(errs, errors.New("pages.max_bytes must be >= 0"))
	}
	for i, s := range p.Rules.SocialPlatforms {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Errorf("pages.social_platforms[%d] is empty", i))
		}
	}
	errs = append(errs, checkURLs("pages", p.URLs)...)

	if err := horosafe.ValidateHTTPURL(c.Indicators.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("indicators.base_url: %w", err))
	}
	if c.Indicators.Timeout <= 0 {
		errs = append(errs, errors.New("indicators.timeout must be > 0"))
	}
	return errors.Join(errs...)
}

func checkURLs(section string, urls []string) []error {
	var errs []error
	for i, u := range urls {
		if err := horosafe.ValidateHTTPURL(u); err != nil {
			errs = append(errs, fmt.Errorf("%s.urls[%d]: %w", section, i, err))
		}
	}
	return errs
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}
