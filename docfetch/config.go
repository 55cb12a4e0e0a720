package docfetch

import (
	"log/slog"
	"time"
)

// Config configures the document retriever.
type Config struct {
	// OutputDir receives the artifacts. Default: "pdf_dumps".
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	// Timeout bounds each download. Default: 10s.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// MaxBytes caps each download. Default: 100MB.
	MaxBytes int64 `yaml:"max_bytes" json:"max_bytes"`
	// UserAgent overrides the browser-like default.
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	// TablesFormat is "csv" (default) or "xlsx".
	TablesFormat TablesFormat `yaml:"tables_format" json:"tables_format"`
	// Layout tunes line and table reconstruction.
	Layout Layout `yaml:"layout" json:"layout"`

	// URLValidator checks each URL and redirect. Default: horosafe.ValidateHTTPURL.
	URLValidator func(string) error `yaml:"-" json:"-"`
	Logger       *slog.Logger       `yaml:"-" json:"-"`
}

func (c *Config) defaults() {
	if c.OutputDir == "" {
		c.OutputDir = "pdf_dumps"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.TablesFormat == "" {
		c.TablesFormat = FormatCSV
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.Layout.defaults()
}
