// CLAUDE:SUMMARY World Bank v2 client: country list and country/indicator series, raw JSON, nil on non-200.
// Package indicator queries the World Bank statistics API.
//
// Responses are returned as parsed JSON with numbers kept as json.Number;
// no local schema is imposed. A non-200 answer is logged and reported as
// an absent result with a nil error.
package indicator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/fetch"
	"github.com/hazyhaar/findata/horosafe"
)

// ErrInvalidCode marks a country or indicator code that cannot be put in a
// request path. No request is made.
var ErrInvalidCode = errors.New("invalid code")

// DefaultBaseURL is the public World Bank v2 endpoint.
const DefaultBaseURL = "http://api.worldbank.org/v2/"

// Config configures the client.
type Config struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"` // Default: 30s.
	UserAgent string        `yaml:"user_agent" json:"user_agent"`

	Logger *slog.Logger `yaml:"-" json:"-"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = fetch.BrowserUserAgent
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client issues the two indicator requests. It holds no state between calls.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	log := cfg.Logger
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetQueryParam("format", "json")
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		log.Debug("indicator response",
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"duration", res.Time())
		return nil
	})
	return &Client{http: client, log: log}
}

// Countries lists countries: GET {base}/country?format=json.
func (c *Client) Countries(ctx context.Context) (any, error) {
	return c.get(ctx, "/country", nil)
}

// Series fetches one indicator for one country:
// GET {base}/country/{country}/indicator/{indicator}?format=json.
// Both codes must be plain identifiers (letters, digits, '.', '_', '-').
func (c *Client) Series(ctx context.Context, country, indicator string) (any, error) {
	if err := horosafe.ValidateIdentifier(country); err != nil {
		return nil, fmt.Errorf("country %w: %w", ErrInvalidCode, err)
	}
	if err := horosafe.ValidateIdentifier(indicator); err != nil {
		return nil, fmt.Errorf("indicator %w: %w", ErrInvalidCode, err)
	}
	return c.get(ctx, "/country/{country}/indicator/{indicator}", map[string]string{
		"country":   country,
		"indicator": indicator,
	})
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) (any, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParams(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", batch.ErrTransport, path, err)
	}
	if res.StatusCode() != http.StatusOK {
		c.log.Warn("indicator request failed", "url", res.Request.URL, "status", res.StatusCode())
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(res.Body()))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", batch.ErrParse, res.Request.URL, err)
	}
	return v, nil
}
