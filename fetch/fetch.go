// CLAUDE:SUMMARY Single-GET HTTP fetcher with timeout, browser User-Agent, redirect checks, bounded body and classified errors.
// Package fetch performs the one unauthenticated GET every flow starts with.
//
// Failures come back as *Error wrapping batch.ErrTransport or batch.ErrStatus,
// so callers classify them with errors.Is.
package fetch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/horosafe"
)

// BrowserUserAgent is sent by default. Some publishers refuse Go's default agent.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Result contains the outcome of a fetch.
type Result struct {
	URL         string // final URL after redirects
	Body        []byte
	StatusCode  int
	ContentType string
	Hash        string // SHA-256 of body
}

// Error is a failed fetch.
type Error struct {
	URL        string
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: http %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config configures the fetcher.
type Config struct {
	Timeout  time.Duration // HTTP timeout. Default: 10s.
	MaxBytes int64         // Max response body size. Default: 100MB.
	// UserAgent sent with requests. Default: BrowserUserAgent.
	UserAgent string
	// URLValidator checks URLs before the request and on every redirect.
	// Default: horosafe.ValidateHTTPURL.
	URLValidator func(string) error
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 100 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = BrowserUserAgent
	}
	if c.URLValidator == nil {
		c.URLValidator = horosafe.ValidateHTTPURL
	}
}

// Fetcher performs HTTP GET requests.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher that validates every redirect hop.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	validate := cfg.URLValidator
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := validate(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch retrieves url. Any status outside 2xx is an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	if err := f.config.URLValidator(url); err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("%w: %w", batch.ErrTransport, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("%w: new request: %w", batch.ErrTransport, err)}
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("%w: %w", batch.ErrTransport, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: http %d", batch.ErrStatus, resp.StatusCode),
		}
	}

	body, err := horosafe.LimitedReadAll(resp.Body, f.config.MaxBytes)
	if err != nil {
		return nil, &Error{URL: url, Err: fmt.Errorf("%w: read body: %w", batch.ErrTransport, err)}
	}

	h := sha256.Sum256(body)
	return &Result{
		URL:         resp.Request.URL.String(),
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Hash:        fmt.Sprintf("%x", h),
	}, nil
}
