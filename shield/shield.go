// CLAUDE:SUMMARY HTTP middleware for the MCP HTTP front: API security headers, JSON body cap, request id + per-request logger.
// CLAUDE:DEPENDS idgen, kit
// Package shield holds the HTTP middleware placed in front of the MCP
// streamable HTTP handler.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range shield.Stack(logger) {
//	    r.Use(mw)
//	}
package shield

import (
	"log/slog"
	"net/http"

	"github.com/hazyhaar/findata/idgen"
	"github.com/hazyhaar/findata/kit"
)

// RequestIDHeader carries the request id back to the caller and on to the
// MCP tool handlers.
const RequestIDHeader = kit.HTTPRequestIDHeader

// DefaultMaxBody caps request bodies: MCP calls carry URL lists, not documents.
const DefaultMaxBody = 1 << 20

// HeaderConfig defines the security headers applied to every response.
type HeaderConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
}

// APIHeaders is the header set for a JSON-only endpoint: nothing may be
// framed, embedded or sniffed.
func APIHeaders() HeaderConfig {
	return HeaderConfig{
		CSP:                 "default-src 'none'; frame-ancestors 'none'",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "no-referrer",
	}
}

// SecurityHeaders sets the configured headers on every response.
func SecurityHeaders(cfg HeaderConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range map[string]string{
				"Content-Security-Policy": cfg.CSP,
				"X-Frame-Options":         cfg.XFrameOptions,
				"X-Content-Type-Options":  cfg.XContentTypeOptions,
				"Referrer-Policy":         cfg.ReferrerPolicy,
			} {
				if v != "" {
					h.Set(k, v)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaxBody limits every request body to maxBytes. Reads past the limit fail
// and the handler answers 413.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID tags each request with an id and logs it at debug level. The id
// replaces any inbound X-Request-ID, goes back on the response, and tags
// the per-request logger stored with kit.WithLogger.
func RequestID(logger *slog.Logger, gen idgen.Generator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if gen == nil {
		gen = idgen.Prefixed("http_", idgen.Default)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := gen()
			w.Header().Set(RequestIDHeader, id)
			r.Header.Set(RequestIDHeader, id)
			log := logger.With(
				"http_request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			log.Debug("request")
			next.ServeHTTP(w, r.WithContext(kit.WithLogger(r.Context(), log)))
		})
	}
}

// Stack is the middleware chain for the MCP HTTP front, outermost first.
func Stack(logger *slog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestID(logger, nil),
		SecurityHeaders(APIHeaders()),
		MaxBody(DefaultMaxBody),
	}
}
