package kit

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	TransportKey contextKey = "kit_transport" // "mcp_stdio", "mcp_http"
	RequestIDKey contextKey = "kit_request_id"
	ToolKey      contextKey = "kit_tool"
	LoggerKey    contextKey = "kit_logger"

	HTTPRequestIDKey contextKey = "kit_http_request_id"
)

// HTTPRequestIDHeader carries the HTTP front's request id into tool calls.
const HTTPRequestIDHeader = "X-Request-ID"

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "mcp"
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

func WithTool(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ToolKey, name)
}
func GetTool(ctx context.Context) string {
	v, _ := ctx.Value(ToolKey).(string)
	return v
}

func WithHTTPRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, HTTPRequestIDKey, id)
}
func GetHTTPRequestID(ctx context.Context) string {
	v, _ := ctx.Value(HTTPRequestIDKey).(string)
	return v
}

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}

// LoggerFrom returns the request-scoped logger if one is attached. Otherwise
// it returns fallback, tagged with the HTTP request id when the call came
// through the HTTP front. A nil fallback means slog.Default().
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	if fallback == nil {
		fallback = slog.Default()
	}
	if id := GetHTTPRequestID(ctx); id != "" {
		return fallback.With("http_request_id", id)
	}
	return fallback
}
