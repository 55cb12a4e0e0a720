// CLAUDE:SUMMARY Transport-agnostic endpoint type, middleware chaining and the request logging middleware.
// Package kit holds the endpoint glue shared by every MCP tool.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint is a transport-agnostic handler.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(next Endpoint) Endpoint

// Chain composes middlewares; the first one is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging logs one line per call with the tool name, request id, duration
// and error, if any. A request-scoped logger in the context wins over logger.
func Logging(logger *slog.Logger) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			log := LoggerFrom(ctx, logger)
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"tool", GetTool(ctx),
				"transport", GetTransport(ctx),
				"request_id", GetRequestID(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				log.WarnContext(ctx, "tool call failed", append(attrs, "error", err)...)
			} else {
				log.InfoContext(ctx, "tool call", attrs...)
			}
			return resp, err
		}
	}
}

// Transport stamps the transport name on every call's context.
func Transport(name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			return next(WithTransport(ctx, name), req)
		}
	}
}
