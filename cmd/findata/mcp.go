package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/findata/docfetch"
	"github.com/hazyhaar/findata/horosafe"
	"github.com/hazyhaar/findata/indicator"
	"github.com/hazyhaar/findata/kit"
	"github.com/hazyhaar/findata/pagescrape"
	"github.com/hazyhaar/findata/shield"
)

const version = "0.1.0"

func (a *app) mcpCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the flows as MCP tools (stdio, or streamable HTTP with --listen)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if listen == "" {
				srv := a.mcpServer("mcp_stdio")
				a.logger.Info("MCP stdio starting")
				if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
					return environment(err)
				}
				return nil
			}
			return a.serveHTTP(ctx, listen, a.mcpServer("mcp_http"))
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve streamable HTTP on this address (e.g. :8090)")
	return cmd
}

// mcpServer registers every flow's tools behind the transport and logging
// middlewares. Over HTTP the URLs come from remote callers, so fetches
// refuse private and loopback targets.
func (a *app) mcpServer(transport string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "findata", Version: version}, nil)
	mws := []kit.Middleware{kit.Transport(transport), kit.Logging(a.logger)}

	var validate func(string) error
	if transport == "mcp_http" {
		validate = horosafe.ValidateURL
	}

	dc := a.cfg.Documents.Config
	dc.Logger = a.logger
	dc.URLValidator = validate
	docfetch.New(dc).RegisterMCP(srv, mws...)

	pc := a.cfg.Pages.Config
	pc.Logger = a.logger
	pc.URLValidator = validate
	pagescrape.New(pc).RegisterMCP(srv, mws...)

	ic := a.cfg.Indicators
	ic.Logger = a.logger
	indicator.New(ic).RegisterMCP(srv, mws...)
	return srv
}

func (a *app) router(srv *mcp.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	for _, mw := range shield.Stack(a.logger) {
		r.Use(mw)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil))
	return r
}

func (a *app) serveHTTP(ctx context.Context, addr string, srv *mcp.Server) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           a.router(srv),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.logger.Info("MCP HTTP starting", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return environment(err)
	case <-ctx.Done():
	}
	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return environment(err)
	}
	return nil
}
