package pagescrape

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/findata/kit"
)

type runReq struct {
	URLs []string `json:"urls"`
}

type runResp struct {
	Entries  []Entry `json:"entries"`
	Failures int     `json:"failures"`
}

// RegisterMCP registers the pagescrape_run tool on an MCP server.
func (s *Scraper) RegisterMCP(srv *mcp.Server, mws ...kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "pagescrape_run",
		Description: "Scrape web pages for contact info, report links, tables, personnel and other categories. Returns one entry per URL, in order; failed URLs carry a null result.",
		InputSchema: kit.InputSchema(map[string]any{
			"urls": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Page URLs",
			},
		}, []string{"urls"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		q := req.(*runReq)
		if len(q.URLs) == 0 {
			return nil, errors.New("urls is required")
		}
		resp := &runResp{Entries: s.ScrapeAll(ctx, q.URLs)}
		for _, e := range resp.Entries {
			if e.Result == nil {
				resp.Failures++
			}
		}
		return resp, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Chain(mws...)(endpoint), kit.DecodeArgs[runReq])
}
