package indicator

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/findata/kit"
)

// RegisterMCP registers indicator tools on an MCP server.
func (c *Client) RegisterMCP(srv *mcp.Server, mws ...kit.Middleware) {
	c.registerCountriesTool(srv, kit.Chain(mws...))
	c.registerSeriesTool(srv, kit.Chain(mws...))
}

// dataResp wraps a response; Available is false when the API answered
// with a non-200 status.
type dataResp struct {
	Available bool `json:"available"`
	Data      any  `json:"data"`
}

func wrap(v any, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return &dataResp{Available: v != nil, Data: v}, nil
}

// --- countries ---

type countriesReq struct{}

func (c *Client) registerCountriesTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "indicator_countries",
		Description: "List countries known to the World Bank API (first page, raw JSON).",
		InputSchema: kit.InputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		return wrap(c.Countries(ctx))
	}
	kit.RegisterMCPTool(srv, tool, mw(endpoint), kit.DecodeArgs[countriesReq])
}

// --- series ---

type seriesReq struct {
	Country   string `json:"country"`
	Indicator string `json:"indicator"`
}

func (c *Client) registerSeriesTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "indicator_series",
		Description: "Fetch one World Bank indicator series for one country, e.g. USA / NY.GDP.MKTP.CD.",
		InputSchema: kit.InputSchema(map[string]any{
			"country":   map[string]any{"type": "string", "description": "ISO3 country code"},
			"indicator": map[string]any{"type": "string", "description": "Indicator code"},
		}, []string{"country", "indicator"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*seriesReq)
		return wrap(c.Series(ctx, r.Country, r.Indicator))
	}
	kit.RegisterMCPTool(srv, tool, mw(endpoint), kit.DecodeArgs[seriesReq])
}
