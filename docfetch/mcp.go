package docfetch

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/findata/batch"
	"github.com/hazyhaar/findata/kit"
)

// RegisterMCP registers the docfetch_run tool on an MCP server.
func (r *Retriever) RegisterMCP(srv *mcp.Server, mws ...kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "docfetch_run",
		Description: "Download PDF documents and dump their text and tables into the output directory. Returns one entry per URL, in order.",
		InputSchema: kit.InputSchema(map[string]any{
			"urls": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Document URLs",
			},
		}, []string{"urls"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		q := req.(*runReq)
		if len(q.URLs) == 0 {
			return nil, errors.New("urls is required")
		}
		if err := r.Prepare(); err != nil {
			return nil, err
		}
		var out runResp
		for o := range r.Run(ctx, q.URLs) {
			out.Results = append(out.Results, entryOf(o))
			if o.Failed() {
				out.Failures++
			}
		}
		return &out, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Chain(mws...)(endpoint), kit.DecodeArgs[runReq])
}

type runReq struct {
	URLs []string `json:"urls"`
}

type runResp struct {
	Results  []entry `json:"results"`
	Failures int     `json:"failures"`
}

type entry struct {
	URL    string  `json:"url"`
	Report *Report `json:"report,omitempty"`
	Kind   string  `json:"error_kind,omitempty"`
	Error  string  `json:"error,omitempty"`
}

func entryOf(o batch.Outcome[*Report]) entry {
	e := entry{URL: o.Key, Report: o.Value}
	if o.Err != nil {
		e.Kind = batch.Kind(o.Err)
		e.Error = o.Err.Error()
	}
	return e
}
