package docfetch

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var testMCPImpl = &mcp.Implementation{Name: "docfetch-test", Version: "0.1.0"}

func mcpSession(t *testing.T, r *Retriever) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	r.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestMCP_Run(t *testing.T) {
	srv := docServer(t)
	dir := t.TempDir()
	session := mcpSession(t, New(Config{OutputDir: dir}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "docfetch_run",
		Arguments: map[string]any{"urls": []string{srv.URL + "/hello.pdf", srv.URL + "/gone.pdf"}},
	})
	require.NoError(t, err)
	require.NoError(t, result.GetError())

	var resp runResp
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &resp))
	require.Len(t, resp.Results, 2)
	require.Equal(t, 1, resp.Failures)
	require.Equal(t, filepath.Join(dir, "hello.pdf_text.txt"), resp.Results[0].Report.TextPath)
	require.Equal(t, "status", resp.Results[1].Kind)
}

func TestMCP_RunRequiresURLs(t *testing.T) {
	session := mcpSession(t, New(Config{OutputDir: t.TempDir()}))
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "docfetch_run",
		Arguments: map[string]any{"urls": []string{}},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
}
