package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	mcp_internal "github.com/huangsam/repopulse/internal/mcp"
	"github.com/huangsam/repopulse/schema"
)

func callTool(t *testing.T, cfg *contract.Config, client *contract.MockUpstreamClient, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	svc := core.NewDashboardService(nil, client)
	s := mcp_internal.NewMCPServer(cfg, svc)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{Repository: "acme/widgets", Token: "ghp_test"}

	t.Run("get_dashboard invalid view", func(t *testing.T) {
		res := callTool(t, baseCfg, &contract.MockUpstreamClient{}, "get_dashboard", map[string]any{"view": "bogus"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "invalid view")
	})

	t.Run("get_dashboard invalid start date", func(t *testing.T) {
		res := callTool(t, baseCfg, &contract.MockUpstreamClient{}, "get_dashboard", map[string]any{"start_date": "last tuesday"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid start_date")
	})

	t.Run("get_dashboard without credential", func(t *testing.T) {
		cfg := &contract.Config{Repository: "acme/widgets"}
		res := callTool(t, cfg, &contract.MockUpstreamClient{}, "get_dashboard", map[string]any{
			"start_date": "2025-03-01",
			"end_date":   "2025-03-31",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "token is required")
	})
}

func TestMCPServerHandlers_Dashboard(t *testing.T) {
	baseCfg := &contract.Config{Repository: "acme/widgets", Token: "ghp_test"}
	created := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	client := &contract.MockUpstreamClient{}
	client.On("FetchRange", mock.Anything, "ghp_test", "acme", "widgets", mock.Anything, mock.Anything).Return(schema.RecordSet{
		Issues: []schema.Issue{{Number: 1, Title: "crash", State: schema.StateOpen, CreatedAt: created, Author: "alice"}},
	}, nil)

	res := callTool(t, baseCfg, client, "get_dashboard", map[string]any{
		"start_date": "2025-03-01",
		"end_date":   "2025-03-31",
		"view":       "kpis",
	})
	require.False(t, res.IsError, resultText(res))

	var got struct {
		KPIs schema.KPIs          `json:"kpis"`
		Meta schema.DashboardMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	assert.Equal(t, 1, got.KPIs.TotalIssues)
	assert.Equal(t, 1, got.KPIs.OpenIssues)
	assert.Equal(t, "acme/widgets", got.Meta.Repository)
	client.AssertExpectations(t)
}

func TestMCPServerHandlers_CacheStatus(t *testing.T) {
	res := callTool(t, &contract.Config{}, &contract.MockUpstreamClient{}, "get_cache_status", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), `"backend": "none"`)
}
