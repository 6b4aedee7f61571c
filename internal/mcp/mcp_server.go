// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// viewNames lists the accepted values of the view argument.
func viewNames() []string {
	names := make([]string, 0, len(schema.ValidReportViews))
	for v := range schema.ValidReportViews {
		names = append(names, string(v))
	}
	sort.Strings(names)
	return names
}

// NewMCPServer initializes and configures the repopulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, svc *core.DashboardService) *server.MCPServer {
	s := server.NewMCPServer(
		"Repopulse Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		svc:     svc,
		now:     time.Now,
	}

	// --- 1. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Build the issue and pull request dashboard for a repository and date range."),
		mcp.WithString("repository", mcp.Description("Repository as owner/name (defaults to the configured repository).")),
		mcp.WithString("start_date", mcp.Description("Range start: RFC3339, YYYY-MM-DD, or 'N days ago'.")),
		mcp.WithString("end_date", mcp.Description("Range end: RFC3339, YYYY-MM-DD, or 'N days ago'.")),
		mcp.WithString("view", mcp.Description("Return a single view instead of the full dashboard. Defaults to 'all'."), mcp.Enum(viewNames()...)),
	), h.handleGetDashboard)

	// --- 2. Tool: get_cache_status ---
	s.AddTool(mcp.NewTool("get_cache_status",
		mcp.WithDescription("Report the snapshot cache backend, covered range and record counts."),
	), h.handleGetCacheStatus)

	return s
}

// StartMCPServer starts the repopulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, svc *core.DashboardService) error {
	s := NewMCPServer(baseCfg, svc)
	return server.ServeStdio(s)
}
