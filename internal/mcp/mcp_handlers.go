package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/outwriter"
	"github.com/huangsam/repopulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	svc     *core.DashboardService
	now     func() time.Time
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if r := request.GetString("repository", ""); r != "" {
		cfg.Repository = r
	}
	now := h.now()
	if s := request.GetString("start_date", ""); s != "" {
		t, err := contract.ParseDateInput(s, now, false)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid start_date: %v", err)), nil
		}
		cfg.StartTime = t
	}
	if e := request.GetString("end_date", ""); e != "" {
		t, err := contract.ParseDateInput(e, now, true)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid end_date: %v", err)), nil
		}
		cfg.EndTime = t
	}
	view := schema.ReportView(request.GetString("view", string(schema.AllView)))
	if _, ok := schema.ValidReportViews[view]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid view %q", view)), nil
	}

	data, err := h.svc.Build(ctx, cfg.DashboardRequest())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.SelectViewData(data, view), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCacheStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.svc.CacheStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache status failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
