package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// PrintDashboard outputs a dashboard, dispatching based on the output format configured.
func PrintDashboard(data *schema.DashboardData, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, SelectViewData(data, cfg.View))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardCSV(w, data, cfg)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardTables(w, data, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// SelectViewData returns the JSON payload for view: the full dashboard for
// "all", otherwise the single view keyed by its name with the metadata.
func SelectViewData(data *schema.DashboardData, view schema.ReportView) any {
	if view == "" || view == schema.AllView {
		return data
	}
	var payload any
	switch view {
	case schema.KPIView:
		payload = data.KPIs
	case schema.LabelView:
		payload = data.Labels
	case schema.ContributorView:
		payload = data.Contributors
	case schema.TimelineView:
		payload = data.Timeline
	case schema.ActivityView:
		payload = data.Activity
	case schema.ThroughputView:
		payload = data.Throughput
	case schema.CycleTimeView:
		payload = data.CycleTime
	case schema.AgingView:
		payload = map[string]any{"issueAging": data.IssueAging, "issueAgingLinked": data.IssueAgingLinked}
	case schema.LinkageView:
		payload = data.PRIssueLinkage
	case schema.PRSizeView:
		payload = data.PRSizeMergeTime
	case schema.AuthorView:
		payload = data.MergeTimeByAuthor
	case schema.ReviewerView:
		payload = data.MergeTimeByReviewer
	case schema.IssueListView:
		payload = data.Issues
	case schema.PullRequestsView:
		payload = data.PullRequests
	}
	return map[string]any{string(view): payload, "meta": data.Meta}
}

// writeDashboardCSV writes the single configured view as CSV. Floats use the
// configured precision; labels are never colored.
func writeDashboardCSV(w io.Writer, data *schema.DashboardData, cfg *contract.Config) error {
	if cfg.View == "" || cfg.View == schema.AllView {
		return fmt.Errorf("csv output needs a single --view")
	}
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	t := buildViewTable(data, cfg.View, tableStyle{fmtFloat: fmtFloat, intFmt: intFmt})
	return writeCSVTable(w, t.header, t.rows)
}

// writeDashboardTables renders the selected views as human-readable tables.
func writeDashboardTables(w io.Writer, data *schema.DashboardData, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	style := tableStyle{
		fmtFloat:  fmtFloat,
		intFmt:    intFmt,
		textWidth: GetMaxTableTextWidth(cfg),
		colors:    cfg.UseColors,
	}

	meta := data.Meta
	cache := string(meta.Cache)
	if cfg.UseColors {
		cache = contract.GetCacheColorLabel(meta.Cache)
	}
	if _, err := fmt.Fprintf(w, "📊 %s | %s | cache: %s\n", meta.Repository, meta.Range.String(), cache); err != nil {
		return err
	}

	for _, view := range selectedViews(cfg.View) {
		t := buildViewTable(data, view, style)
		if err := renderViewTable(w, t); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Dashboard built in %v (%d issues, %d pull requests). Cache backend: %s, persisted: %t\n",
		duration, len(data.Issues), len(data.PullRequests), cfg.CacheBackend, meta.Persisted); err != nil {
		return err
	}
	return nil
}

// renderViewTable writes one titled table. Empty views print a placeholder line.
func renderViewTable(w io.Writer, t viewTable) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", t.title); err != nil {
		return err
	}
	if len(t.rows) == 0 {
		_, err := fmt.Fprintln(w, "  (no data)")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header(t.header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(t.rows); err != nil {
		return err
	}
	return table.Render()
}

// PrintPrimeResult outputs a cache priming summary.
func PrintPrimeResult(result *schema.PrimeResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writePrimeTable(w, result, cfg, duration)
	}, "Wrote table")
}

// writePrimeTable renders a priming summary as a key/value table.
func writePrimeTable(w io.Writer, result *schema.PrimeResult, cfg *contract.Config, duration time.Duration) error {
	persisted := fmt.Sprintf("%t", result.Persisted)
	if cfg.UseColors {
		persisted = contract.GetStatusColorLabel(result.Persisted)
	}
	t := viewTable{title: "Cache Priming", header: []string{"field", "value"}, rows: [][]string{
		{"repository", result.Repository},
		{"requested", result.Range.String()},
		{"fetched", fmt.Sprintf("%d", result.Fetched)},
		{"cached_issues", fmt.Sprintf("%d", result.Issues)},
		{"cached_pull_requests", fmt.Sprintf("%d", result.PullRequests)},
		{"covered", result.Covered.String()},
		{"persisted", persisted},
	}}
	if err := renderViewTable(w, t); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Priming completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}
