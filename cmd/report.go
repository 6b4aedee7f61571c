package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
)

// reportCmd builds one dashboard and prints it.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the issue and pull request dashboard for a repository",
	Long: `Build the dashboard for the configured repository and date range.

The snapshot cache is consulted first. When the cached range covers the
request it is served without calling the hosting API; otherwise the exact
range is fetched, merged into the cache and aggregated.

Views:
- kpis, labels, contributors
- timeline, activity, throughput, cycle-time
- aging, linkage, pr-size, author, reviewer
- issues, pulls (raw records)

Examples:
  # Last 90 days as tables
  repopulse report --repository acme/widgets

  # One quarter, throughput only, as CSV
  repopulse report -r acme/widgets --start 2025-01-01 --end 2025-03-31 --view throughput --output csv

  # Full dashboard as JSON to a file
  repopulse report -r acme/widgets --start "6 months ago" --output json --output-file dashboard.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runExecutor(rootCtx, core.ExecuteReport); err != nil {
			contract.LogFatal("Cannot build dashboard", err)
		}
	},
}
