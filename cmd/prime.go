package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
)

// primeCmd fetches a range into the cache without rendering a dashboard.
var primeCmd = &cobra.Command{
	Use:   "prime",
	Short: "Fetch a date range into the snapshot cache",
	Long: `Fetch every issue and pull request created in the configured range and
merge it into the snapshot cache, regardless of what is already cached.

Run this ahead of time (for example from a scheduled job) so dashboard
requests for the range are served from the cache.

Examples:
  # Warm the cache for the last year
  repopulse prime -r acme/widgets --lookback "1 year"

  # Refresh one month with the newest-upstream merge policy
  repopulse prime -r acme/widgets --start 2025-03-01 --end 2025-03-31 --merge-policy newest-upstream`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runExecutor(rootCtx, core.ExecutePrime); err != nil {
			contract.LogFatal("Cannot prime cache", err)
		}
	},
}
