package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/parquet"
)

// ExecuteCacheExport exports the cached snapshot to two Parquet files:
// outputFile.issues.parquet and outputFile.pull_requests.parquet.
func ExecuteCacheExport(ctx context.Context, w io.Writer, store contract.SnapshotStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("cache store is not initialized")
	}

	snap, err := store.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if snap == nil || snap.Records().Len() == 0 {
		return errors.New("no cached data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting snapshot covering %s...\n", snap.DateRange.String())

	issuesFile := outputFile + ".issues.parquet"
	issueRows := parquet.ConvertIssues(snap.Issues)
	if err := parquet.WriteIssuesParquet(issueRows, issuesFile); err != nil {
		return fmt.Errorf("failed to write issues: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d issues to: %s\n", len(issueRows), issuesFile)

	prFile := outputFile + ".pull_requests.parquet"
	prRows := parquet.ConvertPullRequests(snap.PullRequests)
	if err := parquet.WritePullRequestsParquet(prRows, prFile); err != nil {
		return fmt.Errorf("failed to write pull requests: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d pull requests to: %s\n", len(prRows), prFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Apache Spark")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	return nil
}
