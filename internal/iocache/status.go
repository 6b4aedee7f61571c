package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/repopulse/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	if status.Location != "" {
		_, _ = fmt.Fprintf(w, "Location: %s\n", status.Location)
	}
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Initialized: %t\n", status.Initialized)
	if status.Initialized {
		_, _ = fmt.Fprintf(w, "Snapshot Version: %d\n", status.SnapshotVersion)
		_, _ = fmt.Fprintf(w, "Issues: %d\n", status.TotalIssues)
		_, _ = fmt.Fprintf(w, "Pull Requests: %d\n", status.TotalPRs)
		if status.CoveredRange != nil {
			_, _ = fmt.Fprintf(w, "Covered Range: %s\n", status.CoveredRange.String())
		}
		_, _ = fmt.Fprintf(w, "Last Updated: %s\n", status.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Size: %d bytes\n", status.SizeBytes)
}
