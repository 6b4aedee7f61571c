// Package outwriter renders dashboards, cache priming results, and cache
// status for the command line.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDashboard prints a dashboard using the configured output format.
func (ow *OutWriter) WriteDashboard(data *schema.DashboardData, cfg *contract.Config, duration time.Duration) error {
	return PrintDashboard(data, cfg, duration)
}

// WritePrime prints a cache priming summary using the configured output format.
func (ow *OutWriter) WritePrime(result *schema.PrimeResult, cfg *contract.Config, duration time.Duration) error {
	return PrintPrimeResult(result, cfg, duration)
}

// GetMaxTableTextWidth calculates the maximum width for free-text columns
// (titles, names) based on terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Numeric columns, borders and padding
	available := termWidth - 50
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
