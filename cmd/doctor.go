package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/upstream"
)

// probeTimeout bounds the live access check.
const probeTimeout = 15 * time.Second

// doctorCmd checks the configuration.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials, repository and cache configuration",
	Long: `Print the resolved configuration with the token masked and flag common mistakes.

Checks:
- Token is present and looks like a hosting API token
- Repository has the owner/name shape
- Cache backend and location
- With --probe, the token can read the repository

Examples:
  # Offline check
  repopulse doctor

  # Verify access against the API
  repopulse doctor --probe`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		ok := runDoctor(os.Stdout, cfg)
		if ok && viper.GetBool("probe") {
			ok = probeAccess(os.Stdout, cfg)
		}
		if !ok {
			os.Exit(1)
		}
	},
}

// runDoctor prints the offline checks and reports whether they all passed.
func runDoctor(w io.Writer, cfg *contract.Config) bool {
	ok := true
	check := func(pass bool, label, detail string) {
		_, _ = fmt.Fprintf(w, "%-12s %s %s\n", label, contract.GetStatusColorLabel(pass), detail)
		ok = ok && pass
	}

	switch {
	case cfg.Token == "":
		check(false, "token", "missing. Set REPOPULSE_TOKEN or GITHUB_TOKEN")
	case !contract.TokenLooksValid(cfg.Token):
		check(false, "token", contract.MaskToken(cfg.Token)+" does not look like a hosting API token")
	default:
		check(true, "token", contract.MaskToken(cfg.Token))
	}

	if _, _, err := contract.ParseRepository(cfg.Repository); err != nil {
		check(false, "repository", "missing or invalid. Use --repository owner/name or GITHUB_REPOSITORY")
	} else {
		check(true, "repository", cfg.Repository)
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.github.com/"
	}
	check(true, "api", apiURL)
	check(true, "cache", string(cfg.CacheBackend))
	check(true, "range", fmt.Sprintf("%s → %s", cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat)))
	return ok
}

// probeAccess calls the hosting API once to confirm the token can read the repository.
func probeAccess(w io.Writer, cfg *contract.Config) bool {
	client, err := upstream.New(upstream.WithBaseURL(cfg.APIURL), upstream.WithLogger(logger))
	if err != nil {
		_, _ = fmt.Fprintf(w, "%-12s %s %v\n", "probe", contract.GetStatusColorLabel(false), err)
		return false
	}
	ctx, cancel := context.WithTimeout(rootCtx, probeTimeout)
	defer cancel()

	if err := client.Ping(ctx, cfg.Token, cfg.Owner, cfg.Repo); err != nil {
		_, _ = fmt.Fprintf(w, "%-12s %s %v\n", "probe", contract.GetStatusColorLabel(false), err)
		return false
	}
	_, _ = fmt.Fprintf(w, "%-12s %s %s is readable\n", "probe", contract.GetStatusColorLabel(true), cfg.Repository)
	return true
}
