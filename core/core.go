// Package core has the dashboard orchestration: cache coverage checks, upstream
// fetches on a miss, merge and persist, and aggregation.
package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/outwriter"
	"github.com/huangsam/repopulse/internal/upstream"
)

// ExecutorFunc defines the function signature for the command entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, svc *DashboardService) error

// NewServiceFromConfig builds a DashboardService over the store held by mgr and
// a GitHub client targeting cfg.APIURL.
func NewServiceFromConfig(cfg *contract.Config, mgr contract.CacheManager, log *zap.SugaredLogger) (*DashboardService, error) {
	client, err := upstream.New(upstream.WithBaseURL(cfg.APIURL), upstream.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return NewDashboardService(mgr.GetSnapshotStore(), client,
		WithServiceLogger(log),
		WithMergePolicy(cfg.MergePolicy),
		WithAgingPolicy(cfg.AgingPolicy),
		WithLabelDenyList(cfg.LabelDenyList),
	), nil
}

// ExecuteReport builds the dashboard for the configured repository and range
// and prints it. It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, svc *DashboardService) error {
	start := time.Now()
	if err := contract.RequireTarget(cfg); err != nil {
		return err
	}
	data, err := svc.Build(ctx, cfg.DashboardRequest())
	if err != nil {
		return err
	}
	return outwriter.PrintDashboard(data, cfg, time.Since(start))
}

// ExecutePrime fetches the configured range into the cache and prints a summary.
// It serves as the main entry point for the 'prime' command.
func ExecutePrime(ctx context.Context, cfg *contract.Config, svc *DashboardService) error {
	start := time.Now()
	if err := contract.RequireTarget(cfg); err != nil {
		return err
	}
	result, err := svc.Prime(ctx, cfg.DashboardRequest())
	if err != nil {
		return err
	}
	return outwriter.PrintPrimeResult(result, cfg, time.Since(start))
}
