package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/huangsam/repopulse/core/agg"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// DashboardService answers dashboard requests from the snapshot cache, falling
// back to the upstream client on a miss.
type DashboardService struct {
	store       contract.SnapshotStore
	client      contract.UpstreamClient
	log         *zap.SugaredLogger
	mergePolicy schema.MergePolicy
	aggOpts     agg.Options
	now         func() time.Time
}

// Option configures a DashboardService.
type Option func(*DashboardService)

// WithServiceLogger sets the fallback logger used when the request context has none.
func WithServiceLogger(log *zap.SugaredLogger) Option {
	return func(s *DashboardService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMergePolicy sets how fetched records replace cached ones.
func WithMergePolicy(policy schema.MergePolicy) Option {
	return func(s *DashboardService) {
		if policy != "" {
			s.mergePolicy = policy
		}
	}
}

// WithAgingPolicy selects the default issue aging view.
func WithAgingPolicy(policy schema.AgingPolicy) Option {
	return func(s *DashboardService) {
		if policy != "" {
			s.aggOpts.AgingPolicy = policy
		}
	}
}

// WithLabelDenyList replaces the labels excluded from label frequency.
func WithLabelDenyList(labels []string) Option {
	return func(s *DashboardService) {
		if labels != nil {
			s.aggOpts.LabelDenyList = append([]string(nil), labels...)
		}
	}
}

// WithClock overrides the time source used for open issue ages and metadata.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewDashboardService wires a store and an upstream client. A nil store
// disables caching: every request is a miss and nothing is persisted.
func NewDashboardService(store contract.SnapshotStore, client contract.UpstreamClient, opts ...Option) *DashboardService {
	s := &DashboardService{
		store:       store,
		client:      client,
		log:         zap.NewNop().Sugar(),
		mergePolicy: schema.LastWriteWins,
		aggOpts:     agg.DefaultOptions(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build validates req, serves it from the cache when the cached range covers it,
// otherwise fetches the exact range, merges it into the cache, and aggregates
// the in-range records.
func (s *DashboardService) Build(ctx context.Context, req schema.DashboardRequest) (*schema.DashboardData, error) {
	owner, name, err := contract.ValidateDashboardRequest(req)
	if err != nil {
		return nil, err
	}
	rng := schema.DateRange{Start: req.Start, End: req.End}
	log := loggerFrom(ctx, s.log).With("repository", req.Repository, "start", rng.Start, "end", rng.End)

	outcome := schema.CacheMiss
	persisted := false
	records, hit := s.checkCache(ctx, log, rng)
	if hit {
		outcome = schema.CacheHit
		log.Debugw("serving from cache", "issues", len(records.Issues), "pullRequests", len(records.PullRequests))
	} else {
		log.Debugw("cache miss, fetching upstream")
		fetched, err := s.client.FetchRange(ctx, req.Credential, owner, name, rng.Start, rng.End)
		if err != nil {
			log.Warnw("upstream fetch failed", "error", err)
			return nil, err
		}
		var perr error
		records, _, perr = s.mergeAndPersist(ctx, fetched, rng)
		if perr != nil {
			log.Warnw("cache not updated", "error", perr)
		} else {
			persisted = true
		}
	}

	data := agg.Compute(records.Filter(rng), rng, s.now(), s.aggOpts)
	data.Meta = schema.DashboardMeta{
		Repository:  req.Repository,
		Range:       rng,
		Cache:       outcome,
		Persisted:   persisted,
		AgingPolicy: s.aggOpts.AgingPolicy,
		GeneratedAt: s.now().UTC(),
	}
	log.Infow("dashboard built", "cache", outcome, "persisted", persisted,
		"issues", len(data.Issues), "pullRequests", len(data.PullRequests))
	return &data, nil
}

// Handle runs Build and wraps the outcome in the response envelope. It is the
// transport-neutral entry point for library callers; the HTTP and MCP
// surfaces call Build directly because they map errors to their own statuses.
func (s *DashboardService) Handle(ctx context.Context, req schema.DashboardRequest) schema.DashboardResponse {
	data, err := s.Build(ctx, req)
	if err != nil {
		return schema.DashboardResponse{Success: false, Error: err.Error()}
	}
	return schema.DashboardResponse{Success: true, Data: data}
}

// Prime fetches the requested range unconditionally and persists it. Unlike
// Build, a persistence failure is returned since storing is the whole point.
func (s *DashboardService) Prime(ctx context.Context, req schema.DashboardRequest) (*schema.PrimeResult, error) {
	owner, name, err := contract.ValidateDashboardRequest(req)
	if err != nil {
		return nil, err
	}
	rng := schema.DateRange{Start: req.Start, End: req.End}
	log := loggerFrom(ctx, s.log).With("repository", req.Repository)

	fetched, err := s.client.FetchRange(ctx, req.Credential, owner, name, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	merged, covered, err := s.mergeAndPersist(ctx, fetched, rng)
	result := &schema.PrimeResult{
		Repository:   req.Repository,
		Range:        rng,
		Fetched:      fetched.Filter(rng).Len(),
		Issues:       len(merged.Issues),
		PullRequests: len(merged.PullRequests),
		Covered:      covered,
		Persisted:    err == nil,
	}
	if err != nil {
		return result, err
	}
	log.Infow("cache primed", "fetched", result.Fetched, "issues", result.Issues,
		"pullRequests", result.PullRequests, "covered", covered.String())
	return result, nil
}

// CacheStatus reports the state of the snapshot store.
func (s *DashboardService) CacheStatus() (schema.CacheStatus, error) {
	if s.store == nil {
		return schema.CacheStatus{Backend: string(schema.NoneBackend)}, nil
	}
	return s.store.GetStatus()
}

// checkCache asks the store for a covering subset. Store errors count as a miss.
func (s *DashboardService) checkCache(ctx context.Context, log *zap.SugaredLogger, rng schema.DateRange) (schema.RecordSet, bool) {
	if s.store == nil {
		return schema.RecordSet{}, false
	}
	records, ok, err := s.store.CoveringSubset(ctx, rng.Start, rng.End)
	if err != nil {
		log.Warnw("cache lookup failed, treating as miss", "error", err)
		return schema.RecordSet{}, false
	}
	return records, ok
}

// errNoStore marks a service built without a cache.
var errNoStore = &contract.PersistenceError{Op: "write", Err: errors.New("no cache store configured")}

// mergeAndPersist drops fetched records outside rng, merges the rest into the
// stored snapshot, and writes it back. The merged records are returned even
// when persistence fails. If the stored snapshot cannot be read, nothing is
// written so the stored records are never replaced by a partial set.
func (s *DashboardService) mergeAndPersist(ctx context.Context, fetched schema.RecordSet, rng schema.DateRange) (schema.RecordSet, schema.DateRange, error) {
	fetched = fetched.Filter(rng)
	if s.store == nil {
		return fetched, rng, errNoStore
	}

	snap, err := s.store.Read(ctx)
	if err != nil {
		return fetched, rng, err
	}
	covered := rng
	if snap != nil {
		covered = snap.DateRange.Extend(rng)
	}

	merged := s.store.Merge(snap.Records(), fetched, s.mergePolicy)
	if err := s.store.Write(ctx, merged, rng.Start, rng.End); err != nil {
		return merged, covered, err
	}
	return merged, covered, nil
}
