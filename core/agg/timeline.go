package agg

import (
	"sort"

	"github.com/huangsam/repopulse/schema"
)

// Timeline buckets merged pull requests by the Monday of their merge week.
func Timeline(prs []schema.PullRequest) []schema.TimelineBucket {
	type acc struct {
		count int
		sum   float64
	}
	weeks := make(map[string]*acc)
	for _, pr := range prs {
		if !pr.IsMerged() {
			continue
		}
		key := periodKey(*pr.MergedAt, schema.Weekly)
		a, ok := weeks[key]
		if !ok {
			a = &acc{}
			weeks[key] = a
		}
		a.count++
		a.sum += mergeDays(pr)
	}

	out := make([]schema.TimelineBucket, 0, len(weeks))
	for week, a := range weeks {
		out = append(out, schema.TimelineBucket{
			Week:         week,
			MergedPRs:    a.count,
			AvgMergeDays: mean(a.sum, a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// Activity counts issues and pull requests created per day.
func Activity(issues []schema.Issue, prs []schema.PullRequest) []schema.ActivityBucket {
	days := make(map[string]*schema.ActivityBucket)
	get := func(key string) *schema.ActivityBucket {
		b, ok := days[key]
		if !ok {
			b = &schema.ActivityBucket{Date: key}
			days[key] = b
		}
		return b
	}
	for _, is := range issues {
		get(periodKey(is.CreatedAt, schema.Daily)).Issues++
	}
	for _, pr := range prs {
		get(periodKey(pr.CreatedAt, schema.Daily)).PRs++
	}

	out := make([]schema.ActivityBucket, 0, len(days))
	for _, b := range days {
		b.Total = b.Issues + b.PRs
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Throughput counts issues closed and pull requests merged inside rng, bucketed
// at the granularity ChoosePeriod picks for the range.
func Throughput(issues []schema.Issue, prs []schema.PullRequest, rng schema.DateRange) []schema.ThroughputBucket {
	g := ChoosePeriod(wholeDays(rng))
	buckets := make(map[string]*schema.ThroughputBucket)
	get := func(key string) *schema.ThroughputBucket {
		b, ok := buckets[key]
		if !ok {
			b = &schema.ThroughputBucket{Period: key, Granularity: g}
			buckets[key] = b
		}
		return b
	}
	for _, is := range issues {
		if is.State != schema.StateClosed || is.ClosedAt == nil || !rng.Contains(*is.ClosedAt) {
			continue
		}
		get(periodKey(*is.ClosedAt, g)).ClosedIssues++
	}
	for _, pr := range prs {
		if !pr.IsMerged() || !rng.Contains(*pr.MergedAt) {
			continue
		}
		get(periodKey(*pr.MergedAt, g)).MergedPRs++
	}

	out := make([]schema.ThroughputBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// CycleTime averages creation-to-merge time of pull requests created and merged
// inside rng, bucketed by merge time at the granularity ChooseCycleTimePeriod picks.
func CycleTime(prs []schema.PullRequest, rng schema.DateRange) []schema.CycleTimeBucket {
	g := ChooseCycleTimePeriod(wholeDays(rng))
	type acc struct {
		count int
		sum   float64
	}
	buckets := make(map[string]*acc)
	for _, pr := range prs {
		if !pr.IsMerged() || pr.CreatedAt.Before(rng.Start) || pr.MergedAt.After(rng.End) {
			continue
		}
		key := periodKey(*pr.MergedAt, g)
		a, ok := buckets[key]
		if !ok {
			a = &acc{}
			buckets[key] = a
		}
		a.count++
		a.sum += mergeDays(pr)
	}

	out := make([]schema.CycleTimeBucket, 0, len(buckets))
	for period, a := range buckets {
		out = append(out, schema.CycleTimeBucket{
			Period:           period,
			Granularity:      g,
			PRs:              a.count,
			AvgCycleTimeDays: mean(a.sum, a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
