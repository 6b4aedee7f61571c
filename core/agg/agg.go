// Package agg has aggregation logic for repository issue and pull request activity.
package agg

import (
	"sort"
	"strings"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// Options tunes the views that depend on configuration.
type Options struct {
	// LabelDenyList holds labels excluded from label frequency, compared case-insensitively.
	LabelDenyList []string

	// AgingPolicy selects what the IssueAging view buckets.
	AgingPolicy schema.AgingPolicy
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		LabelDenyList: append([]string(nil), schema.DefaultLabelDenyList...),
		AgingPolicy:   schema.OpenAgePolicy,
	}
}

// Compute derives every dashboard view from records and the requested range.
// The records are expected to be filtered to rng already. now is the reference
// point for open issue ages. Meta is left for the caller to fill.
//
// Every view is a pure function of its inputs: the result does not depend on
// the order of records.Issues or records.PullRequests.
func Compute(records schema.RecordSet, rng schema.DateRange, now time.Time, opts Options) schema.DashboardData {
	issues := sortedIssues(records.Issues)
	prs := sortedPullRequests(records.PullRequests)

	linked := IssueAgingLinked(issues, prs)
	var aging []schema.IssueAgingEntry
	if opts.AgingPolicy == schema.LinkedMergePolicy {
		aging = BucketLinkedAges(linked)
	} else {
		aging = IssueAging(issues, now)
	}

	return schema.DashboardData{
		Issues:              issues,
		PullRequests:        prs,
		KPIs:                ComputeKPIs(issues, prs),
		Labels:              LabelFrequency(issues, opts.LabelDenyList),
		Contributors:        ContributorLeaderboard(issues, prs),
		Timeline:            Timeline(prs),
		Activity:            Activity(issues, prs),
		Throughput:          Throughput(issues, prs, rng),
		CycleTime:           CycleTime(prs, rng),
		IssueAging:          aging,
		IssueAgingLinked:    linked,
		PRIssueLinkage:      PRIssueLinkage(prs),
		PRSizeMergeTime:     PRSizeMergeTime(prs),
		MergeTimeByAuthor:   MergeTimeByAuthor(prs),
		MergeTimeByReviewer: MergeTimeByReviewer(prs),
	}
}

// sortedIssues returns a copy of issues ordered by number, then creation time.
func sortedIssues(in []schema.Issue) []schema.Issue {
	out := make([]schema.Issue, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// sortedPullRequests returns a copy of prs ordered by number, then creation time.
func sortedPullRequests(in []schema.PullRequest) []schema.PullRequest {
	out := make([]schema.PullRequest, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// mean returns sum/n, or 0 when n is zero.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// denySet normalizes a label deny-list for case-insensitive lookup.
func denySet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			set[l] = struct{}{}
		}
	}
	return set
}
