package agg

import (
	"sort"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// ageBucket maps an age in days to its open-age bucket label.
func ageBucket(days float64) string {
	switch {
	case days <= 7:
		return schema.AgeBucketWeek
	case days <= 30:
		return schema.AgeBucketMonth
	default:
		return schema.AgeBucketOlder
	}
}

// bucketAges counts ages into the fixed buckets. An empty input yields an empty
// view; otherwise every bucket is present in display order.
func bucketAges(ages []float64) []schema.IssueAgingEntry {
	out := make([]schema.IssueAgingEntry, 0, len(schema.AgeBuckets))
	if len(ages) == 0 {
		return out
	}
	counts := make(map[string]int, len(schema.AgeBuckets))
	for _, age := range ages {
		counts[ageBucket(age)]++
	}
	for _, bucket := range schema.AgeBuckets {
		out = append(out, schema.IssueAgingEntry{Bucket: bucket, Count: counts[bucket]})
	}
	return out
}

// IssueAging buckets open issues by their age in days as of now.
func IssueAging(issues []schema.Issue, now time.Time) []schema.IssueAgingEntry {
	var ages []float64
	for _, is := range issues {
		if is.State != schema.StateOpen {
			continue
		}
		ages = append(ages, schema.DurationDays(is.CreatedAt, now))
	}
	return bucketAges(ages)
}

// IssueAgingLinked measures each issue from its creation to the earliest merge
// of a pull request whose body references it. Issues with no merged reference,
// or whose earliest referencing merge predates the issue, are left out.
func IssueAgingLinked(issues []schema.Issue, prs []schema.PullRequest) []schema.LinkedIssueAge {
	type firstMerge struct {
		pr       int
		mergedAt time.Time
	}
	earliest := make(map[int]firstMerge)
	for _, pr := range prs {
		if !pr.IsMerged() {
			continue
		}
		for _, n := range ExtractLinkedIssues(pr.Body) {
			cur, ok := earliest[n]
			if !ok || pr.MergedAt.Before(cur.mergedAt) ||
				(pr.MergedAt.Equal(cur.mergedAt) && pr.Number < cur.pr) {
				earliest[n] = firstMerge{pr: pr.Number, mergedAt: *pr.MergedAt}
			}
		}
	}

	out := make([]schema.LinkedIssueAge, 0)
	for _, is := range issues {
		m, ok := earliest[is.Number]
		if !ok || m.mergedAt.Before(is.CreatedAt) {
			continue
		}
		out = append(out, schema.LinkedIssueAge{
			IssueNumber: is.Number,
			Title:       is.Title,
			State:       is.State,
			PRNumber:    m.pr,
			MergedAt:    m.mergedAt,
			AgeDays:     schema.DurationDays(is.CreatedAt, m.mergedAt),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueNumber < out[j].IssueNumber })
	return out
}

// BucketLinkedAges buckets linked issue ages with the open-age bucket labels.
func BucketLinkedAges(linked []schema.LinkedIssueAge) []schema.IssueAgingEntry {
	ages := make([]float64, len(linked))
	for i, l := range linked {
		ages[i] = l.AgeDays
	}
	return bucketAges(ages)
}
