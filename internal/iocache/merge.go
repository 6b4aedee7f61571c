package iocache

import (
	"cmp"
	"slices"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// MergeRecords de-duplicates existing and incoming by number within each kind.
// The result is sorted by number, so the set of numbers does not depend on
// argument order. Which record survives a collision is decided by policy.
func MergeRecords(existing, incoming schema.RecordSet, policy schema.MergePolicy) schema.RecordSet {
	return schema.RecordSet{
		Issues: mergeByNumber(existing.Issues, incoming.Issues, policy,
			func(is schema.Issue) (int, *time.Time) { return is.Number, is.UpdatedAt }),
		PullRequests: mergeByNumber(existing.PullRequests, incoming.PullRequests, policy,
			func(pr schema.PullRequest) (int, *time.Time) { return pr.Number, pr.UpdatedAt }),
	}
}

// mergeByNumber merges two collections keyed by number.
func mergeByNumber[T any](existing, incoming []T, policy schema.MergePolicy, key func(T) (int, *time.Time)) []T {
	byNumber := make(map[int]T, len(existing)+len(incoming))
	for _, rec := range existing {
		n, _ := key(rec)
		byNumber[n] = rec
	}
	for _, rec := range incoming {
		n, updated := key(rec)
		if prev, ok := byNumber[n]; ok && !incomingWins(policy, key, prev, updated) {
			continue
		}
		byNumber[n] = rec
	}

	out := make([]T, 0, len(byNumber))
	for _, rec := range byNumber {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b T) int {
		na, _ := key(a)
		nb, _ := key(b)
		return cmp.Compare(na, nb)
	})
	return out
}

// incomingWins decides a collision. Under newest-upstream the stored record
// survives only when both carry an update time and the stored one is later.
func incomingWins[T any](policy schema.MergePolicy, key func(T) (int, *time.Time), prev T, updated *time.Time) bool {
	if policy != schema.NewestUpstream {
		return true
	}
	_, prevUpdated := key(prev)
	if prevUpdated == nil || updated == nil {
		return true
	}
	return !prevUpdated.After(*updated)
}
