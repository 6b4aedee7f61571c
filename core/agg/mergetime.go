package agg

import (
	"sort"

	"github.com/huangsam/repopulse/schema"
)

// PRSizeMergeTime relates the size of each merged pull request to its merge
// time. Pull requests with no additions or deletions are left out.
func PRSizeMergeTime(prs []schema.PullRequest) []schema.PRSizePoint {
	out := make([]schema.PRSizePoint, 0)
	for _, pr := range prs {
		if !pr.IsMerged() || pr.Size() <= 0 {
			continue
		}
		out = append(out, schema.PRSizePoint{
			PRNumber:      pr.Number,
			Title:         pr.Title,
			Author:        pr.Author,
			Size:          pr.Size(),
			Additions:     pr.Additions,
			Deletions:     pr.Deletions,
			ChangedFiles:  pr.ChangedFiles,
			MergeTimeDays: mergeDays(pr),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size < out[j].Size
		}
		return out[i].PRNumber < out[j].PRNumber
	})
	return out
}

// MergeTimeByAuthor groups merged pull requests by author.
func MergeTimeByAuthor(prs []schema.PullRequest) []schema.MergeTimeByUser {
	return groupMergeTime(prs, func(pr schema.PullRequest) []string {
		return []string{pr.Author}
	})
}

// MergeTimeByReviewer groups merged pull requests by each requested reviewer.
// A pull request counts once toward every distinct reviewer it names.
func MergeTimeByReviewer(prs []schema.PullRequest) []schema.MergeTimeByUser {
	return groupMergeTime(prs, func(pr schema.PullRequest) []string {
		return pr.RequestedReviewers
	})
}

// groupMergeTime counts merged pull requests per user and averages their merge times.
func groupMergeTime(prs []schema.PullRequest, users func(schema.PullRequest) []string) []schema.MergeTimeByUser {
	type acc struct {
		count int
		sum   float64
	}
	groups := make(map[string]*acc)
	for _, pr := range prs {
		if !pr.IsMerged() {
			continue
		}
		days := mergeDays(pr)
		seen := make(map[string]struct{})
		for _, u := range users(pr) {
			if u == "" {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			a, ok := groups[u]
			if !ok {
				a = &acc{}
				groups[u] = a
			}
			a.count++
			a.sum += days
		}
	}

	out := make([]schema.MergeTimeByUser, 0, len(groups))
	for user, a := range groups {
		out = append(out, schema.MergeTimeByUser{
			User:             user,
			Count:            a.count,
			AvgMergeTimeDays: mean(a.sum, a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].User < out[j].User
	})
	return out
}
