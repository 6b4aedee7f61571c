package agg

import (
	"sort"
	"strings"

	"github.com/huangsam/repopulse/schema"
)

// LabelFrequency counts label occurrences across issues. Pull requests are not
// counted, and labels on the deny-list are skipped. A label repeated on the same
// issue counts once.
func LabelFrequency(issues []schema.Issue, denyList []string) []schema.LabelCount {
	deny := denySet(denyList)
	counts := make(map[string]int)
	for _, is := range issues {
		seen := make(map[string]struct{}, len(is.Labels))
		for _, label := range is.Labels {
			if label == "" {
				continue
			}
			if _, skip := deny[strings.ToLower(label)]; skip {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			counts[label]++
		}
	}

	out := make([]schema.LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, schema.LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ContributorLeaderboard counts issues and pull requests per author, sorted by
// total descending.
func ContributorLeaderboard(issues []schema.Issue, prs []schema.PullRequest) []schema.ContributorStat {
	stats := make(map[string]*schema.ContributorStat)
	get := func(author string) *schema.ContributorStat {
		s, ok := stats[author]
		if !ok {
			s = &schema.ContributorStat{Author: author}
			stats[author] = s
		}
		return s
	}
	for _, is := range issues {
		get(is.Author).Issues++
	}
	for _, pr := range prs {
		get(pr.Author).PRs++
	}

	out := make([]schema.ContributorStat, 0, len(stats))
	for _, s := range stats {
		s.Total = s.Issues + s.PRs
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Author < out[j].Author
	})
	return out
}
