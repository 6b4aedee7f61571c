package agg

import "github.com/huangsam/repopulse/schema"

// ComputeKPIs counts records by state and averages resolution and merge times.
// Averages are 0 when there is nothing to average.
func ComputeKPIs(issues []schema.Issue, prs []schema.PullRequest) schema.KPIs {
	k := schema.KPIs{
		TotalIssues: len(issues),
		TotalPRs:    len(prs),
	}

	var resolutionSum float64
	var resolved int
	for _, is := range issues {
		switch is.State {
		case schema.StateOpen:
			k.OpenIssues++
		case schema.StateClosed:
			k.ClosedIssues++
			if is.ClosedAt != nil {
				resolutionSum += schema.DurationDays(is.CreatedAt, *is.ClosedAt)
				resolved++
			}
		}
	}
	k.AvgIssueResolutionDays = mean(resolutionSum, resolved)

	var mergeSum float64
	for _, pr := range prs {
		switch pr.State {
		case schema.StateOpen:
			k.OpenPRs++
		case schema.StateClosed:
			k.ClosedPRs++
		}
		if pr.IsMerged() {
			k.MergedPRs++
			mergeSum += mergeDays(pr)
		}
	}
	k.AvgPRMergeDays = mean(mergeSum, k.MergedPRs)

	return k
}

// mergeDays is the creation-to-merge time of a merged pull request.
func mergeDays(pr schema.PullRequest) float64 {
	return schema.DurationDays(pr.CreatedAt, *pr.MergedAt)
}
