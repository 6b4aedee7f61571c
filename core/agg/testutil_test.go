package agg

import (
	"time"

	"github.com/huangsam/repopulse/schema"
)

// march returns d March 2025 at hour h UTC. March 3 2025 is a Monday.
func march(d, h int) time.Time {
	return time.Date(2025, time.March, d, h, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

var (
	marchRange = schema.DateRange{Start: march(1, 0), End: time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)}
	aprilFirst = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
)

func fixtureIssues() []schema.Issue {
	return []schema.Issue{
		{Number: 1, Title: "crash on start", State: schema.StateOpen, CreatedAt: march(1, 9), Author: "alice", Labels: []string{"bug", "deployed"}},
		{Number: 2, Title: "slow page", State: schema.StateClosed, CreatedAt: march(3, 0), ClosedAt: ptr(march(5, 0)), Author: "bob", Labels: []string{"bug", "Enhancement"}},
		{Number: 3, Title: "typo", State: schema.StateClosed, CreatedAt: march(2, 0), ClosedAt: ptr(march(6, 0)), Author: "alice", Labels: []string{"Deployed-Production", "docs"}},
		{Number: 4, Title: "new idea", State: schema.StateOpen, CreatedAt: march(28, 12), Author: "carol", Labels: []string{}},
	}
}

func fixturePRs() []schema.PullRequest {
	return []schema.PullRequest{
		{
			Issue:              schema.Issue{Number: 10, Title: "fix slow page", State: schema.StateClosed, CreatedAt: march(3, 0), Author: "alice"},
			Merged:             true,
			MergedAt:           ptr(march(4, 0)),
			Body:               "Fixes #2 and relates to #7, see also #2",
			Additions:          10,
			Deletions:          5,
			ChangedFiles:       2,
			RequestedReviewers: []string{"bob", "carol"},
		},
		{
			Issue:              schema.Issue{Number: 11, Title: "fix typo", State: schema.StateClosed, CreatedAt: march(5, 0), Author: "bob"},
			Merged:             true,
			MergedAt:           ptr(march(8, 0)),
			Body:               "closes #3",
			Additions:          100,
			ChangedFiles:       1,
			RequestedReviewers: []string{"alice"},
		},
		{
			Issue:     schema.Issue{Number: 12, Title: "wip", State: schema.StateOpen, CreatedAt: march(20, 0), Author: "alice"},
			Additions: 3,
		},
		{
			Issue: schema.Issue{Number: 13, Title: "abandoned", State: schema.StateClosed, CreatedAt: march(21, 0), Author: "dave"},
			Body:  "resolves #4",
		},
		{
			Issue:              schema.Issue{Number: 14, Title: "docs follow-up", State: schema.StateClosed, CreatedAt: march(24, 0), Author: "alice"},
			Merged:             true,
			MergedAt:           ptr(march(26, 0)),
			Body:               "related to #3",
			RequestedReviewers: []string{"bob", "bob"},
		},
	}
}

func fixtureRecords() schema.RecordSet {
	return schema.RecordSet{Issues: fixtureIssues(), PullRequests: fixturePRs()}
}
