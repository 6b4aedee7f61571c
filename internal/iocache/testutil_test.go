package iocache

import (
	"time"

	"github.com/huangsam/repopulse/schema"
)

var (
	jan1  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan15 = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	jan31 = time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	feb29 = time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
)

func issueAt(n int, created time.Time) schema.Issue {
	return schema.Issue{Number: n, Title: "issue", State: schema.StateOpen, CreatedAt: created, Author: "alice", Labels: []string{}}
}

func prAt(n int, created time.Time) schema.PullRequest {
	return schema.PullRequest{Issue: issueAt(n, created), RequestedReviewers: []string{}}
}

func januaryRecords() schema.RecordSet {
	return schema.RecordSet{
		Issues:       []schema.Issue{issueAt(1, jan1), issueAt(2, jan15), issueAt(3, jan31)},
		PullRequests: []schema.PullRequest{prAt(4, jan15)},
	}
}
