package agg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/repopulse/schema"
)

func TestAgeBucket(t *testing.T) {
	assert.Equal(t, schema.AgeBucketWeek, ageBucket(0))
	assert.Equal(t, schema.AgeBucketWeek, ageBucket(7))
	assert.Equal(t, schema.AgeBucketMonth, ageBucket(7.01))
	assert.Equal(t, schema.AgeBucketMonth, ageBucket(30))
	assert.Equal(t, schema.AgeBucketOlder, ageBucket(30.5))
}

func TestIssueAging(t *testing.T) {
	t.Run("open issues only", func(t *testing.T) {
		got := IssueAging(fixtureIssues(), aprilFirst)
		assert.Equal(t, []schema.IssueAgingEntry{
			{Bucket: schema.AgeBucketWeek, Count: 1},
			{Bucket: schema.AgeBucketMonth, Count: 0},
			{Bucket: schema.AgeBucketOlder, Count: 1},
		}, got)
	})

	t.Run("no open issues", func(t *testing.T) {
		closed := []schema.Issue{fixtureIssues()[1]}
		got := IssueAging(closed, aprilFirst)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestIssueAgingLinked(t *testing.T) {
	got := IssueAgingLinked(fixtureIssues(), fixturePRs())
	assert.Equal(t, []schema.LinkedIssueAge{
		{IssueNumber: 2, Title: "slow page", State: schema.StateClosed, PRNumber: 10, MergedAt: march(4, 0), AgeDays: 1},
		{IssueNumber: 3, Title: "typo", State: schema.StateClosed, PRNumber: 11, MergedAt: march(8, 0), AgeDays: 6},
	}, got)

	t.Run("earliest merge wins regardless of order", func(t *testing.T) {
		prs := fixturePRs()
		prs[0], prs[4] = prs[4], prs[0]
		again := IssueAgingLinked(fixtureIssues(), prs)
		assert.Equal(t, got, again)
	})

	t.Run("unmerged references are ignored", func(t *testing.T) {
		for _, l := range got {
			assert.NotEqual(t, 4, l.IssueNumber)
		}
	})

	t.Run("merge before issue creation is ignored", func(t *testing.T) {
		issues := []schema.Issue{{Number: 2, Title: "late", State: schema.StateOpen, CreatedAt: march(20, 0)}}
		prs := []schema.PullRequest{fixturePRs()[0]}
		assert.Empty(t, IssueAgingLinked(issues, prs))
	})
}

func TestBucketLinkedAges(t *testing.T) {
	linked := []schema.LinkedIssueAge{{AgeDays: 1}, {AgeDays: 10}, {AgeDays: 45}, {AgeDays: 60}}
	assert.Equal(t, []schema.IssueAgingEntry{
		{Bucket: schema.AgeBucketWeek, Count: 1},
		{Bucket: schema.AgeBucketMonth, Count: 1},
		{Bucket: schema.AgeBucketOlder, Count: 2},
	}, BucketLinkedAges(linked))
	assert.Empty(t, BucketLinkedAges(nil))
}
