package agg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/repopulse/schema"
)

func TestPRSizeMergeTime(t *testing.T) {
	got := PRSizeMergeTime(fixturePRs())
	assert.Equal(t, []schema.PRSizePoint{
		{PRNumber: 10, Title: "fix slow page", Author: "alice", Size: 15, Additions: 10, Deletions: 5, ChangedFiles: 2, MergeTimeDays: 1},
		{PRNumber: 11, Title: "fix typo", Author: "bob", Size: 100, Additions: 100, ChangedFiles: 1, MergeTimeDays: 3},
	}, got)
}

func TestMergeTimeByAuthor(t *testing.T) {
	got := MergeTimeByAuthor(fixturePRs())
	assert.Equal(t, []schema.MergeTimeByUser{
		{User: "alice", Count: 2, AvgMergeTimeDays: 1.5},
		{User: "bob", Count: 1, AvgMergeTimeDays: 3},
	}, got)
}

func TestMergeTimeByReviewer(t *testing.T) {
	got := MergeTimeByReviewer(fixturePRs())
	assert.Equal(t, []schema.MergeTimeByUser{
		{User: "bob", Count: 2, AvgMergeTimeDays: 1.5},
		{User: "alice", Count: 1, AvgMergeTimeDays: 3},
		{User: "carol", Count: 1, AvgMergeTimeDays: 1},
	}, got)

	t.Run("each reviewer gets the same merge time", func(t *testing.T) {
		pr := fixturePRs()[0]
		got := MergeTimeByReviewer([]schema.PullRequest{pr})
		assert.Len(t, got, 2)
		for _, g := range got {
			assert.Equal(t, 1, g.Count)
			assert.Equal(t, 1.0, g.AvgMergeTimeDays)
		}
	})
}
