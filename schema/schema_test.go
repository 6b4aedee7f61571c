package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	day0 = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	day9 = time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
)

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange(day0, day9)
	require.NoError(t, err)
	assert.Equal(t, 9.0, r.Days())

	_, err = NewDateRange(day0, day0)
	assert.NoError(t, err)

	_, err = NewDateRange(day9, day0)
	assert.ErrorContains(t, err, "cannot be after")
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: day0, End: day9}
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start bound", day0, true},
		{"end bound", day9, true},
		{"inside", day0.AddDate(0, 0, 3), true},
		{"before", day0.Add(-time.Millisecond), false},
		{"after", day9.Add(time.Millisecond), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.t))
		})
	}
}

func TestDateRangeCovers(t *testing.T) {
	r := DateRange{Start: day0, End: day9}
	assert.True(t, r.Covers(r))
	assert.True(t, r.Covers(DateRange{Start: day0.AddDate(0, 0, 1), End: day9.AddDate(0, 0, -1)}))
	assert.False(t, r.Covers(DateRange{Start: day0.AddDate(0, 0, -1), End: day9}))
	assert.False(t, r.Covers(DateRange{Start: day0, End: day9.Add(time.Second)}))
}

func TestDateRangeExtend(t *testing.T) {
	jan := DateRange{Start: day0, End: time.Date(2025, time.January, 31, 23, 59, 59, 999999999, time.UTC)}
	feb := DateRange{Start: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)}
	sep := DateRange{Start: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC)}
	tests := []struct {
		name    string
		r       DateRange
		other   DateRange
		touches bool
		want    DateRange
	}{
		{"overlapping", DateRange{Start: day0, End: day9}, DateRange{Start: day0.AddDate(0, 0, 5), End: day9.AddDate(0, 0, 5)}, true,
			DateRange{Start: day0, End: day9.AddDate(0, 0, 5)}},
		{"contained", jan, DateRange{Start: day0, End: day9}, true, jan},
		{"adjacent", jan, feb, true, DateRange{Start: jan.Start, End: feb.End}},
		{"adjacent reversed", feb, jan, true, DateRange{Start: jan.Start, End: feb.End}},
		{"one second gap", DateRange{Start: day0, End: feb.Start.Add(-time.Second)}, feb, false, feb},
		{"disjoint later", jan, sep, false, sep},
		{"disjoint earlier", sep, jan, false, jan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.touches, tt.r.Touches(tt.other))
			assert.Equal(t, tt.touches, tt.other.Touches(tt.r))
			got := tt.r.Extend(tt.other)
			assert.True(t, got.Start.Equal(tt.want.Start), "start %s", got.Start)
			assert.True(t, got.End.Equal(tt.want.End), "end %s", got.End)
		})
	}
}

func TestDateRangeUnionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		draw := func(label string) DateRange {
			a := day0.Add(time.Duration(rapid.IntRange(0, 10_000).Draw(t, label+"Start")) * time.Hour)
			b := a.Add(time.Duration(rapid.IntRange(0, 10_000).Draw(t, label+"Span")) * time.Hour)
			return DateRange{Start: a, End: b}
		}
		x, y := draw("x"), draw("y")
		u := x.Union(y)
		if !u.Covers(x) || !u.Covers(y) {
			t.Fatalf("union %s does not cover %s and %s", u, x, y)
		}
		if !u.Start.Equal(x.Start) && !u.Start.Equal(y.Start) {
			t.Fatalf("union start %s is neither input start", u.Start)
		}
		if !u.End.Equal(x.End) && !u.End.Equal(y.End) {
			t.Fatalf("union end %s is neither input end", u.End)
		}
		if v := y.Union(x); !v.Start.Equal(u.Start) || !v.End.Equal(u.End) {
			t.Fatalf("union is not commutative: %s vs %s", u, v)
		}
	})
}

func TestRecordSetFilter(t *testing.T) {
	rs := RecordSet{
		Issues: []Issue{
			{Number: 1, CreatedAt: day0},
			{Number: 2, CreatedAt: day9.Add(time.Millisecond)},
		},
		PullRequests: []PullRequest{
			{Issue: Issue{Number: 3, CreatedAt: day9}},
			{Issue: Issue{Number: 4, CreatedAt: day0.Add(-time.Hour)}},
		},
	}
	got := rs.Filter(DateRange{Start: day0, End: day9})
	require.Len(t, got.Issues, 1)
	require.Len(t, got.PullRequests, 1)
	assert.Equal(t, 1, got.Issues[0].Number)
	assert.Equal(t, 3, got.PullRequests[0].Number)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 4, rs.Len())
}

func TestPullRequestHelpers(t *testing.T) {
	merged := day9
	assert.True(t, PullRequest{Merged: true, MergedAt: &merged}.IsMerged())
	assert.False(t, PullRequest{Merged: true}.IsMerged())
	assert.False(t, PullRequest{MergedAt: &merged}.IsMerged())
	assert.Equal(t, 15, PullRequest{Additions: 10, Deletions: 5}.Size())
}

func TestCacheSnapshotRecords(t *testing.T) {
	var nilSnap *CacheSnapshot
	assert.Equal(t, 0, nilSnap.Records().Len())

	snap := &CacheSnapshot{Issues: []Issue{{Number: 1}}, PullRequests: []PullRequest{{Issue: Issue{Number: 2}}}}
	assert.Equal(t, 2, snap.Records().Len())
}

func TestDurationDays(t *testing.T) {
	assert.Equal(t, 1.5, DurationDays(day0, day0.Add(36*time.Hour)))
	assert.Equal(t, -1.0, DurationDays(day0.Add(24*time.Hour), day0))
	assert.Equal(t, 0.0, DurationDays(day0, day0.Add(time.Microsecond)))
}
