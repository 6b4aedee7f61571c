// Package schema holds the record, snapshot, and view types shared across repopulse.
package schema

import (
	"fmt"
	"time"
)

// Issue is a normalized issue record from the hosting API.
type Issue struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	State        IssueState `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Author       string     `json:"author"`
	Labels       []string   `json:"labels"`
	CommentCount int        `json:"comment_count"`
}

// PullRequest is a normalized pull request record. It shares the number space
// with issues upstream but is stored in its own collection.
type PullRequest struct {
	Issue
	MergedAt           *time.Time `json:"merged_at,omitempty"`
	Merged             bool       `json:"merged"`
	ReviewCommentCount int        `json:"review_comment_count"`
	Body               string     `json:"body"`
	Additions          int        `json:"additions"`
	Deletions          int        `json:"deletions"`
	ChangedFiles       int        `json:"changed_files"`
	RequestedReviewers []string   `json:"requested_reviewers"`
}

// IsMerged reports whether the pull request was merged and carries a merge time.
func (pr PullRequest) IsMerged() bool {
	return pr.Merged && pr.MergedAt != nil
}

// Size returns additions plus deletions.
func (pr PullRequest) Size() int {
	return pr.Additions + pr.Deletions
}

// RecordSet is a pair of issue and pull request collections.
type RecordSet struct {
	Issues       []Issue       `json:"issues"`
	PullRequests []PullRequest `json:"pullRequests"`
}

// Len returns the total number of records.
func (rs RecordSet) Len() int {
	return len(rs.Issues) + len(rs.PullRequests)
}

// Filter returns the records whose created_at falls inside r.
func (rs RecordSet) Filter(r DateRange) RecordSet {
	out := RecordSet{
		Issues:       make([]Issue, 0, len(rs.Issues)),
		PullRequests: make([]PullRequest, 0, len(rs.PullRequests)),
	}
	for _, is := range rs.Issues {
		if r.Contains(is.CreatedAt) {
			out.Issues = append(out.Issues, is)
		}
	}
	for _, pr := range rs.PullRequests {
		if r.Contains(pr.CreatedAt) {
			out.PullRequests = append(out.PullRequests, pr)
		}
	}
	return out
}

// DateRange is an inclusive time interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange returns a range, or an error when start is after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, fmt.Errorf("start (%s) cannot be after end (%s)", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Covers reports whether other lies entirely inside r.
func (r DateRange) Covers(other DateRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Union returns the smallest range containing both r and other.
func (r DateRange) Union(other DateRange) DateRange {
	out := r
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.End.After(out.End) {
		out.End = other.End
	}
	return out
}

// Touches reports whether r and other overlap or are adjacent, so that no
// instant lies between them.
func (r DateRange) Touches(other DateRange) bool {
	return !other.Start.After(r.End.Add(time.Nanosecond)) && !r.Start.After(other.End.Add(time.Nanosecond))
}

// Extend returns the covered range after other has been fetched on top of r.
// Touching ranges are joined. A disjoint other replaces r, because nothing was
// fetched for the gap between them.
func (r DateRange) Extend(other DateRange) DateRange {
	if r.Touches(other) {
		return r.Union(other)
	}
	return other
}

// Days returns the span of the range in fractional days.
func (r DateRange) Days() float64 {
	return DurationDays(r.Start, r.End)
}

// String renders the range for logs and tables.
func (r DateRange) String() string {
	return fmt.Sprintf("%s → %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// CacheSnapshot is the persisted cache document. Every record created inside
// DateRange is present.
type CacheSnapshot struct {
	Issues       []Issue       `json:"issues"`
	PullRequests []PullRequest `json:"pullRequests"`
	LastUpdated  time.Time     `json:"lastUpdated"`
	DateRange    DateRange     `json:"dateRange"`
}

// Records returns the snapshot contents as a RecordSet.
func (s *CacheSnapshot) Records() RecordSet {
	if s == nil {
		return RecordSet{}
	}
	return RecordSet{Issues: s.Issues, PullRequests: s.PullRequests}
}

// millisPerDay converts milliseconds to days.
const millisPerDay = 86_400_000.0

// DurationDays returns (to - from) in fractional days at millisecond resolution.
func DurationDays(from, to time.Time) float64 {
	return float64(to.Sub(from).Milliseconds()) / millisPerDay
}
