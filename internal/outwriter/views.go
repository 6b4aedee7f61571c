package outwriter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// viewTable is one dashboard view flattened into rows of strings.
type viewTable struct {
	view   schema.ReportView
	title  string
	header []string
	rows   [][]string
}

// tableStyle carries the per-format rendering choices for view rows.
type tableStyle struct {
	fmtFloat  func(float64) string
	intFmt    string
	textWidth int  // 0 disables truncation
	colors    bool // colored labels for terminal tables
}

// tableViews lists the views rendered by the "all" view, in display order.
var tableViews = []schema.ReportView{
	schema.KPIView,
	schema.LabelView,
	schema.ContributorView,
	schema.TimelineView,
	schema.ActivityView,
	schema.ThroughputView,
	schema.CycleTimeView,
	schema.AgingView,
	schema.LinkageView,
	schema.PRSizeView,
	schema.AuthorView,
	schema.ReviewerView,
}

// selectedViews expands view into the list of views to render.
func selectedViews(view schema.ReportView) []schema.ReportView {
	if view == "" || view == schema.AllView {
		return tableViews
	}
	return []schema.ReportView{view}
}

func (s tableStyle) text(v string) string {
	if s.textWidth <= 0 {
		return v
	}
	return contract.TruncateText(v, s.textWidth)
}

func (s tableStyle) count(v int) string {
	return fmt.Sprintf(s.intFmt, v)
}

// buildViewTable flattens the named view of data.
func buildViewTable(data *schema.DashboardData, view schema.ReportView, s tableStyle) viewTable {
	switch view {
	case schema.KPIView:
		k := data.KPIs
		return viewTable{view: view, title: "Key Metrics", header: []string{"metric", "value"}, rows: [][]string{
			{"total_issues", s.count(k.TotalIssues)},
			{"open_issues", s.count(k.OpenIssues)},
			{"closed_issues", s.count(k.ClosedIssues)},
			{"total_prs", s.count(k.TotalPRs)},
			{"open_prs", s.count(k.OpenPRs)},
			{"closed_prs", s.count(k.ClosedPRs)},
			{"merged_prs", s.count(k.MergedPRs)},
			{"avg_issue_resolution_days", s.fmtFloat(k.AvgIssueResolutionDays)},
			{"avg_pr_merge_days", s.fmtFloat(k.AvgPRMergeDays)},
		}}

	case schema.LabelView:
		t := viewTable{view: view, title: "Label Frequency", header: []string{"label", "count"}}
		for _, l := range data.Labels {
			t.rows = append(t.rows, []string{s.text(l.Label), s.count(l.Count)})
		}
		return t

	case schema.ContributorView:
		t := viewTable{view: view, title: "Contributors", header: []string{"rank", "author", "issues", "prs", "total"}}
		for i, c := range data.Contributors {
			t.rows = append(t.rows, []string{strconv.Itoa(i + 1), s.text(c.Author), s.count(c.Issues), s.count(c.PRs), s.count(c.Total)})
		}
		return t

	case schema.TimelineView:
		t := viewTable{view: view, title: "Merged PRs by Week", header: []string{"week", "merged_prs", "avg_merge_days"}}
		for _, b := range data.Timeline {
			t.rows = append(t.rows, []string{b.Week, s.count(b.MergedPRs), s.fmtFloat(b.AvgMergeDays)})
		}
		return t

	case schema.ActivityView:
		t := viewTable{view: view, title: "Daily Activity", header: []string{"date", "issues", "prs", "total"}}
		for _, b := range data.Activity {
			t.rows = append(t.rows, []string{b.Date, s.count(b.Issues), s.count(b.PRs), s.count(b.Total)})
		}
		return t

	case schema.ThroughputView:
		t := viewTable{view: view, title: "Throughput", header: []string{"period", "granularity", "closed_issues", "merged_prs"}}
		for _, b := range data.Throughput {
			t.rows = append(t.rows, []string{b.Period, string(b.Granularity), s.count(b.ClosedIssues), s.count(b.MergedPRs)})
		}
		return t

	case schema.CycleTimeView:
		t := viewTable{view: view, title: "Cycle Time", header: []string{"period", "granularity", "prs", "avg_cycle_time_days"}}
		for _, b := range data.CycleTime {
			t.rows = append(t.rows, []string{b.Period, string(b.Granularity), s.count(b.PRs), s.fmtFloat(b.AvgCycleTimeDays)})
		}
		return t

	case schema.AgingView:
		title := "Open Issue Aging"
		if data.Meta.AgingPolicy == schema.LinkedMergePolicy {
			title = "Issue Age at Linked Merge"
		}
		t := viewTable{view: view, title: title, header: []string{"bucket", "count"}}
		for _, e := range data.IssueAging {
			bucket := e.Bucket
			if s.colors {
				bucket = contract.GetAgeColorLabel(bucket)
			}
			t.rows = append(t.rows, []string{bucket, s.count(e.Count)})
		}
		return t

	case schema.LinkageView:
		t := viewTable{view: view, title: "PR-Issue Linkage", header: []string{"pr", "title", "merged", "linked_issues"}}
		for _, l := range data.PRIssueLinkage {
			t.rows = append(t.rows, []string{strconv.Itoa(l.PRNumber), s.text(l.PRTitle), strconv.FormatBool(l.Merged), l.LinkedIssues})
		}
		return t

	case schema.PRSizeView:
		t := viewTable{view: view, title: "PR Size vs Merge Time", header: []string{"pr", "title", "author", "size", "changed_files", "merge_time_days"}}
		for _, p := range data.PRSizeMergeTime {
			t.rows = append(t.rows, []string{strconv.Itoa(p.PRNumber), s.text(p.Title), p.Author, s.count(p.Size), s.count(p.ChangedFiles), s.fmtFloat(p.MergeTimeDays)})
		}
		return t

	case schema.AuthorView:
		return mergeTimeTable(view, "Merge Time by Author", "author", data.MergeTimeByAuthor, s)

	case schema.ReviewerView:
		return mergeTimeTable(view, "Merge Time by Reviewer", "reviewer", data.MergeTimeByReviewer, s)

	case schema.IssueListView:
		t := viewTable{view: view, title: "Issues", header: []string{"number", "title", "state", "author", "created_at", "closed_at", "labels", "comments"}}
		for _, is := range data.Issues {
			t.rows = append(t.rows, []string{
				strconv.Itoa(is.Number), s.text(is.Title), string(is.State), is.Author,
				is.CreatedAt.Format(contract.DateTimeFormat), formatOptionalTime(is.ClosedAt),
				strings.Join(is.Labels, "|"), s.count(is.CommentCount),
			})
		}
		return t

	case schema.PullRequestsView:
		t := viewTable{view: view, title: "Pull Requests", header: []string{"number", "title", "state", "author", "created_at", "merged_at", "additions", "deletions", "reviewers"}}
		for _, pr := range data.PullRequests {
			t.rows = append(t.rows, []string{
				strconv.Itoa(pr.Number), s.text(pr.Title), string(pr.State), pr.Author,
				pr.CreatedAt.Format(contract.DateTimeFormat), formatOptionalTime(pr.MergedAt),
				s.count(pr.Additions), s.count(pr.Deletions), strings.Join(pr.RequestedReviewers, "|"),
			})
		}
		return t
	}
	return viewTable{view: view, title: string(view)}
}

func mergeTimeTable(view schema.ReportView, title, who string, groups []schema.MergeTimeByUser, s tableStyle) viewTable {
	t := viewTable{view: view, title: title, header: []string{who, "count", "avg_merge_time_days"}}
	for _, g := range groups {
		t.rows = append(t.rows, []string{s.text(g.User), s.count(g.Count), s.fmtFloat(g.AvgMergeTimeDays)})
	}
	return t
}

// formatOptionalTime renders t, or an empty string when it is unset.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(contract.DateTimeFormat)
}
