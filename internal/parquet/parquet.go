// Package parquet exports cached issue and pull request records to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/repopulse/schema"
)

// IssueRow is the flattened Parquet form of schema.Issue.
type IssueRow struct {
	// Number is the upstream issue number
	Number int64 `parquet:"number,snappy"`

	Title string `parquet:"title,snappy"`
	State string `parquet:"state,snappy"`

	// CreatedAt is stored as TIMESTAMP with nanosecond precision
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// ClosedAt is nil while the issue is open
	ClosedAt *time.Time `parquet:"closed_at,optional,snappy"`

	UpdatedAt *time.Time `parquet:"updated_at,optional,snappy"`
	Author    string     `parquet:"author,snappy"`

	// Labels is a comma-separated list of label names
	Labels       string `parquet:"labels,snappy"`
	CommentCount int32  `parquet:"comment_count,snappy"`
}

// PullRequestRow is the flattened Parquet form of schema.PullRequest.
type PullRequestRow struct {
	Number       int64      `parquet:"number,snappy"`
	Title        string     `parquet:"title,snappy"`
	State        string     `parquet:"state,snappy"`
	CreatedAt    time.Time  `parquet:"created_at,snappy"`
	ClosedAt     *time.Time `parquet:"closed_at,optional,snappy"`
	UpdatedAt    *time.Time `parquet:"updated_at,optional,snappy"`
	Author       string     `parquet:"author,snappy"`
	Labels       string     `parquet:"labels,snappy"`
	CommentCount int32      `parquet:"comment_count,snappy"`

	// MergedAt is nil for unmerged pull requests
	MergedAt *time.Time `parquet:"merged_at,optional,snappy"`

	Merged             bool  `parquet:"merged,snappy"`
	ReviewCommentCount int32 `parquet:"review_comment_count,snappy"`
	Additions          int32 `parquet:"additions,snappy"`
	Deletions          int32 `parquet:"deletions,snappy"`
	ChangedFiles       int32 `parquet:"changed_files,snappy"`

	// RequestedReviewers is a comma-separated list of logins
	RequestedReviewers string `parquet:"requested_reviewers,snappy"`

	// MergeTimeDays is merged_at minus created_at in fractional days (nullable)
	MergeTimeDays *float64 `parquet:"merge_time_days,optional,snappy"`
}

// ConvertIssues converts schema.Issue records for Parquet export.
func ConvertIssues(issues []schema.Issue) []IssueRow {
	result := make([]IssueRow, len(issues))
	for i, is := range issues {
		result[i] = IssueRow{
			Number:       int64(is.Number),
			Title:        is.Title,
			State:        string(is.State),
			CreatedAt:    is.CreatedAt,
			ClosedAt:     is.ClosedAt,
			UpdatedAt:    is.UpdatedAt,
			Author:       is.Author,
			Labels:       strings.Join(is.Labels, ","),
			CommentCount: int32(is.CommentCount),
		}
	}
	return result
}

// ConvertPullRequests converts schema.PullRequest records for Parquet export.
func ConvertPullRequests(prs []schema.PullRequest) []PullRequestRow {
	result := make([]PullRequestRow, len(prs))
	for i, pr := range prs {
		row := PullRequestRow{
			Number:             int64(pr.Number),
			Title:              pr.Title,
			State:              string(pr.State),
			CreatedAt:          pr.CreatedAt,
			ClosedAt:           pr.ClosedAt,
			UpdatedAt:          pr.UpdatedAt,
			Author:             pr.Author,
			Labels:             strings.Join(pr.Labels, ","),
			CommentCount:       int32(pr.CommentCount),
			MergedAt:           pr.MergedAt,
			Merged:             pr.Merged,
			ReviewCommentCount: int32(pr.ReviewCommentCount),
			Additions:          int32(pr.Additions),
			Deletions:          int32(pr.Deletions),
			ChangedFiles:       int32(pr.ChangedFiles),
			RequestedReviewers: strings.Join(pr.RequestedReviewers, ","),
		}
		if pr.IsMerged() {
			days := schema.DurationDays(pr.CreatedAt, *pr.MergedAt)
			row.MergeTimeDays = &days
		}
		result[i] = row
	}
	return result
}

// WriteIssuesParquet writes issue rows to a Parquet file.
func WriteIssuesParquet(data []IssueRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WritePullRequestsParquet writes pull request rows to a Parquet file.
func WritePullRequestsParquet(data []PullRequestRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes rows using a schema inferred from the row struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}
