package upstream

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/huangsam/repopulse/schema"
)

// unknownAuthor is used when the API omits the user.
const unknownAuthor = "Unknown"

// errMalformed marks a listing item that cannot be normalized.
var errMalformed = errors.New("malformed item")

// parseIssue validates a listing item and converts it into an Issue.
// Items without a number, a creation time, or a title are rejected.
func parseIssue(item *github.Issue) (schema.Issue, error) {
	if item == nil {
		return schema.Issue{}, fmt.Errorf("%w: nil item", errMalformed)
	}
	if item.GetNumber() <= 0 {
		return schema.Issue{}, fmt.Errorf("%w: missing number", errMalformed)
	}
	if item.CreatedAt == nil || item.CreatedAt.IsZero() {
		return schema.Issue{}, fmt.Errorf("%w: #%d missing created_at", errMalformed, item.GetNumber())
	}
	if strings.TrimSpace(item.GetTitle()) == "" {
		return schema.Issue{}, fmt.Errorf("%w: #%d missing title", errMalformed, item.GetNumber())
	}

	author := unknownAuthor
	if item.User != nil && item.User.GetLogin() != "" {
		author = item.User.GetLogin()
	}

	return schema.Issue{
		Number:       item.GetNumber(),
		Title:        item.GetTitle(),
		State:        parseState(item.GetState()),
		CreatedAt:    item.GetCreatedAt().UTC(),
		ClosedAt:     timestampPtr(item.ClosedAt),
		UpdatedAt:    timestampPtr(item.UpdatedAt),
		Author:       author,
		Labels:       labelNames(item.Labels),
		CommentCount: item.GetComments(),
	}, nil
}

// parsePullRequest merges the detail payload over the listing item it came from.
func parsePullRequest(base schema.Issue, pr *github.PullRequest) schema.PullRequest {
	out := schema.PullRequest{Issue: base}
	if pr == nil {
		return out
	}

	if pr.GetTitle() != "" {
		out.Title = pr.GetTitle()
	}
	if pr.GetState() != "" {
		out.State = parseState(pr.GetState())
	}
	if pr.ClosedAt != nil {
		out.ClosedAt = timestampPtr(pr.ClosedAt)
	}
	if pr.UpdatedAt != nil {
		out.UpdatedAt = timestampPtr(pr.UpdatedAt)
	}
	if pr.User != nil && pr.User.GetLogin() != "" {
		out.Author = pr.User.GetLogin()
	}
	if len(pr.Labels) > 0 {
		out.Labels = labelNames(pr.Labels)
	}
	if pr.Comments != nil {
		out.CommentCount = pr.GetComments()
	}

	out.MergedAt = timestampPtr(pr.MergedAt)
	out.Merged = pr.GetMerged() || pr.MergedAt != nil
	out.ReviewCommentCount = pr.GetReviewComments()
	out.Body = pr.GetBody()
	out.Additions = pr.GetAdditions()
	out.Deletions = pr.GetDeletions()
	out.ChangedFiles = pr.GetChangedFiles()
	out.RequestedReviewers = make([]string, 0, len(pr.RequestedReviewers))
	for _, u := range pr.RequestedReviewers {
		if login := u.GetLogin(); login != "" {
			out.RequestedReviewers = append(out.RequestedReviewers, login)
		}
	}
	return out
}

func parseState(s string) schema.IssueState {
	if strings.EqualFold(s, string(schema.StateClosed)) {
		return schema.StateClosed
	}
	return schema.StateOpen
}

func labelNames(labels []*github.Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if name := l.GetName(); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func timestampPtr(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.UTC()
	return &t
}
