package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// FetchRange lists every issue and pull request created in [start, end].
// The listing "since" filter bounds updates, not creation, so both ends of
// the range are checked client side. Pull requests are enriched with a
// detail request; a failed detail request drops that pull request unless
// the failure is an authentication or rate-limit error.
func (c *Client) FetchRange(ctx context.Context, credential, owner, repo string, start, end time.Time) (schema.RecordSet, error) {
	gh := c.github(credential)
	rng := schema.DateRange{Start: start, End: end}
	out := schema.RecordSet{Issues: []schema.Issue{}, PullRequests: []schema.PullRequest{}}

	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       start,
		ListOptions: github.ListOptions{Page: 1, PerPage: PageSize},
	}

	for {
		items, _, err := gh.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return schema.RecordSet{}, classifyError(err)
		}
		c.log.Debugw("Fetched issue page", "repository", owner+"/"+repo, "page", opts.Page, "items", len(items))

		for _, item := range items {
			issue, err := parseIssue(item)
			if err != nil {
				c.log.Warnw("Skipping malformed item", "repository", owner+"/"+repo, "error", err)
				continue
			}
			if !rng.Contains(issue.CreatedAt) {
				continue
			}
			if !item.IsPullRequest() {
				out.Issues = append(out.Issues, issue)
				continue
			}

			pr, err := c.fetchPullRequest(ctx, gh, owner, repo, issue)
			if err != nil {
				if fatal(ctx, err) {
					return schema.RecordSet{}, err
				}
				c.log.Warnw("Skipping pull request", "repository", owner+"/"+repo,
					"error", &contract.PartialItemError{Number: issue.Number, Err: err})
				continue
			}
			out.PullRequests = append(out.PullRequests, pr)
		}

		if len(items) < PageSize {
			break
		}
		opts.Page++
	}

	c.log.Infow("Fetched range", "repository", owner+"/"+repo, "range", rng.String(),
		"issues", len(out.Issues), "pull_requests", len(out.PullRequests))
	return out, nil
}

// fetchPullRequest loads the detail payload for a listed pull request.
func (c *Client) fetchPullRequest(ctx context.Context, gh *github.Client, owner, repo string, listed schema.Issue) (schema.PullRequest, error) {
	detail, _, err := gh.PullRequests.Get(ctx, owner, repo, listed.Number)
	if err != nil {
		return schema.PullRequest{}, classifyError(err)
	}
	return parsePullRequest(listed, detail), nil
}

// fatal reports whether a detail error must abort the whole fetch.
func fatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var ue *contract.UpstreamError
	return errors.As(err, &ue) && ue.Fatal()
}

// Ping checks that credential can read the repository.
func (c *Client) Ping(ctx context.Context, credential, owner, repo string) error {
	_, _, err := c.github(credential).Repositories.Get(ctx, owner, repo)
	if err != nil {
		return classifyError(err)
	}
	return nil
}
