package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	perr "defectwatch/internal/platform/errors"
)

// Label is the subset of a GitHub label the severity mapping needs
type Label struct {
	Name string `json:"name"`
}

// Issue is the subset of a GitHub issue the weekly aggregation needs
type Issue struct {
	Number    int        `json:"number"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	Labels    []Label    `json:"labels"`

	// PullRequest is set when the "issue" is actually a PR; those are skipped
	PullRequest json.RawMessage `json:"pull_request,omitempty"`
}

// IsPullRequest reports whether the issue payload is a pull request
func (i Issue) IsPullRequest() bool { return len(i.PullRequest) > 0 }

const perPage = 100

// ListIssues pages through all issues of owner/name created inside
// [since, until], following Link headers until exhausted. Pull requests
// are filtered out
func (c *Client) ListIssues(ctx context.Context, repo string, since, until time.Time) ([]Issue, error) {
	if !strings.Contains(repo, "/") {
		return nil, perr.InvalidArgf("repo must be owner/name, got %q", repo)
	}

	q := url.Values{}
	q.Set("state", "all")
	q.Set("since", since.UTC().Format(time.RFC3339))
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	next := fmt.Sprintf("/repos/%s/issues?%s", repo, q.Encode())

	var out []Issue
	pages := 0
	for next != "" {
		resp, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		var page []Issue
		body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
		cerr := resp.Body.Close()
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github read body failed")
		}
		if cerr != nil {
			c.log.Error().Err(cerr).Msg("github close body failed")
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "github decode issues page")
		}

		for _, it := range page {
			if it.IsPullRequest() {
				continue
			}
			if it.CreatedAt.Before(since) || it.CreatedAt.After(until) {
				continue
			}
			out = append(out, it)
		}

		pages++
		next = nextLink(resp.Header)
	}

	c.log.Info().Str("repo", repo).Int("issues", len(out)).Int("pages", pages).Msg("github issues fetched")
	return out, nil
}
