// Package github patches GitHub issue fields that the ZenHub API cannot set.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/google/go-github/v68/github"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
	"github.com/derekbar90/zenhub-mcp/internal/retry"
)

var issueURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/issues/(\d+)`)

// ParseIssueURL extracts owner, repo and number from an issue's html URL.
func ParseIssueURL(u string) (domain.IssueRef, error) {
	m := issueURLPattern.FindStringSubmatch(u)
	if m == nil {
		return domain.IssueRef{}, fmt.Errorf("unable to parse issue URL %q", u)
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.IssueRef{}, fmt.Errorf("unable to parse issue number in %q: %w", u, err)
	}
	return domain.IssueRef{Owner: m[1], Repo: m[2], Number: n}, nil
}

// Client sets issue types through the GitHub REST API. A newly created issue
// can take a moment to appear, so SetIssueType polls for it first.
type Client struct {
	gh      *github.Client
	retrier *retry.Retrier
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for readiness polling.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a Client authenticated with cfg.Token. A non-empty
// cfg.BaseURL targets a GitHub Enterprise server. httpClient may be nil.
func NewClient(cfg domain.GitHubConfig, rc retry.Config, httpClient *http.Client, opts ...Option) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("github: token is required")
	}
	gh := github.NewClient(httpClient).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
	}
	c := &Client{
		gh:      gh,
		retrier: retry.New(rc, retry.WithRetryable(readinessRetryable)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// readinessRetryable treats 404 as "not visible yet" on top of the usual
// transient failures.
func readinessRetryable(err error) bool {
	return IsNotFound(err) || retry.IsRetryable(err)
}

// IsNotFound reports whether err is a GitHub 404.
func IsNotFound(err error) bool {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode == http.StatusNotFound
	}
	return false
}

// SetIssueType waits for ref to be readable, then PATCHes its type.
func (c *Client) SetIssueType(ctx context.Context, ref domain.IssueRef, issueType string) (*domain.IssueTypeUpdate, error) {
	attempt := 0
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		attempt++
		_, _, err := c.gh.Issues.Get(ctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			c.logger.Debug("github issue not ready", "owner", ref.Owner, "repo", ref.Repo, "number", ref.Number, "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("issue %s/%s#%d not available: %w", ref.Owner, ref.Repo, ref.Number, err)
	}

	path := fmt.Sprintf("repos/%v/%v/issues/%d", ref.Owner, ref.Repo, ref.Number)
	req, err := c.gh.NewRequest(http.MethodPatch, path, map[string]string{"type": issueType})
	if err != nil {
		return nil, fmt.Errorf("github patch request: %w", err)
	}
	var raw json.RawMessage
	if _, err := c.gh.Do(ctx, req, &raw); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}
	return &domain.IssueTypeUpdate{Ref: ref, Type: issueType, Issue: raw}, nil
}

var _ domain.IssueTypeSetter = (*Client)(nil)
