package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrDecode is returned when the commit listing cannot be parsed.
var ErrDecode = errors.New("decode commits")

// Commit is a single commit from a repository listing.
type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
}

// CommitLister lists the commits of a repository made since a point in
// time, newest first. token may be empty for unauthenticated access.
type CommitLister interface {
	ListCommits(ctx context.Context, repo string, since time.Time, token string) ([]Commit, error)
}

// Client calls the GitHub REST commits endpoint.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a GitHub API client. timeout bounds a whole request
// including reading the body; zero means no limit.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// ListCommits fetches GET /repos/{repo}/commits?since=... .
func (c *Client) ListCommits(ctx context.Context, repo string, since time.Time, token string) ([]Commit, error) {
	repo = strings.Trim(strings.TrimSpace(repo), "/")
	if repo == "" {
		return nil, errors.New("empty repository")
	}

	q := url.Values{}
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpoint := c.baseURL + "/repos/" + repo + "/commits?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return decodeCommits(body)
}

func decodeCommits(body []byte) ([]Commit, error) {
	var raw []struct {
		SHA    string `json:"sha"`
		Commit *struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: body is not a commit list", ErrDecode)
	}

	commits := make([]Commit, 0, len(raw))
	for i, r := range raw {
		if r.Commit == nil {
			return nil, fmt.Errorf("%w: entry %d has no commit object", ErrDecode, i)
		}
		commits = append(commits, Commit{
			SHA:     r.SHA,
			Message: r.Commit.Message,
			Author:  r.Commit.Author.Name,
			Date:    r.Commit.Author.Date,
		})
	}
	return commits, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
