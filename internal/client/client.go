package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultServerURL = "http://127.0.0.1:5000"
	httpTimeout      = 60 * time.Second
)

// Skill is a skill as returned by the API.
type Skill struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	DecayRate   float64 `json:"decay_rate"`
	GitHubRepo  string  `json:"github_repo"`
	HasToken    bool    `json:"has_token"`
	Proficiency float64 `json:"proficiency"`
	LastCommit  *string `json:"last_commit"`
	CreatedAt   int64   `json:"created_at"`
}

// NewSkill is the add-skill request body.
type NewSkill struct {
	Name               string   `json:"name"`
	DecayRate          float64  `json:"decay_rate"`
	GitHubRepo         string   `json:"github_repo"`
	GitHubToken        string   `json:"github_token,omitempty"`
	InitialProficiency *float64 `json:"initial_proficiency,omitempty"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Client talks to the skilltrack server.
type Client struct {
	http      *http.Client
	serverURL string
}

// New creates a client for serverURL. An empty serverURL falls back to the
// SKILLTRACK_URL env var, then http://127.0.0.1:5000.
func New(serverURL string) *Client {
	if serverURL == "" {
		serverURL = os.Getenv("SKILLTRACK_URL")
	}
	if serverURL == "" {
		serverURL = defaultServerURL
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: strings.TrimRight(serverURL, "/"),
	}
}

// ListSkills returns every skill in creation order.
func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var skills []Skill
	if err := c.do(ctx, "GET", "/api/skills", nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// GetSkill returns one skill.
func (c *Client) GetSkill(ctx context.Context, id int64) (*Skill, error) {
	var s Skill
	if err := c.do(ctx, "GET", "/api/skills/"+strconv.FormatInt(id, 10), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AddSkill creates a skill and returns its id.
func (c *Client) AddSkill(ctx context.Context, s NewSkill) (int64, error) {
	var resp struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	if err := c.do(ctx, "POST", "/api/add-skill", s, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Sync boosts a skill from its recent commits and returns the server's
// summary. An empty repo uses the skill's own repository.
func (c *Client) Sync(ctx context.Context, id int64, repo string) (string, error) {
	req := map[string]any{"skillId": id, "repoPath": repo}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, "POST", "/api/sync-github", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.do(ctx, "GET", "/api/health", nil, nil) == nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &e) != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
