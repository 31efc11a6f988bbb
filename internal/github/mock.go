package github

import (
	"context"
	"sync"
	"time"
)

// MockLister is a test double for CommitLister.
type MockLister struct {
	Commits []Commit
	Err     error

	mu    sync.Mutex
	Calls []MockCall // records requests
}

// MockCall is one recorded ListCommits invocation.
type MockCall struct {
	Repo  string
	Since time.Time
	Token string
}

// ListCommits records the call and returns the canned commits.
func (m *MockLister) ListCommits(ctx context.Context, repo string, since time.Time, token string) ([]Commit, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Repo: repo, Since: since, Token: token})
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Commits, nil
}

// Messages builds commits carrying only the given messages, newest first.
func Messages(msgs ...string) []Commit {
	commits := make([]Commit, len(msgs))
	for i, m := range msgs {
		commits[i] = Commit{Message: m}
	}
	return commits
}
