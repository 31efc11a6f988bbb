package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/lazypower/skilltrack/internal/github"
	"github.com/lazypower/skilltrack/internal/store"
	"go.uber.org/zap"
)

// NoRecentCommits is recorded as the last commit when a sync finds none.
const NoRecentCommits = "No recent commits"

const previewLen = 50

// SyncResult describes a completed sync.
type SyncResult struct {
	SkillID      int64
	Repo         string
	Activity     Activity
	AppliedBoost float64
	Proficiency  float64 // after the boost
	LastCommit   string
	Message      string // human-readable summary
}

// Sync fetches recent commits for repo and boosts the skill's proficiency by
// the activity score. A blank repo falls back to the skill's own repository.
//
// The store is read before and written after the fetch; no lock is held while
// waiting on GitHub. The boost is clamped against the proficiency current at
// write time, so a decay tick landing mid-fetch is accounted for.
func (e *Engine) Sync(ctx context.Context, skillID int64, repo string) (*SyncResult, error) {
	skill, err := e.DB.GetSkill(skillID)
	if err != nil {
		return nil, err
	}

	repo = NormalizeRepo(repo)
	if repo == "" {
		repo = NormalizeRepo(skill.GitHubRepo)
	}
	token := skill.GitHubToken
	if token == "" {
		token = e.opts.DefaultToken
	}

	if e.opts.SyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.SyncTimeout)
		defer cancel()
	}

	since := e.now().Add(-e.opts.Lookback)
	commits, err := e.Commits.ListCommits(ctx, repo, since, token)
	if err != nil {
		msg := msgSyncTransport
		if errors.Is(err, github.ErrDecode) {
			msg = msgSyncDecode
		}
		e.logger.Warn("github sync failed",
			zap.Int64("skill", skillID),
			zap.String("repo", repo),
			zap.Error(err))
		return nil, &SyncError{Message: msg, Err: err}
	}

	messages := make([]string, len(commits))
	for i, c := range commits {
		messages[i] = c.Message
	}
	activity := ScoreActivity(messages)

	lastCommit := NoRecentCommits
	if len(messages) > 0 {
		lastCommit = messages[0]
	}

	var applied float64
	updated, err := e.DB.UpdateSkill(skillID, func(s *store.Skill) error {
		applied = AppliedBoost(activity.Boost, s.Proficiency)
		s.Proficiency += applied
		s.LastCommit = &lastCommit
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply boost: %w", err)
	}

	e.logger.Info("github sync",
		zap.Int64("skill", skillID),
		zap.String("repo", repo),
		zap.Int("commits", activity.Commits),
		zap.Int("keyword_matches", activity.KeywordMatches),
		zap.Int("activity_score", activity.Score),
		zap.Float64("boost", applied),
		zap.Float64("proficiency", updated.Proficiency))

	return &SyncResult{
		SkillID:      skillID,
		Repo:         repo,
		Activity:     activity,
		AppliedBoost: applied,
		Proficiency:  updated.Proficiency,
		LastCommit:   lastCommit,
		Message:      summary(activity, applied, lastCommit),
	}, nil
}

func summary(a Activity, applied float64, lastCommit string) string {
	return fmt.Sprintf("AI Boost: +%s%%. Activity: %d commits, score %d. Last: %s...",
		formatPoints(applied), a.Commits, a.Score, preview(lastCommit, previewLen))
}

// preview returns at most n runes of s.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
