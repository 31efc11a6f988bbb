package engine

import (
	"math"
	"strings"
)

// Activity scoring:
//   - keyword matches: per message, one match for each keyword it contains
//     (case-insensitive substring), not one per occurrence
//   - score = min(commits*2 + matches*5, 50)
//   - boost bands, highest first: >=30 → 60, >=20 → 40, >=10 → 20, >=5 → 10, else 5

var activityKeywords = []string{"fix", "bug", "feature", "add", "update", "refactor", "improve"}

const maxActivityScore = 50

var boostBands = []struct {
	minScore int
	boost    int
}{
	{30, 60},
	{20, 40},
	{10, 20},
	{5, 10},
}

const baseBoost = 5

// Activity is the result of scoring a list of commit messages.
type Activity struct {
	Commits        int
	KeywordMatches int
	Score          int
	Boost          int // before clamping to the headroom below 100
}

// ScoreActivity scores commit messages, newest first. It has no side effects.
func ScoreActivity(messages []string) Activity {
	a := Activity{Commits: len(messages)}
	for _, m := range messages {
		a.KeywordMatches += keywordMatches(m)
	}
	a.Score = min(a.Commits*2+a.KeywordMatches*5, maxActivityScore)
	a.Boost = boostFor(a.Score)
	return a
}

func keywordMatches(message string) int {
	lower := strings.ToLower(message)
	n := 0
	for _, kw := range activityKeywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func boostFor(score int) int {
	for _, b := range boostBands {
		if score >= b.minScore {
			return b.boost
		}
	}
	return baseBoost
}

// AppliedBoost returns how much of boost fits below 100 for a skill at
// current proficiency. Never negative.
func AppliedBoost(boost int, current float64) float64 {
	headroom := 100 - current
	if math.IsNaN(headroom) || headroom <= 0 {
		return 0
	}
	return math.Max(0, math.Min(float64(boost), headroom))
}
