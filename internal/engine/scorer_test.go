package engine

import "testing"

func TestScoreActivity(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     Activity
	}{
		{
			name:     "three commits with keywords",
			messages: []string{"fix bug", "update docs", "misc"},
			want:     Activity{Commits: 3, KeywordMatches: 3, Score: 21, Boost: 40},
		},
		{
			name:     "no commits",
			messages: nil,
			want:     Activity{Commits: 0, KeywordMatches: 0, Score: 0, Boost: 5},
		},
		{
			name:     "case insensitive",
			messages: []string{"FIX the Feature"},
			want:     Activity{Commits: 1, KeywordMatches: 2, Score: 12, Boost: 20},
		},
		{
			name:     "repeated keyword counts once per message",
			messages: []string{"fix fix fix"},
			want:     Activity{Commits: 1, KeywordMatches: 1, Score: 7, Boost: 10},
		},
		{
			name:     "substring matches",
			messages: []string{"prefix address"}, // "fix", "add"
			want:     Activity{Commits: 1, KeywordMatches: 2, Score: 12, Boost: 20},
		},
		{
			name:     "plain commits only",
			messages: []string{"wip", "wip", "wip", "wip", "wip"},
			want:     Activity{Commits: 5, KeywordMatches: 0, Score: 10, Boost: 20},
		},
		{
			name:     "single plain commit",
			messages: []string{"initial"},
			want:     Activity{Commits: 1, KeywordMatches: 0, Score: 2, Boost: 5},
		},
		{
			name:     "every keyword",
			messages: []string{"fix bug feature add update refactor improve"},
			want:     Activity{Commits: 1, KeywordMatches: 7, Score: 37, Boost: 60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreActivity(tt.messages)
			if got != tt.want {
				t.Errorf("ScoreActivity(%q) = %+v, want %+v", tt.messages, got, tt.want)
			}
		})
	}
}

func TestScoreActivityCeiling(t *testing.T) {
	msgs := make([]string, 200)
	for i := range msgs {
		msgs[i] = "refactor and improve: fix bug, add feature, update"
	}
	got := ScoreActivity(msgs)
	if got.Score != 50 {
		t.Errorf("Score = %d, want ceiling 50", got.Score)
	}
	if got.Boost != 60 {
		t.Errorf("Boost = %d, want 60", got.Boost)
	}

	// 25 plain commits land exactly on the ceiling
	plain := make([]string, 25)
	for i := range plain {
		plain[i] = "wip"
	}
	exact := ScoreActivity(plain)
	if exact.Score != 50 {
		t.Errorf("Score = %d for 25 commits, want 50", exact.Score)
	}
}

func TestBoostBands(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 5}, {4, 5},
		{5, 10}, {9, 10},
		{10, 20}, {19, 20},
		{20, 40}, {29, 40},
		{30, 60}, {50, 60},
	}
	for _, tt := range tests {
		if got := boostFor(tt.score); got != tt.want {
			t.Errorf("boostFor(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestScoreActivityDeterministic(t *testing.T) {
	msgs := []string{"Add parser", "Fix panic on empty input", "bump deps"}
	first := ScoreActivity(msgs)
	for i := 0; i < 10; i++ {
		if got := ScoreActivity(msgs); got != first {
			t.Fatalf("call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestAppliedBoost(t *testing.T) {
	tests := []struct {
		boost   int
		current float64
		want    float64
	}{
		{40, 50, 40},
		{60, 50, 50},
		{5, 99.5, 0.5},
		{60, 100, 0},
		{60, 120, 0},
		{10, 0, 10},
	}
	for _, tt := range tests {
		if got := AppliedBoost(tt.boost, tt.current); got != tt.want {
			t.Errorf("AppliedBoost(%d, %v) = %v, want %v", tt.boost, tt.current, got, tt.want)
		}
	}
}
