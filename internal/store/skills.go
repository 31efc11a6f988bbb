package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinProficiency     = 0.0
	MaxProficiency     = 100.0
	DefaultProficiency = MaxProficiency
)

var (
	// ErrNotFound is returned when no skill has the requested id.
	ErrNotFound = errors.New("skill not found")
	// ErrValidation is returned when a draft cannot become a skill.
	ErrValidation = errors.New("invalid skill")
)

// Skill is a tracked skill. Proficiency is always within [0, 100].
type Skill struct {
	ID          int64
	Name        string
	DecayRate   float64 // fraction of 100 points lost per decay tick
	GitHubRepo  string  // "owner/name", not validated
	GitHubToken string
	Proficiency float64
	LastCommit  *string // nil until the first successful sync
	CreatedAt   int64
}

// SkillDraft carries the caller-supplied fields of a new skill.
type SkillDraft struct {
	Name        string
	DecayRate   float64
	GitHubRepo  string
	GitHubToken string
	// InitialProficiency defaults to 100 when nil. Values outside [0, 100]
	// are clamped.
	InitialProficiency *float64
}

// ClampProficiency pins p into [0, 100].
func ClampProficiency(p float64) float64 {
	if math.IsNaN(p) {
		return MinProficiency
	}
	return math.Max(MinProficiency, math.Min(MaxProficiency, p))
}

func (d SkillDraft) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if math.IsNaN(d.DecayRate) || d.DecayRate <= 0 || d.DecayRate > 1 {
		return fmt.Errorf("%w: decay_rate must be in (0, 1], got %v", ErrValidation, d.DecayRate)
	}
	return nil
}

// AddSkill validates the draft and stores a new skill with the next id.
func (db *DB) AddSkill(d SkillDraft) (*Skill, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	proficiency := DefaultProficiency
	if d.InitialProficiency != nil {
		proficiency = ClampProficiency(*d.InitialProficiency)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO skills (name, decay_rate, github_repo, github_token, proficiency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(d.Name), d.DecayRate, strings.TrimSpace(d.GitHubRepo), nullString(d.GitHubToken), proficiency, now)
	if err != nil {
		return nil, fmt.Errorf("insert skill: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("skill id: %w", err)
	}
	return &Skill{
		ID:          id,
		Name:        strings.TrimSpace(d.Name),
		DecayRate:   d.DecayRate,
		GitHubRepo:  strings.TrimSpace(d.GitHubRepo),
		GitHubToken: d.GitHubToken,
		Proficiency: proficiency,
		CreatedAt:   now,
	}, nil
}

const skillColumns = `id, name, decay_rate, github_repo, github_token, proficiency, last_commit, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSkill(row rowScanner) (*Skill, error) {
	var s Skill
	var token, lastCommit sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &s.DecayRate, &s.GitHubRepo, &token, &s.Proficiency, &lastCommit, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.GitHubToken = token.String
	if lastCommit.Valid {
		s.LastCommit = &lastCommit.String
	}
	return &s, nil
}

// GetSkill returns the skill with the given id, or ErrNotFound.
func (db *DB) GetSkill(id int64) (*Skill, error) {
	s, err := scanSkill(db.QueryRow(`SELECT `+skillColumns+` FROM skills WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}
	return s, nil
}

// ListSkills returns every skill in creation order.
func (db *DB) ListSkills() ([]Skill, error) {
	rows, err := db.Query(`SELECT ` + skillColumns + ` FROM skills ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills := []Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, *s)
	}
	return skills, rows.Err()
}

// CountSkills returns the number of stored skills.
func (db *DB) CountSkills() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM skills`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	return n, nil
}

// UpdateSkill applies mutate to the current state of a skill and writes back
// its proficiency (clamped) and last commit. The read, the mutation and the
// write happen under the store lock; if mutate returns an error nothing is
// written. Only Proficiency and LastCommit are persisted.
func (db *DB) UpdateSkill(id int64, mutate func(*Skill) error) (*Skill, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	s, err := scanSkill(tx.QueryRow(`SELECT `+skillColumns+` FROM skills WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read skill: %w", err)
	}

	if err := mutate(s); err != nil {
		return nil, err
	}
	s.Proficiency = ClampProficiency(s.Proficiency)

	var lastCommit sql.NullString
	if s.LastCommit != nil {
		lastCommit = sql.NullString{String: *s.LastCommit, Valid: true}
	}
	if _, err := tx.Exec(`UPDATE skills SET proficiency = ?, last_commit = ? WHERE id = ?`,
		s.Proficiency, lastCommit, id); err != nil {
		return nil, fmt.Errorf("update skill: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return s, nil
}

// DecayAll applies one decay tick to every skill currently stored:
// proficiency drops by decay_rate*100 and floors at 0. Returns the number of
// skills whose proficiency changed.
func (db *DB) DecayAll() (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.Exec(`
		UPDATE skills SET proficiency = MAX(0, proficiency - decay_rate * 100)
		WHERE proficiency > 0
	`)
	if err != nil {
		return 0, fmt.Errorf("decay skills: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
