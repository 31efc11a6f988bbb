package store

import (
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	db := testDB(t)

	if db.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", db.Path)
	}
	if err := db.Ping(); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestOpenIsolated(t *testing.T) {
	a := testDB(t)
	b := testDB(t)

	if _, err := a.AddSkill(SkillDraft{Name: "Go", DecayRate: 0.1}); err != nil {
		t.Fatalf("AddSkill: %v", err)
	}
	n, err := b.CountSkills()
	if err != nil {
		t.Fatalf("CountSkills: %v", err)
	}
	if n != 0 {
		t.Errorf("second database sees %d skills, want 0", n)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("SchemaVersion = %d, want 1", v)
	}
}

func TestTablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"schema_versions", "skills"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestSkillsConstraints(t *testing.T) {
	db := testDB(t)

	// Valid insert
	_, err := db.Exec(`
		INSERT INTO skills (name, decay_rate, proficiency, created_at)
		VALUES ('Go', 0.1, 50, 1000)
	`)
	if err != nil {
		t.Fatalf("valid insert failed: %v", err)
	}

	invalid := []struct {
		name string
		sql  string
	}{
		{"proficiency above 100", `INSERT INTO skills (name, decay_rate, proficiency, created_at) VALUES ('a', 0.1, 101, 1000)`},
		{"negative proficiency", `INSERT INTO skills (name, decay_rate, proficiency, created_at) VALUES ('a', 0.1, -1, 1000)`},
		{"zero decay rate", `INSERT INTO skills (name, decay_rate, proficiency, created_at) VALUES ('a', 0, 50, 1000)`},
		{"blank name", `INSERT INTO skills (name, decay_rate, proficiency, created_at) VALUES ('  ', 0.1, 50, 1000)`},
	}
	for _, tt := range invalid {
		if _, err := db.Exec(tt.sql); err == nil {
			t.Errorf("%s: expected constraint error, got nil", tt.name)
		}
	}
}
