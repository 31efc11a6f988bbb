package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lazypower/skilltrack/internal/github"
	"github.com/lazypower/skilltrack/internal/store"
)

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	msg, _ := resp["message"].(string)
	return msg
}

func TestListSkillsEmpty(t *testing.T) {
	srv, _ := testServer(t, nil)

	w := do(t, srv, "GET", "/api/skills", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", w.Body.String())
	}
}

func TestAddSkillAndList(t *testing.T) {
	srv, _ := testServer(t, nil)

	body := `{"name":"Go","decay_rate":0.05,"github_repo":"golang/go","github_token":"ghp_secret","initial_proficiency":160}`
	w := do(t, srv, "POST", "/api/add-skill", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if msg := message(t, w); msg != "Skill added successfully" {
		t.Errorf("message = %q", msg)
	}

	do(t, srv, "POST", "/api/add-skill", `{"name":"SQL","decay_rate":0.1,"github_repo":"x/y"}`)

	w = do(t, srv, "GET", "/api/skills", "")
	if strings.Contains(w.Body.String(), "ghp_secret") {
		t.Errorf("token leaked in listing: %s", w.Body.String())
	}

	var skills []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &skills); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(skills) != 2 {
		t.Fatalf("len = %d, want 2", len(skills))
	}

	first := skills[0]
	if first["id"] != float64(1) || first["name"] != "Go" {
		t.Errorf("first = %v", first)
	}
	if first["proficiency"] != float64(100) {
		t.Errorf("proficiency = %v, want 160 clamped to 100", first["proficiency"])
	}
	if first["decay_rate"] != 0.05 || first["github_repo"] != "golang/go" {
		t.Errorf("first = %v", first)
	}
	if first["has_token"] != true {
		t.Errorf("has_token = %v, want true", first["has_token"])
	}
	if v, ok := first["last_commit"]; !ok || v != nil {
		t.Errorf("last_commit = %v (present %v), want null", v, ok)
	}
	if skills[1]["id"] != float64(2) || skills[1]["has_token"] != false {
		t.Errorf("second = %v", skills[1])
	}
}

func TestAddSkillValidation(t *testing.T) {
	srv, db := testServer(t, nil)

	bodies := []string{
		`not json`,
		`{"name":"Go"}`,
		`{"name":"","decay_rate":0.1}`,
		`{"name":"Go","decay_rate":0}`,
		`{"name":"Go","decay_rate":2}`,
	}
	for _, b := range bodies {
		w := do(t, srv, "POST", "/api/add-skill", b)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", b, w.Code, http.StatusBadRequest)
		}
		if message(t, w) == "" {
			t.Errorf("%s: expected message", b)
		}
	}

	if n, _ := db.CountSkills(); n != 0 {
		t.Errorf("CountSkills = %d after rejected requests, want 0", n)
	}
}

func TestGetSkill(t *testing.T) {
	srv, db := testServer(t, nil)
	sk, _ := db.AddSkill(store.SkillDraft{Name: "Go", DecayRate: 0.1})

	w := do(t, srv, "GET", "/api/skills/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var got map[string]any
	json.Unmarshal(w.Body.Bytes(), &got)
	if got["id"] != float64(sk.ID) {
		t.Errorf("id = %v, want %d", got["id"], sk.ID)
	}

	if w := do(t, srv, "GET", "/api/skills/99", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing skill status = %d, want 404", w.Code)
	}
	if w := do(t, srv, "GET", "/api/skills/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestSyncGitHub(t *testing.T) {
	mock := &github.MockLister{Commits: github.Messages("fix bug", "update docs", "misc")}
	srv, db := testServer(t, mock)
	p := 50.0
	db.AddSkill(store.SkillDraft{Name: "Go", DecayRate: 0.05, GitHubRepo: "octo/hello", InitialProficiency: &p})

	w := do(t, srv, "POST", "/api/sync-github", `{"skillId":1,"repoPath":"octo/hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	want := "AI Boost: +40%. Activity: 3 commits, score 21. Last: fix bug..."
	if msg := message(t, w); msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	sk, _ := db.GetSkill(1)
	if sk.Proficiency != 90 {
		t.Errorf("Proficiency = %v, want 90", sk.Proficiency)
	}
}

func TestSyncGitHubNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)

	w := do(t, srv, "POST", "/api/sync-github", `{"skillId":7,"repoPath":"octo/hello"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := message(t, w); msg != "Skill not found" {
		t.Errorf("message = %q", msg)
	}
}

func TestSyncGitHubFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transport", errors.New("connection reset"), "Failed to sync with GitHub"},
		{"decode", github.ErrDecode, "Failed to parse GitHub response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, db := testServer(t, &github.MockLister{Err: tt.err})
			p := 40.0
			db.AddSkill(store.SkillDraft{Name: "Go", DecayRate: 0.05, InitialProficiency: &p})

			w := do(t, srv, "POST", "/api/sync-github", `{"skillId":1,"repoPath":"octo/hello"}`)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}
			if msg := message(t, w); msg != tt.want {
				t.Errorf("message = %q, want %q", msg, tt.want)
			}

			sk, _ := db.GetSkill(1)
			if sk.Proficiency != 40 || sk.LastCommit != nil {
				t.Errorf("skill changed by failed sync: %+v", sk)
			}
		})
	}
}

func TestSyncGitHubInvalidJSON(t *testing.T) {
	srv, _ := testServer(t, nil)

	w := do(t, srv, "POST", "/api/sync-github", `{"skillId":"one"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSyncGitHubNoEngine(t *testing.T) {
	db, err := store.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	srv := New(db, nil, nil, "test")

	w := do(t, srv, "POST", "/api/sync-github", `{"skillId":1,"repoPath":"a/b"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
