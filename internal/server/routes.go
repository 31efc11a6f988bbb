package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/skilltrack/internal/engine"
	"github.com/lazypower/skilltrack/internal/store"
	"go.uber.org/zap"
)

// skillJSON is the wire form of a skill. The access token is never echoed.
type skillJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	DecayRate   float64 `json:"decay_rate"`
	GitHubRepo  string  `json:"github_repo"`
	HasToken    bool    `json:"has_token"`
	Proficiency float64 `json:"proficiency"`
	LastCommit  *string `json:"last_commit"`
	CreatedAt   int64   `json:"created_at"`
}

func toSkillJSON(s store.Skill) skillJSON {
	return skillJSON{
		ID:          s.ID,
		Name:        s.Name,
		DecayRate:   s.DecayRate,
		GitHubRepo:  s.GitHubRepo,
		HasToken:    s.GitHubToken != "",
		Proficiency: s.Proficiency,
		LastCommit:  s.LastCommit,
		CreatedAt:   s.CreatedAt,
	}
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.db.ListSkills()
	if err != nil {
		s.logger.Error("list skills", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to list skills")
		return
	}

	out := make([]skillJSON, len(skills))
	for i, sk := range skills {
		out[i] = toSkillJSON(sk)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "skillID"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid skill id")
		return
	}

	sk, err := s.db.GetSkill(id)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Skill not found")
		return
	}
	if err != nil {
		s.logger.Error("get skill", zap.Int64("skill", id), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to load skill")
		return
	}
	writeJSON(w, http.StatusOK, toSkillJSON(*sk))
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string   `json:"name"`
		DecayRate          *float64 `json:"decay_rate"`
		GitHubRepo         string   `json:"github_repo"`
		GitHubToken        string   `json:"github_token"`
		InitialProficiency *float64 `json:"initial_proficiency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.DecayRate == nil {
		writeMessage(w, http.StatusBadRequest, "decay_rate is required")
		return
	}

	sk, err := s.db.AddSkill(store.SkillDraft{
		Name:               req.Name,
		DecayRate:          *req.DecayRate,
		GitHubRepo:         req.GitHubRepo,
		GitHubToken:        req.GitHubToken,
		InitialProficiency: req.InitialProficiency,
	})
	if errors.Is(err, store.ErrValidation) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("add skill", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to add skill")
		return
	}

	s.logger.Info("skill added",
		zap.Int64("skill", sk.ID),
		zap.String("name", sk.Name),
		zap.Float64("proficiency", sk.Proficiency))

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Skill added successfully",
		"id":      sk.ID,
	})
}

func (s *Server) handleSyncGitHub(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SkillID  int64  `json:"skillId"`
		RepoPath string `json:"repoPath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if s.engine == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Sync engine not configured")
		return
	}

	s.logger.Info("sync request", zap.Int64("skill", req.SkillID), zap.String("repo", req.RepoPath))

	res, err := s.engine.Sync(r.Context(), req.SkillID, req.RepoPath)
	var syncErr *engine.SyncError
	switch {
	case err == nil:
		writeMessage(w, http.StatusOK, res.Message)
	case errors.Is(err, engine.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Skill not found")
	case errors.As(err, &syncErr):
		writeMessage(w, http.StatusInternalServerError, syncErr.Message)
	default:
		s.logger.Error("sync", zap.Int64("skill", req.SkillID), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to sync with GitHub")
	}
}
