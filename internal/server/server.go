package server

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lazypower/skilltrack/internal/engine"
	"github.com/lazypower/skilltrack/internal/store"
	"go.uber.org/zap"
)

// Server is the skilltrack HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	logger  *zap.Logger
	router  chi.Router
	ui      fs.FS
	version string
	started time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithUI serves a prebuilt frontend from fsys for every non-API path.
func WithUI(fsys fs.FS) Option {
	return func(s *Server) { s.ui = fsys }
}

// New creates a new Server backed by the given store and engine.
func New(db *store.DB, eng *engine.Engine, logger *zap.Logger, version string, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		db:      db,
		engine:  eng,
		logger:  logger,
		version: version,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/skills", s.handleListSkills)
		r.Get("/skills/{skillID}", s.handleGetSkill)
		r.Post("/add-skill", s.handleAddSkill)
		r.Post("/sync-github", s.handleSyncGitHub)
	})

	if s.ui != nil {
		r.Get("/*", spaHandler(s.ui))
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}
	skills, _ := s.db.CountSkills()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"skills":  skills,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
