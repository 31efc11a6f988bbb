package engine

import (
	"sync"
	"time"

	"github.com/lazypower/skilltrack/internal/github"
	"github.com/lazypower/skilltrack/internal/store"
	"go.uber.org/zap"
)

// Options tunes the decay timer and the sync window.
type Options struct {
	DecayInterval time.Duration // time between decay ticks
	Lookback      time.Duration // how far back commits are scored
	SyncTimeout   time.Duration // upper bound on one commit fetch; zero disables
	DefaultToken  string        // used when a skill carries no token
}

// DefaultOptions matches the behavior of the original tracker.
func DefaultOptions() Options {
	return Options{
		DecayInterval: 10 * time.Second,
		Lookback:      30 * 24 * time.Hour,
		SyncTimeout:   15 * time.Second,
	}
}

// Engine owns proficiency changes: periodic decay and commit-driven boosts.
type Engine struct {
	DB      *store.DB
	Commits github.CommitLister

	opts   Options
	logger *zap.Logger
	now    func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new Engine.
func New(db *store.DB, commits github.CommitLister, opts Options, logger *zap.Logger) *Engine {
	def := DefaultOptions()
	if opts.DecayInterval <= 0 {
		opts.DecayInterval = def.DecayInterval
	}
	if opts.Lookback <= 0 {
		opts.Lookback = def.Lookback
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		DB:      db,
		Commits: commits,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
}

// Stop shuts down the decay timer and waits for it to exit. Safe to call
// more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
}
