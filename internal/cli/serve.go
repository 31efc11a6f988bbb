package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazypower/skilltrack/internal/config"
	"github.com/lazypower/skilltrack/internal/engine"
	"github.com/lazypower/skilltrack/internal/github"
	"github.com/lazypower/skilltrack/internal/server"
	"github.com/lazypower/skilltrack/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveEnvFile string
	serveUIDir   string
	servePort    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server and decay timer",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "Optional dotenv file to load")
	serveCmd.Flags().StringVar(&serveUIDir, "ui-dir", "", "Serve a prebuilt frontend from this directory")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides SKILLTRACK_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveEnvFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	commits := github.NewClient(cfg.GitHub.APIURL, cfg.GitHub.UserAgent, cfg.GitHub.Timeout)
	eng := engine.New(db, commits, engine.Options{
		DecayInterval: cfg.Decay.Interval,
		Lookback:      cfg.GitHub.Lookback,
		SyncTimeout:   cfg.GitHub.Timeout,
		DefaultToken:  cfg.GitHub.Token,
	}, logger.Named("engine"))
	eng.StartDecayTimer()
	defer eng.Stop()

	var opts []server.Option
	if serveUIDir != "" {
		if fi, err := os.Stat(serveUIDir); err != nil || !fi.IsDir() {
			return fmt.Errorf("ui dir %q is not a directory", serveUIDir)
		}
		opts = append(opts, server.WithUI(os.DirFS(serveUIDir)))
	}

	srv := server.New(db, eng, logger.Named("http"), VersionString(), opts...)
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("skilltrack serving",
			zap.String("addr", addr),
			zap.Duration("decay_interval", cfg.Decay.Interval),
			zap.String("github_api", cfg.GitHub.APIURL),
			zap.Bool("default_token", cfg.GitHub.Token != ""))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
