package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all skilltrack configuration.
type Config struct {
	Server ServerConfig `envPrefix:"SKILLTRACK_"`
	Decay  DecayConfig  `envPrefix:"SKILLTRACK_DECAY_"`
	GitHub GitHubConfig `envPrefix:"SKILLTRACK_GITHUB_"`
	Log    LogConfig    `envPrefix:"SKILLTRACK_LOG_"`
}

type ServerConfig struct {
	Bind string `env:"BIND"`
	Port int    `env:"PORT"`
}

type DecayConfig struct {
	Interval time.Duration `env:"INTERVAL"` // time between decay ticks
}

type GitHubConfig struct {
	APIURL    string        `env:"API_URL"`
	UserAgent string        `env:"USER_AGENT"`
	Timeout   time.Duration `env:"TIMEOUT"`  // upper bound on one commit fetch
	Lookback  time.Duration `env:"LOOKBACK"` // commits newer than now-Lookback are scored
	Token     string        `env:"TOKEN"`    // fallback credential for skills without one
}

type LogConfig struct {
	Level       string `env:"LEVEL"` // "debug", "info", "warn", "error"
	Development bool   `env:"DEVELOPMENT"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 5000,
		},
		Decay: DecayConfig{
			Interval: 10 * time.Second,
		},
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com",
			UserAgent: "SkillTracker-App",
			Timeout:   15 * time.Second,
			Lookback:  30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with values from an optional .env file
// and the process environment. Variables already set in the environment win
// over the .env file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	// The conventional GITHUB_TOKEN is honored when no explicit token is set
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Decay.Interval <= 0 {
		return fmt.Errorf("decay interval must be positive, got %s", c.Decay.Interval)
	}
	if c.GitHub.APIURL == "" {
		return errors.New("github api url is empty")
	}
	if c.GitHub.Lookback <= 0 {
		return fmt.Errorf("github lookback must be positive, got %s", c.GitHub.Lookback)
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
