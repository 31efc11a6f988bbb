package cli

import (
	"fmt"

	"github.com/lazypower/skilltrack/internal/config"
	"go.uber.org/zap"
)

// newLogger builds the process logger: JSON in production, console output in
// development mode.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}
