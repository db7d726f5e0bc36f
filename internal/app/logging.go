package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/config"
)

// NewLogger builds the process logger from the log settings. Development
// mode uses the console encoder; otherwise JSON.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	lvl, err := (&config.Config{Log: cfg}).LogLevel()
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	out := "stderr"
	if cfg.File != "" {
		out = cfg.File
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
