// Package logging builds the zap loggers used by the TUI and the dev server.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/surveyboard/internal/config"
)

// ParseLevel maps a config level name to a zap level. Unknown names are info.
func ParseLevel(name string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New builds a production JSON logger. When toFile is set the output goes to
// cfg.Path (the terminal belongs to the UI); otherwise it goes to stderr.
// verbose forces debug level.
func New(cfg config.LogConfig, toFile, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil

	if toFile && cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		zc.OutputPaths = []string{cfg.Path}
		zc.ErrorOutputPaths = []string{cfg.Path}
	} else {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
