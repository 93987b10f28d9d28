package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/surveyboard/internal/config"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "surveyboard.log")
	log, err := New(config.LogConfig{Path: path, Level: "info"}, true, false)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("surveys loaded", zap.Int("count", 6))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"surveys loaded"`)
	require.Contains(t, string(data), `"count":6`)
	require.NotContains(t, string(data), "hidden")
}

func TestVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	log, err := New(config.LogConfig{Path: path, Level: "error"}, true, true)
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
