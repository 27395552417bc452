package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "level %q", tt.input)
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "portfolio.log")

	logger := New(Config{Level: "warn", File: logFile})
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))

	logger.Warn("drive unavailable", "folder", "public")

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "drive unavailable")
	assert.Contains(t, string(b), "folder=public")
}
