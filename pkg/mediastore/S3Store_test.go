package mediastore

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

func TestStatErrorLevel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected slog.Level
	}{
		{"not found", &types.NotFound{}, slog.LevelDebug},
		{"wrapped no such key", fmt.Errorf("head object: %w", &types.NoSuchKey{}), slog.LevelDebug},
		{"transport failure", errors.New("connection refused"), slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statErrorLevel(tt.err))
		})
	}
}

func TestIsMediaFile(t *testing.T) {
	assert.True(t, IsMediaFile("media/images/abc.JPG"))
	assert.True(t, IsMediaFile("thumbnails/abc.webp"))
	assert.False(t, IsMediaFile("images/abc.jpg.part"))
	assert.False(t, IsMediaFile("notes.txt"))
	assert.False(t, IsMediaFile("images/noextension"))
}
