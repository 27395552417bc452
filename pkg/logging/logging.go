/*
Package logging builds the slog logger shared by the website and the sync
command. Output goes to stdout and, when a file is configured, to a
rotating log file as well.
*/
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func New(config Config) *slog.Logger {
	writers := []io.Writer{os.Stdout}

	if config.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    valueOr(config.MaxSizeMB, 10),
			MaxBackups: valueOr(config.MaxBackups, 5),
			MaxAge:     valueOr(config.MaxAgeDays, 30),
			Compress:   true,
		})
	}

	return slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: ParseLevel(config.Level),
	}))
}

/*
ParseLevel maps debug, info, warn and error to slog levels. Anything else
is info.
*/
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func valueOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}

	return value
}
