package main

import (
	"log/slog"

	"github.com/adampresley/driveportfolio/cmd/website/internal/configuration"
	"github.com/adampresley/driveportfolio/pkg/logging"
)

func setupLogger(config *configuration.Config, version string) {
	logger := logging.New(logging.Config{
		Level: config.LogLevel,
		File:  config.LogFile,
	})

	slog.SetDefault(logger.With("version", version))
}
