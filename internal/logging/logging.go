// Package logging performs the process-wide logger setup. It runs once
// before the monitoring loop starts and lives for the process lifetime.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"perchcam/internal/config"
)

// Init configures the global logger: human-readable lines with full
// timestamps, mirrored to the console and, when configured, a log file.
func Init(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if cfg.File == "" {
		logrus.SetOutput(os.Stdout)
		return nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", cfg.File, err)
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, f))
	return nil
}
