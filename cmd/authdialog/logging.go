package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/studiowebux/authdialog/internal/config"
)

// newLogger builds a logger writing to out at the configured level
func newLogger(out io.Writer, formatter logrus.Formatter, level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(formatter)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)
	return log, nil
}

// fileLogger logs to the configured file so the TUI keeps the terminal.
// The returned func closes the file.
func fileLogger(cfg config.LogConfig) (*logrus.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), config.DirPermissions); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.FilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log, err := newLogger(f, &logrus.TextFormatter{FullTimestamp: true, DisableColors: true}, cfg.Level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, func() { f.Close() }, nil
}

// stderrLogger logs structured JSON for the development backend
func stderrLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	return newLogger(os.Stderr, &logrus.JSONFormatter{}, cfg.Level)
}
