// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Package logging builds the process logger: human readable output on the
// terminal and, optionally, JSON records appended to a file.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Config contains logging configuration.
type Config struct {
	// Output receives terminal records. Nil means os.Stderr.
	Output io.Writer
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is an optional JSON log file. Empty means no file logging.
	FilePath string
	// Timestamps adds time to terminal records.
	Timestamps bool
}

// Setup builds a logger from cfg and returns a cleanup function that
// closes the log file, if any.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	term := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: cfg.Timestamps,
		Level:           charmLevel(level),
	})

	if cfg.FilePath == "" {
		return slog.New(term), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	cleanup := func() {
		_ = f.Sync()
		_ = f.Close()
	}

	return slog.New(fanout{term, file}), cleanup, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts string level to slog.Level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// charmLevel maps slog levels onto charm levels.
func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}

// fanout sends every record to all handlers that accept its level.
type fanout []slog.Handler

func (h fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, child := range h {
		if child.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (h fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, child := range h {
		if !child.Enabled(ctx, r.Level) {
			continue
		}

		if err := child.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(h))
	for i, child := range h {
		out[i] = child.WithAttrs(attrs)
	}

	return out
}

func (h fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(h))
	for i, child := range h {
		out[i] = child.WithGroup(name)
	}

	return out
}
