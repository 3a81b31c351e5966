// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Package watch reloads rules files on change and publishes the result
// through a filterrules.Current holder.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/logging"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 250 * time.Millisecond

// ErrNoFiles is returned when nothing is given to watch.
var ErrNoFiles = errors.New("watch: no rules files")

// Reload reports one reload attempt.
type Reload struct {
	At time.Time
	// Err is set when the new rules could not be loaded; the previous
	// ruleset stays active.
	Err   error
	Rules *filterrules.Ruleset
}

// Options configures a Watcher.
type Options struct {
	// Load builds the new ruleset. Defaults to filterrules.LoadFiles(Files...).
	Load   func() (*filterrules.Ruleset, error)
	Logger *slog.Logger
	// Files are the rules files to watch.
	Files []string
	// Debounce coalesces bursts of events. Zero means DefaultDebounce.
	Debounce time.Duration
	// Buffer is the reload channel capacity. Zero means 8.
	Buffer int
}

// Watcher watches rules files and swaps the current ruleset on change.
type Watcher struct {
	current  *filterrules.Current
	fsw      *fsnotify.Watcher
	load     func() (*filterrules.Ruleset, error)
	logger   *slog.Logger
	files    map[string]struct{}
	reloads  chan Reload
	trigger  chan struct{}
	timer    *time.Timer
	debounce time.Duration
	mu       sync.Mutex
}

// New creates a watcher publishing into current.
func New(current *filterrules.Current, opts Options) (*Watcher, error) {
	if len(opts.Files) == 0 {
		return nil, ErrNoFiles
	}

	w := &Watcher{
		current:  current,
		load:     opts.Load,
		logger:   opts.Logger,
		files:    make(map[string]struct{}, len(opts.Files)),
		trigger:  make(chan struct{}, 1),
		debounce: opts.Debounce,
	}

	if w.logger == nil {
		w.logger = logging.Discard()
	}

	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = 8
	}
	w.reloads = make(chan Reload, buffer)

	if w.load == nil {
		files := append([]string(nil), opts.Files...)
		w.load = func() (*filterrules.Ruleset, error) {
			return filterrules.LoadFiles(files...)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	dirs := make(map[string]struct{})
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("abs %s: %w", f, err)
		}

		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	// Editors replace files by rename, so parent directories are watched.
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Reloads returns the channel of reload results. It is closed when Run returns.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Run processes events until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.reloads)
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watcher error", "error", err)

		case <-w.trigger:
			w.reload()
		}
	}
}

// handleEvent schedules a reload for events on watched files.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok {
		return
	}

	if event.Op == fsnotify.Chmod {
		return
	}

	w.logger.Debug("rules file event", "file", event.Name, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

// reload loads new rules and stores them on success.
func (w *Watcher) reload() {
	rs, err := w.load()
	r := Reload{At: time.Now(), Err: err, Rules: rs}

	if err != nil {
		w.logger.Warn("reload rules, keeping previous ruleset", "error", err)
		r.Rules = nil
	} else {
		w.current.Store(rs)
		w.logger.Info("rules reloaded", "rules", rs.Len())
	}

	select {
	case w.reloads <- r:
	default:
		w.logger.Warn("reload channel full, dropping notification")
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	_ = w.fsw.Close()
}
