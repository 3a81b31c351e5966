// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Package crawl walks a directory tree with a bounded pool of workers and
// classifies every entry through a filter ruleset. Entries are delivered on
// a channel to a single consumer; workers never share mutable state with it.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Decider classifies one root-relative path.
// *filterrules.Current, *filterrules.Ruleset and *filterrules.Provider satisfy it.
type Decider interface {
	Decide(path string, isDir bool) (filterrules.Decision, error)
}

// BatchDecider classifies all entries of one directory at once.
// When the Decider also implements it, one call is made per directory.
type BatchDecider interface {
	DecideInDir(dir string, entries []filterrules.DirEntry) ([]filterrules.Decision, error)
}

// Entry is one discovered filesystem entry.
type Entry struct {
	// Err is a listing or classification failure for this entry.
	Err error `json:"-"`
	// Path is slash separated and relative to the crawl root.
	Path string `json:"path"`
	// Decision is the ruleset verdict.
	Decision filterrules.Decision `json:"decision"`
	IsDir    bool                 `json:"is_dir"`
	// Included mirrors Decision.Included, false when Err is set.
	Included bool `json:"included"`
}

// Options tunes a crawl.
type Options struct {
	// Logger receives per-entry debug records and listing failures.
	Logger *slog.Logger
	// Workers bounds concurrent directory listings. Zero means runtime.NumCPU().
	Workers int
	// MaxEntriesPerSecond throttles classification, zero disables throttling.
	MaxEntriesPerSecond float64
	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool
}

// Stats is a snapshot of crawl progress.
type Stats struct {
	Dirs     int64 `json:"dirs"`
	Files    int64 `json:"files"`
	Included int64 `json:"included"`
	Excluded int64 `json:"excluded"`
	Errors   int64 `json:"errors"`
}

// Crawler walks one root directory.
type Crawler struct {
	decider Decider
	logger  *slog.Logger
	limiter *rate.Limiter
	// visited holds resolved paths of followed symlinked directories.
	visited sync.Map
	root    string
	workers int
	follow  bool

	dirs     atomic.Int64
	files    atomic.Int64
	included atomic.Int64
	excluded atomic.Int64
	errs     atomic.Int64
}

// New creates a crawler for root.
func New(root string, decider Decider, opts Options) (*Crawler, error) {
	if decider == nil {
		return nil, errors.New("crawl: nil decider")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("crawl root %s is not a directory", abs)
	}

	c := &Crawler{
		decider: decider,
		logger:  opts.Logger,
		root:    abs,
		workers: opts.Workers,
		follow:  opts.FollowSymlinks,
	}

	if c.logger == nil {
		c.logger = logging.Discard()
	}

	if c.workers <= 0 {
		c.workers = runtime.NumCPU()
	}

	if opts.MaxEntriesPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxEntriesPerSecond), 1)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		c.visited.Store(resolved, struct{}{})
	}

	return c, nil
}

// Root returns absolute crawl root.
func (c *Crawler) Root() string {
	return c.root
}

// Run walks the tree and sends every entry to out, then closes out.
//
// Excluded directories are reported but not descended into. Listing and
// classification failures are reported as entries with Err set and do not
// stop the crawl. Run returns ctx.Err() when cancelled.
func (c *Crawler) Run(ctx context.Context, out chan<- Entry) error {
	defer close(out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	g.Go(func() error {
		return c.walkDir(gctx, g, "", out)
	})

	return g.Wait()
}

// Start runs the crawl in a new goroutine. The returned wait function
// blocks until the crawl ends and returns its error.
func (c *Crawler) Start(ctx context.Context, buffer int) (<-chan Entry, func() error) {
	out := make(chan Entry, buffer)
	done := make(chan error, 1)

	go func() {
		done <- c.Run(ctx, out)
	}()

	return out, func() error { return <-done }
}

// Stats returns current progress counters.
func (c *Crawler) Stats() Stats {
	return Stats{
		Dirs:     c.dirs.Load(),
		Files:    c.files.Load(),
		Included: c.included.Load(),
		Excluded: c.excluded.Load(),
		Errors:   c.errs.Load(),
	}
}

// walkDir lists one directory, classifies its entries and schedules
// included subdirectories. When the pool is full the subdirectory is
// walked inline so workers never block on each other.
func (c *Crawler) walkDir(ctx context.Context, g *errgroup.Group, rel string, out chan<- Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirents, err := os.ReadDir(filepath.Join(c.root, filepath.FromSlash(rel)))
	c.dirs.Add(1)
	if err != nil {
		c.errs.Add(1)
		c.logger.Warn("list directory", "dir", rel, "error", err)
		if rel == "" {
			return fmt.Errorf("list root: %w", err)
		}

		return c.emit(ctx, out, Entry{Path: rel, IsDir: true, Err: err})
	}

	entries := c.statEntries(rel, dirents)
	decisions, decideErr := c.decideBatch(rel, entries)

	for i := range entries {
		if err := c.wait(ctx); err != nil {
			return err
		}

		entry := entries[i]
		if decideErr != nil {
			entry.Err = decideErr
		} else if decisions != nil {
			entry.Decision = decisions[i]
		} else {
			entry.Decision, entry.Err = c.decider.Decide(entry.Path, entry.IsDir)
		}

		entry.Included = entry.Err == nil && entry.Decision.Included
		c.count(entry)
		c.logger.Debug("entry", "path", entry.Path, "dir", entry.IsDir, "included", entry.Included)

		if err := c.emit(ctx, out, entry); err != nil {
			return err
		}

		if !entry.IsDir || !entry.Included || !c.shouldDescend(entry.Path) {
			continue
		}

		sub := entry.Path
		if !g.TryGo(func() error { return c.walkDir(ctx, g, sub, out) }) {
			if err := c.walkDir(ctx, g, sub, out); err != nil {
				return err
			}
		}
	}

	return nil
}

// statEntries converts directory entries, resolving symlinked directories
// when following is enabled.
func (c *Crawler) statEntries(rel string, dirents []os.DirEntry) []Entry {
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entry := Entry{
			Path:  filterrules.JoinPath(rel, d.Name()),
			IsDir: d.IsDir(),
		}

		if c.follow && d.Type()&fs.ModeSymlink != 0 {
			full := filepath.Join(c.root, filepath.FromSlash(entry.Path))
			if info, err := os.Stat(full); err == nil && info.IsDir() {
				entry.IsDir = true
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// decideBatch classifies entries in one call when the decider supports it.
// A nil slice with nil error means per-entry classification.
func (c *Crawler) decideBatch(rel string, entries []Entry) ([]filterrules.Decision, error) {
	batch, ok := c.decider.(BatchDecider)
	if !ok || len(entries) == 0 {
		return nil, nil
	}

	in := make([]filterrules.DirEntry, len(entries))
	for i := range entries {
		in[i] = filterrules.DirEntry{
			Name:  filepath.Base(filepath.FromSlash(entries[i].Path)),
			IsDir: entries[i].IsDir,
		}
	}

	return batch.DecideInDir(rel, in)
}

// shouldDescend guards followed symlinks against cycles.
func (c *Crawler) shouldDescend(rel string) bool {
	full := filepath.Join(c.root, filepath.FromSlash(rel))
	info, err := os.Lstat(full)
	if err != nil {
		return false
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return true
	}

	if !c.follow {
		return false
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return false
	}

	_, seen := c.visited.LoadOrStore(resolved, struct{}{})
	return !seen
}

// wait applies the optional rate limit.
func (c *Crawler) wait(ctx context.Context) error {
	if c.limiter == nil {
		return ctx.Err()
	}

	return c.limiter.Wait(ctx)
}

// emit delivers one entry unless ctx is done.
func (c *Crawler) emit(ctx context.Context, out chan<- Entry, entry Entry) error {
	select {
	case out <- entry:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// count updates progress counters for a classified entry.
func (c *Crawler) count(entry Entry) {
	if !entry.IsDir {
		c.files.Add(1)
	}

	switch {
	case entry.Err != nil:
		c.errs.Add(1)
	case entry.Included:
		c.included.Add(1)
	default:
		c.excluded.Add(1)
	}
}
