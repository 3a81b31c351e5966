// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/config"
	"github.com/woozymasta/filterrules/internal/crawl"
	"github.com/woozymasta/filterrules/internal/report"
	"github.com/woozymasta/filterrules/internal/tree"
	"github.com/woozymasta/filterrules/internal/watch"
	"golang.org/x/sync/errgroup"
)

// errWatchNoRules is returned when --watch has no rules file to watch.
var errWatchNoRules = errors.New("--watch requires a rules file (--rules or rules_file in config)")

// scanParams holds the parsed flags for the scan command.
type scanParams struct {
	root     string
	format   string
	rules    []string
	workers  int
	rate     float64
	excluded bool
	watch    bool
	// set when the flag was given explicitly.
	workersSet bool
	rateSet    bool
}

// runScan is the testable body of the scan command.
func (a *app) runScan(ctx context.Context, p scanParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	cfg, err := a.init(p.root)
	if err != nil {
		return err
	}

	if p.workersSet {
		cfg.Scan.Workers = p.workers
	}

	if p.rateSet {
		cfg.Scan.MaxEntriesPerSecond = p.rate
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	src := newRuleSource(cfg, p.root, p.rules)
	if p.watch && len(src.files) == 0 {
		return errWatchNoRules
	}

	rs, err := src.load()
	if err != nil {
		return err
	}

	current := filterrules.NewCurrent(rs)
	decider, err := src.decider(current)
	if err != nil {
		return err
	}

	tr, err := a.crawlTree(ctx, p.root, decider, cfg)
	if err != nil {
		return err
	}

	if err := a.render(p, tr, current.Load()); err != nil {
		return err
	}

	if !p.watch {
		return nil
	}

	return a.watchLoop(ctx, p, cfg, src, current, tr)
}

// watchLoop re-evaluates the tree after every successful rules reload.
func (a *app) watchLoop(ctx context.Context, p scanParams, cfg *config.Config, src ruleSource, current *filterrules.Current, tr *tree.Tree) error {
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	w, err := watch.New(current, watch.Options{
		Files:    src.files,
		Debounce: debounce,
		Load:     src.load,
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})

	a.logger.Info("watching rules", "files", src.files)

	for r := range w.Reloads() {
		if r.Err != nil {
			continue
		}

		decider, err := src.decider(current)
		if err != nil {
			a.logger.Error("build decider", "error", err)
			continue
		}

		if rescan := tr.Reclassify(decider); len(rescan) > 0 {
			a.logger.Debug("directories became included, rescanning", "dirs", len(rescan))

			fresh, err := a.crawlTree(gctx, p.root, decider, cfg)
			if err != nil {
				a.logger.Error("rescan", "error", err)
				continue
			}

			tr = fresh
		}

		if err := a.render(p, tr, current.Load()); err != nil {
			return err
		}
	}

	return g.Wait()
}

// crawlTree runs one crawl and collects its entries into a new tree.
func (a *app) crawlTree(ctx context.Context, root string, decider crawl.Decider, cfg *config.Config) (*tree.Tree, error) {
	c, err := crawl.New(root, decider, crawl.Options{
		Logger:              a.logger,
		Workers:             cfg.Scan.Workers,
		MaxEntriesPerSecond: cfg.Scan.MaxEntriesPerSecond,
		FollowSymlinks:      cfg.Scan.FollowSymlinks,
	})
	if err != nil {
		return nil, err
	}

	out, wait := c.Start(ctx, 256)

	tr := tree.New()
	consumeErr := tr.Consume(ctx, out)
	if consumeErr != nil {
		for range out {
		}
	}

	if err := wait(); err != nil {
		return nil, err
	}

	if consumeErr != nil {
		return nil, consumeErr
	}

	st := c.Stats()
	a.logger.Info("scan complete",
		"root", c.Root(),
		"dirs", st.Dirs,
		"files", st.Files,
		"included", st.Included,
		"excluded", st.Excluded,
		"errors", st.Errors,
	)

	return tr, nil
}

func (a *app) render(p scanParams, tr *tree.Tree, rs *filterrules.Ruleset) error {
	if p.format == "json" {
		root, err := filepath.Abs(p.root)
		if err != nil {
			root = p.root
		}

		return report.WriteTreeJSON(a.stdout, root, tr, rs, version)
	}

	return report.WriteTree(a.stdout, tr, report.TreeOptions{
		Rules:        rs,
		ShowExcluded: p.excluded,
	}, report.StylesFor(a.stdout))
}

func newScanCmd(a *app) *cobra.Command {
	p := scanParams{}

	cmd := &cobra.Command{
		Use:   "scan ROOT",
		Short: "Crawl a directory and print the classified tree",
		Long: `Scan walks ROOT with a pool of workers, decides every entry and prints
the included tree. Excluded directories are not descended into. With
--watch the rules file is reloaded on change and the tree is printed again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.root = args[0]
			p.workersSet = cmd.Flags().Changed("workers")
			p.rateSet = cmd.Flags().Changed("rate")
			return a.runScan(cmd.Context(), p)
		},
	}

	cmd.Flags().StringSliceVar(&p.rules, "rules", nil, "Rules file (repeatable, overrides config)")
	cmd.Flags().IntVar(&p.workers, "workers", runtime.NumCPU(), "Concurrent directory listings")
	cmd.Flags().Float64Var(&p.rate, "rate", 0, "Max entries classified per second, 0 for unlimited")
	cmd.Flags().StringVar(&p.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&p.excluded, "excluded", false, "Also print excluded entries")
	cmd.Flags().BoolVar(&p.watch, "watch", false, "Reload rules on change and print again")

	return cmd
}
