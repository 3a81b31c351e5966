// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package main

import (
	"fmt"
	"path/filepath"

	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/config"
	"github.com/woozymasta/filterrules/internal/crawl"
)

// ruleSource describes where the effective ruleset comes from.
type ruleSource struct {
	cfg   *config.Config
	root  string
	files []string
}

// newRuleSource resolves rules files: flags win over the config file.
func newRuleSource(cfg *config.Config, root string, flagFiles []string) ruleSource {
	src := ruleSource{cfg: cfg, root: root}

	switch {
	case len(flagFiles) > 0:
		src.files = append(src.files, flagFiles...)
	case cfg.RulesFile != "":
		src.files = append(src.files, cfg.ResolveRulesFile(root))
	}

	return src
}

// load builds extension include rules followed by rules files.
func (s ruleSource) load() (*filterrules.Ruleset, error) {
	ext, err := filterrules.ExtensionRules(filterrules.DispositionInclude, s.cfg.Extensions)
	if err != nil {
		return nil, fmt.Errorf("extension rules: %w", err)
	}

	files, err := filterrules.LoadFiles(s.files...)
	if err != nil {
		return nil, err
	}

	return filterrules.Merge(ext, files), nil
}

// decider returns the evaluator for root: the current ruleset alone, or a
// Provider layering per-directory filter files over it.
func (s ruleSource) decider(current *filterrules.Current) (crawl.Decider, error) {
	if s.cfg.DirMergeFile == "" {
		return current, nil
	}

	abs, err := filepath.Abs(s.root)
	if err != nil {
		return nil, err
	}

	return filterrules.NewProvider(abs, filterrules.ProviderOptions{
		Base:           current.Load(),
		FilterFileName: s.cfg.DirMergeFile,
	})
}
