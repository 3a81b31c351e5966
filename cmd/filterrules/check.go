// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/report"
)

// checkParams holds the parsed flags for the check command.
type checkParams struct {
	root   string
	format string
	rules  []string
	paths  []string
	dir    bool
	stat   bool
}

// runCheck is the testable body of the check command.
func (a *app) runCheck(p checkParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	cfg, err := a.init(p.root)
	if err != nil {
		return err
	}

	src := newRuleSource(cfg, p.root, p.rules)
	rs, err := src.load()
	if err != nil {
		return err
	}

	current := filterrules.NewCurrent(rs)
	decider, err := src.decider(current)
	if err != nil {
		return err
	}

	checks := make([]report.Check, 0, len(p.paths))
	for _, raw := range p.paths {
		path := checkPath(raw)
		isDir := p.dir
		if p.stat {
			if info, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(path))); err == nil {
				isDir = info.IsDir()
			}
		}

		c := report.Check{Path: path, IsDir: isDir}
		if path == "" {
			c.Path = raw
			c.Err = errors.New("empty path")
		} else {
			c.Decision, c.Err = decider.Decide(path, isDir)
		}

		a.logger.Debug("check", "path", c.Path, "dir", isDir, "included", c.Err == nil && c.Decision.Included)
		checks = append(checks, c)
	}

	if p.format == "json" {
		return report.WriteChecksJSON(a.stdout, checks, rs, version)
	}

	return report.WriteChecks(a.stdout, checks, rs, report.StylesFor(a.stdout))
}

// checkPath strips a leading "./" and trailing "/" from a typed path and
// leaves the rest, backslashes and spaces included, as it is.
func checkPath(raw string) string {
	path := raw
	for strings.HasPrefix(path, "./") {
		path = strings.TrimLeft(path[2:], "/")
	}

	if path == "." {
		return ""
	}

	return strings.TrimRight(path, "/")
}

func newCheckCmd(a *app) *cobra.Command {
	p := checkParams{}

	cmd := &cobra.Command{
		Use:   "check PATH...",
		Short: "Print the verdict for each path",
		Long: `Check decides each PATH against the ruleset and prints whether it is
included, together with the rule that decided it. Paths are relative to
--root. Use --dir to treat paths as directories, or --stat to look them up.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p.paths = args
			return a.runCheck(p)
		},
	}

	cmd.Flags().StringVar(&p.root, "root", ".", "Directory paths are relative to")
	cmd.Flags().StringSliceVar(&p.rules, "rules", nil, "Rules file (repeatable, overrides config)")
	cmd.Flags().StringVar(&p.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&p.dir, "dir", false, "Treat every path as a directory")
	cmd.Flags().BoolVar(&p.stat, "stat", false, "Detect directories from the filesystem")

	return cmd
}
