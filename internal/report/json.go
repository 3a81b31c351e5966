// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Package report renders crawl trees and check verdicts as styled text or
// JSON.
package report

import (
	"encoding/json"
	"io"

	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/tree"
)

// JSONEntry is one path verdict.
type JSONEntry struct {
	Path      string `json:"path"`
	Rule      string `json:"rule,omitempty"`
	Source    string `json:"source,omitempty"`
	Error     string `json:"error,omitempty"`
	RuleIndex int    `json:"rule_index"`
	IsDir     bool   `json:"is_dir"`
	Included  bool   `json:"included"`
	Matched   bool   `json:"matched"`
}

// JSONTree is the top-level scan output.
type JSONTree struct {
	Version string      `json:"version"`
	Root    string      `json:"root"`
	Entries []JSONEntry `json:"entries"`
	Stats   tree.Stats  `json:"stats"`
}

// JSONChecks is the top-level check output.
type JSONChecks struct {
	Version string      `json:"version"`
	Results []JSONEntry `json:"results"`
}

// WriteTreeJSON writes all tree nodes in walk order.
func WriteTreeJSON(w io.Writer, root string, tr *tree.Tree, rules *filterrules.Ruleset, version string) error {
	labels := newLabeler(rules)

	out := JSONTree{
		Version: version,
		Root:    root,
		Entries: []JSONEntry{},
		Stats:   tr.Stats(),
	}

	_ = tr.Walk(func(n *tree.Node, _ int) error {
		out.Entries = append(out.Entries, jsonEntry(n.Path, n.IsDir, n.Decision, n.Err, labels))
		return nil
	})

	return encode(w, out)
}

// WriteChecksJSON writes check verdicts.
func WriteChecksJSON(w io.Writer, checks []Check, rules *filterrules.Ruleset, version string) error {
	labels := newLabeler(rules)

	out := JSONChecks{
		Version: version,
		Results: make([]JSONEntry, 0, len(checks)),
	}

	for _, c := range checks {
		out.Results = append(out.Results, jsonEntry(c.Path, c.IsDir, c.Decision, c.Err, labels))
	}

	return encode(w, out)
}

func jsonEntry(path string, isDir bool, d filterrules.Decision, err error, labels labeler) JSONEntry {
	e := JSONEntry{
		Path:      path,
		IsDir:     isDir,
		Included:  err == nil && d.Included,
		Matched:   d.Matched,
		RuleIndex: d.RuleIndex,
		Source:    d.Source,
	}

	if err != nil {
		e.Error = err.Error()
		e.RuleIndex = -1
		return e
	}

	if d.Matched {
		e.Rule = labels.label(d)
	}

	return e
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
