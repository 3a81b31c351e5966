// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/renameio"
)

// LoadFile reads and parses a ruleset from a file.
func LoadFile(path string) (*Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rs, err := ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	return rs, nil
}

// LoadFiles reads and merges rulesets from files in the given order.
//
// Returned ruleset preserves file order and rule order inside each file.
func LoadFiles(paths ...string) (*Ruleset, error) {
	sets := make([]*Ruleset, 0, len(paths))
	for _, path := range paths {
		rs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		sets = append(sets, rs)
	}

	return Merge(sets...), nil
}

// SaveFile renders rs and atomically replaces path with it.
//
// Writers are serialized through an advisory lock on path + ".lock", so
// concurrent saves from other processes never interleave.
func SaveFile(path string, rs *Ruleset) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock rules file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	text := rs.Render()
	if text != "" {
		text += "\n"
	}

	if err := renameio.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}

	return nil
}
