// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import "sync/atomic"

// Current holds the active ruleset. Readers always observe a fully built
// ruleset; updates replace it as a whole.
type Current struct {
	ptr atomic.Pointer[Ruleset]
}

// NewCurrent creates a holder publishing rs. Nil rs means an empty ruleset.
func NewCurrent(rs *Ruleset) *Current {
	c := &Current{}
	c.Store(rs)
	return c
}

// Load returns the active ruleset, never nil.
func (c *Current) Load() *Ruleset {
	if rs := c.ptr.Load(); rs != nil {
		return rs
	}

	return &Ruleset{}
}

// Store publishes rs and returns the previously active ruleset.
func (c *Current) Store(rs *Ruleset) *Ruleset {
	if rs == nil {
		rs = &Ruleset{}
	}

	return c.ptr.Swap(rs)
}

// Decide evaluates path against the active ruleset.
func (c *Current) Decide(path string, isDir bool) (Decision, error) {
	return c.Load().Decide(path, isDir)
}

// Apply reports whether path is included by the active ruleset.
func (c *Current) Apply(path string, isDir bool) (bool, error) {
	return c.Load().Apply(path, isDir)
}
