// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

// Merge concatenates rulesets preserving input order. Nil rulesets are skipped.
func Merge(sets ...*Ruleset) *Ruleset {
	total := 0
	for _, rs := range sets {
		total += rs.Len()
	}

	out := make([]Rule, 0, total)
	for _, rs := range sets {
		if rs == nil {
			continue
		}

		out = append(out, rs.rules...)
	}

	return &Ruleset{rules: out}
}
