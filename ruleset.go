// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import "strings"

// Ruleset evaluates path decisions against ordered rules.
// A nil *Ruleset behaves as an empty one.
type Ruleset struct {
	rules []Rule
}

// NewRuleset builds ruleset from rules in the given order.
func NewRuleset(rules ...Rule) *Ruleset {
	return &Ruleset{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of ruleset rules.
func (rs *Ruleset) Rules() []Rule {
	if rs == nil {
		return nil
	}

	return append([]Rule(nil), rs.rules...)
}

// Len returns the number of rules including null ones.
func (rs *Ruleset) Len() int {
	if rs == nil {
		return 0
	}

	return len(rs.rules)
}

// Decide returns deterministic include/exclude decision for one path.
//
// Decision policy:
//   - first matching include or exclude rule wins
//   - if no rule matched, the path is included
func (rs *Ruleset) Decide(path string, isDir bool) (Decision, error) {
	if err := validatePath(path); err != nil {
		return Decision{}, err
	}

	return rs.decide(path, isDir), nil
}

// decide is Decide without path validation.
func (rs *Ruleset) decide(path string, isDir bool) Decision {
	if rs == nil {
		return noMatch()
	}

	for i := range rs.rules {
		if !rs.rules[i].match(path, isDir) {
			continue
		}

		return Decision{
			Included:  rs.rules[i].disposition == DispositionInclude,
			Matched:   true,
			RuleIndex: i,
		}
	}

	return noMatch()
}

// Apply reports whether path is included.
func (rs *Ruleset) Apply(path string, isDir bool) (bool, error) {
	d, err := rs.Decide(path, isDir)
	if err != nil {
		return false, err
	}

	return d.Included, nil
}

// Render returns the ruleset text, one rule per line, without a trailing
// newline. Null rules are written back verbatim.
func (rs *Ruleset) Render() string {
	if rs == nil || len(rs.rules) == 0 {
		return ""
	}

	var b strings.Builder
	for i := range rs.rules {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(rs.rules[i].String())
	}

	return b.String()
}

// String implements fmt.Stringer.
func (rs *Ruleset) String() string {
	return rs.Render()
}
