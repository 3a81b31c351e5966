// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import "fmt"

// Disposition is the effect a matched rule has on a path.
type Disposition uint8

const (
	// DispositionNull is a line that carries no rule (blank, comment, malformed).
	// Null rules never match.
	DispositionNull Disposition = iota
	// DispositionExclude means matching path should be excluded.
	DispositionExclude
	// DispositionInclude means matching path should be included.
	DispositionInclude
)

// Spelling is the keyword form a rule was written with.
type Spelling uint8

const (
	// SpellingWord renders as "include" / "exclude".
	SpellingWord Spelling = iota
	// SpellingSymbol renders as "+" / "-".
	SpellingSymbol
)

// Decision is a deterministic verdict produced by a ruleset.
type Decision struct {
	// Included reports final include decision.
	Included bool `json:"included" yaml:"included"`
	// Matched reports whether a non-null rule matched.
	Matched bool `json:"matched" yaml:"matched"`
	// RuleIndex is the index of the deciding rule in ruleset order, -1 when no match.
	RuleIndex int `json:"rule_index" yaml:"rule_index"`
	// Source names the per-directory filter file that decided, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// String returns the disposition keyword in word spelling.
func (d Disposition) String() string {
	switch d {
	case DispositionInclude:
		return "include"
	case DispositionExclude:
		return "exclude"
	default:
		return "null"
	}
}

// valid reports whether disposition can carry a pattern.
func (d Disposition) valid() bool {
	return d == DispositionExclude || d == DispositionInclude
}

// keyword returns the disposition keyword in given spelling.
func (d Disposition) keyword(s Spelling) string {
	switch {
	case d == DispositionInclude && s == SpellingSymbol:
		return "+"
	case d == DispositionExclude && s == SpellingSymbol:
		return "-"
	default:
		return d.String()
	}
}

// parseKeyword maps a rule token to disposition and spelling.
func parseKeyword(token string) (Disposition, Spelling, bool) {
	switch token {
	case "include":
		return DispositionInclude, SpellingWord, true
	case "+":
		return DispositionInclude, SpellingSymbol, true
	case "exclude":
		return DispositionExclude, SpellingWord, true
	case "-":
		return DispositionExclude, SpellingSymbol, true
	default:
		return DispositionNull, SpellingWord, false
	}
}

// noMatch is the verdict when no rule matched.
func noMatch() Decision {
	return Decision{
		Included:  true,
		Matched:   false,
		RuleIndex: -1,
	}
}

// Rule is one line of a ruleset: a disposition with a compiled pattern,
// or a null line kept verbatim. Rule values are immutable.
type Rule struct {
	pattern     *Pattern
	text        string
	line        int
	disposition Disposition
	spelling    Spelling
}

// NewRule compiles pattern into an include or exclude rule.
func NewRule(d Disposition, s Spelling, pattern string) (Rule, error) {
	if !d.valid() {
		return Rule{}, fmt.Errorf("%w: %v", ErrInvalidDisposition, d)
	}

	p, err := Compile(pattern)
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		pattern:     p,
		disposition: d,
		spelling:    s,
	}, nil
}

// NullRule returns a rule that never matches and renders as text.
func NullRule(text string) Rule {
	return Rule{
		text:        text,
		disposition: DispositionNull,
	}
}

// Disposition returns rule disposition.
func (r Rule) Disposition() Disposition {
	return r.disposition
}

// Spelling returns the keyword form used when rendering.
func (r Rule) Spelling() Spelling {
	return r.spelling
}

// Pattern returns compiled pattern, nil for null rules.
func (r Rule) Pattern() *Pattern {
	return r.pattern
}

// Line returns the 1-based source line, 0 for rules built in code.
func (r Rule) Line() int {
	return r.line
}

// Match reports whether the rule matches path. Null rules never match.
func (r Rule) Match(path string, isDir bool) (bool, error) {
	if err := validatePath(path); err != nil {
		return false, err
	}

	return r.match(path, isDir), nil
}

// match is Match without path validation.
func (r Rule) match(path string, isDir bool) bool {
	if r.pattern == nil {
		return false
	}

	return r.pattern.match(path, isDir)
}

// String renders the rule as one ruleset line.
func (r Rule) String() string {
	if r.pattern == nil {
		return r.text
	}

	return r.disposition.keyword(r.spelling) + " " + r.pattern.String()
}
