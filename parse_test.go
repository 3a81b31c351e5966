// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	rs, err := Parse("# comment\ninclude *.go\n+ keep.tmp\nexclude\t*.tmp\n- build/\nmerge .rules\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	rules := rs.Rules()
	if len(rules) != 6 {
		t.Fatalf("len(rules)=%d, want 6", len(rules))
	}

	tests := []struct {
		d        Disposition
		spelling Spelling
		pattern  string
	}{
		{DispositionNull, SpellingWord, ""},
		{DispositionInclude, SpellingWord, "*.go"},
		{DispositionInclude, SpellingSymbol, "keep.tmp"},
		{DispositionExclude, SpellingWord, "*.tmp"},
		{DispositionExclude, SpellingSymbol, "build/"},
		{DispositionNull, SpellingWord, ""},
	}

	for i, tc := range tests {
		r := rules[i]
		if r.Disposition() != tc.d || r.Spelling() != tc.spelling {
			t.Fatalf("rule[%d]=%q: disposition %v spelling %v", i, r.String(), r.Disposition(), r.Spelling())
		}

		if r.Line() != i+1 {
			t.Fatalf("rule[%d].Line()=%d, want %d", i, r.Line(), i+1)
		}

		if tc.pattern != "" && r.Pattern().String() != tc.pattern {
			t.Fatalf("rule[%d] pattern=%q, want %q", i, r.Pattern().String(), tc.pattern)
		}
	}
}

func TestParseCRLF(t *testing.T) {
	t.Parallel()

	rs, err := Parse("- a\r\n+ b\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := rs.Render(); got != "- a\n+ b" {
		t.Fatalf("Render()=%q", got)
	}
}

func TestParseKeepsPatternSpaces(t *testing.T) {
	t.Parallel()

	rs, err := Parse("-    name with spaces ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ok, err := rs.Rules()[0].Match("dir/name with spaces ", false)
	if err != nil || !ok {
		t.Fatalf("pattern must keep inner and trailing spaces: %v, %v", ok, err)
	}
}

func TestParseAbortsOnPatternError(t *testing.T) {
	t.Parallel()

	_, err := Parse("- ok\n+ bad[\n- never")
	if err == nil {
		t.Fatalf("expected parse error")
	}

	var le *LineError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LineError, got %T", err)
	}

	if le.Line != 2 || le.Text != "+ bad[" {
		t.Fatalf("unexpected line error: %+v", le)
	}

	if !errors.Is(err, ErrPatternSyntax) {
		t.Fatalf("expected ErrPatternSyntax in chain, got %v", err)
	}
}

func TestParseLongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 200_000)
	rs, err := ParseReader(strings.NewReader("- " + long))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if mustApply(t, rs, long, false) {
		t.Fatalf("long literal must be excluded")
	}
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		d    Disposition
	}{
		{"include x", DispositionInclude},
		{"exclude x", DispositionExclude},
		{"+ x", DispositionInclude},
		{"- x", DispositionExclude},
		{"-x", DispositionNull},
		{"Include x", DispositionNull},
		{"include", DispositionNull},
		{"include   ", DispositionNull},
		{" - x", DispositionNull},
		{"", DispositionNull},
	}

	for _, tc := range tests {
		r, err := ParseLine(tc.line)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", tc.line, err)
		}

		if r.Disposition() != tc.d {
			t.Fatalf("ParseLine(%q)=%v, want %v", tc.line, r.Disposition(), tc.d)
		}

		if tc.d == DispositionNull && r.String() != tc.line {
			t.Fatalf("null line must render verbatim: %q != %q", r.String(), tc.line)
		}
	}
}
