// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"errors"
	"testing"
)

// candidate kinds for pattern tables.
const (
	asFile = iota
	asDir
	asBoth
)

type patternCase struct {
	pattern string
	path    string
	kind    int
	want    bool
}

func runPatternTable(t *testing.T, cases []patternCase) {
	t.Helper()

	for _, tc := range cases {
		p, err := Compile(tc.pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tc.pattern, err)
		}

		kinds := []bool{tc.kind == asDir}
		if tc.kind == asBoth {
			kinds = []bool{false, true}
		}

		for _, isDir := range kinds {
			got, err := p.Match(tc.path, isDir)
			if err != nil {
				t.Fatalf("Match(%q, %q, dir=%v): %v", tc.pattern, tc.path, isDir, err)
			}

			if got != tc.want {
				t.Fatalf("%q match %q (dir=%v) = %v, want %v", tc.pattern, tc.path, isDir, got, tc.want)
			}
		}
	}
}

func TestPatternTrailingSlash(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"/foo/", "foo", asDir, true},
		{"/foo/", "foo", asFile, false},
		{"foo/", "bar/foo", asFile, false},
		{"foo/", "bar/foo", asDir, true},
		{"foo//", "foo", asDir, true},
		{"*.d/", "conf.d", asDir, true},
		{"*.d/", "conf.d", asFile, false},
	})
}

func TestPatternAnchoring(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"/foo", "foo", asBoth, true},
		{"/foo", "foo/bar", asBoth, false},
		{"foo", "foo", asBoth, true},
		{"foo", "bar/foo", asBoth, true},
		{"/foo", "bar/foo", asBoth, false},
		{"foo", "barfoo", asBoth, false},
		{"foo", "foo/bar", asBoth, false},
		{"a/b", "x/a/b", asBoth, true},
		{"a/b", "xa/b", asBoth, false},
	})
}

func TestPatternSingleStar(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"*", "foo", asBoth, true},
		{"*", "foo/bar", asBoth, true},
		{"foo.*", "foo.bar", asBoth, true},
		{"foo.*", "foo.", asBoth, true},
		{"foo.*", "foo", asBoth, false},
		{"foo.*", "foo/bar", asBoth, false},
		{"foo.*", "fooxbar", asBoth, false},
		{"/*/foo", "bar/foo", asBoth, true},
		{"/*/foo", "bar/bar", asBoth, false},
		{"/*/foo", "a/b/foo", asBoth, false},
		{"/*b/", "ab", asDir, true},
	})
}

func TestPatternEscapes(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		// No unescaped wildcard: literal, backslash included.
		{`\*`, "*", asBoth, false},
		{`\*`, `\*`, asBoth, true},
		{`\*`, "a", asBoth, false},
		// Escaped backslash followed by a real wildcard.
		{`\\*`, `\*`, asBoth, true},
		{`\\*`, `\abc`, asBoth, true},
		{`\\*`, "abc", asBoth, false},
		// Escapes are honored once a wildcard is present.
		{`*/\*`, "a/*", asBoth, true},
		{`*/\*`, "a/b", asBoth, false},
		{`\?*`, "?x", asBoth, true},
		{`\?*`, "ax", asBoth, false},
		{`a\[*`, "a[1", asBoth, true},
		{`a\[*`, "ab", asBoth, false},
		// Trailing lone backslash is literal.
		{`*\`, `x\`, asBoth, true},
	})
}

func TestPatternDoubleStar(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"/foo/**/baz", "foo/bar/baz", asBoth, true},
		{"/foo/**/baz", "foo/a/b/c/baz", asBoth, true},
		{"/foo/**/baz", "foo/baz", asBoth, false},
		{"**/baz/", "foo/bar/baz", asDir, true},
		{"**/baz", "foo/bar/baz", asDir, true},
		{"/**/baz", "foo/bar/baz", asBoth, true},
		{"foo**", "foo/bar/baz", asBoth, true},
		{"/a/**", "a/b/c", asBoth, true},
		{"/a/**", "a", asBoth, false},
	})
}

func TestPatternTripleStar(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"foo/***", "foo", asDir, true},
		{"foo/***", "foo", asFile, false},
		{"foo/***", "foo/biz", asBoth, true},
		{"foo/***", "a/b/foo/bar", asBoth, true},
		{"foo/***", "biz/foo", asDir, true},
		{"foo/***", "biz/foo", asFile, false},
		{"foo/***", "foobar/x", asBoth, false},
		{"/foo/***", "biz/foo", asBoth, false},
		{"/*/foo/***", "biz/foo/file", asBoth, true},
		{"foo/***", "biz/foo/foo spaced", asBoth, true},
		{"/foo/***", "foo", asDir, true},
		{"/foo/***", "foo", asFile, false},
		{"/foo/***", "foo/a/b/c", asBoth, true},
		// "***" not at the end acts like "**".
		{"/a/***/z", "a/b/c/z", asBoth, true},
		{"***", "a/b", asBoth, true},
		// Escaped slash before "***" disables the directory form.
		{`x\/***`, "x/abc", asBoth, true},
	})
}

func TestPatternBrackets(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"foo/*.[ch]", "foo/bar.c", asFile, true},
		{"foo/*.[ch]", "foo/bar.a", asFile, false},
		{"foo/*.[ch]", "foo/bar.ch", asFile, false},
		{"foo/*.p[sy]", "foo/bar.ps", asFile, true},
		{"foo/*.p[sy]", "foo/bar.psy", asFile, false},
		{"foo/[a-z]/*", "foo/q/bar", asBoth, true},
		{"foo/[a-z]/*", "foo/ab/bar", asBoth, false},
		{"[!a]", "b", asBoth, true},
		{"[!a]", "a", asBoth, false},
		{"[^a]", "a", asBoth, false},
		{"[]]", "]", asBoth, true},
		{"[!]]", "]", asBoth, false},
		{"[!]]", "x", asBoth, true},
		{`[\]]`, "]", asBoth, true},
		{"[a-]", "-", asBoth, true},
		// Brackets never match the separator.
		{"a[/]b", "a/b", asBoth, false},
		{"a[!x]b", "a/b", asBoth, false},
		{"a[+-0]b", "a/b", asBoth, false},
		{"a[+-0]b", "a.b", asBoth, true},
		{"[z-a]", "m", asBoth, false},
		{"x[.]y", "x.y", asBoth, true},
		{"x[.]y", "xzy", asBoth, false},
	})
}

func TestPatternPOSIXClasses(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"[[:alnum:]]", "1", asBoth, true},
		{"[[:alpha:]]", "q", asBoth, true},
		{"[[:alpha:]]", "1", asBoth, false},
		{"[[:ascii:]]", "\n", asBoth, true},
		{"[[:ascii:]]", "é", asBoth, false},
		{"[[:blank:]]", " ", asBoth, true},
		{"[[:blank:]]", "\t", asBoth, true},
		{"[[:cntrl:]]", "\t", asBoth, true},
		{"[[:digit:]]", "9", asBoth, true},
		{"[[:graph:]]", "*", asBoth, true},
		{"[[:graph:]]", " ", asBoth, false},
		{"[[:lower:]]", "a", asBoth, true},
		{"[[:lower:]]", "B", asBoth, false},
		{"[[:print:]]", "&", asBoth, true},
		{"[[:punct:]]", "(", asBoth, true},
		{"[[:space:]]", "\v", asBoth, true},
		{"[[:upper:]]", "j", asBoth, false},
		{"[[:upper:]]", "J", asBoth, true},
		{"[[:word:]]/[[:word:]]/[[:word:]]", "a/_/3", asBoth, true},
		{"[[:xdigit:]]/[[:xdigit:]]/[[:xdigit:]]", "0/a/f", asBoth, true},
		{"[[:xdigit:]]", "g", asBoth, false},
		{"[![:digit:]]", "a", asBoth, true},
		{"[![:digit:]]", "5", asBoth, false},
		{"[[:digit:]x]", "x", asBoth, true},
		// Only non-separator punctuation is left in a class.
		{"a[[:punct:]]b", "a/b", asBoth, false},
		{"a[[:punct:]]b", "a-b", asBoth, true},
	})
}

func TestPatternQuestionMark(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"foo/?", "foo/b", asBoth, true},
		{"foo/b?", "foo/ba", asBoth, true},
		{"foo/b?a", "foo/b/a", asBoth, false},
		{"?", "ab", asBoth, false},
		{"?", "é", asBoth, true},
	})
}

func TestPatternLiteralDotAndMeta(t *testing.T) {
	t.Parallel()

	runPatternTable(t, []patternCase{
		{"a.b", "a.b", asBoth, true},
		{"a.b", "axb", asBoth, false},
		{"*.(x)", "f.(x)", asBoth, true},
		{"*+", "a+", asBoth, true},
		{"*+", "aa", asBoth, false},
		{"$*", "$x", asBoth, true},
	})
}

func TestPatternEmpty(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"/", "//"} {
		p, err := Compile(src)
		if err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}

		got, err := p.Match("foo", true)
		if err != nil || got {
			t.Fatalf("%q must never match, got %v, %v", src, got, err)
		}
	}
}

func TestPatternSyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		offset  int
	}{
		{"foo[", 3},
		{"/foo[abc", 4},
		{"[!", 0},
		{"x[[:nope:]]", 2},
		{"[[:alpha:]", 0},
	}

	for _, tc := range tests {
		_, err := Compile(tc.pattern)
		if err == nil {
			t.Fatalf("Compile(%q): expected error", tc.pattern)
		}

		if !errors.Is(err, ErrPatternSyntax) {
			t.Fatalf("Compile(%q): expected ErrPatternSyntax, got %v", tc.pattern, err)
		}

		var pe *PatternError
		if !errors.As(err, &pe) {
			t.Fatalf("Compile(%q): expected *PatternError, got %T", tc.pattern, err)
		}

		if pe.Pattern != tc.pattern || pe.Offset != tc.offset {
			t.Fatalf("Compile(%q): got %+v, want offset %d", tc.pattern, pe, tc.offset)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("MustCompile must panic on invalid pattern")
		}
	}()

	_ = MustCompile("[")
}

func TestPatternMatchRejectsUnnormalizedPath(t *testing.T) {
	t.Parallel()

	p := MustCompile("*.go")
	for _, path := range []string{"/a.go", "a.go/", "/"} {
		_, err := p.Match(path, false)
		if !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("Match(%q): expected ErrInvalidPath, got %v", path, err)
		}
	}

	got, err := p.Match("", false)
	if err != nil || got {
		t.Fatalf("Match(\"\"): got %v, %v", got, err)
	}
}

func TestPatternAccessors(t *testing.T) {
	t.Parallel()

	p := MustCompile("/build/")
	if !p.Anchored() || !p.DirOnly() || p.String() != "/build/" {
		t.Fatalf("unexpected accessors: anchored=%v dirOnly=%v source=%q", p.Anchored(), p.DirOnly(), p.String())
	}
}
