// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Pattern is one compiled filter pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	// re matches directory candidates, and file candidates unless fileRE is set.
	re *regexp.Regexp
	// fileRE matches file candidates of a trailing "/***" pattern.
	fileRE *regexp.Regexp
	// source is the pattern text as written.
	source string
	// literal is the whole-path text of a pattern without unescaped wildcards.
	literal string
	// anchored means source pattern starts with "/".
	anchored bool
	// dirOnly means source pattern ends with "/".
	dirOnly bool
	// isLiteral reports that no unescaped wildcard is present.
	isLiteral bool
	// empty reports that nothing is left after anchor and suffix stripping.
	empty bool
}

// runeRange is an inclusive range of a bracket expression.
type runeRange struct {
	lo rune
	hi rune
}

// posixClasses holds C locale members of named bracket classes.
var posixClasses = map[string][]runeRange{
	"alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
	"alpha":  {{'A', 'Z'}, {'a', 'z'}},
	"ascii":  {{0x00, 0x7f}},
	"blank":  {{'\t', '\t'}, {' ', ' '}},
	"cntrl":  {{0x00, 0x1f}, {0x7f, 0x7f}},
	"digit":  {{'0', '9'}},
	"graph":  {{'!', '~'}},
	"lower":  {{'a', 'z'}},
	"print":  {{' ', '~'}},
	"punct":  {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
	"space":  {{'\t', '\r'}, {' ', ' '}},
	"upper":  {{'A', 'Z'}},
	"word":   {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}, {'_', '_'}},
	"xdigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
}

// Compile compiles one filter pattern.
//
// Syntax:
//   - trailing "/" restricts the pattern to directories
//   - leading "/" anchors the pattern to the root, otherwise it matches
//     at any segment boundary
//   - "*" matches within one segment, "**" crosses segments, "?" matches one
//     non-separator character
//   - trailing "/***" matches the directory itself and everything below it
//   - "[...]" bracket expressions with "!"/"^" negation, ranges and
//     POSIX classes such as "[:alpha:]"
//   - "\" escapes the next character, but only when the pattern contains
//     at least one unescaped wildcard; otherwise the pattern is literal
func Compile(pattern string) (*Pattern, error) {
	p := &Pattern{
		source:   pattern,
		anchored: strings.HasPrefix(pattern, "/"),
		dirOnly:  strings.HasSuffix(pattern, "/"),
	}

	body := strings.TrimRight(pattern, "/")
	base := 0
	if p.anchored && body != "" {
		body = body[1:]
		base = 1
	}

	if body == "" {
		p.empty = true
		return p, nil
	}

	if !hasWildcard(body) {
		p.isLiteral = true
		p.literal = body
		return p, nil
	}

	head := `(?:^|/)`
	if p.anchored {
		head = `^`
	}

	prefix, triple := cutTripleSuffix(body)
	expr, err := translateGlob(pattern, prefix, base)
	if err != nil {
		return nil, err
	}

	if !triple {
		p.re, err = compileRegexp(pattern, `(?s)`+head+expr+`$`)
		if err != nil {
			return nil, err
		}

		return p, nil
	}

	// "dir/***": directories match the prefix itself or anything below it,
	// files only ever match below it.
	p.re, err = compileRegexp(pattern, `(?s)`+head+expr+`(?:/.*)?$`)
	if err != nil {
		return nil, err
	}

	p.fileRE, err = compileRegexp(pattern, `(?s)`+head+expr+`/.*$`)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the pattern as written.
func (p *Pattern) String() string {
	return p.source
}

// DirOnly reports whether the pattern only matches directories.
func (p *Pattern) DirOnly() bool {
	return p.dirOnly
}

// Anchored reports whether the pattern only matches from the root.
func (p *Pattern) Anchored() bool {
	return p.anchored
}

// Match reports whether the pattern matches a normalized relative path.
//
// The path must not start or end with "/", otherwise an error wrapping
// ErrInvalidPath is returned. The empty path matches nothing.
func (p *Pattern) Match(path string, isDir bool) (bool, error) {
	if err := validatePath(path); err != nil {
		return false, err
	}

	return p.match(path, isDir), nil
}

// match is Match without path validation.
func (p *Pattern) match(path string, isDir bool) bool {
	if path == "" || p.empty {
		return false
	}

	if p.dirOnly && !isDir {
		return false
	}

	if p.isLiteral {
		return matchLiteral(p.literal, path, p.anchored)
	}

	if !isDir && p.fileRE != nil {
		return p.fileRE.MatchString(path)
	}

	return p.re.MatchString(path)
}

// validatePath enforces the normalized relative path contract.
func validatePath(path string) error {
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return invalidPathError(path)
	}

	return nil
}

// matchLiteral matches wildcard-free pattern text without regexp.
func matchLiteral(literal string, path string, anchored bool) bool {
	if anchored {
		return path == literal
	}

	return path == literal || strings.HasSuffix(path, "/"+literal)
}

// hasWildcard reports whether pattern contains an unescaped "*", "?" or "[".
func hasWildcard(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '*', '?', '[':
			return true
		}
	}

	return false
}

// cutTripleSuffix splits off an unescaped trailing "/***".
func cutTripleSuffix(body string) (string, bool) {
	prefix, ok := strings.CutSuffix(body, "/***")
	if !ok {
		return body, false
	}

	slashes := 0
	for i := len(prefix) - 1; i >= 0 && prefix[i] == '\\'; i-- {
		slashes++
	}

	if slashes%2 == 1 {
		return body, false
	}

	return prefix, true
}

// translateGlob converts a pattern body to regexp source.
// base is the body offset inside source, used for error reporting.
func translateGlob(source string, body string, base int) (string, error) {
	var b strings.Builder
	b.Grow(len(body) * 2)

	for i := 0; i < len(body); {
		switch body[i] {
		case '\\':
			if i+1 == len(body) {
				b.WriteString(`\\`)
				i++
				continue
			}

			r, size := utf8.DecodeRuneInString(body[i+1:])
			b.WriteString(regexp.QuoteMeta(string(r)))
			i += 1 + size
		case '*':
			run := i
			for run < len(body) && body[run] == '*' {
				run++
			}

			// Two or more stars cross segment boundaries.
			if run-i >= 2 {
				b.WriteString(`.*`)
			} else {
				b.WriteString(`[^/]*`)
			}
			i = run
		case '?':
			b.WriteString(`[^/]`)
			i++
		case '[':
			class, next, err := translateBracket(source, body, i, base)
			if err != nil {
				return "", err
			}

			b.WriteString(class)
			i = next
		default:
			r, size := utf8.DecodeRuneInString(body[i:])
			b.WriteString(regexp.QuoteMeta(string(r)))
			i += size
		}
	}

	return b.String(), nil
}

// translateBracket converts the bracket expression starting at body[start]
// into a regexp class that never matches "/". It returns the index right
// after the closing bracket.
func translateBracket(source string, body string, start int, base int) (string, int, error) {
	idx := start + 1
	negate := false
	if idx < len(body) && (body[idx] == '!' || body[idx] == '^') {
		negate = true
		idx++
	}

	set := make([]runeRange, 0, 4)
	for first := true; ; first = false {
		if idx >= len(body) {
			return "", 0, &PatternError{
				Pattern: source,
				Offset:  base + start,
				Reason:  "unterminated bracket expression",
			}
		}

		// Leading ']' is a literal member.
		if body[idx] == ']' && !first {
			idx++
			break
		}

		if name, next, ok := posixClassAt(body, idx); ok {
			ranges, known := posixClasses[name]
			if !known {
				return "", 0, &PatternError{
					Pattern: source,
					Offset:  base + idx,
					Reason:  "unknown character class [:" + name + ":]",
				}
			}

			set = append(set, ranges...)
			idx = next
			continue
		}

		lo, size := bracketRune(body, idx)
		idx += size

		if idx+1 < len(body) && body[idx] == '-' && body[idx+1] != ']' {
			hi, hiSize := bracketRune(body, idx+1)
			idx += 1 + hiSize
			set = append(set, runeRange{lo: lo, hi: hi})
			continue
		}

		set = append(set, runeRange{lo: lo, hi: lo})
	}

	return renderClass(set, negate), idx, nil
}

// posixClassAt detects "[:name:]" at body[idx] and returns the class name
// and the index after it. Names must be lower-case letters.
func posixClassAt(body string, idx int) (string, int, bool) {
	if !strings.HasPrefix(body[idx:], "[:") {
		return "", 0, false
	}

	nameStart := idx + 2
	end := nameStart
	for end < len(body) && body[end] >= 'a' && body[end] <= 'z' {
		end++
	}

	if end == nameStart || !strings.HasPrefix(body[end:], ":]") {
		return "", 0, false
	}

	return body[nameStart:end], end + 2, true
}

// bracketRune decodes one bracket member, honoring a backslash escape.
func bracketRune(body string, idx int) (rune, int) {
	if body[idx] == '\\' && idx+1 < len(body) {
		r, size := utf8.DecodeRuneInString(body[idx+1:])
		return r, 1 + size
	}

	r, size := utf8.DecodeRuneInString(body[idx:])
	return r, size
}

// renderClass writes a regexp character class for set, keeping "/" out of it.
func renderClass(set []runeRange, negate bool) string {
	var b strings.Builder
	b.WriteByte('[')
	if negate {
		b.WriteString(`^/`)
	}

	members := 0
	for _, r := range set {
		// Reversed ranges are empty.
		if r.hi < r.lo {
			continue
		}

		if !negate && r.lo <= '/' && '/' <= r.hi {
			if r.lo < '/' {
				writeClassRange(&b, r.lo, '/'-1)
				members++
			}

			if r.hi > '/' {
				writeClassRange(&b, '/'+1, r.hi)
				members++
			}

			continue
		}

		writeClassRange(&b, r.lo, r.hi)
		members++
	}

	if !negate && members == 0 {
		return `[^\x00-\x{10FFFF}]`
	}

	b.WriteByte(']')
	return b.String()
}

// writeClassRange writes one class member or range.
func writeClassRange(b *strings.Builder, lo rune, hi rune) {
	writeClassRune(b, lo)
	if hi != lo {
		b.WriteByte('-')
		writeClassRune(b, hi)
	}
}

// writeClassRune writes one rune in a form that is literal inside a class.
func writeClassRune(b *strings.Builder, r rune) {
	if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
		b.WriteRune(r)
		return
	}

	b.WriteString(`\x{`)
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte('}')
}

// compileRegexp compiles generated regexp source.
func compileRegexp(source string, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{
			Pattern: source,
			Offset:  0,
			Reason:  err.Error(),
		}
	}

	return re, nil
}
