// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds one ruleset line.
const maxLineSize = 1 << 20

// ParseReader parses a ruleset from reader.
//
// Semantics:
//   - one rule per line, "\r\n" and "\n" endings are accepted
//   - a line is split once at the first run of spaces or tabs
//   - "include" / "+" create include rules, "exclude" / "-" exclude rules
//   - anything else, including comments, blank lines and lines with no
//     pattern, becomes a null rule that keeps the line verbatim
//   - a pattern that fails to compile aborts the parse with *LineError
func ParseReader(r io.Reader) (*Ruleset, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)

	rules := make([]Rule, 0, 16)
	lineNo := 0
	for s.Scan() {
		lineNo++

		rule, err := ParseLine(s.Text())
		if err != nil {
			return nil, &LineError{
				Err:  err,
				Text: s.Text(),
				Line: lineNo,
			}
		}

		rule.line = lineNo
		rules = append(rules, rule)
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan rules: %w", err)
	}

	return &Ruleset{rules: rules}, nil
}

// Parse parses a ruleset from string input.
func Parse(text string) (*Ruleset, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseLine turns one ruleset line into a rule. Only pattern compile
// errors are returned; malformed lines become null rules.
func ParseLine(line string) (Rule, error) {
	token, rest := splitLine(line)

	d, spelling, ok := parseKeyword(token)
	if !ok || rest == "" {
		return NullRule(line), nil
	}

	return NewRule(d, spelling, rest)
}

// splitLine splits line at the first run of spaces or tabs.
func splitLine(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}

	return line[:idx], strings.TrimLeft(line[idx:], " \t")
}
