// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import "strings"

// ExtensionRules builds one "*.ext" rule with disposition d per extension.
// "go", ".go" and "*.go" all mean the same extension; blank entries are
// dropped and order is kept. Matching stays case-sensitive and pattern
// metacharacters in an extension are escaped.
func ExtensionRules(d Disposition, exts []string) (*Ruleset, error) {
	rs := &Ruleset{rules: make([]Rule, 0, len(exts))}
	for _, raw := range exts {
		ext := bareExtension(raw)
		if ext == "" {
			continue
		}

		rule, err := NewRule(d, SpellingWord, "*."+escapePattern(ext))
		if err != nil {
			return nil, err
		}

		rs.rules = append(rs.rules, rule)
	}

	return rs, nil
}

func bareExtension(raw string) string {
	ext := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(ext, "*"); ok {
		ext = rest
	}

	return strings.TrimLeft(ext, ".")
}

// escapePattern backslash-escapes wildcard and escape characters.
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[\`, r) {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	return b.String()
}
