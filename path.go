// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizePath converts a raw path to the form Match and Apply accept:
// slash separated, cleaned, with no leading or trailing "/". ".." cannot
// climb above the root and the root itself yields "". Backslashes are
// separators only on Windows; elsewhere they are part of a name.
func NormalizePath(raw string) string {
	p := filepath.ToSlash(raw)
	if isClean(p) {
		return p
	}

	p = path.Clean("/" + p)[1:]
	return p
}

// JoinPath joins a normalized directory and an entry name.
func JoinPath(dir string, name string) string {
	if dir == "" {
		return name
	}

	return dir + "/" + name
}

// isClean reports whether p is already in normalized form, which is the
// common case for paths produced by a directory walk.
func isClean(p string) bool {
	if p == "" {
		return true
	}

	if p[0] == '/' || p[len(p)-1] == '/' {
		return false
	}

	for elem := range strings.SplitSeq(p, "/") {
		if elem == "" || elem == "." || elem == ".." {
			return false
		}
	}

	return true
}
