// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"errors"
	"fmt"
)

// Sentinel errors for filterrules operations.
var (
	// ErrPatternSyntax indicates a structurally invalid pattern.
	ErrPatternSyntax = errors.New("pattern syntax error")
	// ErrInvalidPath indicates a candidate path with a leading or trailing separator.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidDisposition indicates a rule built with an unsupported disposition.
	ErrInvalidDisposition = errors.New("invalid disposition")
	// ErrInvalidFilterFileName indicates invalid provider filter file name.
	ErrInvalidFilterFileName = errors.New("invalid filter file name")
	// ErrInvalidEntryName indicates invalid directory entry input for batch APIs.
	ErrInvalidEntryName = errors.New("invalid entry name")
	// ErrNilProvider indicates a nil Provider receiver.
	ErrNilProvider = errors.New("provider is nil")
	// ErrPathOutsideRoot indicates path traversal or non-relative input path.
	ErrPathOutsideRoot = errors.New("path is outside provider root")
	// ErrFilterPathOutsideRoot indicates resolved filter file path escaped provider root.
	ErrFilterPathOutsideRoot = errors.New("filter file path is outside provider root")
)

// PatternError describes why one pattern failed to compile.
type PatternError struct {
	// Pattern is the source pattern text.
	Pattern string
	// Offset is the byte offset in Pattern where the problem starts.
	Offset int
	// Reason is a short description of the problem.
	Reason string
}

// Error implements error.
func (e *PatternError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d in %q", ErrPatternSyntax, e.Reason, e.Offset, e.Pattern)
}

// Unwrap makes errors.Is(err, ErrPatternSyntax) hold.
func (e *PatternError) Unwrap() error {
	return ErrPatternSyntax
}

// LineError reports the ruleset line that could not be turned into a rule.
type LineError struct {
	// Err is the underlying error, usually a *PatternError.
	Err error
	// Text is the offending line verbatim.
	Text string
	// Line is the 1-based line number.
	Line int
}

// Error implements error.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// invalidPathError wraps ErrInvalidPath with the offending path.
func invalidPathError(path string) error {
	return fmt.Errorf("%w: %q must not start or end with %q", ErrInvalidPath, path, "/")
}
