// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles defines the terminal theme for verdict output.
type Styles struct {
	// Header is used for the summary line.
	Header lipgloss.Style

	// Included and Excluded color-code verdict markers.
	Included lipgloss.Style
	Excluded lipgloss.Style

	// Dir styles directory names.
	Dir lipgloss.Style

	// Error styles failed entries.
	Error lipgloss.Style

	// TableHeader styles the header row of check tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for rule annotations.
	Muted lipgloss.Style
}

// DefaultStyles returns the color scheme for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Included:    lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		Excluded:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Dir:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// PlainStyles returns styles that emit no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:      plain,
		Included:    plain,
		Excluded:    plain,
		Dir:         plain,
		Error:       plain,
		TableHeader: plain,
		TableCell:   lipgloss.NewStyle().PaddingRight(1),
		Border:      plain,
		Muted:       plain,
	}
}

// StylesFor picks DefaultStyles for terminals and PlainStyles otherwise.
// NO_COLOR disables colors regardless of the writer.
func StylesFor(w io.Writer) Styles {
	if IsTTY(w) && !noColor() {
		return DefaultStyles()
	}

	return PlainStyles()
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func noColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
