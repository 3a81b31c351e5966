// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package report

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/tree"
)

// TreeOptions controls tree rendering.
type TreeOptions struct {
	// Rules resolves rule indexes of base decisions to rule text.
	Rules *filterrules.Ruleset
	// ShowExcluded also prints excluded entries.
	ShowExcluded bool
}

// Check is the verdict for one path given on the command line.
type Check struct {
	Err      error
	Path     string
	Decision filterrules.Decision
	IsDir    bool
}

// WriteTree writes the classified tree as indented text followed by a
// summary line.
func WriteTree(w io.Writer, tr *tree.Tree, opts TreeOptions, s Styles) error {
	labels := newLabeler(opts.Rules)

	err := tr.Walk(func(n *tree.Node, depth int) error {
		if !n.Included && n.Err == nil && !opts.ShowExcluded {
			if n.IsDir {
				return fs.SkipDir
			}

			return nil
		}

		name := n.Name
		if n.IsDir {
			name = s.Dir.Render(name + "/")
		}

		line := strings.Repeat("  ", depth) + marker(n.Included, n.Err, s) + " " + name
		if n.Err != nil {
			line += "  " + s.Error.Render(n.Err.Error())
		} else if n.Decision.Matched {
			line += "  " + s.Muted.Render(labels.label(n.Decision))
		}

		_, err := fmt.Fprintln(w, line)
		return err
	})
	if err != nil {
		return err
	}

	st := tr.Stats()
	_, err = fmt.Fprintf(w, "\n%s\n", s.Header.Render(fmt.Sprintf(
		"%d dir(s), %d file(s): %d included, %d excluded, %d error(s)",
		st.Dirs, st.Files, st.Included, st.Excluded, st.Errors)))
	return err
}

// WriteChecks writes check verdicts as a table.
func WriteChecks(w io.Writer, checks []Check, rules *filterrules.Ruleset, s Styles) error {
	labels := newLabeler(rules)

	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		verdict := "included"
		switch {
		case c.Err != nil:
			verdict = "error"
		case !c.Decision.Included:
			verdict = "excluded"
		}

		detail := labels.label(c.Decision)
		if c.Err != nil {
			detail = c.Err.Error()
		}

		path := c.Path
		if c.IsDir {
			path += "/"
		}

		rows = append(rows, []string{verdict, path, detail})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}

			if col == 0 && row >= 0 && row < len(rows) {
				return verdictStyle(rows[row][0], s).PaddingRight(1)
			}

			return s.TableCell
		}).
		Headers("VERDICT", "PATH", "RULE").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t)
	return err
}

func marker(included bool, err error, s Styles) string {
	switch {
	case err != nil:
		return s.Error.Render("!")
	case included:
		return s.Included.Render("+")
	default:
		return s.Excluded.Render("-")
	}
}

func verdictStyle(verdict string, s Styles) lipgloss.Style {
	switch verdict {
	case "included":
		return s.Included
	case "excluded":
		return s.Excluded
	default:
		return s.Error
	}
}

// labeler renders the rule behind a decision.
type labeler struct {
	rules []filterrules.Rule
}

func newLabeler(rs *filterrules.Ruleset) labeler {
	return labeler{rules: rs.Rules()}
}

func (l labeler) label(d filterrules.Decision) string {
	if !d.Matched {
		return "default"
	}

	if d.Source != "" {
		return fmt.Sprintf("%s rule %d", d.Source, d.RuleIndex+1)
	}

	if d.RuleIndex >= 0 && d.RuleIndex < len(l.rules) {
		r := l.rules[d.RuleIndex]
		if r.Line() > 0 {
			return fmt.Sprintf("%s (line %d)", r.String(), r.Line())
		}

		return r.String()
	}

	return fmt.Sprintf("rule %d", d.RuleIndex+1)
}
