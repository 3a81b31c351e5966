// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/woozymasta/filterrules"
)

// fmtParams holds the parsed flags for the fmt command.
type fmtParams struct {
	file  string
	write bool
}

// runFmt parses a rules file and prints or saves its normalized form.
// Separators collapse to one space; unrecognized lines are kept verbatim.
func (a *app) runFmt(p fmtParams) error {
	if _, err := a.init("."); err != nil {
		return err
	}

	original, err := os.ReadFile(p.file)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	rs, err := filterrules.Parse(string(original))
	if err != nil {
		return fmt.Errorf("parse rules file %s: %w", p.file, err)
	}

	if !p.write {
		text := rs.Render()
		if text != "" {
			text += "\n"
		}

		_, err := fmt.Fprint(a.stdout, text)
		return err
	}

	if err := filterrules.SaveFile(p.file, rs); err != nil {
		return err
	}

	a.logger.Info("rules file formatted", "file", p.file, "rules", rs.Len())
	return nil
}

func newFmtCmd(a *app) *cobra.Command {
	p := fmtParams{}

	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Normalize a rules file",
		Long: `Fmt parses FILE and prints it with one space between keyword and
pattern. With --write the file is replaced atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p.file = args[0]
			return a.runFmt(p)
		},
	}

	cmd.Flags().BoolVarP(&p.write, "write", "w", false, "Write result back to FILE")

	return cmd
}
