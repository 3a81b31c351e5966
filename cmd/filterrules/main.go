// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Command filterrules checks paths and directory trees against rsync-style
// include/exclude filter rules.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/woozymasta/filterrules/internal/config"
	"github.com/woozymasta/filterrules/internal/logging"
)

// Set by build flags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// app holds global flags and per-invocation state shared by subcommands.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	logger     *slog.Logger
	closeLog   func()
	configPath string
	logLevel   string
	logFile    string
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: logging.Discard(),
	}

	root := &cobra.Command{
		Use:   "filterrules",
		Short: "Evaluate rsync-style include/exclude filter rules",
		Long: `filterrules compiles rsync-style filter rules ("+ pattern", "- pattern",
"include pattern", "exclude pattern") and decides, first match wins,
whether paths are included. It can check single paths, crawl a tree,
watch the rules file for changes and normalize rules files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.closeLog != nil {
				a.closeLog()
			}
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("filterrules version {{.Version}}\n")

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: "+config.FileName+" in the working or scan directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file")

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newScanCmd(a))
	root.AddCommand(newFmtCmd(a))
	root.AddCommand(newVersionCmd(a))

	return root
}

// init loads configuration for dir and sets up logging.
func (a *app) init(dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}

	logger, closeLog, err := logging.Setup(logging.Config{
		Output:   a.stderr,
		Level:    cfg.Log.Level,
		FilePath: cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	a.logger = logger
	a.closeLog = closeLog
	return cfg, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(a.stdout, "filterrules version %s\n", version)
			return err
		},
	}
}
