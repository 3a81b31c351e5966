// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Package config loads filterrules settings from a YAML file in the scan
// root, environment variables and built-in defaults, in that order of
// precedence from lowest to highest: defaults, file, environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the scan root.
const FileName = ".filterrules.yaml"

// Environment overrides.
const (
	EnvRules    = "FILTERRULES_RULES"
	EnvWorkers  = "FILTERRULES_WORKERS"
	EnvRate     = "FILTERRULES_RATE"
	EnvLogLevel = "FILTERRULES_LOG_LEVEL"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete filterrules configuration.
type Config struct {
	// RulesFile is the ruleset file, relative paths resolve against the scan root.
	RulesFile string `yaml:"rules_file" json:"rules_file"`
	// DirMergeFile enables per-directory filter files with this name.
	DirMergeFile string `yaml:"dir_merge_file" json:"dir_merge_file"`
	// Extensions become include rules placed before the rules file.
	Extensions []string    `yaml:"extensions" json:"extensions"`
	Scan       ScanConfig  `yaml:"scan" json:"scan"`
	Watch      WatchConfig `yaml:"watch" json:"watch"`
	Log        LogConfig   `yaml:"log" json:"log"`
}

// ScanConfig tunes the directory crawler.
type ScanConfig struct {
	// Workers bounds concurrent directory listings.
	Workers int `yaml:"workers" json:"workers"`
	// MaxEntriesPerSecond throttles the crawl, 0 disables throttling.
	MaxEntriesPerSecond float64 `yaml:"max_entries_per_second" json:"max_entries_per_second"`
	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks"`
}

// WatchConfig tunes rules file watching.
type WatchConfig struct {
	// Debounce is a duration string such as "250ms".
	Debounce string `yaml:"debounce" json:"debounce"`
}

// LogConfig tunes logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	// File is an optional JSON log file.
	File string `yaml:"file" json:"file"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		RulesFile:  "",
		Extensions: []string{},
		Scan: ScanConfig{
			Workers:             runtime.NumCPU(),
			MaxEntriesPerSecond: 0,
			FollowSymlinks:      false,
		},
		Watch: WatchConfig{
			Debounce: "250ms",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads FileName from dir when present, then applies environment
// overrides and validates.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}

		path = ""
	}

	return LoadFile(path)
}

// LoadFile reads config from path, which must exist unless empty, then
// applies environment overrides and validates.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadYAML overlays fields present in the file onto c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies FILTERRULES_* variables. Malformed numeric
// values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvRules); v != "" {
		c.RulesFile = v
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scan.Workers = n
		}
	}

	if v := os.Getenv(EnvRate); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil && r >= 0 {
			c.Scan.MaxEntriesPerSecond = r
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("%w: scan.workers must be positive, got %d", ErrInvalid, c.Scan.Workers)
	}

	if c.Scan.MaxEntriesPerSecond < 0 {
		return fmt.Errorf("%w: scan.max_entries_per_second must be non-negative, got %g", ErrInvalid, c.Scan.MaxEntriesPerSecond)
	}

	if _, err := c.DebounceDuration(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("%w: log.level must be 'debug', 'info', 'warn', or 'error', got %q", ErrInvalid, c.Log.Level)
	}

	if strings.ContainsAny(c.DirMergeFile, `/\`) {
		return fmt.Errorf("%w: dir_merge_file must be a plain file name, got %q", ErrInvalid, c.DirMergeFile)
	}

	return nil
}

// DebounceDuration parses Watch.Debounce. Empty means no debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: watch.debounce %q is not a non-negative duration", ErrInvalid, c.Watch.Debounce)
	}

	return d, nil
}

// ResolveRulesFile returns RulesFile resolved against root, empty when unset.
func (c *Config) ResolveRulesFile(root string) string {
	if c.RulesFile == "" || filepath.IsAbs(c.RulesFile) {
		return c.RulesFile
	}

	return filepath.Join(root, c.RulesFile)
}
