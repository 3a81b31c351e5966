// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package filterrules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultFilterFileName is the per-directory filter file read by Provider.
const DefaultFilterFileName = ".rsync-filter"

const defaultProviderCacheSize = 1024

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	// Base is consulted after all filter files along the path.
	Base *Ruleset `json:"-" yaml:"-"`
	// FilterFileName defaults to DefaultFilterFileName. It must be a bare name.
	FilterFileName string `json:"filter_file_name,omitempty" yaml:"filter_file_name,omitempty"`
	// CacheSize is the number of directories whose filter files stay parsed.
	CacheSize int `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	// EnableSymlinkEscapeCheck refuses filter files that resolve outside the root.
	EnableSymlinkEscapeCheck bool `json:"enable_symlink_escape_check,omitempty" yaml:"enable_symlink_escape_check,omitempty"`
}

// DirEntry names one child of the directory passed to DecideInDir.
type DirEntry struct {
	Name  string `json:"name" yaml:"name"`
	IsDir bool   `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
}

// Provider evaluates paths against filter files merged from the directory
// hierarchy, the way rsync's dir-merge works. It is safe for concurrent use.
//
// For a path, the filter files of its ancestor directories are consulted
// deepest first, then the base ruleset. Patterns in a filter file match the
// path relative to the directory holding that file, so an anchored pattern
// means "at this directory". The first matching rule wins and no match
// means included.
//
// Paths and entry names are matched byte for byte as given: backslashes and
// surrounding spaces are part of a name. Parsed filter files stay cached
// until Invalidate or Purge; a file that fails to read or parse is not
// cached and is retried on the next decision.
type Provider struct {
	base   *Ruleset
	layers *lru.Cache[string, layer]
	loads  singleflight.Group
	root   string
	// realRoot is root with symlinks resolved, set when escape checks run.
	realRoot    string
	fileName    string
	checkEscape bool
}

// layer is the parsed filter file of one directory. A directory without a
// filter file is a layer with nil rules.
type layer struct {
	err    error
	rules  *Ruleset
	dir    string
	source string
}

// NewProvider creates a Provider for the tree under rootDir.
func NewProvider(rootDir string, opts ProviderOptions) (*Provider, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("abs root: %w", err)
	}

	name := strings.TrimSpace(opts.FilterFileName)
	if name == "" {
		name = DefaultFilterFileName
	}

	if !isBareName(name) || strings.ContainsRune(name, '\\') {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilterFileName, opts.FilterFileName)
	}

	size := opts.CacheSize
	if size <= 0 {
		size = defaultProviderCacheSize
	}

	layers, err := lru.New[string, layer](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	p := &Provider{
		base:        opts.Base,
		layers:      layers,
		root:        root,
		realRoot:    root,
		fileName:    name,
		checkEscape: opts.EnableSymlinkEscapeCheck,
	}

	if p.checkEscape {
		if p.realRoot, err = realPath(root); err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}
	}

	return p, nil
}

// Root returns the absolute root directory.
func (p *Provider) Root() string {
	return p.root
}

// Decide classifies a path relative to the root. Decision.Source names the
// deciding filter file relative to the root; it is empty when the base
// ruleset decided or nothing matched.
func (p *Provider) Decide(relPath string, isDir bool) (Decision, error) {
	if p == nil {
		return Decision{}, ErrNilProvider
	}

	path, err := relativeArg(relPath)
	if err != nil {
		return Decision{}, err
	}

	if path == "" {
		return Decision{}, fmt.Errorf("%w: empty path", ErrPathOutsideRoot)
	}

	chain, err := p.chain(parentDir(path))
	if err != nil {
		return Decision{}, err
	}

	return p.evaluate(chain, path, isDir), nil
}

// Apply reports whether a path relative to the root is included.
func (p *Provider) Apply(relPath string, isDir bool) (bool, error) {
	d, err := p.Decide(relPath, isDir)
	return d.Included, err
}

// DecideInDir classifies every entry of one directory, loading the filter
// chain once. An empty relDir means the root.
func (p *Provider) DecideInDir(relDir string, entries []DirEntry) ([]Decision, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	dir, err := relativeArg(relDir)
	if err != nil {
		return nil, err
	}

	chain, err := p.chain(dir)
	if err != nil {
		return nil, err
	}

	out := make([]Decision, len(entries))
	for i, e := range entries {
		if !isBareName(e.Name) {
			return nil, fmt.Errorf("entry %d %q: %w", i, e.Name, ErrInvalidEntryName)
		}

		out[i] = p.evaluate(chain, JoinPath(dir, e.Name), e.IsDir)
	}

	return out, nil
}

// Invalidate forgets the cached filter file of one directory, so the next
// decision under it reads the file again.
func (p *Provider) Invalidate(relDir string) {
	if p == nil {
		return
	}

	if dir, err := relativeArg(relDir); err == nil {
		p.layers.Remove(dir)
	}
}

// Purge forgets every cached filter file.
func (p *Provider) Purge() {
	if p != nil {
		p.layers.Purge()
	}
}

// evaluate walks chain, which is ordered deepest first, then the base.
func (p *Provider) evaluate(chain []layer, path string, isDir bool) Decision {
	for _, l := range chain {
		local := path
		if l.dir != "" {
			local = path[len(l.dir)+1:]
		}

		if d := l.rules.decide(local, isDir); d.Matched {
			d.Source = l.source
			return d
		}
	}

	return p.base.decide(path, isDir)
}

// chain returns the filter layers that apply to entries of dir, deepest
// first. Directories without a filter file are left out.
func (p *Provider) chain(dir string) ([]layer, error) {
	dirs := []string{""}
	if dir != "" {
		parts := strings.Split(dir, "/")
		for i := range parts {
			dirs = append(dirs, strings.Join(parts[:i+1], "/"))
		}
	}

	chain := make([]layer, 0, len(dirs))
	for i := len(dirs) - 1; i >= 0; i-- {
		l := p.layer(dirs[i])
		if l.err != nil {
			return nil, l.err
		}

		if l.rules != nil {
			chain = append(chain, l)
		}
	}

	return chain, nil
}

// layer returns the cached filter file of dir, loading it at most once
// across concurrent callers.
func (p *Provider) layer(dir string) layer {
	if l, ok := p.layers.Get(dir); ok {
		return l
	}

	v, _, _ := p.loads.Do(dir, func() (any, error) {
		if l, ok := p.layers.Get(dir); ok {
			return l, nil
		}

		l := p.readLayer(dir)
		if l.err == nil {
			p.layers.Add(dir, l)
		}

		return l, nil
	})

	return v.(layer)
}

// readLayer parses the filter file of dir, if any.
func (p *Provider) readLayer(dir string) layer {
	l := layer{dir: dir, source: JoinPath(dir, p.fileName)}
	file := filepath.Join(p.root, filepath.FromSlash(l.source))

	if p.checkEscape {
		if err := p.checkInsideRoot(file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				l.err = err
			}

			return l
		}
	}

	rules, err := LoadFile(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		l.err = err
	default:
		l.rules = rules
	}

	return l
}

// checkInsideRoot fails when file resolves to a location outside the root.
func (p *Provider) checkInsideRoot(file string) error {
	if _, err := os.Lstat(file); err != nil {
		return err
	}

	resolved, err := realPath(file)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", file, err)
	}

	rel, err := filepath.Rel(p.realRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrFilterPathOutsideRoot, file)
	}

	return nil
}

// realPath resolves symlinks. A path that does not exist yet is returned
// as is.
func realPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}

	return resolved, err
}

// isBareName reports whether name is a single path element.
func isBareName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsRune(name, '/')
}

// relativeArg validates a caller supplied root-relative path. Empty and "."
// elements are dropped, so "" and "." mean the root and "./a/" means "a".
// Absolute paths and ".." elements are rejected. Nothing else is rewritten.
func relativeArg(raw string) (string, error) {
	if strings.HasPrefix(raw, "/") || filepath.IsAbs(raw) {
		return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, raw)
	}

	elems := strings.Split(raw, "/")
	kept := elems[:0]
	for _, elem := range elems {
		switch elem {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrPathOutsideRoot, raw)
		}

		kept = append(kept, elem)
	}

	return strings.Join(kept, "/"), nil
}

// parentDir returns the directory part of a normalized path.
func parentDir(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}

	return ""
}
