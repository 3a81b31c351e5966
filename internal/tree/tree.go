// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

// Package tree keeps the classified view of a crawled directory tree.
//
// A Tree is owned by one goroutine: the crawl consumer. It is not safe for
// concurrent mutation.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"github.com/woozymasta/filterrules"
	"github.com/woozymasta/filterrules/internal/crawl"
)

var (
	// ErrNotFound is returned when a path is not in the tree.
	ErrNotFound = errors.New("path not found in tree")
	// ErrEmptyPath is returned for the empty root path.
	ErrEmptyPath = errors.New("empty tree path")
	// ErrInvalidPath is returned for a path with an empty element.
	ErrInvalidPath = errors.New("invalid tree path")
	// ErrNotDir is returned when a file node would get children.
	ErrNotDir = errors.New("parent is not a directory")
)

// Node is one file or directory.
type Node struct {
	// Err is the last listing or classification failure.
	Err      error
	children map[string]*Node
	Name     string
	Path     string
	Decision filterrules.Decision
	IsDir    bool
	Included bool
	// Implicit marks directories created only as parents of added entries.
	Implicit bool
}

// Children returns direct children sorted by name.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Stats counts nodes by kind and verdict.
type Stats struct {
	Dirs     int `json:"dirs"`
	Files    int `json:"files"`
	Included int `json:"included"`
	Excluded int `json:"excluded"`
	Errors   int `json:"errors"`
}

// Tree is a path tree of classified entries.
type Tree struct {
	root *Node
	size int
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		root: &Node{IsDir: true, Included: true},
	}
}

// Len returns number of nodes, root excluded.
func (t *Tree) Len() int {
	return t.size
}

// Add inserts or replaces an entry. Missing parent directories are created
// as implicit included directories.
func (t *Tree) Add(e crawl.Entry) error {
	parts, err := splitPath(e.Path)
	if err != nil {
		return err
	}

	parent := t.root
	for i, name := range parts[:len(parts)-1] {
		if !parent.IsDir {
			return fmt.Errorf("%w: %s", ErrNotDir, parent.Path)
		}

		child, ok := parent.children[name]
		if !ok {
			child = &Node{
				Name:     name,
				Path:     strings.Join(parts[:i+1], "/"),
				IsDir:    true,
				Included: true,
				Implicit: true,
			}
			t.attach(parent, child)
		}

		parent = child
	}

	if !parent.IsDir {
		return fmt.Errorf("%w: %s", ErrNotDir, parent.Path)
	}

	name := parts[len(parts)-1]
	node, ok := parent.children[name]
	if !ok {
		node = &Node{Name: name, Path: strings.Join(parts, "/")}
		t.attach(parent, node)
	}

	if node.IsDir && !e.IsDir {
		t.size -= countNodes(node) - 1
		node.children = nil
	}

	node.IsDir = e.IsDir
	node.Implicit = false
	apply(node, e)
	return nil
}

// Update replaces classification of an existing entry.
func (t *Tree) Update(e crawl.Entry) error {
	node, ok := t.Get(e.Path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, e.Path)
	}

	apply(node, e)
	return nil
}

// Remove deletes a node and its subtree.
func (t *Tree) Remove(path string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}

	parent, ok := t.lookup(parts[:len(parts)-1])
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	name := parts[len(parts)-1]
	node, ok := parent.children[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	t.size -= countNodes(node)
	delete(parent.children, name)
	return nil
}

// Get returns node for a slash separated path.
func (t *Tree) Get(path string) (*Node, bool) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, false
	}

	return t.lookup(parts)
}

// Walk visits nodes depth first in name order. Returning fs.SkipDir from
// fn skips the children of a directory.
func (t *Tree) Walk(fn func(n *Node, depth int) error) error {
	err := walk(t.root, 0, fn)
	if errors.Is(err, fs.SkipAll) {
		return nil
	}

	return err
}

// Consume adds every entry from in until it is closed or ctx is done.
func (t *Tree) Consume(ctx context.Context, in <-chan crawl.Entry) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-in:
			if !ok {
				return nil
			}

			if err := t.Add(e); err != nil {
				return err
			}
		}
	}
}

// Reclassify re-decides every node with d, dropping children of directories
// that became excluded. It returns directories that became included and must
// be crawled again to discover their contents.
func (t *Tree) Reclassify(d crawl.Decider) []string {
	var rescan []string

	_ = t.Walk(func(n *Node, _ int) error {
		was := n.Included
		dec, err := d.Decide(n.Path, n.IsDir)
		apply(n, crawl.Entry{Decision: dec, Err: err, Included: err == nil && dec.Included})

		if !n.IsDir {
			return nil
		}

		if !n.Included {
			t.size -= countNodes(n) - 1
			n.children = nil
			return fs.SkipDir
		}

		if !was {
			rescan = append(rescan, n.Path)
		}

		return nil
	})

	return rescan
}

// Stats counts current nodes.
func (t *Tree) Stats() Stats {
	var s Stats
	_ = t.Walk(func(n *Node, _ int) error {
		if n.IsDir {
			s.Dirs++
		} else {
			s.Files++
		}

		switch {
		case n.Err != nil:
			s.Errors++
		case n.Included:
			s.Included++
		default:
			s.Excluded++
		}

		return nil
	})

	return s
}

func (t *Tree) attach(parent *Node, child *Node) {
	if parent.children == nil {
		parent.children = make(map[string]*Node)
	}

	parent.children[child.Name] = child
	t.size++
}

func (t *Tree) lookup(parts []string) (*Node, bool) {
	node := t.root
	for _, name := range parts {
		child, ok := node.children[name]
		if !ok {
			return nil, false
		}

		node = child
	}

	return node, true
}

func apply(n *Node, e crawl.Entry) {
	n.Decision = e.Decision
	n.Err = e.Err
	n.Included = e.Err == nil && e.Included
}

func walk(n *Node, depth int, fn func(*Node, int) error) error {
	for _, child := range n.Children() {
		err := fn(child, depth)
		if errors.Is(err, fs.SkipDir) {
			continue
		}

		if err != nil {
			return err
		}

		if child.IsDir {
			if err := walk(child, depth+1, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

func countNodes(n *Node) int {
	total := 1
	for _, c := range n.children {
		total += countNodes(c)
	}

	return total
}

// splitPath splits a crawler path on "/". Elements are kept as they are;
// only empty ones are refused.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	parts := strings.Split(path, "/")
	if slices.Contains(parts, "") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	return parts, nil
}
