// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package crawl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/filterrules"
)

func makeTree(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o600))
	}

	return root
}

func collect(t *testing.T, c *Crawler) map[string]Entry {
	t.Helper()

	out, wait := c.Start(context.Background(), 16)
	got := make(map[string]Entry)
	for e := range out {
		got[e.Path] = e
	}

	require.NoError(t, wait())
	return got
}

func keys(m map[string]Entry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	sort.Strings(out)
	return out
}

func TestRun_ClassifiesEntries(t *testing.T) {
	root := makeTree(t,
		"main.go",
		"notes.tmp",
		"src/app.go",
		"src/app.tmp",
		"build/out.bin",
	)

	rs, err := filterrules.Parse("- *.tmp\n- build/")
	require.NoError(t, err)

	c, err := New(root, filterrules.NewCurrent(rs), Options{Workers: 2})
	require.NoError(t, err)

	got := collect(t, c)
	assert.Equal(t, []string{
		"build",
		"main.go",
		"notes.tmp",
		"src",
		"src/app.go",
		"src/app.tmp",
	}, keys(got))

	assert.True(t, got["main.go"].Included)
	assert.False(t, got["notes.tmp"].Included)
	assert.True(t, got["src"].IsDir)
	assert.False(t, got["src/app.tmp"].Included)
	assert.Equal(t, 0, got["src/app.tmp"].Decision.RuleIndex)
	assert.False(t, got["build"].Included)
	assert.Equal(t, 1, got["build"].Decision.RuleIndex)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Dirs)
	assert.Equal(t, int64(4), stats.Files)
	assert.Equal(t, int64(3), stats.Included)
	assert.Equal(t, int64(3), stats.Excluded)
	assert.Zero(t, stats.Errors)
}

func TestRun_SingleWorkerDeepTree(t *testing.T) {
	root := makeTree(t, "a/b/c/d/e/f.txt", "a/b/x.txt", "a/y/z.txt")

	c, err := New(root, filterrules.NewRuleset(), Options{Workers: 1})
	require.NoError(t, err)

	got := collect(t, c)
	assert.Len(t, got, 9)
	assert.Contains(t, got, "a/b/c/d/e/f.txt")
	assert.Equal(t, int64(7), c.Stats().Dirs)
}

func TestRun_UsesBatchDecider(t *testing.T) {
	root := makeTree(t, "a.tmp", "textures/b.tmp")
	require.NoError(t, os.WriteFile(filepath.Join(root, filterrules.DefaultFilterFileName), []byte("- *.tmp\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", filterrules.DefaultFilterFileName), []byte("+ *.tmp\n"), 0o600))

	p, err := filterrules.NewProvider(root, filterrules.ProviderOptions{})
	require.NoError(t, err)

	c, err := New(root, p, Options{})
	require.NoError(t, err)

	got := collect(t, c)
	assert.False(t, got["a.tmp"].Included)
	assert.True(t, got["textures/b.tmp"].Included)
	assert.Equal(t, "textures/"+filterrules.DefaultFilterFileName, got["textures/b.tmp"].Decision.Source)
}

func TestRun_ProviderKeepsNamesVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a separator on windows")
	}

	root := makeTree(t, `a\b`, "x ", " lead", "d /f.tmp", "d /keep.txt", "ok.txt")

	base, err := filterrules.Parse("exclude a\\b\n- /x \n- [ ]lead\n- d /*.tmp\n")
	require.NoError(t, err)

	p, err := filterrules.NewProvider(root, filterrules.ProviderOptions{Base: base})
	require.NoError(t, err)

	c, err := New(root, p, Options{Workers: 2})
	require.NoError(t, err)

	got := collect(t, c)
	assert.Equal(t, []string{" lead", `a\b`, "d ", "d /f.tmp", "d /keep.txt", "ok.txt", "x "}, keys(got))

	for path, e := range got {
		require.NoError(t, e.Err, path)

		want, err := base.Apply(path, e.IsDir)
		require.NoError(t, err)
		assert.Equal(t, want, e.Included, path)
	}

	assert.Zero(t, c.Stats().Errors)
}

func TestRun_DecideErrorsAreReported(t *testing.T) {
	root := makeTree(t, "sub/a.txt")
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", filterrules.DefaultFilterFileName), []byte("- [oops\n"), 0o600))

	p, err := filterrules.NewProvider(root, filterrules.ProviderOptions{})
	require.NoError(t, err)

	c, err := New(root, p, Options{})
	require.NoError(t, err)

	got := collect(t, c)
	require.Contains(t, got, "sub/a.txt")

	entry := got["sub/a.txt"]
	assert.False(t, entry.Included)

	var le *filterrules.LineError
	assert.True(t, errors.As(entry.Err, &le))
	assert.Positive(t, c.Stats().Errors)
}

func TestRun_DoesNotFollowSymlinksByDefault(t *testing.T) {
	root := makeTree(t, "real/file.txt")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	c, err := New(root, filterrules.NewRuleset(), Options{})
	require.NoError(t, err)

	got := collect(t, c)
	assert.Contains(t, got, "link")
	assert.NotContains(t, got, "link/file.txt")
}

func TestRun_FollowSymlinksStopsOnCycle(t *testing.T) {
	root := makeTree(t, "real/file.txt")
	if err := os.Symlink(root, filepath.Join(root, "real", "loop")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	c, err := New(root, filterrules.NewRuleset(), Options{FollowSymlinks: true})
	require.NoError(t, err)

	got := collect(t, c)
	assert.True(t, got["real/loop"].IsDir)
	assert.NotContains(t, got, "real/loop/real")
}

func TestRun_RateLimit(t *testing.T) {
	root := makeTree(t, "a", "b", "c", "d")

	c, err := New(root, filterrules.NewRuleset(), Options{MaxEntriesPerSecond: 20})
	require.NoError(t, err)

	start := time.Now()
	got := collect(t, c)
	assert.Len(t, got, 4)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRun_Cancelled(t *testing.T) {
	root := makeTree(t, "a", "b", "c")

	c, err := New(root, filterrules.NewRuleset(), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan Entry)
	err = c.Run(ctx, out)
	assert.ErrorIs(t, err, context.Canceled)

	_, open := <-out
	assert.False(t, open)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(t.TempDir(), nil, Options{})
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing"), filterrules.NewRuleset(), Options{})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = New(file, filterrules.NewRuleset(), Options{})
	assert.Error(t, err)
}
