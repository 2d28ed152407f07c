package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/config"
)

func TestResetCacheHonorsCacheSetting(t *testing.T) {
	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "site")
	entry := filepath.Join(cfg.CacheDir(), "html", "pkg.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(entry), 0o755))
	require.NoError(t, os.WriteFile(entry, []byte("<html></html>"), 0o644))

	// Cache reuse enabled: entries survive.
	cfg.Cache = true
	require.NoError(t, resetCache(cfg))
	assert.FileExists(t, entry)

	// cache: false in the configuration deletes the subtree before building.
	cfg.Cache = false
	require.NoError(t, resetCache(cfg))
	assert.NoDirExists(t, cfg.CacheDir())

	// Deleting an already-absent cache is a no-op.
	require.NoError(t, resetCache(cfg))
}

func TestIgnoreEventSkipsOutputTree(t *testing.T) {
	outputDir, err := filepath.Abs(filepath.Join("src", "docs"))
	require.NoError(t, err)

	// The build's own writes land under the output tree and must never
	// schedule another rebuild, even when the output lives inside the
	// watched source tree.
	assert.True(t, ignoreEvent(filepath.Join("src", "docs", "a.html"), outputDir))
	assert.True(t, ignoreEvent(filepath.Join("src", "docs", "a", "x.html"), outputDir))
	assert.True(t, ignoreEvent(filepath.Join("src", "docs", ".cache", "html", "a.html"), outputDir))
	assert.True(t, ignoreEvent(filepath.Join("src", "docs", "search.js"), outputDir))

	// Source edits still trigger rebuilds; hidden files never do.
	assert.False(t, ignoreEvent(filepath.Join("src", "pkg", "module.md"), outputDir))
	assert.False(t, ignoreEvent(filepath.Join("src", "docsrc", "module.md"), outputDir), "sibling with output-prefixed name is not the output tree")
	assert.True(t, ignoreEvent(filepath.Join("src", "pkg", ".swap"), outputDir))
}

func TestUnderDir(t *testing.T) {
	base, err := filepath.Abs("base")
	require.NoError(t, err)

	assert.True(t, underDir(base, base))
	assert.True(t, underDir(filepath.Join(base, "sub", "leaf"), base))
	assert.False(t, underDir(filepath.Dir(base), base))
	assert.False(t, underDir(base+"x", base), "path boundary required")
}
