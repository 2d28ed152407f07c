package mdsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/resolve"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestSourceDiscovery(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pkg/module.md":     "# pkg",
		"pkg/sub/module.md": "# pkg.sub",
		"other/module.md":   "# other",
		".hidden/module.md": "ignored",
	})
	source := NewSource(root)

	assert.Equal(t, []string{"other", "pkg"}, source.Standard())
	assert.Equal(t, []string{"pkg.sub"}, source.Submodules("pkg"))
	assert.Empty(t, source.Submodules("pkg.sub"))
}

func TestImportReadsModuleAndMembers(t *testing.T) {
	root := writeTree(t, map[string]string{
		"pkg/module.md": "# pkg\n\nThe module doc.",
		"pkg/Run.md":    "---\nkind: function\nexported: true\n---\nRuns it.",
		"pkg/state.md":  "---\nkind: type\n---\nInternal state.",
		"pkg/notes.txt": "not a member",
	})

	mod, err := NewSource(root).Import("pkg")
	require.NoError(t, err)

	assert.Equal(t, "pkg", mod.Fullname)
	assert.Contains(t, mod.Doc, "The module doc.")
	require.Len(t, mod.Members, 2)
	assert.Equal(t, docmodel.Member{Name: "Run", Kind: "function", Doc: "Runs it.", Exported: true}, mod.Members[0])
	assert.Equal(t, docmodel.Member{Name: "state", Kind: "type", Doc: "Internal state."}, mod.Members[1])
}

func TestImportFailuresAreImportErrors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"nodoc/Run.md":      "---\nkind: function\n---\nOrphan member.",
		"badmeta/module.md": "# badmeta",
		"badmeta/Run.md":    "---\nkind: [\n---\nbroken frontmatter",
		"nofm/module.md":    "# nofm",
		"nofm/Run.md":       "no frontmatter at all",
	})
	source := NewSource(root)

	_, err := source.Import("missing")
	assert.ErrorIs(t, err, resolve.ErrImport)

	_, err = source.Import("nodoc")
	assert.ErrorIs(t, err, resolve.ErrImport, "missing module.md fails to import")

	_, err = source.Import("badmeta")
	assert.ErrorIs(t, err, resolve.ErrImport)

	_, err = source.Import("nofm")
	assert.ErrorIs(t, err, resolve.ErrImport)
}

func TestEngineRendersMarkdownWithOptions(t *testing.T) {
	mod := &docmodel.Module{
		Fullname: "pkg",
		Doc:      "# Heading\n\nSome *text*.",
		Members:  []docmodel.Member{{Name: "Run", Kind: "function", Doc: "Runs.", Exported: true}},
	}
	all := map[string]*docmodel.Module{"pkg": mod, "pkg.sub": {Fullname: "pkg.sub"}}

	engine := NewEngine()
	engine.Configure(render.Options{Math: true})

	page, err := engine.RenderModule(mod, all)
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, "<h1>Heading</h1>")
	assert.Contains(t, html, "<em>text</em>")
	assert.Contains(t, html, `<section id="Run">`)
	assert.Contains(t, html, `href="pkg/sub.html"`, "nav links to sibling modules")
	assert.Contains(t, html, "math.js")
	assert.NotContains(t, html, "mermaid.js")
}

func TestEngineRenderIndex(t *testing.T) {
	engine := NewEngine()
	engine.Configure(render.Options{})

	empty, err := engine.RenderIndex(nil)
	require.NoError(t, err)
	assert.Empty(t, empty, "empty module map renders no index page")

	all := map[string]*docmodel.Module{
		"a": {Fullname: "a"}, "a.x": {Fullname: "a.x"},
	}
	index, err := engine.RenderIndex(all)
	require.NoError(t, err)
	assert.Contains(t, string(index), `<a href="a.html">a</a>`)
	assert.Contains(t, string(index), `<a href="a/x.html">a.x</a>`)
}

func TestSearcherFiltersByVisibility(t *testing.T) {
	mod := &docmodel.Module{
		Fullname: "pkg",
		Doc:      "module doc",
		Members: []docmodel.Member{
			{Name: "Pub", Kind: "function", Exported: true},
			{Name: "priv", Kind: "function"},
		},
	}
	engine := NewEngine()
	isPublic, err := engine.VisibilityFilter(map[string]*docmodel.Module{"pkg": mod})
	require.NoError(t, err)

	searcher := NewSearcher(true)
	entries, err := searcher.ExtractEntries("pkg", mod, isPublic, "markdown")
	require.NoError(t, err)

	require.Len(t, entries, 2, "module record plus one public member")
	assert.Equal(t, "pkg", entries[0]["qualname"])
	assert.Equal(t, "module", entries[0]["kind"])
	assert.Equal(t, "pkg.Pub", entries[1]["qualname"])
}
