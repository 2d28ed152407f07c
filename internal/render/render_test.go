package render

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/search"
)

type fakeEngine struct {
	renders          int
	visibilityBinds  int
	lastRenderedWith int // size of the module map passed as context
}

func (e *fakeEngine) Configure(Options) {}

func (e *fakeEngine) RenderModule(mod *docmodel.Module, all map[string]*docmodel.Module) ([]byte, error) {
	e.renders++
	e.lastRenderedWith = len(all)
	return []byte("<html>" + mod.Fullname + "</html>"), nil
}

func (e *fakeEngine) RenderIndex(all map[string]*docmodel.Module) ([]byte, error) {
	return []byte(fmt.Sprintf("<html>index of %d</html>", len(all))), nil
}

func (e *fakeEngine) VisibilityFilter(map[string]*docmodel.Module) (func(docmodel.Member) bool, error) {
	e.visibilityBinds++
	return func(m docmodel.Member) bool { return m.Exported }, nil
}

type fakeSearcher struct {
	enabled  bool
	extracts int
}

func (s *fakeSearcher) Enabled() bool { return s.enabled }

func (s *fakeSearcher) ExtractEntries(name string, mod *docmodel.Module, isPublic func(docmodel.Member) bool, docFormat string) ([]search.Entry, error) {
	s.extracts++
	var entries []search.Entry
	for _, member := range mod.Members {
		if !isPublic(member) {
			continue
		}
		entries = append(entries, search.Entry{
			"module":   name,
			"qualname": name + "." + member.Name,
			"kind":     member.Kind,
			"doc":      member.Doc,
		})
	}
	return entries, nil
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "pkg.html", PagePath("pkg"))
	assert.Equal(t, "pkg/sub.html", PagePath("pkg.sub"))
}

func TestHTMLCacheRendersOnceWithFullContext(t *testing.T) {
	engine := &fakeEngine{}
	mod := &docmodel.Module{Fullname: "pkg.sub"}
	all := map[string]*docmodel.Module{"pkg": {Fullname: "pkg"}, "pkg.sub": mod}

	c, err := NewHTMLCache(t.TempDir(), engine, all)
	require.NoError(t, err)

	assert.False(t, c.Contains(mod))
	page, err := c.Get(mod)
	require.NoError(t, err)
	assert.Equal(t, "<html>pkg.sub</html>", string(page))
	assert.Equal(t, 2, engine.lastRenderedWith, "render context is the full module map")
	assert.FileExists(t, filepath.Join(c.Root(), "pkg", "sub.html"))

	// Hit: no further render.
	page, err = c.Get(mod)
	require.NoError(t, err)
	assert.Equal(t, "<html>pkg.sub</html>", string(page))
	assert.Equal(t, 1, engine.renders)
}

func TestIndexCacheBindsVisibilityOnce(t *testing.T) {
	engine := &fakeEngine{}
	searcher := &fakeSearcher{enabled: true}
	modA := &docmodel.Module{Fullname: "a", Members: []docmodel.Member{
		{Name: "Public", Kind: "function", Exported: true},
		{Name: "hidden", Kind: "function"},
	}}
	modB := &docmodel.Module{Fullname: "b", Members: []docmodel.Member{
		{Name: "Other", Kind: "type", Exported: true},
	}}
	all := map[string]*docmodel.Module{"a": modA, "b": modB}

	c, err := NewIndexCache(t.TempDir(), engine, searcher, all, "markdown")
	require.NoError(t, err)
	require.Equal(t, 1, engine.visibilityBinds)

	entries, err := c.Get(IndexKey{Name: "a", Module: modA})
	require.NoError(t, err)
	require.Len(t, entries, 1, "non-public members are filtered out")
	assert.Equal(t, "a.Public", entries[0]["qualname"])

	_, err = c.Get(IndexKey{Name: "b", Module: modB})
	require.NoError(t, err)

	// The predicate setup never repeats per module.
	assert.Equal(t, 1, engine.visibilityBinds)
	assert.Equal(t, 2, searcher.extracts)
}

func TestIndexCacheRoundTripsFragments(t *testing.T) {
	engine := &fakeEngine{}
	searcher := &fakeSearcher{enabled: true}
	mod := &docmodel.Module{Fullname: "pkg.sub", Members: []docmodel.Member{
		{Name: "F", Kind: "function", Doc: "does things", Exported: true},
	}}
	all := map[string]*docmodel.Module{"pkg.sub": mod}
	dir := t.TempDir()

	c, err := NewIndexCache(dir, engine, searcher, all, "markdown")
	require.NoError(t, err)

	key := IndexKey{Name: "pkg.sub", Module: mod}
	first, err := c.Get(key)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "pkg", "sub.json"))

	// Second cache instance over the same root loads the stored fragment.
	c2, err := NewIndexCache(dir, engine, searcher, all, "markdown")
	require.NoError(t, err)
	second, err := c2.Get(key)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, searcher.extracts)
}
