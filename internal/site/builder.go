// Package site ties resolution, caching and rendering together into one
// sequential build of the documentation site.
//
// A build is single-threaded and synchronous: candidates are walked,
// imported, rendered and indexed one after another on one goroutine. The
// only resumability is the artifact cache itself; an aborted run leaves the
// entries completed so far valid, and the next run replays the pipeline
// with those entries hitting cache.
package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docgen/internal/docmodel"
	"git.home.luguber.info/inful/docgen/internal/metrics"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/resolve"
	"git.home.luguber.info/inful/docgen/internal/search"
	"git.home.luguber.info/inful/docgen/internal/util/sets"
)

// IndexFile and SearchFile are the aggregate artifacts at the output root.
// Both are optional: they are omitted when the underlying computation
// yields empty output.
const (
	IndexFile  = "index.html"
	SearchFile = "search.js"
)

// CacheDirName is the cache subtree under the output root, holding the two
// independent cache roots.
const CacheDirName = ".cache"

// Builder orchestrates one documentation build over a module source.
type Builder struct {
	registry  resolve.Registry
	importer  resolve.Importer
	engine    render.Engine
	searcher  render.Searcher
	opts      render.Options
	docFormat string
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// NewBuilder wires the collaborators for a build. Each builder carries a
// fresh build ID in its log attributes.
func NewBuilder(reg resolve.Registry, imp resolve.Importer, engine render.Engine, searcher render.Searcher, opts render.Options, docFormat string) *Builder {
	return &Builder{
		registry:  reg,
		importer:  imp,
		engine:    engine,
		searcher:  searcher,
		opts:      opts,
		docFormat: docFormat,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default().With("build.id", uuid.NewString()),
	}
}

// WithRecorder sets a metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithLogger sets a custom logger.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build loads the modules named by specs, renders every module page through
// the HTML cache, writes the aggregate index page, assembles the search
// payload through the fragment cache, and returns the set of documented
// module names.
func (b *Builder) Build(specs []string, output string) (sets.Set[string], error) {
	start := time.Now()
	names, err := b.build(specs, output)
	b.recorder.ObserveBuildDuration(time.Since(start))
	if err != nil {
		b.recorder.IncBuildOutcome("failed")
		return nil, err
	}
	b.recorder.IncBuildOutcome("success")
	b.recorder.IncModulesDocumented(names.Len())
	return names, nil
}

func (b *Builder) build(specs []string, output string) (sets.Set[string], error) {
	if err := os.MkdirAll(output, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	b.engine.Configure(b.opts)

	modules, err := resolve.NewLoader(b.registry, b.importer).WithLogger(b.logger).Load(specs)
	if err != nil {
		return nil, err
	}
	all := resolve.ModuleMap(modules)
	b.logger.Info("Modules loaded", "count", len(modules))

	if err := b.renderModules(modules, all, output); err != nil {
		return nil, err
	}
	if err := b.writeIndex(all, output); err != nil {
		return nil, err
	}
	if err := b.writeSearch(modules, all, output); err != nil {
		return nil, err
	}

	names := sets.New[string]()
	for _, m := range modules {
		names.Add(m.Name)
	}
	return names, nil
}

// renderModules fills the page cache and publishes every page into the site
// tree. The explicit Contains pre-check keeps "about to render" and
// "already cached" distinguishable before anything is written.
func (b *Builder) renderModules(modules []resolve.Loaded, all map[string]*docmodel.Module, output string) error {
	htmlCache, err := render.NewHTMLCache(filepath.Join(output, CacheDirName, "html"), b.engine, all)
	if err != nil {
		return err
	}
	htmlCache.WithLogger(b.logger)

	for _, m := range modules {
		var page []byte
		if htmlCache.Contains(m.Module) {
			b.logger.Debug("Rendering module (cached)", "module", m.Name)
			b.recorder.IncCacheResult(metrics.ArtifactHTML, true)
			if page, err = htmlCache.Lookup(m.Module); err != nil {
				return err
			}
		} else {
			b.logger.Info("Rendering module", "module", m.Name)
			b.recorder.IncCacheResult(metrics.ArtifactHTML, false)
			if page, err = htmlCache.Compute(m.Module); err != nil {
				return err
			}
			if err = htmlCache.Put(m.Module, page); err != nil {
				return err
			}
		}
		if err = writePage(output, m.Name, page); err != nil {
			return err
		}
	}
	return nil
}

// writePage publishes a cached page into the site tree.
func writePage(output, name string, page []byte) error {
	path := filepath.Join(output, filepath.FromSlash(render.PagePath(name)))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create page directory: %w", err)
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return fmt.Errorf("failed to publish page %s: %w", name, err)
	}
	return nil
}

func (b *Builder) writeIndex(all map[string]*docmodel.Module, output string) error {
	index, err := b.engine.RenderIndex(all)
	if err != nil {
		return fmt.Errorf("failed to render index page: %w", err)
	}
	if len(index) == 0 {
		return nil
	}
	if err := os.WriteFile(filepath.Join(output, IndexFile), index, 0o644); err != nil {
		return fmt.Errorf("failed to write index page: %w", err)
	}
	return nil
}

// writeSearch assembles the search payload: per-module fragments through the
// index cache, concatenated in module order, precompiled once. Skipped
// entirely when search is globally disabled.
func (b *Builder) writeSearch(modules []resolve.Loaded, all map[string]*docmodel.Module, output string) error {
	if !b.searcher.Enabled() {
		b.logger.Debug("Search indexing disabled")
		return nil
	}
	indexCache, err := render.NewIndexCache(filepath.Join(output, CacheDirName, "search"), b.engine, b.searcher, all, b.docFormat)
	if err != nil {
		return err
	}
	indexCache.WithLogger(b.logger)

	var entries []search.Entry
	for _, m := range modules {
		key := render.IndexKey{Name: m.Name, Module: m.Module}
		b.recorder.IncCacheResult(metrics.ArtifactIndex, indexCache.Contains(key))
		b.logger.Debug("Indexing module", "module", m.Name)
		fragment, err := indexCache.Get(key)
		if err != nil {
			return err
		}
		entries = append(entries, fragment...)
	}

	b.logger.Info("Compiling search index", "entries", len(entries))
	payload, err := search.Precompile(entries)
	if err != nil {
		return err
	}
	js := search.WrapJS(payload)
	if len(js) == 0 {
		return nil
	}
	if err := os.WriteFile(filepath.Join(output, SearchFile), js, 0o644); err != nil {
		return fmt.Errorf("failed to write search payload: %w", err)
	}
	return nil
}
