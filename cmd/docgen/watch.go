package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/metrics"
)

// debounceWindow coalesces editor save bursts into one rebuild.
const debounceWindow = 500 * time.Millisecond

// runWatch builds once, then rebuilds whenever the source tree changes.
// Build failures are reported and watching continues; only watcher setup
// errors are fatal.
func runWatch(cfg *config.Config) error {
	recorder, registry := newRecorder()
	if registry != nil {
		go func() {
			slog.Info("Serving metrics", "addr", CLI.MetricsAddr)
			if err := http.ListenAndServe(CLI.MetricsAddr, metrics.HTTPHandler(registry)); err != nil {
				slog.Warn("Metrics server stopped", "error", err)
			}
		}()
	}

	// The output tree may live inside the watched source tree; events for
	// the build's own writes must never schedule another rebuild.
	outputDir, err := filepath.Abs(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watchTree(watcher, cfg.Source, outputDir); err != nil {
		return err
	}

	rebuild := func() {
		count, err := runBuild(cfg, recorder)
		if err != nil {
			slog.Error("Build failed", "error", err)
			return
		}
		slog.Info("Build complete", "modules", count)
	}
	rebuild()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case event := <-watcher.Events:
			if ignoreEvent(event.Name, outputDir) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name, outputDir)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			slog.Info("Source changed, rebuilding")
			rebuild()
		case err := <-watcher.Errors:
			slog.Warn("Watcher error", "error", err)
		case <-sig:
			slog.Info("Shutting down")
			return nil
		}
	}
}

// ignoreEvent reports whether a filesystem event at path should not trigger
// a rebuild: anything under the output tree (the build's own writes) and
// hidden files.
func ignoreEvent(path, outputDir string) bool {
	if abs, err := filepath.Abs(path); err == nil && underDir(abs, outputDir) {
		return true
	}
	return strings.Contains(path, string(filepath.Separator)+".")
}

// underDir reports whether path is dir itself or lies below it. Both paths
// must be absolute.
func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// watchTree registers root and every directory below it, skipping hidden
// directories and the output tree.
func watchTree(watcher *fsnotify.Watcher, root, outputDir string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if abs, err := filepath.Abs(path); err == nil && underDir(abs, outputDir) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
