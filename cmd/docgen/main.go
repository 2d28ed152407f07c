package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docgen/internal/config"
	"git.home.luguber.info/inful/docgen/internal/mdsource"
	"git.home.luguber.info/inful/docgen/internal/metrics"
	"git.home.luguber.info/inful/docgen/internal/render"
	"git.home.luguber.info/inful/docgen/internal/resolve"
	"git.home.luguber.info/inful/docgen/internal/site"
)

var CLI struct {
	Modules []string `arg:"" optional:"" help:"Module specs to document (plain names include subtrees, !name excludes)."`

	Config      string   `short:"c" default:"docgen.yaml" help:"Configuration file path"`
	Source      string   `short:"s" help:"Module source root (overrides config)"`
	Output      string   `short:"o" help:"Output directory for the generated site (overrides config)"`
	Ignore      []string `short:"i" help:"Module names to exclude, repeatable (adds to config)"`
	NoStd       bool     `help:"Do not implicitly include the standard module set"`
	Fresh       bool     `help:"Delete the cache subtree and rebuild everything"`
	NoSearch    bool     `help:"Disable search index generation"`
	Open        bool     `help:"Open the generated index page in the default browser"`
	Watch       bool     `short:"w" help:"Rebuild whenever the source tree changes"`
	MetricsAddr string   `help:"Serve Prometheus metrics on this address while watching" placeholder:"HOST:PORT"`
	Verbose     bool     `short:"v" help:"Enable verbose logging"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("docgen"),
		kong.Description("Generate an HTML documentation site for a module tree."))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := resetCache(cfg); err != nil {
		slog.Error("Failed to clear cache", "error", err)
		os.Exit(1)
	}

	if CLI.Watch {
		if err := runWatch(cfg); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	count, err := runBuild(cfg, metrics.NoopRecorder{})
	if err != nil {
		slog.Error("Build failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Documented %d modules\n", count)

	if CLI.Open {
		openBrowser(filepath.Join(cfg.Output, site.IndexFile))
	}
}

// applyFlags overlays CLI flags onto the loaded configuration.
func applyFlags(cfg *config.Config) {
	if CLI.Source != "" {
		cfg.Source = CLI.Source
	}
	if CLI.Output != "" {
		cfg.Output = CLI.Output
	}
	if CLI.NoStd {
		cfg.Standard = false
	}
	if CLI.NoSearch {
		cfg.Search.Enabled = false
	}
	for _, name := range CLI.Ignore {
		if !strings.HasPrefix(name, resolve.ExcludePrefix) {
			name = resolve.ExcludePrefix + name
		}
		cfg.Ignore = append(cfg.Ignore, name)
	}
	if CLI.Fresh {
		cfg.Cache = false
	}
}

// resetCache deletes the cache subtree when cache reuse is disabled, either
// via `cache: false` in the configuration or the --fresh flag.
func resetCache(cfg *config.Config) error {
	if cfg.Cache {
		return nil
	}
	if err := os.RemoveAll(cfg.CacheDir()); err != nil {
		return err
	}
	slog.Info("Cache cleared", "path", cfg.CacheDir())
	return nil
}

// specTokens assembles the full spec list for one build: the implicit
// standard set, then the exclusion specs, then the explicitly named modules.
func specTokens(cfg *config.Config, source *mdsource.Source) []string {
	var tokens []string
	if cfg.Standard {
		tokens = append(tokens, source.Standard()...)
	}
	tokens = append(tokens, cfg.Ignore...)
	tokens = append(tokens, CLI.Modules...)
	return tokens
}

func runBuild(cfg *config.Config, recorder metrics.Recorder) (int, error) {
	source := mdsource.NewSource(cfg.Source)
	engine := mdsource.NewEngine()
	searcher := mdsource.NewSearcher(cfg.Search.Enabled)

	builder := site.NewBuilder(source, source, engine, searcher, render.Options{
		Math:    cfg.Render.Math,
		Mermaid: cfg.Render.Mermaid,
	}, cfg.Render.DocFormat).WithRecorder(recorder)

	names, err := builder.Build(specTokens(cfg, source), cfg.Output)
	if err != nil {
		return 0, err
	}
	return names.Len(), nil
}

// newRecorder selects the metrics backend: Prometheus when an address is
// given (watch mode), noop otherwise.
func newRecorder() (metrics.Recorder, *prom.Registry) {
	if CLI.MetricsAddr == "" {
		return metrics.NoopRecorder{}, nil
	}
	reg := prom.NewRegistry()
	return metrics.NewPrometheusRecorder(reg), reg
}

// openBrowser opens path in the platform's default viewer, best effort.
func openBrowser(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("Failed to open browser", "path", path, "error", err)
	}
}
