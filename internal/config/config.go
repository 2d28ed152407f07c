// Package config loads and validates the docgen configuration.
//
// Configuration comes from an optional YAML file with environment variable
// expansion, overlaid by CLI flags in cmd/docgen. Defaults are applied after
// unmarshal so a missing file or empty fields always yield a runnable
// configuration. Validation runs before any module work begins.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultIgnore excludes subtrees that are conventionally not documentable.
var DefaultIgnore = []string{"!internal", "!testdata", "!vendor"}

// Config represents the application configuration.
type Config struct {
	// Source is the root directory of the module source tree.
	Source string `yaml:"source"`
	// Output is the directory the site and its cache are written to.
	Output string `yaml:"output"`
	// Ignore lists exclusion specs applied to every build.
	Ignore []string `yaml:"ignore,omitempty"`
	// Standard controls implicit inclusion of the registry's standard set.
	Standard bool `yaml:"standard"`
	// Cache controls reuse of previously computed artifacts. When false the
	// cache subtree is deleted before building.
	Cache bool `yaml:"cache"`

	Render RenderConfig `yaml:"render"`
	Search SearchConfig `yaml:"search"`
}

// RenderConfig holds the rendering engine's global options.
type RenderConfig struct {
	Math      bool   `yaml:"math"`
	Mermaid   bool   `yaml:"mermaid"`
	DocFormat string `yaml:"doc_format,omitempty"`
}

// SearchConfig gates search index generation.
type SearchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source:   ".",
		Output:   "docs",
		Ignore:   append([]string(nil), DefaultIgnore...),
		Standard: true,
		Cache:    true,
		Render:   RenderConfig{Math: true, Mermaid: true, DocFormat: "markdown"},
		Search:   SearchConfig{Enabled: true},
	}
}

// Load reads configuration from path. A missing file is not an error: the
// defaults are returned so the tool runs without any configuration.
func Load(path string) (*Config, error) {
	// Best effort: .env values feed the ${VAR} expansion below.
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = "."
	}
	if cfg.Output == "" {
		cfg.Output = "docs"
	}
	if cfg.Ignore == nil {
		cfg.Ignore = append([]string(nil), DefaultIgnore...)
	}
	if cfg.Render.DocFormat == "" {
		cfg.Render.DocFormat = "markdown"
	}
}

// Validate checks the configuration before any module work begins.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Source)
	if err != nil {
		return fmt.Errorf("source directory not usable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", c.Source)
	}
	// The output parent must be writable; the directory itself is created
	// by the builder.
	parent := filepath.Dir(filepath.Clean(c.Output))
	if info, err := os.Stat(parent); err == nil && !info.IsDir() {
		return fmt.Errorf("output parent %s is not a directory", parent)
	}
	return nil
}

// CacheDir returns the cache subtree under the output directory.
func (c *Config) CacheDir() string {
	return filepath.Join(c.Output, ".cache")
}
