package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Depth selects how much project-level analysis runs.
type Depth string

const (
	// DepthBasic skips the complexity summary and import cycles.
	DepthBasic Depth = "basic"
	// DepthDetailed adds the complexity summary.
	DepthDetailed Depth = "detailed"
	// DepthComprehensive adds import cycle detection.
	DepthComprehensive Depth = "comprehensive"
)

// Valid reports whether d is a known depth.
func (d Depth) Valid() bool {
	switch d {
	case DepthBasic, DepthDetailed, DepthComprehensive:
		return true
	}
	return false
}

// Config holds all configuration options for handover.
type Config struct {
	// Project identity
	Project ProjectConfig `koanf:"project" toml:"project"`

	// Files to analyze
	Include IncludeConfig `koanf:"include" toml:"include"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ProjectConfig names the project and its root.
type ProjectConfig struct {
	Name string `koanf:"name" toml:"name"`
	Path string `koanf:"path" toml:"path"`
}

// IncludeConfig lists the gitignore-style patterns a file must match.
type IncludeConfig struct {
	Patterns []string `koanf:"patterns" toml:"patterns"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// AnalysisConfig controls what is analyzed and how.
type AnalysisConfig struct {
	MaxFileSize int64    `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = no limit
	Workers     int      `koanf:"workers" toml:"workers"`             // 0 = one per CPU
	Depth       Depth    `koanf:"depth" toml:"depth"`
	Languages   []string `koanf:"languages" toml:"languages"` // empty = every language
	Hotspots    int      `koanf:"hotspots" toml:"hotspots"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // hours, 0 = never expire
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Dir     string `koanf:"dir" toml:"dir"`
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Path: ".",
		},
		Include: IncludeConfig{
			Patterns: []string{"**/*.ts", "**/*.js"},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".handover",
				"dist",
				"build",
				"coverage",
			},
			Gitignore: true,
		},
		Analysis: AnalysisConfig{
			MaxFileSize: 1 << 20,
			Depth:       DepthDetailed,
			Hotspots:    10,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".handover/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Dir:    "docs",
			Format: "text",
			Color:  true,
		},
	}
}

// parserFor picks the koanf parser for a config file's extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return json.Parser()
	default:
		return toml.Parser()
	}
}

// Load loads configuration from a file, validates it against the schema
// and layers it over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := ValidateMap(k.Raw()); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Standard config file names, searched in order.
var configNames = []string{
	"handover.toml",
	"handover.yaml",
	"handover.yml",
	"handover.json",
	".handover.toml",
	".handover.yaml",
	".handover.yml",
	".handover.json",
}

// Find returns the first config file in dir or dir/.handover.
func Find(dir string) (string, bool) {
	for _, d := range []string{dir, filepath.Join(dir, ".handover")} {
		for _, name := range configNames {
			path := filepath.Join(d, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// LoadOrDefault loads the first config file found in dir, or the current
// directory when dir is empty. It returns the defaults when no file exists
// and the defaults plus the error when the file found is invalid.
func LoadOrDefault(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}
	path, ok := Find(dir)
	if !ok {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if !c.Analysis.Depth.Valid() {
		errs = append(errs, &ValidationError{Field: "analysis.depth", Err: fmt.Errorf("unknown depth %q", c.Analysis.Depth)})
	}
	if len(c.Include.Patterns) == 0 {
		errs = append(errs, &ValidationError{Field: "include.patterns", Err: errors.New("at least one pattern is required")})
	}
	if c.Analysis.Workers < 0 {
		errs = append(errs, &ValidationError{Field: "analysis.workers", Err: errors.New("must not be negative")})
	}
	return errors.Join(errs...)
}

// ExcludesDir reports whether a directory with this base name is skipped.
func (c *Config) ExcludesDir(name string) bool {
	return slices.Contains(c.Exclude.Dirs, name)
}
