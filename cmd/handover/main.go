package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/handover/internal/cache"
	"github.com/panbanda/handover/internal/output"
	"github.com/panbanda/handover/pkg/config"
	"github.com/urfave/cli/v2"
)

var version = "dev" // set via ldflags at build time

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "handover",
		Usage:   "Structural analysis of TypeScript and JavaScript projects",
		Version: version,
		Description: `handover builds a structural model of a TypeScript or JavaScript project:
functions, classes, imports and exports per file, plus the framework,
architecture layers, API routes, dependencies, database and infrastructure
of the project as a whole. The result feeds onboarding and handover
documentation.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"HANDOVER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			filesCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

// getPath returns the positional path argument, or "" when none is given.
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return ""
}

// newLogger writes text logs to stderr. Debug with --verbose, warnings
// otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the project path and its configuration. An explicit
// --config wins; otherwise the config file is searched for in the project
// directory. Without a path argument the project path comes from the
// config found in the working directory.
func loadConfig(c *cli.Context) (string, *config.Config, error) {
	path := getPath(c)

	var (
		cfg *config.Config
		err error
	)
	if explicit := c.String("config"); explicit != "" {
		cfg, err = config.Load(explicit)
	} else {
		cfg, err = config.LoadOrDefault(configDir(path))
	}
	if err != nil {
		return "", nil, err
	}

	if path == "" {
		path = cfg.Project.Path
	}
	if path == "" {
		path = "."
	}
	return path, cfg, nil
}

// configDir is the directory a config file is searched in for path.
func configDir(path string) string {
	if path == "" {
		return "."
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

// openCache opens the cache directory of the project at root. A relative
// cache dir is resolved against root.
func openCache(c *cli.Context, cfg *config.Config, root string) (*cache.Cache, error) {
	enabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	dir := cfg.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(configDir(root), dir)
	}
	return cache.New(dir, cfg.Cache.TTL, enabled)
}

// newFormatter picks --format, falling back to the configured format.
// Colour follows the config and is off when writing to a file.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	f, ok := output.LookupFormat(format)
	if !ok {
		return nil, fmt.Errorf("--format must be text, json, markdown or toon (got %q)", format)
	}
	return output.NewFormatter(f, c.String("output"), cfg.Output.Color)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
