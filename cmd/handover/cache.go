package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/handover/internal/output"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the per-file analysis cache",
		Subcommands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Show the number, size and age of cached entries",
				ArgsUsage: "[path]",
				Action:    runCacheStatsCmd,
			},
			{
				Name:      "clear",
				Usage:     "Remove every cached entry",
				ArgsUsage: "[path]",
				Action:    runCacheClearCmd,
			},
			{
				Name:      "prune",
				Usage:     "Remove expired and unreadable entries",
				ArgsUsage: "[path]",
				Action:    runCachePruneCmd,
			},
		},
	}
}

func runCacheStatsCmd(c *cli.Context) error {
	path, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fileCache, err := openCache(c, cfg, path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if !fileCache.Enabled() {
		color.Yellow("Cache is disabled")
		return nil
	}

	stats, err := fileCache.GetStats()
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{
		{"Directory", stats.Dir},
		{"Entries", strconv.Itoa(stats.Entries)},
		{"Expired", strconv.Itoa(stats.Expired)},
		{"Total size", formatBytes(stats.TotalSize)},
		{"Oldest entry", stats.OldestAge.Round(time.Second).String()},
		{"Newest entry", stats.NewestAge.Round(time.Second).String()},
	}
	return formatter.Output(output.NewTable("Cache", []string{"Metric", "Value"}, rows, nil, stats))
}

func runCacheClearCmd(c *cli.Context) error {
	path, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fileCache, err := openCache(c, cfg, path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if !fileCache.Enabled() {
		color.Yellow("Cache is disabled")
		return nil
	}
	if err := fileCache.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	color.Green("Cache cleared")
	return nil
}

func runCachePruneCmd(c *cli.Context) error {
	path, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fileCache, err := openCache(c, cfg, path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if !fileCache.Enabled() {
		color.Yellow("Cache is disabled")
		return nil
	}
	removed, err := fileCache.Prune()
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	color.Green("Removed %d expired entries", removed)
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
