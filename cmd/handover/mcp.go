package main

import (
	"fmt"

	"github.com/panbanda/handover/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes handover's
analysis as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "handover": {
        "command": "handover",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_project  Framework, layers, routes, dependencies, data and infrastructure
  - analyze_file     Functions, classes, imports and exports of one file
  - list_files       Files that an analysis would include`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	path, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fileCache, err := openCache(c, cfg, path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(cfg),
		mcpserver.WithLogger(newLogger(c.Bool("verbose"))),
		mcpserver.WithCache(fileCache),
	)

	ctx, stop := signalContext()
	defer stop()
	return server.Run(ctx)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
