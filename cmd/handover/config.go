package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/handover/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a handover.toml with the default settings",
		Description: `Creates a new handover.toml configuration file in the current directory
with sensible defaults. Use --output to specify a different location.

Examples:
  handover init                             # Creates handover.toml
  handover init -o .handover/handover.toml  # Creates config in .handover
  handover init --force                     # Overwrite existing config file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "handover.toml",
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	outputPath := c.String("output")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.Green("Created %s", outputPath)
	fmt.Println("Edit this file to customize analysis settings.")
	return nil
}

func generateDefaultConfig() (string, error) {
	content, err := marshalConfig(config.DefaultConfig())
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString("# handover configuration\n")
	buf.WriteString("# Documentation: https://github.com/panbanda/handover\n\n")
	buf.Write(content)
	return buf.String(), nil
}

func marshalConfig(cfg *config.Config) ([]byte, error) {
	content, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to TOML: %w", err)
	}
	return content, nil
}

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Validate or print the configuration",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check a config file against the schema",
				ArgsUsage: "[file]",
				Action:    runConfigValidateCmd,
			},
			{
				Name:      "show",
				Usage:     "Print the effective configuration as TOML",
				ArgsUsage: "[path]",
				Action:    runConfigShowCmd,
			},
		},
	}
}

func runConfigValidateCmd(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.String("config")
	}
	if path == "" {
		found, ok := config.Find(".")
		if !ok {
			color.Yellow("No config file found; defaults are in use")
			return nil
		}
		path = found
	}

	if _, err := config.Load(path); err != nil {
		return err
	}
	color.Green("%s is valid", path)
	return nil
}

func runConfigShowCmd(c *cli.Context) error {
	_, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	content, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(content)
	return err
}
