package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/panbanda/handover/internal/output"
	"github.com/panbanda/handover/internal/progress"
	"github.com/panbanda/handover/internal/service/analysis"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/models"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze a project and print its structural model",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Analyze the tree committed at this git revision (branch, tag, SHA)",
			},
			&cli.StringFlag{
				Name:  "depth",
				Usage: "Analysis depth: basic, detailed, comprehensive (default from config)",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Hide the progress bar",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	path, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	depth := config.Depth(c.String("depth"))
	if depth != "" && !depth.Valid() {
		return fmt.Errorf("--depth must be basic, detailed or comprehensive (got %q)", depth)
	}

	logger := newLogger(c.Bool("verbose"))
	fileCache, err := openCache(c, cfg, path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	svc := analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithLogger(logger),
		analysis.WithCache(fileCache),
	)

	ctx, stop := signalContext()
	defer stop()

	var bar *progress.Bar
	if !c.Bool("no-progress") {
		bar = progress.New("Analyzing")
	}

	result, err := svc.AnalyzeProject(bar.Context(ctx), path, analysis.ProjectOptions{
		Ref:   c.String("ref"),
		Depth: depth,
	})
	bar.Done(err)
	if err != nil {
		return err
	}

	if result.TotalFiles == 0 {
		color.Yellow("No source files found")
		return nil
	}

	return formatter.Output(result)
}

func filesCmd() *cli.Command {
	return &cli.Command{
		Name:      "files",
		Usage:     "Print the structure of every analyzed file, or only of the files named after path",
		ArgsUsage: "[path] [file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ref",
				Usage: "List the tree committed at this git revision",
			},
		},
		Action: runFilesCmd,
	}
}

func runFilesCmd(c *cli.Context) error {
	path, cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	fileCache, err := openCache(c, cfg, path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	svc := analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithLogger(newLogger(c.Bool("verbose"))),
		analysis.WithCache(fileCache),
	)

	ctx, stop := signalContext()
	defer stop()

	var files []models.FileAnalysis
	if named := c.Args().Tail(); len(named) > 0 {
		if c.String("ref") != "" {
			return fmt.Errorf("--ref cannot be combined with named files")
		}
		files, err = svc.AnalyzeFiles(ctx, path, named)
	} else {
		files, err = svc.ScanFiles(ctx, path, c.String("ref"))
	}
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	return formatter.Output(fileTable(files))
}

// fileTable lays out one row per file with its declaration counts and the
// highest function complexity.
func fileTable(files []models.FileAnalysis) *output.Table {
	rows := make([][]string, 0, len(files))
	var lines, functions, classes int
	for i := range files {
		f := &files[i]
		rows = append(rows, []string{
			f.RelativePath,
			f.Language,
			strconv.Itoa(f.Size),
			strconv.Itoa(len(f.Functions)),
			strconv.Itoa(len(f.Classes)),
			strconv.Itoa(len(f.Imports)),
			strconv.Itoa(len(f.Exports)),
			strconv.Itoa(maxComplexity(f)),
		})
		lines += f.Size
		functions += len(f.Functions)
		classes += len(f.Classes)
	}

	return output.NewTable(
		"Files",
		[]string{"Path", "Language", "Lines", "Functions", "Classes", "Imports", "Exports", "Max CC"},
		rows,
		[]string{fmt.Sprintf("%d files", len(files)), "", strconv.Itoa(lines), strconv.Itoa(functions), strconv.Itoa(classes), "", "", ""},
		files,
	)
}

func maxComplexity(f *models.FileAnalysis) int {
	m := 0
	for _, fn := range f.Functions {
		m = max(m, fn.Complexity)
	}
	for _, cls := range f.Classes {
		for _, method := range cls.Methods {
			m = max(m, method.Complexity)
		}
	}
	return m
}
