package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/handover/internal/output"
	"github.com/panbanda/handover/internal/service/analysis"
	scannerSvc "github.com/panbanda/handover/internal/service/scanner"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/models"
)

// ProjectInput is the input of analyze_project.
type ProjectInput struct {
	Path         string `json:"path,omitempty" jsonschema:"Project root to analyze. Defaults to the current directory."`
	Ref          string `json:"ref,omitempty" jsonschema:"Git revision to analyze instead of the working tree, such as main or a commit hash."`
	Depth        string `json:"depth,omitempty" jsonschema:"Analysis depth: basic, detailed (default) or comprehensive."`
	Section      string `json:"section,omitempty" jsonschema:"Return one part of the analysis: summary, architecture, dependencies, routes, todos, env, data or complexity. Empty returns everything."`
	IncludeFiles bool   `json:"include_files,omitempty" jsonschema:"Include the per-file structure (functions, classes, imports, exports) in full output."`
	Format       string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, markdown or text."`
}

// FileInput is the input of analyze_file.
type FileInput struct {
	Path   string `json:"path" jsonschema:"Path of the TypeScript or JavaScript file to analyze."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, markdown or text."`
}

// ListFilesInput is the input of list_files.
type ListFilesInput struct {
	Path   string `json:"path,omitempty" jsonschema:"Project root to scan. Defaults to the current directory."`
	Ref    string `json:"ref,omitempty" jsonschema:"Git revision to list instead of the working tree."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json or markdown."`
}

// Sections of a project analysis that analyze_project can return alone.
var sections = []string{"summary", "architecture", "dependencies", "routes", "todos", "env", "data", "complexity"}

// projectSummary is the headline part of a project analysis.
type projectSummary struct {
	ProjectName string         `json:"project_name" toon:"project_name"`
	Framework   string         `json:"framework" toon:"framework"`
	TotalFiles  int            `json:"total_files" toon:"total_files"`
	TotalLines  int            `json:"total_lines" toon:"total_lines"`
	Languages   map[string]int `json:"languages" toon:"languages"`
	EntryPoints []string       `json:"entry_points" toon:"entry_points"`
	Revision    string         `json:"revision,omitempty" toon:"revision,omitempty"`
}

type dataSection struct {
	Database       models.DatabaseInfo       `json:"database" toon:"database"`
	Infrastructure models.InfrastructureInfo `json:"infrastructure" toon:"infrastructure"`
}

type fileListing struct {
	Root      string         `json:"root" toon:"root"`
	Ref       string         `json:"ref,omitempty" toon:"ref,omitempty"`
	Files     []string       `json:"files" toon:"files"`
	Languages map[string]int `json:"languages" toon:"languages"`
}

// Helper functions

func getPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}

func getFormat(format string) output.Format {
	if format == "" {
		return output.FormatTOON
	}
	return output.ParseFormat(format)
}

func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, false).Output(data); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// selectSection picks the requested part of a project analysis. The full
// analysis drops per-file structure unless includeFiles is set.
func selectSection(result *models.ProjectAnalysis, section string, includeFiles bool) (any, error) {
	switch section {
	case "", "all":
		if includeFiles {
			return result, nil
		}
		trimmed := *result
		trimmed.Files = []models.FileAnalysis{}
		return &trimmed, nil
	case "summary":
		return projectSummary{
			ProjectName: result.ProjectName,
			Framework:   result.Framework,
			TotalFiles:  result.TotalFiles,
			TotalLines:  result.TotalLines,
			Languages:   result.Languages,
			EntryPoints: result.Architecture.EntryPoints,
			Revision:    result.Revision,
		}, nil
	case "architecture":
		return result.Architecture, nil
	case "dependencies":
		return result.Dependencies, nil
	case "routes":
		return result.APIRoutes, nil
	case "todos":
		return result.Todos, nil
	case "env":
		return result.EnvVars, nil
	case "data":
		return dataSection{Database: result.Database, Infrastructure: result.Infrastructure}, nil
	case "complexity":
		if result.Complexity == nil {
			return nil, errors.New("complexity is not computed at depth basic")
		}
		return result.Complexity, nil
	default:
		return nil, fmt.Errorf("unknown section %q (want one of %s)", section, strings.Join(sections, ", "))
	}
}

// Tool handlers

func (s *Server) handleAnalyzeProject(ctx context.Context, req *mcp.CallToolRequest, input ProjectInput) (*mcp.CallToolResult, any, error) {
	depth := config.Depth(input.Depth)
	if depth != "" && !depth.Valid() {
		return toolError(fmt.Sprintf("unknown depth %q (want basic, detailed or comprehensive)", input.Depth))
	}
	if input.Section != "" && input.Section != "all" && !slices.Contains(sections, input.Section) {
		return toolError(fmt.Sprintf("unknown section %q (want one of %s)", input.Section, strings.Join(sections, ", ")))
	}

	result, err := s.analysis().AnalyzeProject(ctx, getPath(input.Path), analysis.ProjectOptions{
		Ref:   input.Ref,
		Depth: depth,
	})
	if err != nil {
		return toolError(err.Error())
	}
	if result.TotalFiles == 0 {
		return toolError("no source files found")
	}

	data, err := selectSection(result, input.Section, input.IncludeFiles)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(data, getFormat(input.Format))
}

func (s *Server) handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}

	fa, err := s.analysis().AnalyzeFile(ctx, input.Path)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(fa, getFormat(input.Format))
}

func (s *Server) handleListFiles(ctx context.Context, req *mcp.CallToolRequest, input ListFilesInput) (*mcp.CallToolResult, any, error) {
	scanner := scannerSvc.New(scannerSvc.WithConfig(s.config))

	var (
		scanResult *scannerSvc.ScanResult
		err        error
	)
	if input.Ref != "" {
		scanResult, err = scanner.ScanTree(getPath(input.Path), input.Ref)
	} else {
		scanResult, err = scanner.ScanPaths([]string{getPath(input.Path)})
	}
	if err != nil {
		return toolError(err.Error())
	}

	listing := fileListing{
		Root:      scanResult.Root,
		Ref:       input.Ref,
		Files:     make([]string, 0, len(scanResult.Files)),
		Languages: map[string]int{},
	}
	for _, f := range scanResult.Files {
		if filepath.IsAbs(f) {
			if rel, err := filepath.Rel(scanResult.Root, f); err == nil {
				f = filepath.ToSlash(rel)
			}
		}
		listing.Files = append(listing.Files, f)
	}
	slices.Sort(listing.Files)
	for lang, files := range scanResult.LanguageGroups {
		listing.Languages[string(lang)] = len(files)
	}
	return toolResult(listing, getFormat(input.Format))
}
