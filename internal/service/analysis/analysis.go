// Package analysis orchestrates a full run: scanning the requested paths,
// analyzing every file and aggregating the project model. It is shared
// by the CLI and the MCP server.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/panbanda/handover/internal/cache"
	"github.com/panbanda/handover/internal/service/scanner"
	"github.com/panbanda/handover/internal/vcs"
	"github.com/panbanda/handover/pkg/analyzer/fileanalysis"
	"github.com/panbanda/handover/pkg/analyzer/project"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/parser"
)

// Service orchestrates code analysis operations.
type Service struct {
	config *config.Config
	opener vcs.Opener
	logger *slog.Logger
	cache  *cache.Cache
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithOpener sets the VCS opener used for --ref analyses.
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// WithLogger sets the logger passed down to every analyzer.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache reuses per-file analyses across runs.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		opener: vcs.DefaultOpener(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProjectOptions configures a project analysis.
type ProjectOptions struct {
	// Ref analyzes the tree committed at this git revision instead of the
	// working directory.
	Ref string
	// Depth overrides the configured analysis depth when set.
	Depth config.Depth
}

// AnalyzeProject analyzes the project rooted at path.
func (s *Service) AnalyzeProject(ctx context.Context, path string, opts ProjectOptions) (*models.ProjectAnalysis, error) {
	result, err := s.scan(path, opts.Ref)
	if err != nil {
		return nil, err
	}

	depth := s.config.Analysis.Depth
	if opts.Depth != "" {
		if !opts.Depth.Valid() {
			return nil, &config.ValidationError{Field: "analysis.depth", Err: fmt.Errorf("unknown depth %q", opts.Depth)}
		}
		depth = opts.Depth
	}

	s.logger.Debug("scanned project",
		slog.String("root", result.Root),
		slog.String("ref", opts.Ref),
		slog.Int("files", len(result.Files)))

	projectOpts := []project.Option{
		project.WithCache(s.cache),
		project.WithLogger(s.logger),
		project.WithWorkers(s.config.Analysis.Workers),
		project.WithProjectName(s.config.Project.Name),
		project.WithDepth(depth),
		project.WithHotspots(s.config.Analysis.Hotspots),
		project.WithSkipDirs(s.config.Exclude.Dirs),
	}
	if result.Source != nil {
		projectOpts = append(projectOpts,
			project.WithSource(result.Source),
			project.WithInventory(result.Inventory))
	}

	analysis, err := project.New(result.Root, projectOpts...).Analyze(ctx, result.Files)
	if err != nil {
		return nil, err
	}
	analysis.Revision = result.Revision
	return analysis, nil
}

func (s *Service) scan(path, ref string) (*scanner.ScanResult, error) {
	scan := scanner.New(scanner.WithConfig(s.config), scanner.WithOpener(s.opener))
	if ref != "" {
		return scan.ScanTree(path, ref)
	}
	return scan.ScanPaths([]string{path})
}

// ScanFiles scans the project at path, or its tree at ref, and analyzes
// each file without building the project model.
func (s *Service) ScanFiles(ctx context.Context, path, ref string) ([]models.FileAnalysis, error) {
	result, err := s.scan(path, ref)
	if err != nil {
		return nil, err
	}

	opts := []fileanalysis.Option{
		fileanalysis.WithCache(s.cache),
		fileanalysis.WithLogger(s.logger),
		fileanalysis.WithWorkers(s.config.Analysis.Workers),
	}
	if result.Source != nil {
		opts = append(opts, fileanalysis.WithSource(result.Source))
	}
	fa := fileanalysis.New(result.Root, opts...)
	defer fa.Close()
	return fa.Analyze(ctx, result.Files)
}

// AnalyzeFiles analyzes the given files without building the project
// model. Relative paths are resolved against root.
func (s *Service) AnalyzeFiles(ctx context.Context, root string, files []string) ([]models.FileAnalysis, error) {
	fa := fileanalysis.New(root,
		fileanalysis.WithCache(s.cache),
		fileanalysis.WithLogger(s.logger),
		fileanalysis.WithWorkers(s.config.Analysis.Workers),
	)
	defer fa.Close()
	return fa.Analyze(ctx, files)
}

// AnalyzeFile analyzes a single file on disk. Files that are not
// TypeScript or JavaScript are returned with their language and size only.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*models.FileAnalysis, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &scanner.PathError{Path: path, Err: err}
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, &scanner.PathError{Path: path, Err: err}
	}

	psr := parser.New()
	defer psr.Close()

	fa := fileanalysis.New(filepath.Dir(abs), fileanalysis.WithLogger(s.logger))
	return fa.AnalyzeFile(ctx, psr, abs, content), nil
}
