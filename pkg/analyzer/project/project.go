// Package project aggregates per-file analyses into the project-level
// model: framework, architecture, dependencies and the cross-cutting
// facts gathered from file contents.
package project

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/panbanda/handover/internal/cache"
	"github.com/panbanda/handover/internal/fileproc"
	"github.com/panbanda/handover/pkg/analyzer"
	"github.com/panbanda/handover/pkg/analyzer/complexity"
	"github.com/panbanda/handover/pkg/analyzer/database"
	"github.com/panbanda/handover/pkg/analyzer/deps"
	"github.com/panbanda/handover/pkg/analyzer/envvars"
	"github.com/panbanda/handover/pkg/analyzer/fileanalysis"
	"github.com/panbanda/handover/pkg/analyzer/framework"
	"github.com/panbanda/handover/pkg/analyzer/infra"
	"github.com/panbanda/handover/pkg/analyzer/layers"
	"github.com/panbanda/handover/pkg/analyzer/routes"
	"github.com/panbanda/handover/pkg/analyzer/todo"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/source"
)

// Analyzer builds a ProjectAnalysis for one project root.
type Analyzer struct {
	root     string
	src      source.ContentSource
	inv      *source.Inventory
	cache    *cache.Cache
	logger   *slog.Logger
	workers  int
	name     string
	depth    config.Depth
	hotspots int
	skipDirs []string
	onError  fileproc.ErrorFunc
}

var _ analyzer.FileAnalyzer[*models.ProjectAnalysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithSource reads file content, the manifest and infrastructure files
// from src instead of the filesystem.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.src = src
	}
}

// WithInventory sets the project's file listing. Without one the root is
// walked on disk.
func WithInventory(inv *source.Inventory) Option {
	return func(a *Analyzer) {
		a.inv = inv
	}
}

// WithCache reuses per-file analyses across runs.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the logger passed down to every stage.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithWorkers bounds the number of files analyzed at once.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithProjectName overrides the name taken from the manifest.
func WithProjectName(name string) Option {
	return func(a *Analyzer) {
		a.name = name
	}
}

// WithDepth selects which optional stages run.
func WithDepth(d config.Depth) Option {
	return func(a *Analyzer) {
		if d.Valid() {
			a.depth = d
		}
	}
}

// WithHotspots sets how many complex functions the summary keeps.
func WithHotspots(n int) Option {
	return func(a *Analyzer) {
		a.hotspots = n
	}
}

// WithSkipDirs sets the directory names left out of the inventory walk.
func WithSkipDirs(dirs []string) Option {
	return func(a *Analyzer) {
		a.skipDirs = dirs
	}
}

// WithErrorHandler is called for every file excluded from the result.
func WithErrorHandler(fn fileproc.ErrorFunc) Option {
	return func(a *Analyzer) {
		a.onError = fn
	}
}

// New creates a project analyzer rooted at root.
func New(root string, opts ...Option) *Analyzer {
	a := &Analyzer{
		root:     root,
		logger:   slog.Default(),
		depth:    config.DepthDetailed,
		hotspots: complexity.DefaultHotspots,
		skipDirs: config.DefaultConfig().Exclude.Dirs,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.src == nil {
		a.src = source.NewFilesystem(root)
	}
	return a
}

// Analyze analyzes files and derives every project-level fact from them.
// The only error returned is the context's.
func (a *Analyzer) Analyze(ctx context.Context, paths []string) (*models.ProjectAnalysis, error) {
	fa := fileanalysis.New(a.root,
		fileanalysis.WithSource(a.src),
		fileanalysis.WithCache(a.cache),
		fileanalysis.WithLogger(a.logger),
		fileanalysis.WithWorkers(a.workers),
		fileanalysis.WithErrorHandler(a.onError),
	)
	files, err := fa.Analyze(ctx, paths)
	if err != nil {
		return nil, err
	}

	manifest := deps.ReadManifest(a.src, a.logger)
	return a.Aggregate(files, manifest), nil
}

// Close releases nothing; parsers are owned by the file analyzer.
func (a *Analyzer) Close() {}

// Aggregate derives the project model from already analyzed files.
func (a *Analyzer) Aggregate(files []models.FileAnalysis, manifest deps.Manifest) *models.ProjectAnalysis {
	if files == nil {
		files = []models.FileAnalysis{}
	}
	fw := framework.Detect(manifest)
	dependencies := deps.Resolve(manifest, files)
	inv := a.inventory()

	result := &models.ProjectAnalysis{
		ProjectName:  a.projectName(manifest),
		Framework:    fw,
		TotalFiles:   len(files),
		Languages:    map[string]int{},
		Files:        files,
		Dependencies: dependencies,
		Architecture: models.ArchitectureInfo{
			EntryPoints: layers.EntryPoints(files, fw),
			Layers:      layers.Classify(files, fw, dependencies.Internal),
			Patterns:    framework.DetectPatterns(files, manifest),
		},
		Todos:          todo.New().Scan(files),
		EnvVars:        envvars.Scan(files),
		APIRoutes:      routes.Detect(files),
		Database:       database.New(a.src, inv, database.WithLogger(a.logger)).Detect(files),
		Infrastructure: infra.New(a.src, inv, infra.WithLogger(a.logger)).Detect(),
	}
	for _, f := range files {
		result.Languages[f.Language]++
		result.TotalLines += f.Size
	}

	if a.depth != config.DepthBasic {
		result.Complexity = complexity.Summarize(files, a.hotspots)
	}
	if a.depth == config.DepthComprehensive {
		graph := deps.BuildGraph(files, dependencies.Internal)
		result.Dependencies.Cycles = graph.Cycles()
		result.Dependencies.Hubs = graph.Hubs(a.hotspots)
	}

	a.logger.Debug("project analyzed",
		slog.String("project", result.ProjectName),
		slog.String("framework", fw),
		slog.Int("files", result.TotalFiles),
		slog.Int("lines", result.TotalLines))
	return result
}

func (a *Analyzer) inventory() *source.Inventory {
	if a.inv != nil {
		return a.inv
	}
	inv, err := source.WalkInventory(a.root, a.skipDirs)
	if err != nil {
		a.logger.Warn("cannot list project files", slog.String("root", a.root), slog.Any("error", err))
		return source.NewInventory(nil, nil)
	}
	return inv
}

// projectName prefers the configured name, then the manifest's, then the
// root directory's base name.
func (a *Analyzer) projectName(m deps.Manifest) string {
	if a.name != "" {
		return a.name
	}
	if m.Name != "" {
		return m.Name
	}
	root := a.root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Base(root)
}
