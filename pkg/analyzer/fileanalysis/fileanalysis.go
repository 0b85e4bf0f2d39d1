// Package fileanalysis builds the per-file structural model: it resolves
// the language, counts lines, keeps the content and runs the syntax
// extractor for TypeScript and JavaScript files.
package fileanalysis

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/panbanda/handover/internal/cache"
	"github.com/panbanda/handover/internal/fileproc"
	"github.com/panbanda/handover/pkg/analyzer"
	"github.com/panbanda/handover/pkg/analyzer/syntax"
	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/parser"
	"github.com/panbanda/handover/pkg/source"
)

// Analyzer analyzes batches of files concurrently.
type Analyzer struct {
	root    string
	src     source.ContentSource
	cache   *cache.Cache
	logger  *slog.Logger
	workers int
	onError fileproc.ErrorFunc
}

var _ analyzer.FileAnalyzer[[]models.FileAnalysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithSource reads file content from src instead of the filesystem.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.src = src
	}
}

// WithCache reuses analyses of files whose content is unchanged.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the logger for skipped and unparseable files.
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

// WithErrorHandler is called for every file excluded from the result.
func WithErrorHandler(fn fileproc.ErrorFunc) Option {
	return func(a *Analyzer) {
		a.onError = fn
	}
}

// New creates an analyzer for files under root.
func New(root string, opts ...Option) *Analyzer {
	a := &Analyzer{
		root:   root,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.src == nil {
		a.src = source.NewFilesystem(root)
	}
	return a
}

// Analyze analyzes files and returns one FileAnalysis per readable file,
// sorted by relative path. Unreadable files are logged, dropped from the
// cache and left out; the only error returned is the context's.
func (a *Analyzer) Analyze(ctx context.Context, files []string) ([]models.FileAnalysis, error) {
	results, err := fileproc.MapSource(ctx, files, a.src, fileproc.Options{Workers: a.workers},
		func(ctx context.Context, psr *parser.Parser, path string, content []byte) (models.FileAnalysis, error) {
			return *a.analyzeCached(ctx, psr, path, content), nil
		})

	for _, fe := range fileproc.Failed(err) {
		if ctx.Err() != nil && errors.Is(fe.Err, ctx.Err()) {
			continue
		}
		a.logger.Warn("skipping file", slog.String("path", fe.Path), slog.Any("error", fe.Err))
		if err := a.cache.Invalidate(a.absPath(fe.Path)); err != nil {
			a.logger.Debug("cache invalidate failed", slog.String("path", fe.Path), slog.Any("error", err))
		}
		if a.onError != nil {
			a.onError(fe.Path, fe.Err)
		}
	}

	slices.SortFunc(results, func(x, y models.FileAnalysis) int {
		return strings.Compare(x.RelativePath, y.RelativePath)
	})
	return results, ctx.Err()
}

// Close releases any resources held by the analyzer.
func (a *Analyzer) Close() {}

func (a *Analyzer) analyzeCached(ctx context.Context, psr *parser.Parser, path string, content []byte) *models.FileAnalysis {
	abs := a.absPath(path)
	if fa, ok := a.cache.LoadAnalysis(abs, content); ok {
		return fa
	}
	fa := a.AnalyzeFile(ctx, psr, path, content)
	if err := a.cache.StoreAnalysis(abs, content, fa); err != nil {
		a.logger.Debug("cache write failed", slog.String("path", fa.RelativePath), slog.Any("error", err))
	}
	return fa
}

// AnalyzeFile builds the analysis of one file. It never fails: a file that
// cannot be parsed keeps its language, size and content with empty
// structure and ParseFailed set.
func (a *Analyzer) AnalyzeFile(ctx context.Context, psr *parser.Parser, path string, content []byte) *models.FileAnalysis {
	lang := parser.DetectLanguage(path)
	fa := &models.FileAnalysis{
		Path:         a.absPath(path),
		RelativePath: a.relPath(path),
		Language:     string(lang),
		Size:         CountLines(content),
		Content:      string(content),
	}
	models.EmptyStructure().Apply(fa)

	if !lang.IsScript() {
		return fa
	}

	result, err := psr.Parse(ctx, content, path)
	if err != nil {
		a.logger.Debug("parse failed", slog.String("path", fa.RelativePath), slog.Any("error", err))
		fa.ParseFailed = true
		return fa
	}
	if result.Lenient && a.logger.Enabled(ctx, slog.LevelDebug) {
		a.logger.Debug("parsed with lenient grammar",
			slog.String("path", fa.RelativePath),
			slog.String("tree", result.Tree.Dump(result.Tree.Root())))
	}
	syntax.Extract(result.Tree).Apply(fa)
	return fa
}

func (a *Analyzer) absPath(path string) string {
	if filepath.IsAbs(path) || a.root == "" {
		return path
	}
	return filepath.Join(a.root, filepath.FromSlash(path))
}

func (a *Analyzer) relPath(path string) string {
	if !filepath.IsAbs(path) || a.root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(a.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// CountLines returns the number of newline-separated lines in content.
// Empty content is one line, and a trailing newline starts another.
func CountLines(content []byte) int {
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}
