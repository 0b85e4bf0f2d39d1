// Package todo finds TODO, FIXME, HACK and NOTE line comments.
package todo

import (
	"regexp"
	"strings"

	"github.com/panbanda/handover/pkg/models"
)

var markerPattern = regexp.MustCompile(`//\s*(TODO|FIXME|HACK|NOTE):\s*(.*)`)

// Scanner extracts marker comments from file content.
type Scanner struct {
	includeTests bool
	testPatterns []*regexp.Regexp
}

// Option is a functional option for configuring Scanner.
type Option func(*Scanner)

// WithSkipTests excludes test files from scanning.
// By default, test files are included.
func WithSkipTests() Option {
	return func(s *Scanner) {
		s.includeTests = false
	}
}

// New creates a scanner with default options.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		includeTests: true,
		testPatterns: defaultTestPatterns(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultTestPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`\.test\.[jt]sx?$`),
		regexp.MustCompile(`\.spec\.[jt]sx?$`),
		regexp.MustCompile(`__tests__/`),
		regexp.MustCompile(`(^|/)tests?/`),
	}
}

func (s *Scanner) isTestFile(path string) bool {
	for _, pat := range s.testPatterns {
		if pat.MatchString(path) {
			return true
		}
	}
	return false
}

// Scan returns every marker in files, in file order then position.
func (s *Scanner) Scan(files []models.FileAnalysis) []models.TodoItem {
	items := []models.TodoItem{}
	for i := range files {
		if !s.includeTests && s.isTestFile(files[i].RelativePath) {
			continue
		}
		items = append(items, s.ScanContent(files[i].RelativePath, files[i].Content)...)
	}
	return items
}

// ScanContent returns the markers in one file's content. The line is the
// 1-based line the marker starts on.
func (s *Scanner) ScanContent(file, content string) []models.TodoItem {
	var items []models.TodoItem
	for _, m := range markerPattern.FindAllStringSubmatchIndex(content, -1) {
		items = append(items, models.TodoItem{
			File: file,
			Line: 1 + strings.Count(content[:m[0]], "\n"),
			Type: models.TodoType(content[m[2]:m[3]]),
			Text: strings.TrimSpace(content[m[4]:m[5]]),
		})
	}
	return items
}
