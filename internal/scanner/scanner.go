package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/parser"
)

// PathError reports a scan root that cannot be resolved or walked.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Scanner finds the files of a project that should be analyzed.
type Scanner struct {
	config    *config.Config
	matchers  []gitignore.Matcher
	include   []gitignore.Pattern
	languages []parser.Language
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{config: cfg}
	for _, p := range cfg.Include.Patterns {
		s.include = append(s.include, gitignore.ParsePattern(p, nil))
	}
	for _, l := range cfg.Analysis.Languages {
		s.languages = append(s.languages, parser.Language(strings.ToLower(l)))
	}
	return s
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns combines the configured exclude patterns with every
// .gitignore of the enclosing repository.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore && root != "" {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			fs := osfs.New(gitRoot)
			if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
				// Patterns are relative to the repository root; re-anchor them
				// when scanning a subdirectory.
				if rel, err := filepath.Rel(gitRoot, root); err == nil && rel != "." {
					prefix := strings.Split(filepath.ToSlash(rel), "/")
					gitPatterns = []gitignore.Pattern{prefixed{prefix: prefix, matcher: gitignore.NewMatcher(gitPatterns)}}
				}
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// prefixed evaluates repository-relative patterns for paths relative to a
// subdirectory of the repository.
type prefixed struct {
	prefix  []string
	matcher gitignore.Matcher
}

func (p prefixed) Match(path []string, isDir bool) gitignore.MatchResult {
	full := append(slices.Clone(p.prefix), path...)
	if p.matcher.Match(full, isDir) {
		return gitignore.Exclude
	}
	return gitignore.NoMatch
}

// isExcluded checks if a path matches any exclusion pattern.
func (s *Scanner) isExcluded(rel string, isDir bool) bool {
	parts := strings.Split(rel, "/")
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// isIncluded checks the file against the include patterns and the
// language filter.
func (s *Scanner) isIncluded(rel string) bool {
	if len(s.languages) > 0 && !slices.Contains(s.languages, parser.DetectLanguage(rel)) {
		return false
	}
	parts := strings.Split(rel, "/")
	for _, p := range s.include {
		if p.Match(parts, false) == gitignore.Exclude {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory and returns the absolute paths of
// the files to analyze, in lexical order.
// Validates that all paths stay within the root directory to prevent traversal attacks.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}

	s.loadExcludePatterns(absRoot)
	maxSize := s.config.Analysis.MaxFileSize

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)
		relPath = filepath.ToSlash(relPath)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, realRoot) {
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || info.IsDir() {
				// Symlinked directories are not followed.
				return nil
			}
		}

		if d.IsDir() {
			if s.config.ExcludesDir(d.Name()) || s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) || !s.isIncluded(relPath) {
			return nil
		}
		if maxSize > 0 {
			info, err := os.Stat(path)
			if err != nil || info.Size() > maxSize {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, &PathError{Path: root, Err: walkErr}
	}
	return files, nil
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile checks if a single file should be analyzed.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, &PathError{Path: path, Err: err}
	}
	if info.IsDir() {
		return false, nil
	}
	if limit := s.config.Analysis.MaxFileSize; limit > 0 && info.Size() > limit {
		return false, nil
	}
	return s.isIncluded(filepath.Base(path)), nil
}

// FilterEntries applies the include, exclude and language rules to
// slash-separated paths listed from a git tree. Only configured exclude
// patterns apply; .gitignore files on disk are not consulted.
func (s *Scanner) FilterEntries(paths []string) []string {
	s.loadExcludePatterns("")
	var kept []string
	for _, p := range paths {
		if s.underExcludedDir(p) || s.isExcluded(p, false) || !s.isIncluded(p) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func (s *Scanner) underExcludedDir(p string) bool {
	segs := strings.Split(p, "/")
	for _, seg := range segs[:len(segs)-1] {
		if s.config.ExcludesDir(seg) {
			return true
		}
	}
	return false
}

// GroupByLanguage groups files by their detected language.
func (s *Scanner) GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		lang := parser.DetectLanguage(f)
		groups[lang] = append(groups[lang], f)
	}
	return groups
}
