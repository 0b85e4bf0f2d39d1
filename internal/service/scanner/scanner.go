package scanner

import (
	"os"
	"path/filepath"

	"github.com/panbanda/handover/internal/scanner"
	"github.com/panbanda/handover/internal/vcs"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/parser"
	"github.com/panbanda/handover/pkg/source"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files          []string
	LanguageGroups map[parser.Language][]string
	// Root is the absolute project root the files belong to.
	Root     string
	RepoRoot string
	// Revision is the commit hash the files were read from, set by
	// ScanTree only.
	Revision string
	// Source and Inventory are set when the files come from a git tree
	// rather than the working directory.
	Source    source.ContentSource
	Inventory *source.Inventory
}

// Service provides file scanning functionality.
type Service struct {
	config *config.Config
	opener vcs.Opener
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

// WithOpener sets the VCS opener.
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new scanner service. Without WithConfig it uses the
// default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanPaths scans files and directories on disk. Directories are walked,
// files are kept when they pass the include rules. The first path decides
// the project root; no paths means the working directory.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(s.config)
	result := &ScanResult{}
	var files []string

	for i, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}

		if i == 0 {
			result.Root = absPath
			if !info.IsDir() {
				result.Root = filepath.Dir(absPath)
			}
		}

		if !info.IsDir() {
			ok, err := scan.ScanFile(absPath)
			if err != nil {
				return nil, &ScanError{Path: path, Err: err}
			}
			if ok {
				files = append(files, absPath)
			}
			continue
		}

		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		files = append(files, found...)
	}

	if repoRoot, err := s.findGitRoot(result.Root); err == nil {
		result.RepoRoot = repoRoot
	}
	result.Files = files
	result.LanguageGroups = scan.GroupByLanguage(files)
	return result, nil
}

// ScanTree lists the files under path as committed at ref instead of the
// working directory. The returned files are slash-separated and relative
// to path, and the result carries a Source that reads their committed
// content.
func (s *Service) ScanTree(path, ref string) (*ScanResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}

	snap, err := vcs.OpenSnapshot(s.opener, absPath, ref)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	tree := snap.Tree

	inv, err := source.TreeInventory(tree, s.config.Exclude.Dirs)
	if err != nil {
		return nil, &ScanError{Path: path, Err: err}
	}

	scan := scanner.NewScanner(s.config)
	var sized []string
	limit := s.config.Analysis.MaxFileSize
	entries, err := tree.Entries()
	if err != nil {
		return nil, &ScanError{Path: path, Err: err}
	}
	for _, e := range entries {
		if e.IsDir || (limit > 0 && e.Size > limit) {
			continue
		}
		sized = append(sized, e.Path)
	}
	files := scan.FilterEntries(sized)

	return &ScanResult{
		Files:          files,
		LanguageGroups: scan.GroupByLanguage(files),
		Root:           absPath,
		RepoRoot:       snap.RepoRoot,
		Revision:       snap.Revision.String(),
		Source:         source.NewTree(tree),
		Inventory:      inv,
	}, nil
}

// findGitRoot finds the git repository root containing the given path.
func (s *Service) findGitRoot(path string) (string, error) {
	repo, err := s.opener.Open(path)
	if err != nil {
		return "", err
	}
	return repo.Root(), nil
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates the path is not in a git repository or the revision
// could not be read.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "git: " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
