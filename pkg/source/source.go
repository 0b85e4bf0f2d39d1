// Package source abstracts where project files come from: the working
// directory or a tree committed to git. Paths are relative to the project
// root unless they are absolute.
package source

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panbanda/handover/internal/vcs"
)

// ContentSource reads the content of project files. A file that does not
// exist yields an error matching fs.ErrNotExist.
type ContentSource interface {
	Read(path string) ([]byte, error)
}

// FilesystemSource reads from disk below a project root.
type FilesystemSource struct {
	root string
}

// NewFilesystem reads relative paths below root, or below the working
// directory when root is empty.
func NewFilesystem(root string) *FilesystemSource {
	return &FilesystemSource{root: root}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(name string) ([]byte, error) {
	return os.ReadFile(f.Path(name))
}

// Path maps name onto the filesystem. Absolute names are kept.
func (f *FilesystemSource) Path(name string) string {
	if filepath.IsAbs(name) || f.root == "" {
		return name
	}
	return filepath.Join(f.root, filepath.FromSlash(name))
}

// TreeSource reads committed files out of a git tree. Reads are
// serialized, so one source may back a whole worker pool.
type TreeSource struct {
	mu   sync.Mutex
	tree vcs.Tree
}

// NewTree wraps tree as a ContentSource.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Read implements ContentSource. Names that leave the tree root are
// reported as missing.
func (t *TreeSource) Read(name string) ([]byte, error) {
	p, ok := treePath(name)
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(p)
}

func treePath(name string) (string, bool) {
	p := path.Clean(filepath.ToSlash(name))
	if p == "." || p == ".." || path.IsAbs(p) || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

// Memory serves file content from a map keyed by slash-separated path.
type Memory map[string]string

// Read implements ContentSource.
func (m Memory) Read(name string) ([]byte, error) {
	c, ok := m[path.Clean(filepath.ToSlash(name))]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(c), nil
}
