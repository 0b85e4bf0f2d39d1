package vcs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitOpener opens repositories with go-git.
type GitOpener struct{}

// NewGitOpener returns an Opener backed by go-git.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// Open implements Opener.
func (o *GitOpener) Open(dir string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	root := dir
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &gitRepository{repo: repo, root: root}, nil
}

var defaultOpener Opener = NewGitOpener()

// DefaultOpener is the go-git opener used when none is configured.
func DefaultOpener() Opener {
	return defaultOpener
}

type gitRepository struct {
	repo *git.Repository
	root string
}

func (r *gitRepository) Root() string { return r.root }

func (r *gitRepository) Resolve(rev string) (Commit, error) {
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	return gitCommit{c: commit}, nil
}

type gitCommit struct {
	c *object.Commit
}

func (g gitCommit) Hash() plumbing.Hash { return g.c.Hash }

func (g gitCommit) Tree() (Tree, error) {
	tree, err := g.c.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", g.c.Hash, err)
	}
	return gitTree{tree}, nil
}

type gitTree struct {
	tree *object.Tree
}

func (t gitTree) Entries() ([]TreeEntry, error) {
	walker := object.NewTreeWalker(t.tree, true, nil)
	defer walker.Close()

	var entries []TreeEntry
	for {
		name, entry, err := walker.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		switch entry.Mode {
		case filemode.Submodule:
		case filemode.Dir:
			entries = append(entries, TreeEntry{Path: name, IsDir: true})
		default:
			e := TreeEntry{Path: name}
			if f, err := t.tree.TreeEntryFile(&entry); err == nil {
				e.Size = f.Size
			}
			entries = append(entries, e)
		}
	}
}

func (t gitTree) File(name string) ([]byte, error) {
	f, err := t.tree.File(name)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	r, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Snapshot is the committed tree of a directory inside a repository.
type Snapshot struct {
	// Tree is rooted at the requested directory, not the repository.
	Tree     Tree
	Revision plumbing.Hash
	RepoRoot string
}

// OpenSnapshot resolves rev in the repository containing dir and returns
// the committed tree below dir. An empty rev means HEAD.
func OpenSnapshot(opener Opener, dir, rev string) (*Snapshot, error) {
	repo, err := opener.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	commit, err := repo.Resolve(rev)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	rel, err := relSlash(repo.Root(), dir)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Tree:     Subtree(tree, rel),
		Revision: commit.Hash(),
		RepoRoot: repo.Root(),
	}, nil
}

// Subtree returns a view of tree rooted at dir, a slash-separated path
// relative to the tree root. Entries outside dir are dropped and the rest
// are listed relative to it. An empty dir or "." returns tree unchanged.
func Subtree(tree Tree, dir string) Tree {
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" {
		return tree
	}
	return &subtree{tree: tree, prefix: dir + "/"}
}

type subtree struct {
	tree   Tree
	prefix string
}

func (s *subtree) Entries() ([]TreeEntry, error) {
	entries, err := s.tree.Entries()
	if err != nil {
		return nil, err
	}
	var kept []TreeEntry
	for _, e := range entries {
		if rest, ok := strings.CutPrefix(e.Path, s.prefix); ok {
			e.Path = rest
			kept = append(kept, e)
		}
	}
	return kept, nil
}

func (s *subtree) File(name string) ([]byte, error) {
	return s.tree.File(s.prefix + name)
}
