// Package vcs reads committed project trees out of git repositories so a
// project can be analyzed as it was at a branch, tag or commit.
package vcs

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Opener locates the repository that contains a path.
type Opener interface {
	// Open finds the repository containing path, looking for .git in
	// path and its parents.
	Open(path string) (Repository, error)
}

// Repository is an opened git repository.
type Repository interface {
	// Resolve returns the commit a revision expression points at. An
	// empty rev means HEAD.
	Resolve(rev string) (Commit, error)
	// Root is the absolute path of the working tree.
	Root() string
}

// Commit is a resolved commit.
type Commit interface {
	Hash() plumbing.Hash
	Tree() (Tree, error)
}

// TreeEntry is one file or directory of a committed tree. Path is
// slash-separated and relative to the tree root.
type TreeEntry struct {
	Path  string
	Size  int64
	IsDir bool
}

// Tree is a read-only view of committed files.
type Tree interface {
	// Entries lists every file and directory, recursively. Submodules are
	// left out.
	Entries() ([]TreeEntry, error)
	File(path string) ([]byte, error)
}
