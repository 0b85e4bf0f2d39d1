package vcs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// relSlash returns dir relative to root in slash form. dir must lie
// inside root.
func relSlash(root, dir string) (string, error) {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		dir = d
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("locate %s in repository: %w", dir, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside repository %s", dir, root)
	}
	return rel, nil
}
