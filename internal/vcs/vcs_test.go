package vcs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const indexContent = "export const x = 1;\n"

func TestOpen(t *testing.T) {
	repoPath := initRepo(t)

	repo, err := NewGitOpener().Open(repoPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if repo.Root() != repoPath {
		t.Errorf("Root() = %q, want %q", repo.Root(), repoPath)
	}

	nested := filepath.Join(repoPath, "src")
	repo, err = NewGitOpener().Open(nested)
	if err != nil {
		t.Fatalf("Open(nested) error = %v", err)
	}
	if repo.Root() != repoPath {
		t.Errorf("Root() from nested dir = %q, want %q", repo.Root(), repoPath)
	}

	if _, err := NewGitOpener().Open(t.TempDir()); err == nil {
		t.Error("Open() should fail outside a repository")
	}
}

func TestResolve(t *testing.T) {
	repoPath := initRepo(t)
	repo, err := NewGitOpener().Open(repoPath)
	if err != nil {
		t.Fatal(err)
	}

	head, err := repo.Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if head.Hash().IsZero() {
		t.Error("Resolve(\"\") returned zero hash")
	}

	for _, rev := range []string{"HEAD", "master", head.Hash().String()[:8]} {
		c, err := repo.Resolve(rev)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", rev, err)
			continue
		}
		if c.Hash() != head.Hash() {
			t.Errorf("Resolve(%q) = %s, want %s", rev, c.Hash(), head.Hash())
		}
	}

	if _, err := repo.Resolve("no-such-branch"); err == nil {
		t.Error("Resolve() should fail for an unknown revision")
	}
}

func TestTreeEntriesAndFile(t *testing.T) {
	snap, err := OpenSnapshot(NewGitOpener(), initRepo(t), "")
	if err != nil {
		t.Fatalf("OpenSnapshot() error = %v", err)
	}

	entries, err := snap.Tree.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
		switch e.Path {
		case "src":
			if !e.IsDir {
				t.Error("src should be a directory")
			}
		case "src/index.ts":
			if e.Size != int64(len(indexContent)) {
				t.Errorf("src/index.ts size = %d", e.Size)
			}
		}
	}
	for _, want := range []string{"package.json", "src", "src/index.ts"} {
		if !slices.Contains(paths, want) {
			t.Errorf("Entries() missing %q in %v", want, paths)
		}
	}

	content, err := snap.Tree.File("src/index.ts")
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if string(content) != indexContent {
		t.Errorf("File() = %q", content)
	}
	if _, err := snap.Tree.File("nonexistent.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("File() of a missing file error = %v, want fs.ErrNotExist", err)
	}
}

func TestOpenSnapshotIgnoresWorkingChanges(t *testing.T) {
	repoPath := initRepo(t)
	if err := os.WriteFile(filepath.Join(repoPath, "src", "index.ts"), []byte("changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := OpenSnapshot(NewGitOpener(), repoPath, "master")
	if err != nil {
		t.Fatalf("OpenSnapshot() error = %v", err)
	}
	content, err := snap.Tree.File("src/index.ts")
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if string(content) != indexContent {
		t.Errorf("File() = %q, want committed content", content)
	}
	if snap.RepoRoot != repoPath {
		t.Errorf("RepoRoot = %q, want %q", snap.RepoRoot, repoPath)
	}

	if _, err := OpenSnapshot(NewGitOpener(), repoPath, "missing"); err == nil {
		t.Error("OpenSnapshot() should fail for an unknown revision")
	}
	if _, err := OpenSnapshot(NewGitOpener(), t.TempDir(), ""); err == nil {
		t.Error("OpenSnapshot() should fail outside a repository")
	}
}

func TestOpenSnapshotSubdirectory(t *testing.T) {
	repoPath := initRepo(t)
	head, err := git.PlainOpen(repoPath)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := head.Head()
	if err != nil {
		t.Fatal(err)
	}

	snap, err := OpenSnapshot(NewGitOpener(), filepath.Join(repoPath, "src"), "")
	if err != nil {
		t.Fatalf("OpenSnapshot() error = %v", err)
	}
	if snap.Revision != ref.Hash() {
		t.Errorf("Revision = %s, want %s", snap.Revision, ref.Hash())
	}

	entries, err := snap.Tree.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "index.ts" {
		t.Errorf("Entries() = %v, want only index.ts", entries)
	}
	if _, err := snap.Tree.File("index.ts"); err != nil {
		t.Errorf("File() error = %v", err)
	}
}

type mapTree map[string]string

func (m mapTree) Entries() ([]TreeEntry, error) {
	var out []TreeEntry
	for p, c := range m {
		out = append(out, TreeEntry{Path: p, Size: int64(len(c))})
	}
	return out, nil
}

func (m mapTree) File(p string) ([]byte, error) {
	c, ok := m[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(c), nil
}

func TestSubtree(t *testing.T) {
	tree := mapTree{
		"apps/web/index.ts":   "a",
		"apps/webapp/main.ts": "b",
		"root.ts":             "c",
	}

	for _, dir := range []string{"", ".", "/"} {
		if _, ok := Subtree(tree, dir).(mapTree); !ok {
			t.Errorf("Subtree(%q) should return the tree itself", dir)
		}
	}

	sub := Subtree(tree, "apps/web/")
	entries, err := sub.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Path != "index.ts" {
		t.Errorf("Entries() = %v, want only index.ts", entries)
	}
	content, err := sub.File("index.ts")
	if err != nil || string(content) != "a" {
		t.Errorf("File() = %q, %v", content, err)
	}
}

func TestRelSlash(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	rel, err := relSlash(root, nested)
	if err != nil || rel != "a/b" {
		t.Errorf("relSlash() = %q, %v; want a/b", rel, err)
	}
	rel, err = relSlash(root, root)
	if err != nil || rel != "." {
		t.Errorf("relSlash(root) = %q, %v; want .", rel, err)
	}
	if _, err := relSlash(nested, root); err == nil {
		t.Error("relSlash() should reject a directory outside root")
	}
}

func TestDefaultOpener(t *testing.T) {
	if _, ok := DefaultOpener().(*GitOpener); !ok {
		t.Errorf("DefaultOpener() = %T, want *GitOpener", DefaultOpener())
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	if r, err := filepath.EvalSymlinks(repoPath); err == nil {
		repoPath = r
	}
	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	files := map[string]string{
		"package.json": `{"name": "fixture"}`,
		"src/index.ts": indexContent,
	}
	for name, content := range files {
		full := filepath.Join(repoPath, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Add("."); err != nil {
		t.Fatal(err)
	}
	_, err = w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}
	return repoPath
}
