package source

import (
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/panbanda/handover/internal/vcs"
)

// Inventory lists the files and directories of a project as slash-separated
// paths relative to the project root, in sorted order.
type Inventory struct {
	Files []string
	Dirs  []string

	files map[string]struct{}
	dirs  map[string]struct{}
}

// NewInventory builds an inventory from relative paths.
func NewInventory(files, dirs []string) *Inventory {
	inv := &Inventory{
		files: make(map[string]struct{}, len(files)),
		dirs:  make(map[string]struct{}, len(dirs)),
	}
	for _, f := range files {
		f = path.Clean(filepath.ToSlash(f))
		if _, ok := inv.files[f]; !ok {
			inv.files[f] = struct{}{}
			inv.Files = append(inv.Files, f)
		}
	}
	for _, d := range dirs {
		d = path.Clean(filepath.ToSlash(d))
		if _, ok := inv.dirs[d]; !ok {
			inv.dirs[d] = struct{}{}
			inv.Dirs = append(inv.Dirs, d)
		}
	}
	slices.Sort(inv.Files)
	slices.Sort(inv.Dirs)
	return inv
}

// HasFile reports whether the file exists in the inventory.
func (inv *Inventory) HasFile(p string) bool {
	_, ok := inv.files[p]
	return ok
}

// HasDir reports whether the directory exists in the inventory.
func (inv *Inventory) HasDir(p string) bool {
	_, ok := inv.dirs[p]
	return ok
}

// Exists reports whether p is a file or a directory in the inventory.
func (inv *Inventory) Exists(p string) bool {
	return inv.HasFile(p) || inv.HasDir(p)
}

// WalkInventory lists every file and directory under root. Directories whose
// base name is in skipDirs are not entered, nor is any symlink followed.
func WalkInventory(root string, skipDirs []string) (*Inventory, error) {
	fsys := osfs.New(root)
	var files, dirs []string

	err := util.Walk(fsys, "", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if p == "" {
				return err
			}
			// Unreadable entries are left out of the inventory.
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == "" || p == "." {
			return nil
		}
		rel := filepath.ToSlash(p)
		if info.IsDir() {
			if slices.Contains(skipDirs, path.Base(rel)) {
				return filepath.SkipDir
			}
			dirs = append(dirs, rel)
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewInventory(files, dirs), nil
}

// TreeInventory lists the entries of a git tree. Entries under a directory
// named in skipDirs are left out.
func TreeInventory(tree vcs.Tree, skipDirs []string) (*Inventory, error) {
	entries, err := tree.Entries()
	if err != nil {
		return nil, err
	}
	var files, dirs []string
	for _, e := range entries {
		dir := path.Dir(e.Path)
		if e.IsDir {
			dir = e.Path
		}
		if underSkipped(dir, skipDirs) {
			continue
		}
		if e.IsDir {
			dirs = append(dirs, e.Path)
		} else {
			files = append(files, e.Path)
		}
	}
	return NewInventory(files, dirs), nil
}

func underSkipped(dir string, skipDirs []string) bool {
	for _, seg := range strings.Split(dir, "/") {
		if slices.Contains(skipDirs, seg) {
			return true
		}
	}
	return false
}
