package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/parser"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel(%s): %v", f, err)
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewScanner(t *testing.T) {
	// With nil config
	s := NewScanner(nil)
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if s.config == nil {
		t.Error("scanner.config should not be nil when passing nil")
	}

	// With explicit config
	cfg := config.DefaultConfig()
	s = NewScanner(cfg)
	if s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
	if len(s.include) != len(cfg.Include.Patterns) {
		t.Errorf("include patterns = %d, want %d", len(s.include), len(cfg.Include.Patterns))
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/app.ts":         "export const a = 1;\n",
		"src/util/helper.js": "module.exports = {};\n",
		"src/App.tsx":        "export default () => null;\n",
		"README.md":          "# readme\n",
		"styles.css":         "body {}\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"src/app.ts", "src/util/helper.js"}
	if got := relPaths(t, tmpDir, result); !equalPaths(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
	for _, f := range result {
		if !filepath.IsAbs(f) {
			t.Errorf("ScanDir() returned relative path %s", f)
		}
	}
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"node_modules/lib/index.js": "module.exports = 1;\n",
		"dist/bundle.js":            "var a;\n",
		".handover/cache/x.js":      "var b;\n",
		"index.js":                  "require('./lib');\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	// Should only find index.js
	if got := relPaths(t, tmpDir, result); !equalPaths(got, []string{"index.js"}) {
		t.Errorf("ScanDir() = %v, want [index.js] (excluded dirs should be skipped)", got)
	}
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"main.ts":         "export {};\n",
		"app.min.js":      "var a;\n",
		"types/env.d.ts":  "declare const x: string;\n",
		"scripts/tool.js": "console.log(1);\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "scripts/")

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if got := relPaths(t, tmpDir, result); !equalPaths(got, []string{"main.ts"}) {
		t.Errorf("ScanDir() = %v, want [main.ts]", got)
	}
}

func TestScanDirGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	writeTree(t, tmpDir, map[string]string{
		".gitignore":            "generated/\n*.gen.ts\n",
		"generated/client.ts":   "export {};\n",
		"src/schema.gen.ts":     "export {};\n",
		"src/schema.ts":         "export {};\n",
		"packages/web/index.ts": "export {};\n",
	})

	t.Run("enabled", func(t *testing.T) {
		result, err := NewScanner(nil).ScanDir(tmpDir)
		if err != nil {
			t.Fatalf("ScanDir() error: %v", err)
		}
		want := []string{"packages/web/index.ts", "src/schema.ts"}
		if got := relPaths(t, tmpDir, result); !equalPaths(got, want) {
			t.Errorf("ScanDir() = %v, want %v", got, want)
		}
	})

	t.Run("subdirectory of repository", func(t *testing.T) {
		writeTree(t, tmpDir, map[string]string{"packages/web/generated/api.ts": "export {};\n"})
		sub := filepath.Join(tmpDir, "packages", "web")

		result, err := NewScanner(nil).ScanDir(sub)
		if err != nil {
			t.Fatalf("ScanDir() error: %v", err)
		}
		if got := relPaths(t, sub, result); !equalPaths(got, []string{"index.ts"}) {
			t.Errorf("ScanDir() = %v, want [index.ts]", got)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Exclude.Gitignore = false
		result, err := NewScanner(cfg).ScanDir(tmpDir)
		if err != nil {
			t.Fatalf("ScanDir() error: %v", err)
		}
		if len(result) != 5 {
			t.Errorf("ScanDir() found %d files, want 5", len(result))
		}
	})
}

func TestScanDirMaxFileSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"small.ts": "export {};\n",
		"large.ts": string(make([]byte, 4096)),
	})

	cfg := config.DefaultConfig()
	cfg.Analysis.MaxFileSize = 1024

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if got := relPaths(t, tmpDir, result); !equalPaths(got, []string{"small.ts"}) {
		t.Errorf("ScanDir() = %v, want [small.ts]", got)
	}
}

func TestScanDirLanguages(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.ts": "export {};\n",
		"b.js": "var b;\n",
	})

	cfg := config.DefaultConfig()
	cfg.Analysis.Languages = []string{"JavaScript"}

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if got := relPaths(t, tmpDir, result); !equalPaths(got, []string{"b.js"}) {
		t.Errorf("ScanDir() = %v, want [b.js]", got)
	}
}

func TestScanDirSymlinkOutsideRoot(t *testing.T) {
	outside := t.TempDir()
	tmpDir := t.TempDir()
	writeTree(t, outside, map[string]string{"secret.ts": "export const key = 1;\n"})
	writeTree(t, tmpDir, map[string]string{"main.ts": "export {};\n"})

	if err := os.Symlink(filepath.Join(outside, "secret.ts"), filepath.Join(tmpDir, "link.ts")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if got := relPaths(t, tmpDir, result); !equalPaths(got, []string{"main.ts"}) {
		t.Errorf("ScanDir() = %v, want [main.ts]", got)
	}
}

func TestScanDirNonExistent(t *testing.T) {
	_, err := NewScanner(nil).ScanDir("/nonexistent/project")
	if err == nil {
		t.Fatal("ScanDir() should fail for a missing root")
	}
	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("error = %T, want *PathError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  string
		want     bool
	}{
		{"typescript file", "main.ts", "export {};\n", true},
		{"javascript file", "index.js", "var a;\n", true},
		{"python file", "script.py", "# python\n", false},
		{"directory", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.filename == "" {
				path = tmpDir
			} else {
				path = filepath.Join(tmpDir, tt.filename)
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to create file: %v", err)
				}
			}

			got, err := NewScanner(nil).ScanFile(path)
			if err != nil {
				t.Fatalf("ScanFile() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ScanFile(%s) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestScanFileNonExistent(t *testing.T) {
	_, err := NewScanner(nil).ScanFile("/nonexistent/path/file.ts")
	if err == nil {
		t.Error("ScanFile() should return error for non-existent file")
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []string{
		"README.md",
		"node_modules/react/index.js",
		"src/index.ts",
		"src/vendor.min.js",
		"src/types.d.ts",
		"test/app.js",
	}

	got := NewScanner(nil).FilterEntries(entries)
	want := []string{"src/index.ts", "test/app.js"}
	if !equalPaths(got, want) {
		t.Errorf("FilterEntries() = %v, want %v", got, want)
	}
}

func TestGroupByLanguage(t *testing.T) {
	files := []string{
		"/path/to/main.ts",
		"/path/to/lib.ts",
		"/path/to/app.js",
		"/path/to/readme.txt",
	}

	groups := NewScanner(nil).GroupByLanguage(files)

	if len(groups[parser.LangTypeScript]) != 2 {
		t.Errorf("GroupByLanguage() TypeScript group has %d files, want 2", len(groups[parser.LangTypeScript]))
	}
	if len(groups[parser.LangJavaScript]) != 1 {
		t.Errorf("GroupByLanguage() JavaScript group has %d files, want 1", len(groups[parser.LangJavaScript]))
	}
	if len(groups[parser.LangText]) != 1 {
		t.Errorf("GroupByLanguage() text group has %d files, want 1", len(groups[parser.LangText]))
	}
}
