package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panbanda/handover/internal/cache"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const serverTS = `import express from 'express';

const app = express();

app.get('/users/:id', (req, res) => {
  res.json(findUser(req.params.id));
});

export function findUser(id: string) {
  if (!id) {
    return null;
  }
  return { id };
}

app.listen(process.env.PORT);
`

func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"package.json":  `{"name": "users-api", "dependencies": {"express": "^4.18.0"}}`,
		"src/server.ts": serverTS,
		"src/util.js":   "export const id = (x) => x;\n",
	}
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

// runApp runs the CLI with args and returns what it wrote to its writer.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"handover"}, args...))
	return buf.String(), err
}

func TestGetPath(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "no args", args: []string{}, expected: ""},
		{name: "single path", args: []string{"/foo/bar"}, expected: "/foo/bar"},
		{name: "first of many", args: []string{"/foo", "/bar"}, expected: "/foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					if got := getPath(c); got != tt.expected {
						t.Errorf("getPath() = %q, want %q", got, tt.expected)
					}
					return nil
				},
			}
			_ = app.Run(append([]string{"test"}, tt.args...))
		})
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	quiet := newLogger(false)
	assert.False(t, quiet.Enabled(ctx, slog.LevelInfo))
	assert.True(t, quiet.Enabled(ctx, slog.LevelWarn))

	verbose := newLogger(true)
	assert.True(t, verbose.Enabled(ctx, slog.LevelDebug))
}

func TestConfigDir(t *testing.T) {
	root := writeFixture(t)

	assert.Equal(t, ".", configDir(""))
	assert.Equal(t, root, configDir(root))
	assert.Equal(t, filepath.Join(root, "src"), configDir(filepath.Join(root, "src", "server.ts")))
}

func TestLoadConfig(t *testing.T) {
	t.Run("found in project dir", func(t *testing.T) {
		root := writeFixture(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, "handover.toml"), []byte("[analysis]\ndepth = \"basic\"\n"), 0o644))

		app := newApp()
		app.Action = func(c *cli.Context) error {
			path, cfg, err := loadConfig(c)
			require.NoError(t, err)
			assert.Equal(t, root, path)
			assert.Equal(t, config.DepthBasic, cfg.Analysis.Depth)
			return nil
		}
		require.NoError(t, app.Run([]string{"handover", root}))
	})

	t.Run("explicit config", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "custom.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("project:\n  path: ./web\n"), 0o644))

		app := newApp()
		app.Action = func(c *cli.Context) error {
			path, cfg, err := loadConfig(c)
			require.NoError(t, err)
			assert.Equal(t, "./web", path)
			assert.Equal(t, "./web", cfg.Project.Path)
			return nil
		}
		require.NoError(t, app.Run([]string{"handover", "--config", cfgPath}))
	})

	t.Run("invalid config", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "handover.toml"), []byte("[analysis]\ndepth = \"deep\"\n"), 0o644))

		app := newApp()
		app.Action = func(c *cli.Context) error {
			_, _, err := loadConfig(c)
			var verr *config.ValidationError
			assert.ErrorAs(t, err, &verr)
			return nil
		}
		require.NoError(t, app.Run([]string{"handover", root}))
	})
}

func TestOpenCache(t *testing.T) {
	root := t.TempDir()

	app := newApp()
	app.Action = func(c *cli.Context) error {
		fileCache, err := openCache(c, config.DefaultConfig(), root)
		require.NoError(t, err)
		assert.Equal(t, !c.Bool("no-cache"), fileCache.Enabled())
		return nil
	}

	require.NoError(t, app.Run([]string{"handover"}))
	assert.DirExists(t, filepath.Join(root, ".handover", "cache"))

	require.NoError(t, app.Run([]string{"handover", "--no-cache"}))
}

func TestGenerateDefaultConfig(t *testing.T) {
	content, err := generateDefaultConfig()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(content, "# handover configuration\n"))

	path := filepath.Join(t.TempDir(), "handover.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.Analysis.Depth, cfg.Analysis.Depth)
	assert.Equal(t, defaults.Include.Patterns, cfg.Include.Patterns)
	assert.Equal(t, defaults.Exclude.Dirs, cfg.Exclude.Dirs)
	assert.Equal(t, defaults.Cache.TTL, cfg.Cache.TTL)
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".handover", "handover.toml")

	_, err := runApp(t, "init", "-o", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = runApp(t, "init", "-o", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runApp(t, "init", "-o", path, "--force")
	require.NoError(t, err)
}

func TestAnalyzeCmd(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "analysis.json")

	_, err := runApp(t, "--format", "json", "--output", out, "--no-cache", "analyze", "--no-progress", root)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result models.ProjectAnalysis
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, "users-api", result.ProjectName)
	assert.Equal(t, "Express", result.Framework)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, []string{"PORT"}, result.EnvVars)
	require.Len(t, result.APIRoutes, 1)
	assert.Equal(t, "/users/:id", result.APIRoutes[0].Path)
}

func TestAnalyzeCmdMarkdown(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "analysis.md")

	_, err := runApp(t, "--format", "markdown", "--output", out, "--no-cache", "analyze", "--no-progress", root)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# users-api"))
}

func TestAnalyzeCmdInvalidDepth(t *testing.T) {
	root := writeFixture(t)

	_, err := runApp(t, "--no-cache", "analyze", "--no-progress", "--depth", "deep", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--depth")
}

func TestAnalyzeCmdUnknownFormat(t *testing.T) {
	root := writeFixture(t)

	_, err := runApp(t, "--format", "yaml", "--no-cache", "analyze", "--no-progress", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--format")
}

func TestAnalyzeCmdMissingPath(t *testing.T) {
	_, err := runApp(t, "--no-cache", "analyze", "--no-progress", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFilesCmd(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "files.json")

	_, err := runApp(t, "--format", "json", "--output", out, "--no-cache", "files", root)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var files []models.FileAnalysis
	require.NoError(t, json.Unmarshal(data, &files))
	require.Len(t, files, 2)
	assert.Equal(t, "src/server.ts", files[0].RelativePath)
	assert.Equal(t, "src/util.js", files[1].RelativePath)
}

func TestFilesCmdNamedFiles(t *testing.T) {
	root := writeFixture(t)
	out := filepath.Join(t.TempDir(), "files.json")

	_, err := runApp(t, "--format", "json", "--output", out, "--no-cache", "files", root, "src/util.js")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var files []models.FileAnalysis
	require.NoError(t, json.Unmarshal(data, &files))
	require.Len(t, files, 1)
	assert.Equal(t, "src/util.js", files[0].RelativePath)

	_, err = runApp(t, "--no-cache", "files", "--ref", "HEAD", root, "src/util.js")
	assert.Error(t, err)
}

func TestFileTable(t *testing.T) {
	files := []models.FileAnalysis{
		{
			RelativePath: "src/a.ts",
			Language:     "typescript",
			Size:         10,
			Functions:    []models.FunctionInfo{{Name: "f", Complexity: 3}},
			Classes: []models.ClassInfo{{
				Name:    "C",
				Methods: []models.MethodInfo{{Name: "m", Complexity: 5}},
			}},
		},
		{RelativePath: "src/b.js", Language: "javascript", Size: 4},
	}

	table := fileTable(files)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"src/a.ts", "typescript", "10", "1", "1", "0", "0", "5"}, table.Rows[0])
	assert.Equal(t, "0", table.Rows[1][7])
	assert.Equal(t, "2 files", table.Footer[0])
	assert.Equal(t, "14", table.Footer[2])
}

func TestConfigCmds(t *testing.T) {
	root := t.TempDir()
	valid := filepath.Join(root, "handover.toml")
	require.NoError(t, os.WriteFile(valid, []byte("[analysis]\ndepth = \"comprehensive\"\n"), 0o644))
	invalid := filepath.Join(root, "bad.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[analysis]\nthreads = 4\n"), 0o644))

	_, err := runApp(t, "config", "validate", valid)
	assert.NoError(t, err)

	_, err = runApp(t, "config", "validate", invalid)
	var verr *config.ValidationError
	assert.ErrorAs(t, err, &verr)

	out, err := runApp(t, "config", "show", root)
	require.NoError(t, err)
	assert.Contains(t, out, `depth = "comprehensive"`)
}

func TestCacheCmds(t *testing.T) {
	root := writeFixture(t)

	_, err := runApp(t, "--format", "json", "--output", filepath.Join(t.TempDir(), "a.json"), "analyze", "--no-progress", root)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "stats.json")
	_, err = runApp(t, "--format", "json", "--output", out, "cache", "stats", root)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 2, stats.Entries)
	assert.Positive(t, stats.TotalSize)

	_, err = runApp(t, "cache", "prune", root)
	require.NoError(t, err)

	_, err = runApp(t, "cache", "clear", root)
	require.NoError(t, err)

	fileCache, err := cache.New(filepath.Join(root, ".handover", "cache"), 24, true)
	require.NoError(t, err)
	after, err := fileCache.GetStats()
	require.NoError(t, err)
	assert.Zero(t, after.Entries)
}

func TestMCPManifestCmd(t *testing.T) {
	out, err := runApp(t, "mcp", "manifest")
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, "io.github.panbanda/handover", manifest["name"])
	assert.Equal(t, version, manifest["version"])
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
