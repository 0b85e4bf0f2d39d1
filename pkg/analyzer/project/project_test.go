package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/handover/pkg/analyzer/deps"
	"github.com/panbanda/handover/pkg/config"
	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

const serverTS = `import express from 'express';
import { listOrders } from './services/orderService';

const app = express();
// TODO: add auth
app.get('/orders', async (req, res) => {
  res.json(await listOrders());
});
app.listen(process.env.PORT);
`

const orderServiceTS = `import { db } from '../db';

export async function listOrders() {
  if (!db) return [];
  return db.orders;
}
`

var expressProject = map[string]string{
	"package.json":                 `{"name": "orders-api", "dependencies": {"express": "^4.18.0"}, "devDependencies": {"jest": "^29.0.0"}}`,
	"Dockerfile":                   "FROM node:20-alpine\nCMD [\"node\", \"dist/server.js\"]\n",
	"README.md":                    "# orders\n",
	"src/db.ts":                    "export const db = { orders: [] };\n",
	"src/server.ts":                serverTS,
	"src/services/orderService.ts": orderServiceTS,
}

var expressPaths = []string{
	"src/server.ts",
	"README.md",
	"src/services/orderService.ts",
	"src/db.ts",
}

func TestAnalyzeExpressProject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, expressProject)

	result, err := New(root).Analyze(context.Background(), expressPaths)
	require.NoError(t, err)

	assert.Equal(t, "orders-api", result.ProjectName)
	assert.Equal(t, "Express", result.Framework)
	assert.Equal(t, 4, result.TotalFiles)
	assert.Equal(t, map[string]int{"markdown": 1, "typescript": 3}, result.Languages)

	total := 0
	for _, f := range result.Files {
		total += f.Size
	}
	assert.Equal(t, total, result.TotalLines)

	// Files are sorted regardless of input order
	require.Len(t, result.Files, 4)
	assert.Equal(t, "README.md", result.Files[0].RelativePath)
	assert.Equal(t, "src/services/orderService.ts", result.Files[3].RelativePath)

	assert.Equal(t, map[string]string{"express": "^4.18.0"}, result.Dependencies.Production)
	assert.Equal(t, map[string]string{"jest": "^29.0.0"}, result.Dependencies.Development)
	assert.Equal(t, []models.DependencyEdge{
		{From: "src/server.ts", To: "./services/orderService", Type: models.EdgeImport},
		{From: "src/services/orderService.ts", To: "../db", Type: models.EdgeImport},
	}, result.Dependencies.Internal)
	assert.Empty(t, result.Dependencies.Cycles)

	assert.Equal(t, []string{"src/server.ts"}, result.Architecture.EntryPoints)
	assert.Equal(t, []models.Layer{
		{Name: "Services", Files: []string{"src/services/orderService.ts"}},
	}, result.Architecture.Layers)
	assert.Contains(t, result.Architecture.Patterns, "Service Layer Pattern")
	assert.Contains(t, result.Architecture.Patterns, "Modular Architecture")

	require.Len(t, result.APIRoutes, 1)
	assert.Equal(t, "GET", result.APIRoutes[0].Method)
	assert.Equal(t, "/orders", result.APIRoutes[0].Path)
	assert.Equal(t, "src/server.ts", result.APIRoutes[0].File)

	require.Len(t, result.Todos, 1)
	assert.Equal(t, models.TodoItem{File: "src/server.ts", Line: 5, Type: models.TodoTODO, Text: "add auth"}, result.Todos[0])

	assert.Equal(t, []string{"PORT"}, result.EnvVars)
	assert.Equal(t, "Unknown", result.Database.Type)

	assert.True(t, result.Infrastructure.Docker.HasDockerfile)
	assert.Equal(t, "node:20-alpine", result.Infrastructure.Docker.BaseImage)

	require.NotNil(t, result.Complexity)
	assert.Equal(t, 2, result.Complexity.Max)
}

func TestAnalyzeDepth(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.ts": "import { b } from './b';\nexport function a() { return b(); }\n",
		"b.ts": "import { a } from './a';\nexport function b() { return a ? 1 : 2; }\n",
	})
	paths := []string{"a.ts", "b.ts"}

	tests := []struct {
		depth          config.Depth
		wantComplexity bool
		wantCycles     bool
	}{
		{config.DepthBasic, false, false},
		{config.DepthDetailed, true, false},
		{config.DepthComprehensive, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.depth), func(t *testing.T) {
			result, err := New(root, WithDepth(tt.depth)).Analyze(context.Background(), paths)
			require.NoError(t, err)

			assert.Equal(t, tt.wantComplexity, result.Complexity != nil)
			if tt.wantCycles {
				assert.Equal(t, [][]string{{"a.ts", "b.ts"}}, result.Dependencies.Cycles)
				assert.Equal(t, []models.ModuleHub{
					{File: "a.ts", FanIn: 1, Imports: []string{"b.ts"}},
					{File: "b.ts", FanIn: 1, Imports: []string{"a.ts"}},
				}, result.Dependencies.Hubs)
			} else {
				assert.Empty(t, result.Dependencies.Cycles)
				assert.Empty(t, result.Dependencies.Hubs)
			}
		})
	}
}

func TestProjectName(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"index.js": "module.exports = {};\n"})

	result, err := New(root).Analyze(context.Background(), []string{"index.js"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(root), result.ProjectName)
	assert.Equal(t, "Unknown", result.Framework)
	assert.Equal(t, []string{"index.js"}, result.Architecture.EntryPoints)

	result, err = New(root, WithProjectName("configured")).Analyze(context.Background(), []string{"index.js"})
	require.NoError(t, err)
	assert.Equal(t, "configured", result.ProjectName)
}

func TestAnalyzeFromInventoryAndSource(t *testing.T) {
	src := source.Memory{
		"package.json":         `{"dependencies": {"@prisma/client": "5.0.0", "next": "14.0.0"}}`,
		"prisma/schema.prisma": "model User {\n  id Int @id\n}\nmodel Post {\n  id Int @id\n}\n",
		"pages/api/users.ts":   "export default function handler(req, res) {}\n",
	}
	inv := source.NewInventory([]string{"package.json", "prisma/schema.prisma", "pages/api/users.ts"}, []string{"pages", "pages/api", "prisma"})

	result, err := New("", WithSource(src), WithInventory(inv), WithProjectName("web")).
		Analyze(context.Background(), []string{"pages/api/users.ts"})
	require.NoError(t, err)

	assert.Equal(t, "Next.js", result.Framework)
	assert.Equal(t, "Prisma", result.Database.Type)
	assert.Equal(t, []string{"User", "Post"}, result.Database.Models)
	require.Len(t, result.APIRoutes, 1)
	assert.Equal(t, models.APIRoute{Method: "ALL", Path: "/api/users", File: "pages/api/users.ts", Line: 1, Framework: "Next.js (Pages)"}, result.APIRoutes[0])
}

func TestAggregateEmpty(t *testing.T) {
	result := New(t.TempDir(), WithProjectName("empty")).Aggregate(nil, deps.EmptyManifest())

	assert.Equal(t, 0, result.TotalFiles)
	assert.NotNil(t, result.Files)
	assert.NotNil(t, result.Todos)
	assert.NotNil(t, result.EnvVars)
	assert.NotNil(t, result.APIRoutes)
	assert.NotNil(t, result.Architecture.Layers)
	assert.Equal(t, "Unknown", result.Framework)
	assert.Nil(t, result.Complexity)
}

func TestAnalyzeCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, expressProject)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(root).Analyze(ctx, expressPaths)
	assert.ErrorIs(t, err, context.Canceled)
}
