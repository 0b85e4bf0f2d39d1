package models

import (
	"bytes"
	"strings"
	"testing"
)

func sampleProject() *ProjectAnalysis {
	return &ProjectAnalysis{
		ProjectName: "orders-api",
		Revision:    "3f2c9e1",
		Framework:   "Express",
		TotalFiles:  3,
		TotalLines:  42,
		Languages:   map[string]int{"typescript": 2, "markdown": 1},
		Dependencies: DependencyInfo{
			Production:  map[string]string{"express": "^4.18.0"},
			Development: map[string]string{},
			Internal:    []DependencyEdge{{From: "src/a.ts", To: "./b", Type: EdgeImport}},
			Cycles:      [][]string{{"src/a.ts", "src/b.ts"}},
			Hubs:        []ModuleHub{{File: "src/db.ts", FanIn: 4, Imports: []string{}}},
		},
		Architecture: ArchitectureInfo{
			EntryPoints: []string{"src/server.ts"},
			Layers:      []Layer{{Name: "Services", Files: []string{"src/services/order.ts"}}},
			Patterns:    []string{"Service Layer Pattern"},
		},
		Todos:     []TodoItem{{File: "src/server.ts", Line: 5, Type: TodoTODO, Text: "add auth"}},
		EnvVars:   []string{"PORT"},
		APIRoutes: []APIRoute{{Method: "GET", Path: "/orders", File: "src/server.ts", Line: 6, Framework: "Express/Fastify/Koa"}},
		Database:  DatabaseInfo{Type: "Prisma", Models: []string{"Order"}},
		Infrastructure: InfrastructureInfo{
			Docker: DockerInfo{HasDockerfile: true, BaseImage: "node:20-alpine", Services: []string{}},
		},
		Complexity: &ComplexitySummary{
			Functions: 2, Total: 3, Mean: 1.5, Median: 1.5, P90: 2, Max: 2,
			Hotspots: []ComplexityRecord{{File: "src/services/order.ts", Name: "listOrders", Line: 3, Complexity: 2}},
		},
	}
}

func TestProjectAnalysisRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleProject().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Project: orders-api",
		"Framework:  Express",
		"Revision:   3f2c9e1",
		"typescript (2), markdown (1)",
		"Entry points: src/server.ts",
		"Services (1)",
		"cycle: src/a.ts -> src/b.ts",
		"hub: src/db.ts (imported by 4)",
		"GET     /orders  src/server.ts:6",
		"Dockerfile (node:20-alpine)",
		"src/server.ts:5 TODO: add auth",
		"listOrders",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() missing %q in:\n%s", want, out)
		}
	}
}

func TestProjectAnalysisRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleProject().RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# orders-api",
		"| Framework | Express |",
		"### Services",
		"| GET | `/orders` | src/server.ts:6 | Express/Fastify/Koa |",
		"- `express` ^4.18.0",
		"- `src/db.ts` imported by 4",
		"- **TODO** add auth (`src/server.ts:5`)",
		"| listOrders | src/services/order.ts:3 | 2 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderMarkdown() missing %q in:\n%s", want, out)
		}
	}
}

func TestProjectAnalysisRenderEmpty(t *testing.T) {
	p := &ProjectAnalysis{ProjectName: "empty", Framework: UnknownFramework}

	var buf bytes.Buffer
	if err := p.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	if !strings.Contains(buf.String(), "Entry points: none") {
		t.Errorf("empty lists should render as none:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Complexity") {
		t.Error("a missing complexity summary should not render")
	}
	if strings.Contains(buf.String(), "Revision") {
		t.Error("a working-directory analysis should not render a revision")
	}
	if p.RenderData() != p {
		t.Error("RenderData() should return the analysis itself")
	}
}

func TestFileAnalysisRender(t *testing.T) {
	f := &FileAnalysis{
		RelativePath: "src/user.ts",
		Language:     "typescript",
		Size:         20,
		Functions:    []FunctionInfo{{Name: "getUser", Line: 3, Params: []string{"id"}, Complexity: 2, IsExported: true}},
		Classes: []ClassInfo{{
			Name: "UserService", Line: 8, Doc: "Loads users.",
			Methods: []MethodInfo{{Name: "find", Params: []string{"id"}, Visibility: VisibilityPublic, Complexity: 1}},
		}},
		Imports: []ImportInfo{{Source: "./db", Specifiers: []string{"db"}, Line: 1}},
		Exports: []ExportInfo{{Name: "getUser", Kind: ExportFunction, Line: 3}},
	}

	var text bytes.Buffer
	if err := f.RenderText(&text, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	for _, want := range []string{"src/user.ts", "func getUser(id) line 3 complexity 2", "class UserService", "public find(id)", `import db from "./db"`, "export function getUser"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("RenderText() missing %q in:\n%s", want, text.String())
		}
	}

	var md bytes.Buffer
	if err := f.RenderMarkdown(&md); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	for _, want := range []string{"## `src/user.ts`", "| getUser | 3 | 2 | true |", "### class UserService", "Loads users."} {
		if !strings.Contains(md.String(), want) {
			t.Errorf("RenderMarkdown() missing %q in:\n%s", want, md.String())
		}
	}
}
