package complexity

import (
	"context"
	"testing"

	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
	"github.com/panbanda/handover/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTS(t *testing.T, src string) *ast.Tree {
	t.Helper()
	p := parser.New()
	defer p.Close()
	result, err := p.Parse(context.Background(), []byte(src), "sample.ts")
	require.NoError(t, err)
	return result.Tree
}

func firstFunction(t *testing.T, tree *ast.Tree) ast.NodeID {
	t.Helper()
	for id := range tree.Descendants(tree.Root()) {
		if tree.Kind(id).IsFunction() || tree.Kind(id) == ast.KindMethodDefinition {
			return id
		}
	}
	t.Fatal("no function in sample")
	return ast.NoNode
}

func TestCyclomatic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "straight line",
			src:  "function f() { return 1; }",
			want: 1,
		},
		{
			name: "single if",
			src:  "function f(id) { if (!id) return null; return id; }",
			want: 2,
		},
		{
			name: "if else chain",
			src:  "function f(x) { if (x > 1) { return 1; } else if (x > 0) { return 0; } return -1; }",
			want: 3,
		},
		{
			name: "loops",
			src:  "function f(xs) { for (const x of xs) {} for (let i = 0; i < 2; i++) {} while (true) {} do {} while (false); }",
			want: 5,
		},
		{
			name: "short circuit",
			src:  "function f(a, b, c) { return a && b || c; }",
			want: 3,
		},
		{
			name: "arithmetic is not a branch",
			src:  "function f(a, b) { return a + b * 2; }",
			want: 1,
		},
		{
			name: "ternary",
			src:  "const f = (a) => a ? 1 : 2;",
			want: 2,
		},
		{
			name: "switch",
			src:  "function f(x) { switch (x) { case 1: return 'a'; case 2: return 'b'; default: return 'c'; } }",
			want: 4,
		},
		{
			name: "nested function counts toward outer",
			src:  "function f(a) { const g = () => { if (a) {} }; return g; }",
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseTS(t, tt.src)
			got := Cyclomatic(tree, firstFunction(t, tree))
			if got != tt.want {
				t.Errorf("Cyclomatic() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountDecisionPointsNoNode(t *testing.T) {
	tree := parseTS(t, "const x = 1;")
	assert.Equal(t, 0, CountDecisionPoints(tree, ast.NoNode))
}

func TestSummarize(t *testing.T) {
	files := []models.FileAnalysis{
		{
			RelativePath: "src/a.ts",
			Functions: []models.FunctionInfo{
				{Name: "a1", Line: 1, Complexity: 1},
				{Name: "a2", Line: 5, Complexity: 7},
			},
		},
		{
			RelativePath: "src/b.ts",
			Classes: []models.ClassInfo{
				{Name: "Svc", Methods: []models.MethodInfo{
					{Name: "run", Line: 3, Complexity: 3},
					{Name: "stop", Line: 9, Complexity: 1},
				}},
			},
		},
	}

	s := Summarize(files, 2)
	require.NotNil(t, s)
	assert.Equal(t, 4, s.Functions)
	assert.Equal(t, 12, s.Total)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.Equal(t, 7, s.Max)
	assert.Equal(t, 7.0, s.P90)
	require.Len(t, s.Hotspots, 2)
	assert.Equal(t, "a2", s.Hotspots[0].Name)
	assert.Equal(t, "Svc.run", s.Hotspots[1].Name)
	assert.Equal(t, "src/b.ts", s.Hotspots[1].File)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Nil(t, Summarize(nil, 0))
	assert.Nil(t, Summarize([]models.FileAnalysis{{RelativePath: "x.ts"}}, 0))
}

func TestSummarizeTiesAreStable(t *testing.T) {
	files := []models.FileAnalysis{
		{RelativePath: "b.ts", Functions: []models.FunctionInfo{{Name: "b", Line: 1, Complexity: 2}}},
		{RelativePath: "a.ts", Functions: []models.FunctionInfo{{Name: "a", Line: 4, Complexity: 2}}},
	}
	s := Summarize(files, 0)
	require.NotNil(t, s)
	assert.Equal(t, "a", s.Hotspots[0].Name)
	assert.Equal(t, "b", s.Hotspots[1].Name)
}
