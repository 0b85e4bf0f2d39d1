package deps

import (
	"path"
	"slices"
	"strings"

	"github.com/panbanda/handover/pkg/models"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// resolveExtensions are tried in order when a specifier has no extension
// that names a known file.
var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Graph is the import graph over resolved project files.
type Graph struct {
	directed *simple.DirectedGraph
	pathToID map[string]int64
	idToPath map[int64]string
}

// BuildGraph resolves each edge target against the importing file's
// directory and the analyzed files. Edges that resolve to no file, or to
// the importing file itself, are dropped.
func BuildGraph(files []models.FileAnalysis, edges []models.DependencyEdge) *Graph {
	g := &Graph{
		directed: simple.NewDirectedGraph(),
		pathToID: make(map[string]int64, len(files)),
		idToPath: make(map[int64]string, len(files)),
	}
	for i, f := range files {
		id := int64(i)
		g.pathToID[f.RelativePath] = id
		g.idToPath[id] = f.RelativePath
		g.directed.AddNode(simple.Node(id))
	}

	for _, e := range edges {
		target, ok := g.ResolveSpecifier(e.From, e.To)
		if !ok {
			continue
		}
		from, ok := g.pathToID[e.From]
		if !ok {
			continue
		}
		to := g.pathToID[target]
		if from == to {
			continue
		}
		g.directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
	return g
}

// ResolveSpecifier maps a relative import written in from to a known file.
func (g *Graph) ResolveSpecifier(from, spec string) (string, bool) {
	var base string
	if strings.HasPrefix(spec, "/") {
		base = path.Clean(strings.TrimPrefix(spec, "/"))
	} else {
		base = path.Join(path.Dir(from), spec)
	}
	if strings.HasPrefix(base, "../") || base == ".." {
		return "", false
	}

	candidates := []string{base}
	for _, ext := range resolveExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range resolveExtensions {
		candidates = append(candidates, path.Join(base, "index"+ext))
	}
	for _, c := range candidates {
		if _, ok := g.pathToID[c]; ok {
			return c, true
		}
	}
	return "", false
}

// Imports returns the resolved files imported by file, sorted.
func (g *Graph) Imports(file string) []string {
	id, ok := g.pathToID[file]
	if !ok {
		return nil
	}
	var out []string
	nodes := g.directed.From(id)
	for nodes.Next() {
		out = append(out, g.idToPath[nodes.Node().ID()])
	}
	slices.Sort(out)
	return out
}

// FanIn returns the number of distinct files importing file.
func (g *Graph) FanIn(file string) int {
	id, ok := g.pathToID[file]
	if !ok {
		return 0
	}
	return g.directed.To(id).Len()
}

// Hubs returns up to limit files with the highest fan-in, most imported
// first and ties broken by path. Files nobody imports are left out.
func (g *Graph) Hubs(limit int) []models.ModuleHub {
	var hubs []models.ModuleHub
	for _, file := range g.idToPath {
		n := g.FanIn(file)
		if n == 0 {
			continue
		}
		imports := g.Imports(file)
		if imports == nil {
			imports = []string{}
		}
		hubs = append(hubs, models.ModuleHub{File: file, FanIn: n, Imports: imports})
	}
	slices.SortFunc(hubs, func(a, b models.ModuleHub) int {
		if a.FanIn != b.FanIn {
			return b.FanIn - a.FanIn
		}
		return strings.Compare(a.File, b.File)
	})
	if limit > 0 && len(hubs) > limit {
		hubs = hubs[:limit]
	}
	return hubs
}

// Cycles returns every group of files that import each other, directly or
// transitively. Files in a group are sorted and groups are ordered by
// their first file.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	for _, scc := range topo.TarjanSCC(g.directed) {
		if len(scc) < 2 {
			continue
		}
		group := make([]string, 0, len(scc))
		for _, n := range scc {
			group = append(group, g.idToPath[n.ID()])
		}
		slices.Sort(group)
		cycles = append(cycles, group)
	}
	slices.SortFunc(cycles, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return cycles
}
