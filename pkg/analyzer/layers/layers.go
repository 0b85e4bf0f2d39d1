// Package layers assigns analyzed files to architectural layers.
//
// Classification runs in three stages. Framework rules come first and may
// place a file in several layers. Files they leave alone get at most one
// layer from the generic path keyword rules. Whatever is still unplaced is
// scored by fan-in over the internal import edges.
package layers

import (
	"path"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/handover/pkg/analyzer/framework"
	"github.com/panbanda/handover/pkg/models"
)

// Layer names, in output order.
const (
	Controllers   = "Controllers/Routes"
	Services      = "Services/Business Logic"
	DataAccess    = "Data Access/Repositories"
	Models        = "Models/Types"
	Utilities     = "Utilities"
	Configuration = "Configuration"
	Tests         = "Tests"
	Components    = "Components"
	Pages         = "Pages"
	Hooks         = "Hooks"
	Core          = "Core"
	Shared        = "Shared"
)

var order = []string{
	Controllers, Services, DataAccess, Models, Utilities, Configuration,
	Tests, Components, Pages, Hooks, Core, Shared,
}

// Fan-in above these counts makes an unclassified file Core or Shared.
const (
	CoreFanIn   = 5
	SharedFanIn = 2
)

// Classifier holds one bitmap of file indexes per layer.
type Classifier struct {
	files  []models.FileAnalysis
	lower  []string
	layers map[string]*roaring.Bitmap
}

// NewClassifier prepares an empty classification over files.
func NewClassifier(files []models.FileAnalysis) *Classifier {
	c := &Classifier{
		files:  files,
		lower:  make([]string, len(files)),
		layers: make(map[string]*roaring.Bitmap, len(order)),
	}
	for i, f := range files {
		c.lower[i] = strings.ToLower(f.RelativePath)
	}
	for _, name := range order {
		c.layers[name] = roaring.New()
	}
	return c
}

func (c *Classifier) add(layer string, i int) {
	c.layers[layer].Add(uint32(i))
}

func (c *Classifier) classified(i int) bool {
	for _, bm := range c.layers {
		if bm.Contains(uint32(i)) {
			return true
		}
	}
	return false
}

// Classify runs all three stages and returns the non-empty layers.
func Classify(files []models.FileAnalysis, fw string, edges []models.DependencyEdge) []models.Layer {
	c := NewClassifier(files)
	for i := range files {
		c.ApplyFramework(i, fw)
		if !c.classified(i) {
			c.ApplyGeneric(i)
		}
	}
	c.ApplyFanIn(edges)
	return c.Layers()
}

// ApplyFramework runs the stage one rules of fw on file i.
func (c *Classifier) ApplyFramework(i int, fw string) {
	p := c.lower[i]
	switch {
	case fw == framework.NestJS:
		switch {
		case c.hasClassSuffix(i, "Controller"):
			c.add(Controllers, i)
		case c.hasClassSuffix(i, "Service"):
			c.add(Services, i)
		case c.hasClassSuffix(i, "Module"):
			c.add(Configuration, i)
		}

	case framework.IsFrontend(fw):
		if strings.Contains(p, "/components/") {
			c.add(Components, i)
		}
		if strings.Contains(p, "/pages/") || strings.Contains(p, "/app/") {
			c.add(Pages, i)
		}
		if strings.Contains(p, "/hooks/") || strings.Contains(p, "/composables/") || strings.Contains(p, "use") {
			c.add(Hooks, i)
		}
		if strings.Contains(p, "/store/") || strings.Contains(p, "/state/") {
			c.add(Services, i)
		}

	case fw == framework.Angular:
		switch {
		case strings.HasSuffix(p, ".component.ts"):
			c.add(Components, i)
		case strings.HasSuffix(p, ".service.ts"):
			c.add(Services, i)
		case strings.Contains(p, "routing.module.ts"), strings.HasSuffix(p, ".routes.ts"), strings.HasSuffix(p, ".route.ts"):
			c.add(Controllers, i)
		case strings.HasSuffix(p, ".module.ts"):
			c.add(Configuration, i)
		case strings.HasSuffix(p, ".pipe.ts"):
			c.add(Utilities, i)
		case strings.HasSuffix(p, ".directive.ts"):
			c.add(Components, i)
		case strings.HasSuffix(p, ".guard.ts"), strings.HasSuffix(p, ".interceptor.ts"):
			c.add(Services, i)
		}
	}
}

func (c *Classifier) hasClassSuffix(i int, suffix string) bool {
	for _, cls := range c.files[i].Classes {
		if strings.HasSuffix(cls.Name, suffix) {
			return true
		}
	}
	return false
}

type keywordRule struct {
	keywords []string
	layer    string
}

var genericRules = []keywordRule{
	{[]string{"controller", "route"}, Controllers},
	{[]string{"service", "business"}, Services},
	{[]string{"repository", "dao", "database", "entity"}, DataAccess},
	{[]string{"model", "type", "interface", "dto"}, Models},
	{[]string{"util", "helper", "lib"}, Utilities},
	{[]string{"config", "env"}, Configuration},
	{[]string{"test", "spec"}, Tests},
}

// ApplyGeneric places file i in the layer of the first keyword rule its
// lower-cased path matches.
func (c *Classifier) ApplyGeneric(i int) {
	p := c.lower[i]
	for _, r := range genericRules {
		for _, kw := range r.keywords {
			if strings.Contains(p, kw) {
				c.add(r.layer, i)
				return
			}
		}
	}
}

// ApplyFanIn counts, for each edge, the first unclassified file the edge
// target matches, then places heavily imported files in Core or Shared.
func (c *Classifier) ApplyFanIn(edges []models.DependencyEdge) {
	var unclassified []int
	for i := range c.files {
		if !c.classified(i) {
			unclassified = append(unclassified, i)
		}
	}
	if len(unclassified) == 0 {
		return
	}

	fanIn := make(map[int]int)
	for _, e := range edges {
		for _, i := range unclassified {
			if MatchesImport(c.files[i].RelativePath, e.To) {
				fanIn[i]++
				break
			}
		}
	}
	for _, i := range unclassified {
		switch n := fanIn[i]; {
		case n > CoreFanIn:
			c.add(Core, i)
		case n > SharedFanIn:
			c.add(Shared, i)
		}
	}
}

// MatchesImport reports whether an unresolved import specifier plausibly
// names file. Leading ./, ../ and / are dropped from the specifier. The
// file path, with or without its extension or trailing /index, and the
// specifier then match when either is a path-segment suffix of the other.
// Two files sharing such a suffix both match.
func MatchesImport(file, spec string) bool {
	target := trimRelative(spec)
	if target == "" {
		return false
	}
	stem := strings.TrimSuffix(file, path.Ext(file))
	for _, cand := range []string{file, stem, strings.TrimSuffix(stem, "/index")} {
		if cand == target || strings.HasSuffix(cand, "/"+target) || strings.HasSuffix(target, "/"+cand) {
			return true
		}
	}
	return false
}

func trimRelative(spec string) string {
	for {
		switch {
		case strings.HasPrefix(spec, "./"):
			spec = spec[2:]
		case strings.HasPrefix(spec, "../"):
			spec = spec[3:]
		case strings.HasPrefix(spec, "/"):
			spec = spec[1:]
		default:
			return strings.TrimSuffix(spec, "/")
		}
	}
}

// Layers returns the non-empty layers in output order. Files keep the
// order they were given in.
func (c *Classifier) Layers() []models.Layer {
	out := []models.Layer{}
	for _, name := range order {
		bm := c.layers[name]
		if bm.IsEmpty() {
			continue
		}
		files := make([]string, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			files = append(files, c.files[it.Next()].RelativePath)
		}
		out = append(out, models.Layer{Name: name, Files: files})
	}
	return out
}
