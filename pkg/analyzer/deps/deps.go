package deps

import "github.com/panbanda/handover/pkg/models"

// Resolve combines the manifest with the internal edges of files.
func Resolve(m Manifest, files []models.FileAnalysis) models.DependencyInfo {
	info := models.DependencyInfo{
		Production:  m.Production,
		Development: m.Development,
		Internal:    Edges(files),
	}
	if info.Production == nil {
		info.Production = map[string]string{}
	}
	if info.Development == nil {
		info.Development = map[string]string{}
	}
	return info
}

// Edges emits one edge per relative import, in file order. The target is
// the import specifier as written.
func Edges(files []models.FileAnalysis) []models.DependencyEdge {
	edges := []models.DependencyEdge{}
	for _, f := range files {
		for _, imp := range f.Imports {
			if !imp.IsRelative() {
				continue
			}
			edges = append(edges, models.DependencyEdge{
				From: f.RelativePath,
				To:   imp.Source,
				Type: models.EdgeImport,
			})
		}
	}
	return edges
}
