package complexity

import (
	"cmp"
	"slices"

	"github.com/panbanda/handover/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// DefaultHotspots is the number of most complex functions kept in a summary.
const DefaultHotspots = 10

// Summarize aggregates complexity across every function and method.
// Returns nil when the files contain no functions.
func Summarize(files []models.FileAnalysis, hotspots int) *models.ComplexitySummary {
	if hotspots <= 0 {
		hotspots = DefaultHotspots
	}

	var records []models.ComplexityRecord
	for _, f := range files {
		for _, fn := range f.Functions {
			records = append(records, models.ComplexityRecord{
				File: f.RelativePath, Name: fn.Name, Line: fn.Line, Complexity: fn.Complexity,
			})
		}
		for _, c := range f.Classes {
			for _, m := range c.Methods {
				records = append(records, models.ComplexityRecord{
					File: f.RelativePath, Name: c.Name + "." + m.Name, Line: m.Line, Complexity: m.Complexity,
				})
			}
		}
	}
	if len(records) == 0 {
		return nil
	}

	// Highest first; ties broken by location so output is stable.
	slices.SortFunc(records, func(a, b models.ComplexityRecord) int {
		if c := cmp.Compare(b.Complexity, a.Complexity); c != 0 {
			return c
		}
		if c := cmp.Compare(a.File, b.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})

	values := make([]float64, len(records))
	total := 0
	for i, r := range records {
		total += r.Complexity
		values[len(records)-1-i] = float64(r.Complexity)
	}

	summary := &models.ComplexitySummary{
		Functions: len(records),
		Total:     total,
		Mean:      stat.Mean(values, nil),
		Median:    stat.Quantile(0.5, stat.Empirical, values, nil),
		P90:       stat.Quantile(0.9, stat.Empirical, values, nil),
		Max:       records[0].Complexity,
	}
	summary.Hotspots = slices.Clone(records[:min(hotspots, len(records))])
	return summary
}
