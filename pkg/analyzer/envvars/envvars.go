// Package envvars collects the environment variables a project reads.
package envvars

import (
	"regexp"
	"slices"

	"github.com/panbanda/handover/pkg/models"
)

var accessPattern = regexp.MustCompile(`process\.env\.([A-Z_][A-Z0-9_]*)`)

// Scan returns the sorted, de-duplicated names read through process.env.
func Scan(files []models.FileAnalysis) []string {
	seen := make(map[string]struct{})
	for i := range files {
		for _, m := range accessPattern.FindAllStringSubmatch(files[i].Content, -1) {
			seen[m[1]] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
