// Package deps reads the package manifest and derives internal import
// edges and the resolved import graph.
package deps

import (
	"fmt"
	"log/slog"

	"github.com/knadh/koanf/parsers/json"
	"github.com/panbanda/handover/pkg/source"
)

// ManifestFile is the manifest read from the project root.
const ManifestFile = "package.json"

// Manifest holds the declared dependencies of a project.
type Manifest struct {
	Name        string
	Production  map[string]string
	Development map[string]string
}

// EmptyManifest returns a manifest with empty, non-nil dependency maps.
func EmptyManifest() Manifest {
	return Manifest{
		Production:  map[string]string{},
		Development: map[string]string{},
	}
}

// ReadManifest loads package.json from src. A missing or malformed
// manifest is logged and yields an empty manifest.
func ReadManifest(src source.ContentSource, logger *slog.Logger) Manifest {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := src.Read(ManifestFile)
	if err != nil {
		logger.Debug("no manifest", slog.String("file", ManifestFile), slog.Any("error", err))
		return EmptyManifest()
	}
	m, err := ParseManifest(data)
	if err != nil {
		logger.Debug("malformed manifest", slog.String("file", ManifestFile), slog.Any("error", err))
		return EmptyManifest()
	}
	return m
}

// ParseManifest decodes package.json content. Non-string versions are
// skipped.
func ParseManifest(data []byte) (Manifest, error) {
	raw, err := json.Parser().Unmarshal(data)
	if err != nil {
		return EmptyManifest(), fmt.Errorf("parse %s: %w", ManifestFile, err)
	}

	m := EmptyManifest()
	if name, ok := raw["name"].(string); ok {
		m.Name = name
	}
	copyVersions(m.Production, raw["dependencies"])
	copyVersions(m.Development, raw["devDependencies"])
	return m, nil
}

func copyVersions(dst map[string]string, v any) {
	deps, ok := v.(map[string]any)
	if !ok {
		return
	}
	for name, version := range deps {
		if s, ok := version.(string); ok {
			dst[name] = s
		}
	}
}

// Has reports whether name is a production or development dependency.
func (m Manifest) Has(name string) bool {
	if _, ok := m.Production[name]; ok {
		return true
	}
	_, ok := m.Development[name]
	return ok
}

// HasProduction reports whether name is a production dependency.
func (m Manifest) HasProduction(name string) bool {
	_, ok := m.Production[name]
	return ok
}
