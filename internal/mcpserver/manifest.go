package mcpserver

import (
	"encoding/json"
)

const manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"

// Manifest is the MCP registry manifest (server.json).
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository contains source repository information.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package describes how to install and run the server.
type Package struct {
	RegistryType         string     `json:"registryType"`
	Identifier           string     `json:"identifier"`
	PackageArguments     []Argument `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVar   `json:"environmentVariables,omitempty"`
	Transport            Transport  `json:"transport"`
}

// Argument is a command-line argument passed to the package.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVar is an environment variable the package reads.
type EnvVar struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

// Transport describes the communication method.
type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders the registry manifest for version.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	manifest := Manifest{
		Schema:      manifestSchema,
		Name:        "io.github.panbanda/handover",
		Description: "Structural analysis of TypeScript and JavaScript projects for onboarding and handover documentation",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/handover",
			Source: "github",
		},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       "ghcr.io/panbanda/handover:" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: []EnvVar{{
				Name:        "HANDOVER_CONFIG",
				Description: "Path to a handover.toml, handover.yaml or handover.json file",
			}},
			Transport: Transport{Type: "stdio"},
		}},
	}

	return json.MarshalIndent(manifest, "", "  ")
}
