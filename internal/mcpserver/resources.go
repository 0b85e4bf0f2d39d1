package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/handover/pkg/config"
)

const (
	configSchemaURI  = "handover://config-schema"
	toolSchemaPrefix = "handover://schemas/"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         configSchemaURI,
		Name:        "Configuration Schema",
		Description: "JSON schema of handover.toml, handover.yaml and handover.json",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      configSchemaURI,
					MIMEType: "application/schema+json",
					Text:     string(config.Schema()),
				},
			},
		}, nil
	})

	schemas := buildSchemaMap()
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: toolSchemaPrefix + "{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		name := strings.TrimPrefix(uri, toolSchemaPrefix)
		schema, ok := schemas[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool schema: %q", name)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/schema+json",
					Text:     schema,
				},
			},
		}, nil
	})
}

// buildSchemaMap maps tool names to the JSON schema of their input,
// inferred from the input structs.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[ProjectInput](m, "analyze_project")
	addSchema[FileInput](m, "analyze_file")
	addSchema[ListFilesInput](m, "list_files")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(data)
}
