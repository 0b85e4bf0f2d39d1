package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptFrontmatter is parsed from YAML frontmatter in prompt files.
type promptFrontmatter struct {
	Description string           `yaml:"description"`
	Arguments   []promptArgument `yaml:"arguments"`
}

type promptArgument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default"`
}

// PromptDefinition is a prompt loaded from an embedded markdown file.
// Placeholders of the form {{name}} in the body are replaced by the
// argument of that name, or its default.
type PromptDefinition struct {
	Name        string
	Description string
	ContentFile string
	Arguments   []promptArgument
	Body        string
}

var promptDefinitions = mustLoadPrompts()

func mustLoadPrompts() []PromptDefinition {
	defs, err := loadPrompts()
	if err != nil {
		panic(err)
	}
	return defs
}

// loadPrompts reads every embedded prompt in file name order.
func loadPrompts() ([]PromptDefinition, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, err
	}

	var defs []PromptDefinition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		file := path.Join("prompts", entry.Name())
		content, err := promptFiles.ReadFile(file)
		if err != nil {
			return nil, err
		}
		fm, body, err := parseFrontmatter(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		defs = append(defs, PromptDefinition{
			Name:        strings.TrimSuffix(entry.Name(), ".md"),
			Description: fm.Description,
			ContentFile: file,
			Arguments:   fm.Arguments,
			Body:        body,
		})
	}
	return defs, nil
}

// registerPrompts registers every embedded prompt.
func (s *Server) registerPrompts() {
	for _, def := range promptDefinitions {
		prompt := &mcp.Prompt{
			Name:        def.Name,
			Description: def.Description,
		}
		for _, arg := range def.Arguments {
			prompt.Arguments = append(prompt.Arguments, &mcp.PromptArgument{
				Name:        arg.Name,
				Description: arg.Description,
			})
		}
		s.server.AddPrompt(prompt, makePromptHandler(def))
	}
}

// parseFrontmatter splits YAML frontmatter from the prompt body.
func parseFrontmatter(content []byte) (promptFrontmatter, string, error) {
	var fm promptFrontmatter
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return fm, string(content), nil
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return fm, string(content), nil
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, strings.TrimPrefix(string(rest[end+5:]), "\n"), nil
}

func makePromptHandler(def PromptDefinition) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		resolved := make(map[string]string, len(def.Arguments))
		text := def.Body
		for _, arg := range def.Arguments {
			text = substituteArg(text, arg.Name, args, arg.Default)
			resolved[arg.Name] = argOrDefault(args, arg.Name, arg.Default)
		}

		if calls := buildToolCallSuggestions(def.Name, resolved); len(calls) > 0 {
			text += "\n\n## Suggested Tool Calls\n\n"
			for _, c := range calls {
				text += "- " + c + "\n"
			}
		}

		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: text},
				},
			},
		}, nil
	}
}

func argOrDefault(args map[string]string, key, defaultVal string) string {
	if v := args[key]; v != "" {
		return v
	}
	return defaultVal
}

// substituteArg replaces {{key}} in text with the argument value, falling
// back to defaultVal when the argument is missing or empty.
func substituteArg(text, key string, args map[string]string, defaultVal string) string {
	return strings.ReplaceAll(text, "{{"+key+"}}", argOrDefault(args, key, defaultVal))
}

// buildToolCallSuggestions lists the tool calls that gather the data a
// prompt asks for.
func buildToolCallSuggestions(name string, args map[string]string) []string {
	p := args["path"]
	if p == "" {
		p = "."
	}
	call := func(tool string, params ...string) string {
		parts := []string{fmt.Sprintf("path=%q", p)}
		for i := 0; i+1 < len(params); i += 2 {
			parts = append(parts, fmt.Sprintf("%s=%q", params[i], params[i+1]))
		}
		return fmt.Sprintf("%s(%s)", tool, strings.Join(parts, ", "))
	}

	switch name {
	case "codebase-onboarding":
		return []string{
			call("analyze_project", "section", "summary"),
			call("analyze_project", "section", "architecture"),
			call("analyze_project", "section", "routes"),
			call("analyze_project", "section", "data"),
		}
	case "architecture-review":
		return []string{
			call("analyze_project", "section", "architecture"),
			call("analyze_project", "section", "dependencies", "depth", "comprehensive"),
			call("analyze_project", "section", "complexity"),
		}
	case "handover-report":
		return []string{
			call("analyze_project", "depth", "comprehensive", "format", "markdown"),
			call("analyze_project", "section", "todos"),
			call("analyze_project", "section", "env"),
		}
	case "change-impact":
		file := args["file"]
		return []string{
			fmt.Sprintf("analyze_file(path=%q)", file),
			call("analyze_project", "section", "dependencies", "depth", "comprehensive"),
			call("analyze_project", "section", "architecture"),
		}
	default:
		return nil
	}
}
