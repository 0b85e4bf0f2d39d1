package models

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
)

func heading(w io.Writer, title string, colored bool) {
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// languageCounts orders languages by file count, then name.
func languageCounts(langs map[string]int) []string {
	names := slices.Collect(maps.Keys(langs))
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(langs[b], langs[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%s (%d)", n, langs[n])
	}
	return out
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// RenderText implements output.Renderable for text output.
func (p *ProjectAnalysis) RenderText(w io.Writer, colored bool) error {
	title := "Project: " + p.ProjectName
	if colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	if p.Revision != "" {
		fmt.Fprintf(w, "Revision:   %s\n", p.Revision)
	}
	fmt.Fprintf(w, "Framework:  %s\n", p.Framework)
	fmt.Fprintf(w, "Files:      %d\n", p.TotalFiles)
	fmt.Fprintf(w, "Lines:      %d\n", p.TotalLines)
	fmt.Fprintf(w, "Languages:  %s\n", orNone(languageCounts(p.Languages)))
	fmt.Fprintln(w)

	heading(w, "Architecture", colored)
	fmt.Fprintf(w, "Entry points: %s\n", orNone(p.Architecture.EntryPoints))
	fmt.Fprintf(w, "Patterns:     %s\n", orNone(p.Architecture.Patterns))
	for _, l := range p.Architecture.Layers {
		fmt.Fprintf(w, "  %s (%d)\n", l.Name, len(l.Files))
		for _, f := range l.Files {
			fmt.Fprintf(w, "    %s\n", f)
		}
	}
	fmt.Fprintln(w)

	heading(w, "Dependencies", colored)
	fmt.Fprintf(w, "Production:  %d\n", len(p.Dependencies.Production))
	fmt.Fprintf(w, "Development: %d\n", len(p.Dependencies.Development))
	fmt.Fprintf(w, "Internal:    %d import edges\n", len(p.Dependencies.Internal))
	for _, c := range p.Dependencies.Cycles {
		fmt.Fprintf(w, "  cycle: %s\n", strings.Join(c, " -> "))
	}
	for _, h := range p.Dependencies.Hubs {
		fmt.Fprintf(w, "  hub: %s (imported by %d)\n", h.File, h.FanIn)
	}
	fmt.Fprintln(w)

	if len(p.APIRoutes) > 0 {
		heading(w, fmt.Sprintf("API Routes (%d)", len(p.APIRoutes)), colored)
		for _, r := range p.APIRoutes {
			fmt.Fprintf(w, "  %-7s %s  %s:%d [%s]\n", r.Method, r.Path, r.File, r.Line, r.Framework)
		}
		fmt.Fprintln(w)
	}

	heading(w, "Data and Infrastructure", colored)
	fmt.Fprintf(w, "Database:  %s\n", p.Database.Type)
	if len(p.Database.Models) > 0 {
		fmt.Fprintf(w, "Models:    %s\n", strings.Join(p.Database.Models, ", "))
	}
	fmt.Fprintf(w, "Docker:    %s\n", p.Infrastructure.Docker.summary())
	fmt.Fprintf(w, "CI:        %s\n", orNone(p.Infrastructure.CI.Providers))
	fmt.Fprintf(w, "Cloud:     %s\n", orNone(p.Infrastructure.CloudPlatforms))
	fmt.Fprintf(w, "Env vars:  %s\n", orNone(p.EnvVars))
	fmt.Fprintln(w)

	if len(p.Todos) > 0 {
		heading(w, fmt.Sprintf("TODOs (%d)", len(p.Todos)), colored)
		for _, t := range p.Todos {
			fmt.Fprintf(w, "  %s:%d %s: %s\n", t.File, t.Line, t.Type, t.Text)
		}
		fmt.Fprintln(w)
	}

	if c := p.Complexity; c != nil {
		heading(w, "Complexity", colored)
		fmt.Fprintf(w, "Functions: %d  Mean: %.2f  Median: %.1f  P90: %.1f  Max: %d\n",
			c.Functions, c.Mean, c.Median, c.P90, c.Max)
		for _, h := range c.Hotspots {
			fmt.Fprintf(w, "  %3d  %s (%s:%d)\n", h.Complexity, h.Name, h.File, h.Line)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (d DockerInfo) summary() string {
	if !d.HasDockerfile && !d.HasCompose {
		return "none"
	}
	var parts []string
	if d.HasDockerfile {
		s := "Dockerfile"
		if d.BaseImage != "" {
			s += " (" + d.BaseImage + ")"
		}
		parts = append(parts, s)
	}
	if d.HasCompose {
		parts = append(parts, fmt.Sprintf("compose with %d services", len(d.Services)))
	}
	return strings.Join(parts, ", ")
}

// RenderMarkdown implements output.Renderable for markdown output.
func (p *ProjectAnalysis) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# %s\n\n", p.ProjectName)
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	if p.Revision != "" {
		fmt.Fprintf(w, "| Revision | `%s` |\n", p.Revision)
	}
	fmt.Fprintf(w, "| Framework | %s |\n", p.Framework)
	fmt.Fprintf(w, "| Files | %d |\n", p.TotalFiles)
	fmt.Fprintf(w, "| Lines | %d |\n", p.TotalLines)
	fmt.Fprintf(w, "| Languages | %s |\n", orNone(languageCounts(p.Languages)))
	fmt.Fprintf(w, "| Database | %s |\n", p.Database.Type)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Architecture")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**Entry points:** %s\n\n", orNone(p.Architecture.EntryPoints))
	fmt.Fprintf(w, "**Patterns:** %s\n\n", orNone(p.Architecture.Patterns))
	for _, l := range p.Architecture.Layers {
		fmt.Fprintf(w, "### %s\n\n", l.Name)
		for _, f := range l.Files {
			fmt.Fprintf(w, "- `%s`\n", f)
		}
		fmt.Fprintln(w)
	}

	if len(p.APIRoutes) > 0 {
		fmt.Fprintln(w, "## API Routes")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Method | Path | File | Framework |")
		fmt.Fprintln(w, "|--------|------|------|-----------|")
		for _, r := range p.APIRoutes {
			fmt.Fprintf(w, "| %s | `%s` | %s:%d | %s |\n", r.Method, r.Path, r.File, r.Line, r.Framework)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Dependencies")
	fmt.Fprintln(w)
	for _, name := range slices.Sorted(maps.Keys(p.Dependencies.Production)) {
		fmt.Fprintf(w, "- `%s` %s\n", name, p.Dependencies.Production[name])
	}
	if len(p.Dependencies.Cycles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "**Import cycles:**")
		fmt.Fprintln(w)
		for _, c := range p.Dependencies.Cycles {
			fmt.Fprintf(w, "- %s\n", strings.Join(c, " -> "))
		}
	}
	if len(p.Dependencies.Hubs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "**Most imported:**")
		fmt.Fprintln(w)
		for _, h := range p.Dependencies.Hubs {
			fmt.Fprintf(w, "- `%s` imported by %d\n", h.File, h.FanIn)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Infrastructure")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- Docker: %s\n", p.Infrastructure.Docker.summary())
	fmt.Fprintf(w, "- CI: %s\n", orNone(p.Infrastructure.CI.Providers))
	fmt.Fprintf(w, "- Cloud: %s\n", orNone(p.Infrastructure.CloudPlatforms))
	if len(p.EnvVars) > 0 {
		fmt.Fprintf(w, "- Environment: `%s`\n", strings.Join(p.EnvVars, "`, `"))
	}
	fmt.Fprintln(w)

	if len(p.Todos) > 0 {
		fmt.Fprintln(w, "## TODOs")
		fmt.Fprintln(w)
		for _, t := range p.Todos {
			fmt.Fprintf(w, "- **%s** %s (`%s:%d`)\n", t.Type, t.Text, t.File, t.Line)
		}
		fmt.Fprintln(w)
	}

	if c := p.Complexity; c != nil && len(c.Hotspots) > 0 {
		fmt.Fprintln(w, "## Complexity Hotspots")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Function | File | Complexity |")
		fmt.Fprintln(w, "|----------|------|------------|")
		for _, h := range c.Hotspots {
			fmt.Fprintf(w, "| %s | %s:%d | %d |\n", h.Name, h.File, h.Line, h.Complexity)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// RenderData implements output.Renderable for JSON/TOON output.
func (p *ProjectAnalysis) RenderData() any {
	return p
}

// RenderText implements output.Renderable for text output.
func (f *FileAnalysis) RenderText(w io.Writer, colored bool) error {
	heading(w, f.RelativePath, colored)
	fmt.Fprintf(w, "Language: %s  Lines: %d\n", f.Language, f.Size)
	if f.ParseFailed {
		fmt.Fprintln(w, "Structure: unavailable (parse failed)")
	}

	for _, fn := range f.Functions {
		fmt.Fprintf(w, "  func %s(%s) line %d complexity %d\n",
			fn.Name, strings.Join(fn.Params, ", "), fn.Line, fn.Complexity)
	}
	for _, c := range f.Classes {
		fmt.Fprintf(w, "  class %s line %d\n", c.Name, c.Line)
		for _, m := range c.Methods {
			fmt.Fprintf(w, "    %s %s(%s) complexity %d\n",
				m.Visibility, m.Name, strings.Join(m.Params, ", "), m.Complexity)
		}
	}
	for _, i := range f.Interfaces {
		fmt.Fprintf(w, "  interface %s line %d\n", i.Name, i.Line)
	}
	for _, e := range f.Enums {
		fmt.Fprintf(w, "  enum %s { %s }\n", e.Name, strings.Join(e.Members, ", "))
	}
	for _, t := range f.Types {
		fmt.Fprintf(w, "  type %s = %s\n", t.Name, t.Definition)
	}
	for _, i := range f.Imports {
		fmt.Fprintf(w, "  import %s from %q\n", orNone(i.Specifiers), i.Source)
	}
	for _, e := range f.Exports {
		fmt.Fprintf(w, "  export %s %s\n", e.Kind, e.Name)
	}
	fmt.Fprintln(w)
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (f *FileAnalysis) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "## `%s`\n\n", f.RelativePath)
	fmt.Fprintf(w, "%s, %d lines\n\n", f.Language, f.Size)

	if len(f.Functions) > 0 {
		fmt.Fprintln(w, "| Function | Line | Complexity | Exported |")
		fmt.Fprintln(w, "|----------|------|------------|----------|")
		for _, fn := range f.Functions {
			fmt.Fprintf(w, "| %s | %d | %d | %t |\n", fn.Name, fn.Line, fn.Complexity, fn.IsExported)
		}
		fmt.Fprintln(w)
	}
	for _, c := range f.Classes {
		fmt.Fprintf(w, "### class %s\n\n", c.Name)
		if c.Doc != "" {
			fmt.Fprintf(w, "%s\n\n", c.Doc)
		}
		for _, m := range c.Methods {
			fmt.Fprintf(w, "- `%s(%s)` %s\n", m.Name, strings.Join(m.Params, ", "), m.Visibility)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// RenderData implements output.Renderable for JSON/TOON output.
func (f *FileAnalysis) RenderData() any {
	return f
}
