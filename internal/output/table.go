package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table is a titled grid of strings. Data, when set, is what JSON and
// TOON encode instead of the rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string
	Data    any
}

// NewTable builds a table over data.
func NewTable(title string, headers []string, rows [][]string, footer []string, data any) *Table {
	return &Table{
		Title:   title,
		Headers: headers,
		Rows:    rows,
		Footer:  footer,
		Data:    data,
	}
}

// RenderData returns Data, or one header-keyed map per row.
func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	records := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(row))
		for j, cell := range row {
			if j < len(t.Headers) {
				rec[t.Headers[j]] = cell
			}
		}
		records[i] = rec
	}
	return records
}

// RenderText draws a borderless, left-aligned table under a heading.
func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		Heading(w, t.Title, colored)
	}

	left := tw.CellAlignment{Global: tw.AlignLeft}
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  left,
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row:    tw.CellConfig{Alignment: left},
			Footer: tw.CellConfig{Alignment: left},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)

	table.Header(t.Headers)
	for _, row := range t.Rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if len(t.Footer) > 0 {
		cells := make([]any, len(t.Footer))
		for i, c := range t.Footer {
			cells[i] = c
		}
		table.Footer(cells...)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderMarkdown writes a GitHub-flavoured table. Pipes in cells are
// escaped.
func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}

	writeRow := func(cells []string) {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
	}

	writeRow(t.Headers)
	fmt.Fprintf(w, "|%s\n", strings.Repeat(" --- |", len(t.Headers)))
	for _, row := range t.Rows {
		writeRow(row)
	}
	if len(t.Footer) > 0 {
		writeRow(t.Footer)
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Heading writes an underlined title, bold when colored.
func Heading(w io.Writer, title string, colored bool) {
	if colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)
}
