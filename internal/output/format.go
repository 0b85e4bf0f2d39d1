// Package output writes analysis results as text tables, markdown, JSON
// or TOON.
package output

import (
	"slices"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatTOON}

// LookupFormat resolves a format name, case-insensitively. "md" is
// accepted for markdown.
func LookupFormat(s string) (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "md" {
		return FormatMarkdown, true
	}
	if f := Format(name); slices.Contains(Formats, f) {
		return f, true
	}
	return "", false
}

// ParseFormat is LookupFormat with unknown names mapped to text.
func ParseFormat(s string) Format {
	if f, ok := LookupFormat(s); ok {
		return f
	}
	return FormatText
}
