package syntax

import (
	"regexp"
	"strings"

	"github.com/panbanda/handover/pkg/ast"
)

var commentMarkers = regexp.MustCompile(`/\*+|\*+/|\*`)

// doc returns the block comment ending on the line directly above the
// declaration. Leading decorators count as part of the declaration.
func (x *extractor) doc(id ast.NodeID) string {
	t := x.tree
	if id == ast.NoNode {
		return ""
	}
	line := t.Line(id)
	if ds := x.decoratorNodes(id); len(ds) > 0 && t.Line(ds[0]) < line {
		line = t.Line(ds[0])
	}

	c, ok := x.comments[line-1]
	if !ok {
		return ""
	}
	text := t.Text(c)
	if !strings.HasPrefix(text, "/*") {
		return ""
	}
	return cleanComment(text)
}

// cleanComment strips comment markers and joins the remaining lines.
func cleanComment(text string) string {
	text = commentMarkers.ReplaceAllString(text, "")
	var parts []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
