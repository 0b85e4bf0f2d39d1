// Package treesitter copies tree-sitter syntax trees into ast arenas.
package treesitter

import (
	"github.com/panbanda/handover/pkg/ast"
	sitter "github.com/smacker/go-tree-sitter"
)

// Convert copies the tree rooted at root into an owned ast.Tree.
// The cursor walk keeps CGO round trips to one per node edge.
func Convert(root *sitter.Node, source []byte) *ast.Tree {
	b := ast.NewBuilder(source, estimateNodes(source))
	if root == nil {
		return b.Tree()
	}

	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	for {
		b.Open(toNode(cursor.CurrentNode(), cursor.CurrentFieldName()))
		if cursor.GoToFirstChild() {
			continue
		}
		b.Close()
		for !cursor.GoToNextSibling() {
			if !cursor.GoToParent() {
				return b.Tree()
			}
			b.Close()
		}
	}
}

// toNode maps only named nodes to kinds. Keywords such as "class" or
// "function" share their spelling with named grammar types.
func toNode(n *sitter.Node, field string) ast.Node {
	nodeType := n.Type()
	kind := ast.KindOther
	if n.IsNamed() {
		kind = ast.KindOf(nodeType)
	}
	return ast.Node{
		Kind:      kind,
		Type:      nodeType,
		Field:     field,
		Named:     n.IsNamed(),
		Missing:   n.IsMissing(),
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
	}
}

// estimateNodes guesses the arena size from source length.
func estimateNodes(source []byte) int {
	return len(source)/4 + 16
}
