// Package syntax extracts the structural model of a TypeScript or
// JavaScript file from its parsed ast.Tree.
//
// Extraction never fails: nodes that do not have the expected shape are
// skipped or reported under sentinel names, so a tree recovered by the
// lenient parser still yields whatever structure it holds.
package syntax

import (
	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
)

// Extract walks tree once per fact family and returns the structure found.
// The returned lists are never nil.
func Extract(tree *ast.Tree) models.Structure {
	s := models.EmptyStructure()
	if tree == nil || tree.Root() == ast.NoNode {
		return s
	}

	x := newExtractor(tree)
	for id := range tree.Descendants(tree.Root()) {
		switch tree.Kind(id) {
		case ast.KindFunctionDeclaration, ast.KindFunctionExpression, ast.KindArrowFunction:
			s.Functions = append(s.Functions, x.function(id))
		case ast.KindMethodDefinition:
			if tree.Kind(tree.Parent(id)) != ast.KindClassBody {
				s.Functions = append(s.Functions, x.objectMethod(id))
			}
		case ast.KindClassDeclaration, ast.KindClassExpression:
			s.Classes = append(s.Classes, x.class(id))
		case ast.KindImport:
			s.Imports = append(s.Imports, x.importInfo(id))
		case ast.KindExport:
			s.Exports = append(s.Exports, x.exports(id)...)
		case ast.KindEnumDeclaration:
			s.Enums = append(s.Enums, x.enum(id))
		case ast.KindInterfaceDeclaration:
			s.Interfaces = append(s.Interfaces, x.iface(id))
		case ast.KindTypeAlias:
			s.Types = append(s.Types, x.typeAlias(id))
		}
	}
	return s
}

// extractor carries per-tree lookup state shared by the fact extractors.
type extractor struct {
	tree *ast.Tree
	// comments maps a comment's end line to the first comment ending there.
	comments map[int]ast.NodeID
}

func newExtractor(tree *ast.Tree) *extractor {
	x := &extractor{tree: tree, comments: make(map[int]ast.NodeID)}
	for id := range tree.Descendants(tree.Root()) {
		if tree.Kind(id) != ast.KindComment {
			continue
		}
		end := tree.Node(id).EndLine
		if _, seen := x.comments[end]; !seen {
			x.comments[end] = id
		}
	}
	return x
}

// isExported reports whether an export statement encloses id.
func (x *extractor) isExported(id ast.NodeID) bool {
	return x.tree.Enclosing(id, ast.KindExport) != ast.NoNode
}

// nameOf returns the text of id's name field, or fallback when absent.
func (x *extractor) nameOf(id ast.NodeID, fallback string) string {
	if n := x.tree.ChildByField(id, "name"); n != ast.NoNode {
		return x.tree.Text(n)
	}
	return fallback
}

// annotation returns the text of a type annotation field without the
// leading colon, or "" when the field is absent.
func (x *extractor) annotation(id ast.NodeID, field string) string {
	n := x.tree.ChildByField(id, field)
	if n == ast.NoNode {
		return ""
	}
	return trimAnnotation(x.tree.Text(n))
}
