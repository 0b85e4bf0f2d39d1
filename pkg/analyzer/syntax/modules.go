package syntax

import (
	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
)

// defaultExportName names anonymous default-exported functions and classes.
const defaultExportName = "default"

func (x *extractor) importInfo(id ast.NodeID) models.ImportInfo {
	t := x.tree
	info := models.ImportInfo{
		Source:     stringValue(t, t.ChildByField(id, "source")),
		Specifiers: []string{},
		Line:       t.Line(id),
	}

	clause := t.ChildOfKind(id, ast.KindImportClause)
	for c := range t.NamedChildren(clause) {
		switch t.Kind(c) {
		case ast.KindIdentifier:
			info.Specifiers = append(info.Specifiers, t.Text(c))
			info.IsDefault = true
		case ast.KindNamespaceImport:
			if n := t.ChildOfKind(c, ast.KindIdentifier); n != ast.NoNode {
				info.Specifiers = append(info.Specifiers, t.Text(n))
			}
		case ast.KindNamedImports:
			for spec := range t.NamedChildren(c) {
				if t.Kind(spec) == ast.KindImportSpecifier {
					info.Specifiers = append(info.Specifiers, x.nameOf(spec, ""))
				}
			}
		}
	}
	return info
}

// exports lists the bindings one export statement introduces. Enum,
// namespace and default-expression exports are not reported.
func (x *extractor) exports(id ast.NodeID) []models.ExportInfo {
	t := x.tree
	line := t.Line(id)
	var out []models.ExportInfo
	add := func(name string, kind models.ExportKind) {
		out = append(out, models.ExportInfo{Name: name, Kind: kind, Line: line})
	}

	if decl := t.ChildByField(id, "declaration"); decl != ast.NoNode {
		switch t.Kind(decl) {
		case ast.KindFunctionDeclaration:
			add(x.nameOf(decl, defaultExportName), models.ExportFunction)
		case ast.KindClassDeclaration:
			add(x.nameOf(decl, defaultExportName), models.ExportClass)
		case ast.KindVariableDeclaration:
			for d := range t.NamedChildren(decl) {
				if t.Kind(d) != ast.KindVariableDeclarator {
					continue
				}
				name := models.UnknownName
				if n := t.ChildByField(d, "name"); t.Kind(n) == ast.KindIdentifier {
					name = t.Text(n)
				}
				add(name, models.ExportVariable)
			}
		case ast.KindTypeAlias, ast.KindInterfaceDeclaration:
			add(x.nameOf(decl, models.UnknownName), models.ExportType)
		}
	}

	// export default function () {} and export default class {}
	if val := t.ChildByField(id, "value"); val != ast.NoNode {
		switch t.Kind(val) {
		case ast.KindFunctionExpression:
			add(x.nameOf(val, defaultExportName), models.ExportFunction)
		case ast.KindClassExpression:
			add(x.nameOf(val, defaultExportName), models.ExportClass)
		}
	}

	for spec := range t.Descendants(t.ChildOfKind(id, ast.KindExportClause)) {
		if t.Kind(spec) != ast.KindExportSpecifier {
			continue
		}
		name := x.nameOf(spec, models.UnknownName)
		if alias := t.ChildByField(spec, "alias"); alias != ast.NoNode {
			name = t.Text(alias)
		}
		add(name, models.ExportVariable)
	}
	return out
}

// stringValue returns the contents of a string literal without quotes.
func stringValue(t *ast.Tree, id ast.NodeID) string {
	s := t.Text(id)
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
