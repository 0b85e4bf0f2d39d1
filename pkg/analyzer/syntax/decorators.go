package syntax

import (
	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
)

// expressionArg stands in for decorator arguments that are not literals.
const expressionArg = "expression"

// decorators collects the decorators attached to id. The typescript grammar
// places member decorators before the member inside the class body, and
// decorators written before "export" on the export statement.
func (x *extractor) decorators(id ast.NodeID) []models.DecoratorInfo {
	ids := x.decoratorNodes(id)
	if len(ids) == 0 {
		return nil
	}
	out := make([]models.DecoratorInfo, 0, len(ids))
	for _, d := range ids {
		out = append(out, x.decorator(d))
	}
	return out
}

func (x *extractor) decoratorNodes(id ast.NodeID) []ast.NodeID {
	t := x.tree
	var ids []ast.NodeID
	for c := range t.Children(id) {
		if t.Kind(c) == ast.KindDecorator {
			ids = append(ids, c)
		}
	}
	if len(ids) > 0 {
		return ids
	}

	parent := t.Parent(id)
	switch t.Kind(parent) {
	case ast.KindClassBody:
		for prev := t.PrevSibling(id); t.Kind(prev) == ast.KindDecorator; prev = t.PrevSibling(prev) {
			ids = append([]ast.NodeID{prev}, ids...)
		}
	case ast.KindExport:
		for c := range t.Children(parent) {
			if t.Kind(c) == ast.KindDecorator {
				ids = append(ids, c)
			}
		}
	}
	return ids
}

func (x *extractor) decorator(id ast.NodeID) models.DecoratorInfo {
	t := x.tree
	for expr := range t.NamedChildren(id) {
		switch t.Kind(expr) {
		case ast.KindIdentifier, ast.KindMemberExpression:
			return models.DecoratorInfo{Name: t.Text(expr)}
		case ast.KindCallExpression:
			info := models.DecoratorInfo{
				Name:      t.Text(t.ChildByField(expr, "function")),
				Arguments: []string{},
			}
			for arg := range t.NamedChildren(t.ChildByField(expr, "arguments")) {
				if t.Kind(arg) == ast.KindComment {
					continue
				}
				info.Arguments = append(info.Arguments, literalValue(t, arg))
			}
			return info
		}
	}
	return models.DecoratorInfo{Name: models.UnknownName}
}

// literalValue returns the value of a statically known argument, or the
// expression placeholder.
func literalValue(t *ast.Tree, id ast.NodeID) string {
	k := t.Kind(id)
	switch {
	case k == ast.KindTemplateString:
		if t.ChildOfKind(id, ast.KindTemplateSubstitution) != ast.NoNode {
			return expressionArg
		}
		return stringValue(t, id)
	case k == ast.KindString:
		return stringValue(t, id)
	case k.IsLiteral():
		return t.Text(id)
	}
	return expressionArg
}
