package syntax

import (
	"strings"

	"github.com/panbanda/handover/pkg/analyzer/complexity"
	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
)

// function describes a function declaration, a function value bound to a
// variable or class field, or an inline lambda. A value bound to a
// declarator takes its name, line and export status from the binding. A
// value bound to a class field takes the field's name and is never
// exported on its own.
func (x *extractor) function(id ast.NodeID) models.FunctionInfo {
	t := x.tree
	anchor := id
	name := x.nameOf(id, models.AnonymousFunction)
	exported := true

	switch decl := t.Parent(id); {
	case t.Kind(decl) == ast.KindVariableDeclarator && t.ChildByField(decl, "value") == id:
		anchor = decl
		name = models.AnonymousFunction
		if n := t.ChildByField(decl, "name"); t.Kind(n) == ast.KindIdentifier {
			name = t.Text(n)
		}
	case t.Kind(decl) == ast.KindFieldDefinition && t.ChildByField(decl, "value") == id:
		anchor = decl
		name = x.fieldName(decl)
		exported = false
	}

	docAnchor := anchor
	if t.Kind(anchor) == ast.KindVariableDeclarator {
		// Comments precede the whole declaration, not the declarator.
		docAnchor = t.Parent(anchor)
	}

	return models.FunctionInfo{
		Name:       name,
		Line:       t.Line(anchor),
		Params:     x.params(id),
		ReturnType: x.annotation(id, "return_type"),
		IsAsync:    t.HasToken(id, "async"),
		IsExported: exported && x.isExported(anchor),
		Complexity: complexity.Cyclomatic(t, id),
		Doc:        x.doc(docAnchor),
		Decorators: x.decorators(id),
	}
}

// objectMethod describes a method written in an object literal, such as a
// handler map or an options-API component.
func (x *extractor) objectMethod(id ast.NodeID) models.FunctionInfo {
	t := x.tree
	return models.FunctionInfo{
		Name:       x.nameOf(id, models.AnonymousFunction),
		Line:       t.Line(id),
		Params:     x.params(id),
		ReturnType: x.annotation(id, "return_type"),
		IsAsync:    t.HasToken(id, "async"),
		IsExported: x.isExported(id),
		Complexity: complexity.Cyclomatic(t, id),
		Doc:        x.doc(id),
		Decorators: x.decorators(id),
	}
}

// params lists the parameter names of a function-like node.
func (x *extractor) params(id ast.NodeID) []string {
	t := x.tree
	out := []string{}
	if single := t.ChildByField(id, "parameter"); single != ast.NoNode {
		return append(out, x.paramName(single))
	}
	for p := range t.NamedChildren(t.ChildByField(id, "parameters")) {
		if t.Kind(p) == ast.KindComment {
			continue
		}
		out = append(out, x.paramName(p))
	}
	return out
}

func (x *extractor) paramName(id ast.NodeID) string {
	t := x.tree
	switch t.Kind(id) {
	case ast.KindIdentifier:
		return t.Text(id)
	case ast.KindRequiredParameter, ast.KindOptionalParameter:
		return x.paramName(t.ChildByField(id, "pattern"))
	case ast.KindRestPattern:
		for c := range t.NamedChildren(id) {
			if t.Kind(c) == ast.KindIdentifier {
				return "..." + t.Text(c)
			}
		}
		return "...rest"
	case ast.KindAssignmentPattern:
		return x.paramName(t.ChildByField(id, "left"))
	case ast.KindObjectPattern:
		return "{...}"
	case ast.KindArrayPattern:
		return "[...]"
	}
	if t.Type(id) == "this" {
		return "this"
	}
	return models.UnknownName
}

func trimAnnotation(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), ":"))
}
