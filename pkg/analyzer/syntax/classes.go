package syntax

import (
	"strings"

	"github.com/panbanda/handover/pkg/analyzer/complexity"
	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
)

func (x *extractor) class(id ast.NodeID) models.ClassInfo {
	t := x.tree
	c := models.ClassInfo{
		Name:       x.nameOf(id, models.AnonymousClass),
		Line:       t.Line(id),
		Methods:    []models.MethodInfo{},
		Properties: []models.PropertyInfo{},
		IsExported: x.isExported(id),
		Doc:        x.doc(id),
		Decorators: x.decorators(id),
	}
	c.Extends, c.Implements = x.heritage(id)

	for m := range t.NamedChildren(t.ChildByField(id, "body")) {
		switch t.Kind(m) {
		case ast.KindMethodDefinition:
			c.Methods = append(c.Methods, x.method(m))
		case ast.KindFieldDefinition:
			c.Properties = append(c.Properties, x.property(m))
		}
	}
	return c
}

// heritage returns the superclass and implemented interfaces of a class.
// The javascript grammar puts the superclass directly under class_heritage;
// the typescript grammars wrap it in extends_clause.
func (x *extractor) heritage(id ast.NodeID) (string, []string) {
	t := x.tree
	h := t.ChildOfKind(id, ast.KindClassHeritage)
	if h == ast.NoNode {
		return "", nil
	}

	var extends string
	var implements []string
	for c := range t.NamedChildren(h) {
		switch t.Kind(c) {
		case ast.KindExtendsClause:
			v := t.ChildByField(c, "value")
			if v == ast.NoNode {
				for v = range t.NamedChildren(c) {
					break
				}
			}
			extends = t.Text(v)
		case ast.KindImplementsClause:
			for i := range t.NamedChildren(c) {
				implements = append(implements, typeName(t.Text(i)))
			}
		case ast.KindComment:
		default:
			if extends == "" {
				extends = t.Text(c)
			}
		}
	}
	return extends, implements
}

func (x *extractor) method(id ast.NodeID) models.MethodInfo {
	t := x.tree
	name := x.nameOf(id, models.UnknownName)
	return models.MethodInfo{
		Name:       name,
		Line:       t.Line(id),
		Params:     x.params(id),
		ReturnType: x.annotation(id, "return_type"),
		IsAsync:    t.HasToken(id, "async"),
		IsStatic:   t.HasToken(id, "static"),
		Visibility: x.visibility(id, name),
		Complexity: complexity.Cyclomatic(t, id),
		Doc:        x.doc(id),
		Decorators: x.decorators(id),
	}
}

func (x *extractor) property(id ast.NodeID) models.PropertyInfo {
	t := x.tree
	name := x.fieldName(id)
	return models.PropertyInfo{
		Name:       name,
		Line:       t.Line(id),
		Type:       x.annotation(id, "type"),
		Visibility: x.visibility(id, name),
		IsStatic:   t.HasToken(id, "static"),
		IsReadonly: t.HasToken(id, "readonly"),
		Doc:        x.doc(id),
		Decorators: x.decorators(id),
	}
}

// fieldName reads the name of a class field. The javascript grammar's
// field_definition names it under "property".
func (x *extractor) fieldName(id ast.NodeID) string {
	if n := x.nameOf(id, ""); n != "" {
		return n
	}
	if p := x.tree.ChildByField(id, "property"); p != ast.NoNode {
		return x.tree.Text(p)
	}
	return models.UnknownName
}

// visibility applies an explicit accessibility modifier first, then the
// underscore and private-name conventions.
func (x *extractor) visibility(id ast.NodeID, name string) models.Visibility {
	t := x.tree
	if mod := t.ChildOfKind(id, ast.KindAccessibilityModifier); mod != ast.NoNode {
		switch strings.TrimSpace(t.Text(mod)) {
		case "private":
			return models.VisibilityPrivate
		case "protected":
			return models.VisibilityProtected
		default:
			return models.VisibilityPublic
		}
	}
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, "#") {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

// typeName drops type arguments: "Repo<User>" becomes "Repo".
func typeName(s string) string {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
