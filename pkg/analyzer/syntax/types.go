package syntax

import (
	"github.com/panbanda/handover/pkg/ast"
	"github.com/panbanda/handover/pkg/models"
)

// anyType is reported for interface properties without an annotation.
const anyType = "any"

// complexType is the placeholder definition of every type alias.
const complexType = "complex type"

func (x *extractor) iface(id ast.NodeID) models.InterfaceInfo {
	t := x.tree
	info := models.InterfaceInfo{
		Name:       x.nameOf(id, models.AnonymousInterface),
		Line:       t.Line(id),
		Properties: []models.PropertyInfo{},
		Methods:    []models.MethodInfo{},
		IsExported: x.isExported(id),
		Doc:        x.doc(id),
	}

	if ext := t.ChildOfKind(id, ast.KindExtendsTypeClause); ext != ast.NoNode {
		for e := range t.NamedChildren(ext) {
			info.Extends = append(info.Extends, typeName(t.Text(e)))
		}
	}

	for m := range t.NamedChildren(t.ChildByField(id, "body")) {
		switch t.Kind(m) {
		case ast.KindPropertySignature:
			typ := x.annotation(m, "type")
			if typ == "" {
				typ = anyType
			}
			name := x.nameOf(m, models.UnknownName)
			info.Properties = append(info.Properties, models.PropertyInfo{
				Name:       name,
				Line:       t.Line(m),
				Type:       typ,
				Visibility: models.VisibilityPublic,
				IsReadonly: t.HasToken(m, "readonly"),
				Doc:        x.doc(m),
			})
		case ast.KindMethodSignature:
			info.Methods = append(info.Methods, models.MethodInfo{
				Name:       x.nameOf(m, models.UnknownName),
				Line:       t.Line(m),
				Params:     x.params(m),
				ReturnType: x.annotation(m, "return_type"),
				Visibility: models.VisibilityPublic,
				Complexity: 1,
				Doc:        x.doc(m),
			})
		}
	}
	return info
}

func (x *extractor) enum(id ast.NodeID) models.EnumInfo {
	t := x.tree
	info := models.EnumInfo{
		Name:       x.nameOf(id, models.AnonymousEnum),
		Line:       t.Line(id),
		Members:    []string{},
		IsExported: x.isExported(id),
	}
	for m := range t.NamedChildren(t.ChildByField(id, "body")) {
		switch t.Kind(m) {
		case ast.KindComment:
		case ast.KindEnumAssignment:
			info.Members = append(info.Members, x.nameOf(m, models.UnknownName))
		default:
			info.Members = append(info.Members, t.Text(m))
		}
	}
	return info
}

func (x *extractor) typeAlias(id ast.NodeID) models.TypeAliasInfo {
	return models.TypeAliasInfo{
		Name:       x.nameOf(id, models.AnonymousType),
		Line:       x.tree.Line(id),
		Definition: complexType,
		IsExported: x.isExported(id),
		Doc:        x.doc(id),
	}
}
