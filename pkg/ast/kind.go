package ast

// Kind is the closed set of node tags the extractors dispatch on.
// Grammar node types that no extractor cares about map to KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindProgram
	KindError
	KindComment

	// Modules
	KindImport
	KindImportClause
	KindNamedImports
	KindImportSpecifier
	KindNamespaceImport
	KindExport
	KindExportClause
	KindExportSpecifier

	// Functions
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindVariableDeclarator
	KindVariableDeclaration
	KindFormalParameters
	KindRequiredParameter
	KindOptionalParameter
	KindRestPattern
	KindAssignmentPattern
	KindObjectPattern
	KindArrayPattern

	// Classes
	KindClassDeclaration
	KindClassExpression
	KindClassHeritage
	KindExtendsClause
	KindImplementsClause
	KindClassBody
	KindMethodDefinition
	KindFieldDefinition
	KindAccessibilityModifier
	KindDecorator

	// Type-level declarations
	KindInterfaceDeclaration
	KindObjectType
	KindPropertySignature
	KindMethodSignature
	KindExtendsTypeClause
	KindEnumDeclaration
	KindEnumBody
	KindEnumAssignment
	KindTypeAlias
	KindTypeAnnotation

	// Expressions and literals
	KindCallExpression
	KindMemberExpression
	KindArguments
	KindIdentifier
	KindString
	KindStringFragment
	KindTemplateString
	KindTemplateSubstitution
	KindNumber
	KindTrue
	KindFalse
	KindNull
	KindUndefined

	// Branching constructs
	KindIf
	KindWhile
	KindFor
	KindForIn
	KindDo
	KindTernary
	KindSwitchCase
	KindSwitchDefault
	KindBinaryExpression
)

var kindByType = map[string]Kind{
	"program": KindProgram,
	"ERROR":   KindError,
	"comment": KindComment,

	"import_statement": KindImport,
	"import_clause":    KindImportClause,
	"named_imports":    KindNamedImports,
	"import_specifier": KindImportSpecifier,
	"namespace_import": KindNamespaceImport,
	"export_statement": KindExport,
	"export_clause":    KindExportClause,
	"export_specifier": KindExportSpecifier,

	"function_declaration":           KindFunctionDeclaration,
	"generator_function_declaration": KindFunctionDeclaration,
	"function_expression":            KindFunctionExpression,
	"function":                       KindFunctionExpression,
	"generator_function":             KindFunctionExpression,
	"arrow_function":                 KindArrowFunction,
	"variable_declarator":            KindVariableDeclarator,
	"lexical_declaration":            KindVariableDeclaration,
	"variable_declaration":           KindVariableDeclaration,
	"formal_parameters":              KindFormalParameters,
	"required_parameter":             KindRequiredParameter,
	"optional_parameter":             KindOptionalParameter,
	"rest_pattern":                   KindRestPattern,
	"assignment_pattern":             KindAssignmentPattern,
	"object_pattern":                 KindObjectPattern,
	"array_pattern":                  KindArrayPattern,

	"class_declaration":          KindClassDeclaration,
	"abstract_class_declaration": KindClassDeclaration,
	"class":                      KindClassExpression,
	"class_heritage":             KindClassHeritage,
	"extends_clause":             KindExtendsClause,
	"implements_clause":          KindImplementsClause,
	"class_body":                 KindClassBody,
	"method_definition":          KindMethodDefinition,
	"abstract_method_signature":  KindMethodDefinition,
	"public_field_definition":    KindFieldDefinition,
	"field_definition":           KindFieldDefinition,
	"accessibility_modifier":     KindAccessibilityModifier,
	"decorator":                  KindDecorator,

	"interface_declaration":  KindInterfaceDeclaration,
	"object_type":            KindObjectType,
	"interface_body":         KindObjectType,
	"property_signature":     KindPropertySignature,
	"method_signature":       KindMethodSignature,
	"extends_type_clause":    KindExtendsTypeClause,
	"enum_declaration":       KindEnumDeclaration,
	"enum_body":              KindEnumBody,
	"enum_assignment":        KindEnumAssignment,
	"type_alias_declaration": KindTypeAlias,
	"type_annotation":        KindTypeAnnotation,

	"call_expression":                       KindCallExpression,
	"member_expression":                     KindMemberExpression,
	"arguments":                             KindArguments,
	"identifier":                            KindIdentifier,
	"property_identifier":                   KindIdentifier,
	"type_identifier":                       KindIdentifier,
	"private_property_identifier":           KindIdentifier,
	"shorthand_property_identifier_pattern": KindIdentifier,
	"string":                                KindString,
	"string_fragment":                       KindStringFragment,
	"template_string":                       KindTemplateString,
	"template_substitution":                 KindTemplateSubstitution,
	"number":                                KindNumber,
	"true":                                  KindTrue,
	"false":                                 KindFalse,
	"null":                                  KindNull,
	"undefined":                             KindUndefined,

	"if_statement":       KindIf,
	"while_statement":    KindWhile,
	"for_statement":      KindFor,
	"for_in_statement":   KindForIn,
	"do_statement":       KindDo,
	"ternary_expression": KindTernary,
	"switch_case":        KindSwitchCase,
	"switch_default":     KindSwitchDefault,
	"binary_expression":  KindBinaryExpression,
}

// KindOf maps a grammar node type to its Kind.
func KindOf(nodeType string) Kind {
	if k, ok := kindByType[nodeType]; ok {
		return k
	}
	return KindOther
}

// IsBranch reports whether the kind adds a path to cyclomatic complexity
// on its own. Short-circuit operators are checked separately because they
// share KindBinaryExpression with arithmetic.
func (k Kind) IsBranch() bool {
	switch k {
	case KindIf, KindWhile, KindFor, KindForIn, KindDo, KindTernary, KindSwitchCase, KindSwitchDefault:
		return true
	}
	return false
}

// IsFunction reports whether the kind introduces a function body.
func (k Kind) IsFunction() bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction:
		return true
	}
	return false
}

// IsClass reports whether the kind declares a class.
func (k Kind) IsClass() bool {
	return k == KindClassDeclaration || k == KindClassExpression
}

// IsLiteral reports whether the kind is a statically known value.
func (k Kind) IsLiteral() bool {
	switch k {
	case KindString, KindNumber, KindTrue, KindFalse, KindNull, KindUndefined, KindTemplateString:
		return true
	}
	return false
}
