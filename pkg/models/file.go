package models

// Visibility is the access level of a class member.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
)

// ExportKind is the coarse category of an exported binding.
type ExportKind string

const (
	ExportFunction ExportKind = "function"
	ExportClass    ExportKind = "class"
	ExportVariable ExportKind = "variable"
	ExportType     ExportKind = "type"
)

// Sentinel names for declarations without an identifier.
const (
	AnonymousFunction  = "anonymous"
	AnonymousClass     = "AnonymousClass"
	AnonymousEnum      = "AnonymousEnum"
	AnonymousInterface = "AnonymousInterface"
	AnonymousType      = "AnonymousType"
	UnknownName        = "unknown"
)

// FileAnalysis is the structural model of one source file.
// It is built once and never mutated afterwards.
type FileAnalysis struct {
	Path         string          `json:"path" toon:"path"`
	RelativePath string          `json:"relative_path" toon:"relative_path"`
	Language     string          `json:"language" toon:"language"`
	Size         int             `json:"size" toon:"size"` // line count
	Content      string          `json:"-" toon:"-"`
	Functions    []FunctionInfo  `json:"functions" toon:"functions"`
	Classes      []ClassInfo     `json:"classes" toon:"classes"`
	Imports      []ImportInfo    `json:"imports" toon:"imports"`
	Exports      []ExportInfo    `json:"exports" toon:"exports"`
	Enums        []EnumInfo      `json:"enums,omitempty" toon:"enums,omitempty"`
	Interfaces   []InterfaceInfo `json:"interfaces,omitempty" toon:"interfaces,omitempty"`
	Types        []TypeAliasInfo `json:"types,omitempty" toon:"types,omitempty"`
	ParseFailed  bool            `json:"parse_failed,omitempty" toon:"parse_failed,omitempty"`
}

// DecoratorInfo is a decorator applied to a declaration.
type DecoratorInfo struct {
	Name      string   `json:"name" toon:"name"`
	Arguments []string `json:"arguments,omitempty" toon:"arguments,omitempty"`
}

// FunctionInfo describes a top-level or nested function.
type FunctionInfo struct {
	Name       string          `json:"name" toon:"name"`
	Line       int             `json:"line" toon:"line"`
	Params     []string        `json:"params" toon:"params"`
	ReturnType string          `json:"return_type,omitempty" toon:"return_type,omitempty"`
	IsAsync    bool            `json:"is_async" toon:"is_async"`
	IsExported bool            `json:"is_exported" toon:"is_exported"`
	Complexity int             `json:"complexity" toon:"complexity"`
	Doc        string          `json:"doc,omitempty" toon:"doc,omitempty"`
	Decorators []DecoratorInfo `json:"decorators,omitempty" toon:"decorators,omitempty"`
}

// MethodInfo describes a class or interface method.
type MethodInfo struct {
	Name       string          `json:"name" toon:"name"`
	Line       int             `json:"line" toon:"line"`
	Params     []string        `json:"params" toon:"params"`
	ReturnType string          `json:"return_type,omitempty" toon:"return_type,omitempty"`
	IsAsync    bool            `json:"is_async" toon:"is_async"`
	IsStatic   bool            `json:"is_static,omitempty" toon:"is_static,omitempty"`
	Visibility Visibility      `json:"visibility" toon:"visibility"`
	Complexity int             `json:"complexity" toon:"complexity"`
	Doc        string          `json:"doc,omitempty" toon:"doc,omitempty"`
	Decorators []DecoratorInfo `json:"decorators,omitempty" toon:"decorators,omitempty"`
}

// PropertyInfo describes a class field or interface property.
type PropertyInfo struct {
	Name       string          `json:"name" toon:"name"`
	Line       int             `json:"line" toon:"line"`
	Type       string          `json:"type,omitempty" toon:"type,omitempty"`
	Visibility Visibility      `json:"visibility" toon:"visibility"`
	IsStatic   bool            `json:"is_static,omitempty" toon:"is_static,omitempty"`
	IsReadonly bool            `json:"is_readonly,omitempty" toon:"is_readonly,omitempty"`
	Doc        string          `json:"doc,omitempty" toon:"doc,omitempty"`
	Decorators []DecoratorInfo `json:"decorators,omitempty" toon:"decorators,omitempty"`
}

// ClassInfo describes a class declaration or class expression.
type ClassInfo struct {
	Name       string          `json:"name" toon:"name"`
	Line       int             `json:"line" toon:"line"`
	Methods    []MethodInfo    `json:"methods" toon:"methods"`
	Properties []PropertyInfo  `json:"properties" toon:"properties"`
	IsExported bool            `json:"is_exported" toon:"is_exported"`
	Extends    string          `json:"extends,omitempty" toon:"extends,omitempty"`
	Implements []string        `json:"implements,omitempty" toon:"implements,omitempty"`
	Doc        string          `json:"doc,omitempty" toon:"doc,omitempty"`
	Decorators []DecoratorInfo `json:"decorators,omitempty" toon:"decorators,omitempty"`
}

// ImportInfo describes one import statement.
type ImportInfo struct {
	Source     string   `json:"source" toon:"source"`
	Specifiers []string `json:"specifiers" toon:"specifiers"`
	IsDefault  bool     `json:"is_default" toon:"is_default"`
	Line       int      `json:"line" toon:"line"`
}

// IsRelative reports whether the import refers to a project file.
func (i ImportInfo) IsRelative() bool {
	return len(i.Source) > 0 && (i.Source[0] == '.' || i.Source[0] == '/')
}

// ExportInfo describes one exported binding.
type ExportInfo struct {
	Name string     `json:"name" toon:"name"`
	Kind ExportKind `json:"kind" toon:"kind"`
	Line int        `json:"line" toon:"line"`
}

// InterfaceInfo describes an interface declaration.
type InterfaceInfo struct {
	Name       string         `json:"name" toon:"name"`
	Line       int            `json:"line" toon:"line"`
	Properties []PropertyInfo `json:"properties" toon:"properties"`
	Methods    []MethodInfo   `json:"methods" toon:"methods"`
	Extends    []string       `json:"extends,omitempty" toon:"extends,omitempty"`
	IsExported bool           `json:"is_exported" toon:"is_exported"`
	Doc        string         `json:"doc,omitempty" toon:"doc,omitempty"`
}

// EnumInfo describes an enum declaration.
type EnumInfo struct {
	Name       string   `json:"name" toon:"name"`
	Line       int      `json:"line" toon:"line"`
	Members    []string `json:"members" toon:"members"`
	IsExported bool     `json:"is_exported" toon:"is_exported"`
}

// TypeAliasInfo describes a type alias declaration.
type TypeAliasInfo struct {
	Name       string `json:"name" toon:"name"`
	Line       int    `json:"line" toon:"line"`
	Definition string `json:"definition" toon:"definition"`
	IsExported bool   `json:"is_exported" toon:"is_exported"`
	Doc        string `json:"doc,omitempty" toon:"doc,omitempty"`
}

// Structure is the set of structural facts extracted from one file.
type Structure struct {
	Functions  []FunctionInfo
	Classes    []ClassInfo
	Imports    []ImportInfo
	Exports    []ExportInfo
	Enums      []EnumInfo
	Interfaces []InterfaceInfo
	Types      []TypeAliasInfo
}

// EmptyStructure returns a Structure whose lists are empty rather than nil,
// so serialized output shows [] for files that were not parsed.
func EmptyStructure() Structure {
	return Structure{
		Functions:  []FunctionInfo{},
		Classes:    []ClassInfo{},
		Imports:    []ImportInfo{},
		Exports:    []ExportInfo{},
		Enums:      []EnumInfo{},
		Interfaces: []InterfaceInfo{},
		Types:      []TypeAliasInfo{},
	}
}

// Apply copies the structural facts onto the file analysis.
func (s Structure) Apply(f *FileAnalysis) {
	f.Functions = s.Functions
	f.Classes = s.Classes
	f.Imports = s.Imports
	f.Exports = s.Exports
	f.Enums = s.Enums
	f.Interfaces = s.Interfaces
	f.Types = s.Types
}

// FunctionCount returns the number of functions plus class methods.
func (f *FileAnalysis) FunctionCount() int {
	n := len(f.Functions)
	for _, c := range f.Classes {
		n += len(c.Methods)
	}
	return n
}
