package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language is the language tag recorded on every analyzed file.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangHTML       Language = "html"
	LangCSS        Language = "css"
	LangSCSS       Language = "scss"
	LangLess       Language = "less"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangCSharp     Language = "csharp"
	LangCPP        Language = "cpp"
	LangC          Language = "c"
	LangRust       Language = "rust"
	LangSwift      Language = "swift"
	LangKotlin     Language = "kotlin"
	LangDart       Language = "dart"
	LangScala      Language = "scala"
	LangGroovy     Language = "groovy"
	LangLua        Language = "lua"
	LangPerl       Language = "perl"
	LangR          Language = "r"
	LangJSON       Language = "json"
	LangYAML       Language = "yaml"
	LangXML        Language = "xml"
	LangTOML       Language = "toml"
	LangSQL        Language = "sql"
	LangShell      Language = "shell"
	LangDockerfile Language = "dockerfile"
	LangTerraform  Language = "terraform"
	LangMarkdown   Language = "markdown"
	LangText       Language = "text"
	LangUnknown    Language = "unknown"
)

var extensionLanguages = map[string]Language{
	// Core and web
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".html": LangHTML,
	".htm":  LangHTML,
	".css":  LangCSS,
	".scss": LangSCSS,
	".sass": LangSCSS,
	".less": LangLess,

	// Backend and systems
	".py":     LangPython,
	".java":   LangJava,
	".go":     LangGo,
	".rb":     LangRuby,
	".php":    LangPHP,
	".cs":     LangCSharp,
	".cpp":    LangCPP,
	".hpp":    LangCPP,
	".cc":     LangCPP,
	".c":      LangC,
	".h":      LangC,
	".rs":     LangRust,
	".swift":  LangSwift,
	".kt":     LangKotlin,
	".kts":    LangKotlin,
	".dart":   LangDart,
	".scala":  LangScala,
	".groovy": LangGroovy,
	".lua":    LangLua,
	".pl":     LangPerl,
	".pm":     LangPerl,
	".r":      LangR,

	// Config and data
	".json": LangJSON,
	".yaml": LangYAML,
	".yml":  LangYAML,
	".xml":  LangXML,
	".toml": LangTOML,
	".sql":  LangSQL,

	// Shell and devops
	".sh":         LangShell,
	".bash":       LangShell,
	".zsh":        LangShell,
	".dockerfile": LangDockerfile,
	".tf":         LangTerraform,

	// Documentation
	".md":       LangMarkdown,
	".markdown": LangMarkdown,
	".txt":      LangText,
}

// DetectLanguage determines the language from a file path's extension.
// Unlisted extensions map to LangUnknown.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return LangUnknown
}

// IsScript reports whether structural extraction applies to the language.
func (l Language) IsScript() bool {
	return l == LangTypeScript || l == LangJavaScript
}

// Grammar names a tree-sitter grammar.
type Grammar string

const (
	GrammarTypeScript Grammar = "typescript"
	GrammarTSX        Grammar = "tsx"
	GrammarJavaScript Grammar = "javascript"
)

// GrammarFor picks the grammar for a script file. The second result is
// false for files that are not TypeScript or JavaScript.
func GrammarFor(path string) (Grammar, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return GrammarTypeScript, true
	case ".tsx":
		return GrammarTSX, true
	case ".js", ".jsx":
		return GrammarJavaScript, true
	default:
		return "", false
	}
}

// GetTreeSitterLanguage returns the tree-sitter language for a grammar.
func GetTreeSitterLanguage(g Grammar) *sitter.Language {
	switch g {
	case GrammarTypeScript:
		return typescript.GetLanguage()
	case GrammarJavaScript:
		return javascript.GetLanguage()
	default:
		return tsx.GetLanguage()
	}
}
