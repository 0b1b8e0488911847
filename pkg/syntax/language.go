package syntax

import (
	"path/filepath"
	"sort"
	"strings"
)

// LanguageID names a grammar. It selects both the parser grammar and the
// table of node kinds the engine may widen to.
type LanguageID string

const (
	LangUnknown    LanguageID = ""
	LangSwift      LanguageID = "swift"
	LangGo         LanguageID = "go"
	LangPython     LanguageID = "python"
	LangJavaScript LanguageID = "javascript"
	LangTypeScript LanguageID = "typescript"
	LangTSX        LanguageID = "tsx"
	LangRust       LanguageID = "rust"
	LangJava       LanguageID = "java"
	LangYAML       LanguageID = "yaml"
)

var extensions = map[string]LanguageID{
	".swift": LangSwift,
	".go":    LangGo,
	".py":    LangPython,
	".pyi":   LangPython,
	".js":    LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".jsx":   LangJavaScript,
	".ts":    LangTypeScript,
	".mts":   LangTypeScript,
	".cts":   LangTypeScript,
	".tsx":   LangTSX,
	".rs":    LangRust,
	".java":  LangJava,
	".yaml":  LangYAML,
	".yml":   LangYAML,
}

var aliases = map[string]LanguageID{
	"golang": LangGo,
	"py":     LangPython,
	"js":     LangJavaScript,
	"ts":     LangTypeScript,
	"rs":     LangRust,
	"yml":    LangYAML,
}

// DetectLanguage determines the language of a file from its extension.
func DetectLanguage(path string) LanguageID {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// ParseLanguage resolves a user supplied language name, accepting common
// aliases. Unknown names return LangUnknown.
func ParseLanguage(name string) LanguageID {
	name = strings.ToLower(strings.TrimSpace(name))
	if id, ok := aliases[name]; ok {
		return id
	}
	id := LanguageID(name)
	if _, ok := grammars[id]; ok {
		return id
	}
	return LangUnknown
}

// Languages returns every language with a bundled grammar, sorted.
func Languages() []LanguageID {
	ids := make([]LanguageID, 0, len(grammars))
	for id := range grammars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
