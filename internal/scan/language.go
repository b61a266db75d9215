package scan

import (
	"path/filepath"
	"strings"
)

// Language names used across the extractor and rules.
const (
	LangGo         = "go"
	LangJava       = "java"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangPython     = "python"
	LangRust       = "rust"
)

var extToLang = map[string]string{
	".go":   LangGo,
	".java": LangJava,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".mjs":  LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".py":   LangPython,
	".rs":   LangRust,
}

// DetectLanguage maps a file path to a supported language, or "" if the file
// is not a source file docstyle knows how to check.
func DetectLanguage(path string) string {
	return extToLang[strings.ToLower(filepath.Ext(path))]
}

// IsTestFile reports whether the path looks like a test file by the usual
// per-language naming conventions.
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	switch DetectLanguage(path) {
	case LangGo:
		return strings.HasSuffix(base, "_test.go")
	case LangPython:
		return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
	case LangJava:
		return strings.HasSuffix(base, "Test.java") || strings.HasSuffix(base, "Tests.java")
	case LangJavaScript, LangTypeScript:
		return strings.Contains(base, ".test.") || strings.Contains(base, ".spec.")
	}
	return false
}
