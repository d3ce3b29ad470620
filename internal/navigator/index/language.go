package index

import (
	"path/filepath"
	"strings"
)

var extToLanguage = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".rs":   "rust",
	".java": "java",
	".rb":   "ruby",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
}

func detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extToLanguage[ext]; ok {
		return lang
	}
	return ""
}

func isTestPath(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(path, "_test.go") || strings.HasSuffix(path, "_test.py") {
		return true
	}
	if strings.HasPrefix(base, "test_") {
		return true
	}
	dirParts := strings.Split(filepath.ToSlash(filepath.Dir(path)), "/")
	for _, part := range dirParts {
		if part == "tests" || part == "test" || part == "__tests__" {
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if (ext == ".js" || ext == ".ts" || ext == ".tsx") &&
		(strings.HasSuffix(base, ".test"+ext) || strings.HasSuffix(base, ".spec"+ext)) {
		return true
	}
	return false
}

func isDocsPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" || ext == ".mdx" || ext == ".rst" || ext == ".adoc" || ext == ".txt" {
		return true
	}
	dirParts := strings.Split(filepath.ToSlash(filepath.Dir(path)), "/")
	for _, part := range dirParts {
		if part == "docs" || part == "doc" {
			return true
		}
	}
	return false
}

func isDepsPath(path string) bool {
	dirParts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range dirParts {
		switch part {
		case "vendor", "node_modules", "third_party", "deps":
			return true
		}
	}
	return false
}

func classifyCategories(path string) []Category {
	var cats []Category
	switch {
	case isDepsPath(path):
		cats = append(cats, CategoryDeps)
	case isTestPath(path):
		cats = append(cats, CategoryTests)
	case isDocsPath(path):
		cats = append(cats, CategoryDocs)
	default:
		cats = append(cats, CategorySource)
	}
	return cats
}

// ignoredDirNames lists directories that are always skipped by name. On top
// of these, SkipDir prunes every other directory whose name starts with "."
// except ".github".
var ignoredDirNames = map[string]bool{
	".git":         true,
	".navshell":    true,
	"node_modules": true,
	"vendor":       true,
	".hg":          true,
	".svn":         true,
}

// PathFilter rejects ignored directories and oversized files before they
// reach the indexer.
type PathFilter struct {
	MaxFileBytes int64
}

// NewPathFilter returns a filter using the default file size cap.
func NewPathFilter() *PathFilter {
	return &PathFilter{MaxFileBytes: MaxFileBytes}
}

// SkipDir reports whether a directory name should be pruned from the walk.
func (f *PathFilter) SkipDir(name string) bool {
	if name == "." {
		return false
	}
	if ignoredDirNames[name] {
		return true
	}
	return strings.HasPrefix(name, ".") && name != ".github"
}

// Oversize reports whether a file's size exceeds the configured cap.
func (f *PathFilter) Oversize(size int64) bool {
	cap := f.MaxFileBytes
	if cap <= 0 {
		cap = MaxFileBytes
	}
	return size > cap
}
