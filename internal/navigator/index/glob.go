package index

import (
	"path"
	"path/filepath"
	"strings"
)

// ValidateGlobs compiles each pattern once so a bad glob surfaces as an
// error to the caller instead of silently matching nothing on every file.
func ValidateGlobs(patterns []string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, "probe"); err != nil {
			return newIndexError("glob", p, err)
		}
	}
	return nil
}

func anyGlobMatches(patterns []string, target string) bool {
	target = filepath.ToSlash(target)
	for _, p := range patterns {
		if ok, err := path.Match(p, target); err == nil && ok {
			return true
		}
		if strings.HasSuffix(p, "/**") && strings.HasPrefix(target, strings.TrimSuffix(p, "**")) {
			return true
		}
	}
	return false
}

func anySubstringMatches(substrings []string, target string) bool {
	lower := strings.ToLower(target)
	for _, s := range substrings {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
