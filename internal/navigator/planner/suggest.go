package planner

import (
	"strconv"
	"strings"
)

// knownKeys lists the option keys every dialect recognizes, shared so the
// suggester behaves identically regardless of which parser hit an unknown
// key.
var knownKeys = []string{
	"query", "q", "symbol_exact", "id", "context",
	"kind", "kinds", "language", "languages", "category", "categories",
	"path_glob", "path_globs", "file", "files", "recent",
	"only_tests", "only_docs", "only_deps",
	"profile", "profiles", "with_refs", "refs_role", "refs_limit",
	"help_symbol", "limit", "refine",
}

var knownKinds = []string{
	"function", "method", "struct", "enum", "trait", "class", "interface", "impl", "const", "field",
}

var knownCategories = []string{"source", "tests", "docs", "deps"}

var knownRefsRoles = []string{"definition", "usage"}

var knownProfiles = []string{
	"balanced", "focused", "broad", "symbols", "files", "tests", "docs",
	"deps", "recent", "references", "ai", "text",
}

// Suggest exposes the shared ≤1-edit-distance suggester for callers
// outside this package (the CLI's enum-flag validation uses the same
// table-driven approach rather than hand-rolling its own).
func Suggest(value string, candidates []string) string {
	return suggestClosest(value, candidates)
}

// suggestClosest returns the candidate within edit distance 1 of value, or
// "" if none qualifies. Ties favor the first candidate in table order.
func suggestClosest(value string, candidates []string) string {
	value = strings.ToLower(value)
	for _, c := range candidates {
		if editDistanceAtMost1(value, c) {
			return c
		}
	}
	return ""
}

// editDistanceAtMost1 reports whether a and b differ by at most one
// single-character insertion, deletion, or substitution.
func editDistanceAtMost1(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la == lb {
		diff := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diff++
				if diff > 1 {
					return false
				}
			}
		}
		return diff == 1
	}
	if la+1 == lb {
		return isSingleInsertion(a, b)
	}
	if lb+1 == la {
		return isSingleInsertion(b, a)
	}
	return false
}

// isSingleInsertion reports whether longer equals shorter with exactly one
// character inserted somewhere.
func isSingleInsertion(shorter, longer string) bool {
	i := 0
	for i < len(shorter) && shorter[i] == longer[i] {
		i++
	}
	return shorter[i:] == longer[i+1:]
}

// formatUnknownHint renders at most three unknown-key suggestions inline,
// abbreviating the remainder as "(+N more)".
func formatUnknownHint(unknown []UnknownKey) string {
	if len(unknown) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("unknown keys: ")
	shown := unknown
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for i, u := range shown {
		if i > 0 {
			b.WriteString(", ")
		}
		if u.Suggestion != "" {
			b.WriteString(u.Key + " (did you mean " + u.Suggestion + "?)")
		} else {
			b.WriteString(u.Key)
		}
	}
	if rest := len(unknown) - len(shown); rest > 0 {
		b.WriteString(" (+")
		b.WriteString(strconv.Itoa(rest))
		b.WriteString(" more)")
	}
	return b.String()
}

func recordUnknownKey(payload *ParsedPayload, key string) {
	payload.UnknownKeys = append(payload.UnknownKeys, UnknownKey{
		Key:        key,
		Suggestion: suggestClosest(key, knownKeys),
	})
}
