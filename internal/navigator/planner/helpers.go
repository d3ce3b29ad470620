package planner

import "strings"

func toLower(s string) string { return strings.ToLower(s) }

// containsWord reports whether word appears in s as a standalone
// whitespace-delimited token (case already normalized by the caller).
func containsWord(s, word string) bool {
	for _, tok := range strings.Fields(s) {
		if tok == word {
			return true
		}
	}
	return false
}

// isIdentifierLike reports whether the query reads as a single bare
// identifier: no spaces, starts with a letter or underscore, and contains
// only identifier characters.
func isIdentifierLike(query string) bool {
	if query == "" || strings.ContainsAny(query, " \t") {
		return false
	}
	r0 := rune(query[0])
	if !(r0 == '_' || (r0 >= 'a' && r0 <= 'z') || (r0 >= 'A' && r0 <= 'Z')) {
		return false
	}
	for _, r := range query {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}
