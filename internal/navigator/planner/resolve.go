package planner

import (
	"strings"

	"navshell/internal/navigator/index"
)

// resolveKind maps a raw kind string to a SymbolKind, using the shared
// ≤1-edit-distance suggester when the value doesn't match exactly.
func resolveKind(raw string) (index.SymbolKind, error) {
	lower := strings.ToLower(raw)
	for _, k := range knownKinds {
		if lower == k {
			return index.SymbolKind(k), nil
		}
	}
	suggestion := suggestClosest(lower, knownKinds)
	return "", &PlannerError{Field: "kind", Value: raw, Suggestion: suggestion}
}

func resolveCategory(raw string) (index.Category, error) {
	lower := strings.ToLower(raw)
	for _, c := range knownCategories {
		if lower == c {
			return index.Category(c), nil
		}
	}
	suggestion := suggestClosest(lower, knownCategories)
	return "", &PlannerError{Field: "category", Value: raw, Suggestion: suggestion}
}

func resolveRefsRole(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	lower := strings.ToLower(raw)
	for _, r := range knownRefsRoles {
		if lower == r {
			return r, nil
		}
	}
	suggestion := suggestClosest(lower, knownRefsRoles)
	return "", &PlannerError{Field: "refs_role", Value: raw, Suggestion: suggestion}
}

func resolveProfile(raw string) (Profile, error) {
	lower := strings.ToLower(raw)
	for _, p := range knownProfiles {
		if lower == p {
			return Profile(p), nil
		}
	}
	suggestion := suggestClosest(lower, knownProfiles)
	return "", &PlannerError{Field: "profile", Value: raw, Suggestion: suggestion}
}
