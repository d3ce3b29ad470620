package planner

import "navshell/internal/navigator/index"

// defaultLimit is applied when no profile or explicit option sets one.
const defaultLimit = 20

var symbolKinds = []index.SymbolKind{
	index.KindFunction, index.KindMethod, index.KindStruct, index.KindEnum,
	index.KindTrait, index.KindClass, index.KindInterface, index.KindImpl,
}

// workingRequest is the mutable state profiles and options accumulate into
// before being frozen into an index.SearchRequest.
type workingRequest struct {
	kinds              []index.SymbolKind
	kindsSet           bool
	allowKindOverrides bool
	categories         []index.Category
	limit              int
	limitSet           bool
	withRefs           bool
	refsLimit          int
	refsRole           string
	textMode           bool
	recentOnly         bool
}

// applyProfile mutates req per the §4.4 profile table. Profiles run in the
// order supplied; later profiles can override earlier ones but never an
// explicit user-set kind list (allowKindOverrides stays false in that case).
func applyProfile(req *workingRequest, p Profile) {
	switch p {
	case ProfileBalanced:
		// no-op
	case ProfileFocused:
		if req.limit < 5 {
			req.limit = 5
		} else if req.limit > 25 {
			req.limit = 25
		}
		req.limitSet = true
	case ProfileBroad:
		if req.limit < 80 {
			req.limit = 80
		}
		req.limitSet = true
		req.withRefs = false
	case ProfileSymbols:
		setKinds(req, symbolKinds)
		req.withRefs = true
		if req.refsLimit == 0 {
			req.refsLimit = 12
		}
		if req.limit == 0 || req.limit > 40 {
			req.limit = 40
		}
		req.limitSet = true
	case ProfileFiles:
		setKinds(req, nil)
		req.withRefs = false
		if req.limit < 80 {
			req.limit = 80
		}
		req.limitSet = true
	case ProfileTests:
		req.categories = []index.Category{index.CategoryTests}
	case ProfileDocs:
		req.categories = []index.Category{index.CategoryDocs}
	case ProfileDeps:
		req.categories = []index.Category{index.CategoryDeps}
	case ProfileRecent:
		req.recentOnly = true
	case ProfileReferences:
		req.withRefs = true
		if req.refsLimit == 0 {
			req.refsLimit = 12
		}
	case ProfileAi:
		setKinds(req, symbolKinds)
		if req.limit < 10 {
			req.limit = 10
		} else if req.limit > 20 {
			req.limit = 20
		}
		req.limitSet = true
		req.withRefs = true
		if req.refsLimit == 0 {
			req.refsLimit = 12
		}
	case ProfileText:
		setKinds(req, nil)
		req.withRefs = false
		req.textMode = true
	}
}

// setKinds applies a profile's kind mutation unless the user explicitly set
// kinds themselves, in which case the mutation is suppressed and
// allowKindOverrides stays false.
func setKinds(req *workingRequest, kinds []index.SymbolKind) {
	if !req.allowKindOverrides {
		return
	}
	req.kinds = kinds
	req.kindsSet = true
}

// needsAutoText implements the §4.4 auto-text heuristic: with no explicit
// profile and no symbol_exact / explicit kinds, Text kicks in when the
// query looks short, multi-word, or literal-shaped.
func needsAutoText(payload *ParsedPayload) bool {
	if len(payload.Profiles) > 0 || payload.SymbolExact != "" || payload.KindsExplicit {
		return false
	}
	q := payload.Query
	if q == "" {
		return false
	}
	if len(q) <= 3 {
		return true
	}
	words := 0
	inWord := false
	for _, r := range q {
		if r == ' ' {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	if words >= 2 {
		return true
	}
	for _, r := range q {
		switch r {
		case '=', '"', '\'', '/', '\\', '.', ':', ';', '{', '}', '[', ']', '(', ')', '<', '>', '|', '&', '%', '$', '#', '@', '-', '+', ',':
			return true
		}
	}
	return false
}

// inferProfiles implements the §4.3 query-shape inference used when the
// payload named no profile explicitly.
func inferProfiles(payload *ParsedPayload) []Profile {
	var inferred []Profile
	q := payload.Query
	lower := toLower(q)
	if isIdentifierLike(q) {
		inferred = append(inferred, ProfileSymbols)
	}
	if containsWord(lower, "test") || containsWord(lower, "tests") {
		inferred = append(inferred, ProfileTests)
	}
	if containsWord(lower, "doc") || containsWord(lower, "docs") {
		inferred = append(inferred, ProfileDocs)
	}
	if containsWord(lower, "dep") || containsWord(lower, "deps") {
		inferred = append(inferred, ProfileDeps)
	}
	if needsAutoText(payload) {
		inferred = append(inferred, ProfileText)
	}
	return inferred
}
