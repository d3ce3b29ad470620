package index

import "time"

// FilterSet narrows the symbol/file candidate set a search considers.
type FilterSet struct {
	Kinds          []SymbolKind
	Languages      []string
	Categories     []Category
	PathGlobs      []string
	FileSubstrings []string
	SymbolExact    string
	RecentOnly     bool
}

func (f FilterSet) Matches(rec SymbolRecord) bool {
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, rec.Kind) {
		return false
	}
	if len(f.Languages) > 0 && !containsString(f.Languages, rec.Language) {
		return false
	}
	if len(f.Categories) > 0 && !anyCategoryMatch(f.Categories, rec.Categories) {
		return false
	}
	if f.RecentOnly && !rec.Recent {
		return false
	}
	if f.SymbolExact != "" && rec.Identifier != f.SymbolExact {
		return false
	}
	if len(f.PathGlobs) > 0 && !anyGlobMatches(f.PathGlobs, rec.Path) {
		return false
	}
	if len(f.FileSubstrings) > 0 && !anySubstringMatches(f.FileSubstrings, rec.Path) {
		return false
	}
	return true
}

// MatchesFile applies the file-level subset of the filter (no kind/symbol
// fields, since literal candidates aren't symbols).
func (f FilterSet) MatchesFile(entry FileEntry) bool {
	if len(f.Languages) > 0 && !containsString(f.Languages, entry.Language) {
		return false
	}
	if len(f.Categories) > 0 && !anyCategoryMatch(f.Categories, entry.Categories) {
		return false
	}
	if f.RecentOnly && !entry.Recent {
		return false
	}
	if len(f.PathGlobs) > 0 && !anyGlobMatches(f.PathGlobs, entry.Path) {
		return false
	}
	if len(f.FileSubstrings) > 0 && !anySubstringMatches(f.FileSubstrings, entry.Path) {
		return false
	}
	return true
}

// SearchRequest is the fully-resolved request the index executes, produced
// by the planner from a quick-command/JSON/freeform payload.
type SearchRequest struct {
	Query                  string
	Filters                FilterSet
	Refine                 *QueryID
	Limit                  int
	WithRefs               bool
	RefsLimit              int
	RefsRole               string
	HelpSymbol             string
	TextMode               bool
	LiteralFallbackAllowed bool
	RecentBonus            bool
	CategoryBonusKinds     []SymbolKind
}

// NavHit is one ranked or literal search result.
type NavHit struct {
	ID         string
	Kind       string
	Identifier string
	Path       string
	Language   string
	Range      SymbolRange
	Score      float64
	Preview    string
	DocSummary string
	Help       *HelpBlock
	References []Reference
}

// HelpBlock is attached when a hit matches the request's HelpSymbol.
type HelpBlock struct {
	Summary string
	Usage   string
}

// Reference is one usage/definition location attached to a hit when
// WithRefs is set.
type Reference struct {
	Path string
	Line int
	Role string
}

// SearchStats carries timing and fallback flags into SearchResponse.
type SearchStats struct {
	CandidateCount  int
	RefineFallback  bool
	LiteralFallback bool
	Elapsed         time.Duration
}

// SearchDiagnostics surfaces index health alongside results.
type SearchDiagnostics struct {
	IndexState      string
	Coverage        map[CoverageState]int
	PendingLiterals []string
}

// SearchResponse is the full output of one search.
type SearchResponse struct {
	QueryID      QueryID
	Hits         []NavHit
	Stats        SearchStats
	Hints        []string
	Diagnostics  SearchDiagnostics
	FallbackHits []NavHit
	AtlasHint    string
}

func containsKind(list []SymbolKind, k SymbolKind) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func anyCategoryMatch(want []Category, have []Category) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
