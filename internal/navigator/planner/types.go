// Package planner translates quick-command, JSON, and freeform-block
// payloads into a resolved navigator SearchRequest, applying profile
// mutations and a shared "did you mean" suggester for unknown keys/values.
package planner

import "navshell/internal/navigator/index"

// Action is the navigator operation a payload resolves to.
type Action string

const (
	ActionSearch  Action = "search"
	ActionOpen    Action = "open"
	ActionSnippet Action = "snippet"
	ActionAtlas   Action = "atlas"
	ActionFacet   Action = "facet"
	ActionHistory Action = "history"
)

// Profile is one of the named mutation presets applied to a parsed request.
type Profile string

const (
	ProfileBalanced   Profile = "balanced"
	ProfileFocused    Profile = "focused"
	ProfileBroad      Profile = "broad"
	ProfileSymbols    Profile = "symbols"
	ProfileFiles      Profile = "files"
	ProfileTests      Profile = "tests"
	ProfileDocs       Profile = "docs"
	ProfileDeps       Profile = "deps"
	ProfileRecent     Profile = "recent"
	ProfileReferences Profile = "references"
	ProfileAi         Profile = "ai"
	ProfileText       Profile = "text"
)

// ParsedPayload is the dialect-agnostic intermediate form every parser
// (quick command, JSON, freeform) produces before profile application.
type ParsedPayload struct {
	Action Action

	Query       string
	SymbolExact string
	OpenID      string
	SnippetID   string
	Context     int

	KindsRaw       []string
	KindsExplicit  bool
	Languages      []string
	CategoriesRaw  []string
	PathGlobs      []string
	FileSubstrings []string
	RecentOnly     bool

	OnlyTests bool
	OnlyDocs  bool
	OnlyDeps  bool

	Profiles   []Profile
	WithRefs   bool
	RefsRole   string
	RefsLimit  int
	HelpSymbol string

	Limit  int
	Refine string

	UnknownKeys []UnknownKey
}

// UnknownKey records a key the parser didn't recognize, plus a suggested
// correction under a shared edit-distance-1 scheme.
type UnknownKey struct {
	Key        string
	Suggestion string
}

// ResolvedRequest is the final, planner-applied request ready for
// index.Index.Search, plus bookkeeping the caller surfaces as hints.
type ResolvedRequest struct {
	Action  Action
	Search  index.SearchRequest
	OpenID  string
	Context int

	Hints               []string
	AllowKindOverrides  bool
}
