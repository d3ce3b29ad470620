package planner

import (
	"navshell/internal/navigator/index"
)

// Plan parses a raw payload in any accepted dialect, applies profile
// mutations, validates the result, and resolves it into an
// index.SearchRequest (or Open/Snippet id) ready to execute.
func Plan(text string) (*ResolvedRequest, error) {
	payload, err := ParsePayload(text)
	if err != nil {
		return nil, err
	}
	return resolve(payload)
}

func resolve(payload *ParsedPayload) (*ResolvedRequest, error) {
	switch payload.Action {
	case ActionOpen:
		if payload.OpenID == "" {
			return nil, &PlannerError{Reason: "open requires an id"}
		}
		return &ResolvedRequest{Action: ActionOpen, OpenID: payload.OpenID, Context: payload.Context}, nil
	case ActionSnippet:
		if payload.SnippetID == "" {
			return nil, &PlannerError{Reason: "snippet requires an id"}
		}
		return &ResolvedRequest{Action: ActionSnippet, OpenID: payload.SnippetID, Context: payload.Context}, nil
	case ActionAtlas:
		return &ResolvedRequest{Action: ActionAtlas}, nil
	case ActionFacet, ActionHistory:
		return &ResolvedRequest{Action: payload.Action}, nil
	default:
		return resolveSearch(payload)
	}
}

func resolveSearch(payload *ParsedPayload) (*ResolvedRequest, error) {
	req := &workingRequest{allowKindOverrides: !payload.KindsExplicit}
	req.recentOnly = payload.RecentOnly
	req.limit = payload.Limit
	req.limitSet = payload.Limit != 0
	req.withRefs = payload.WithRefs
	req.refsLimit = payload.RefsLimit

	var kinds []index.SymbolKind
	for _, raw := range payload.KindsRaw {
		k, err := resolveKind(raw)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	if len(kinds) > 0 {
		req.kinds = kinds
		req.kindsSet = true
	}

	var categories []index.Category
	for _, raw := range payload.CategoriesRaw {
		c, err := resolveCategory(raw)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if len(categories) == 0 {
		switch {
		case payload.OnlyTests:
			categories = []index.Category{index.CategoryTests}
		case payload.OnlyDocs:
			categories = []index.Category{index.CategoryDocs}
		case payload.OnlyDeps:
			categories = []index.Category{index.CategoryDeps}
		}
	}
	req.categories = categories

	resolvedRole, err := resolveRefsRole(payload.RefsRole)
	if err != nil {
		return nil, err
	}
	req.refsRole = resolvedRole

	profiles := payload.Profiles
	if len(profiles) == 0 {
		profiles = inferProfiles(payload)
	}

	var resolvedProfiles []Profile
	for _, raw := range profiles {
		p, err := resolveProfile(string(raw))
		if err != nil {
			return nil, err
		}
		resolvedProfiles = append(resolvedProfiles, p)
	}
	for _, p := range resolvedProfiles {
		applyProfile(req, p)
	}

	if err := validateSearch(payload, resolvedProfiles); err != nil {
		return nil, err
	}

	limit := req.limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var refine *index.QueryID
	if payload.Refine != "" {
		id, err := index.ParseQueryID(payload.Refine)
		if err != nil {
			return nil, &PlannerError{Field: "refine", Value: payload.Refine, Reason: "refine must be a UUID-shaped query id"}
		}
		refine = &id
	}

	searchReq := index.SearchRequest{
		Query: payload.Query,
		Filters: index.FilterSet{
			Kinds:          req.kinds,
			Languages:      payload.Languages,
			Categories:     req.categories,
			PathGlobs:      payload.PathGlobs,
			FileSubstrings: payload.FileSubstrings,
			SymbolExact:    payload.SymbolExact,
			RecentOnly:     req.recentOnly,
		},
		Refine:                 refine,
		Limit:                  limit,
		WithRefs:               req.withRefs,
		RefsLimit:              req.refsLimit,
		RefsRole:               req.refsRole,
		HelpSymbol:             payload.HelpSymbol,
		TextMode:               req.textMode,
		LiteralFallbackAllowed: payload.SymbolExact == "" && payload.HelpSymbol == "",
		RecentBonus:            req.recentOnly,
	}

	hints := []string{}
	if hint := formatUnknownHint(payload.UnknownKeys); hint != "" {
		hints = append(hints, hint)
	}

	return &ResolvedRequest{
		Action:             ActionSearch,
		Search:             searchReq,
		Hints:              hints,
		AllowKindOverrides: req.allowKindOverrides,
	}, nil
}

// validateSearch enforces §4.3's "at least one anchor" rule, plus the Ai
// profile's extra anchor requirement.
func validateSearch(payload *ParsedPayload, profiles []Profile) error {
	hasAnchor := payload.Query != "" || payload.SymbolExact != "" ||
		len(payload.PathGlobs) > 0 || len(payload.FileSubstrings) > 0 ||
		len(payload.CategoriesRaw) > 0 || payload.OnlyTests || payload.OnlyDocs ||
		payload.OnlyDeps || payload.Refine != ""
	if !hasAnchor {
		return &PlannerError{Reason: "search requires at least one of query, symbol_exact, path_globs, file_substrings, category, or refine"}
	}
	for _, p := range profiles {
		if p == ProfileAi && payload.Query == "" && payload.SymbolExact == "" {
			return &PlannerError{Reason: "the ai profile requires a query or symbol_exact anchor"}
		}
	}
	return nil
}
