package planner

import "strings"

// tokenizeQuick splits a quick-command line the way a shell would: single-
// and double-quoted spans are preserved verbatim (except for backslash
// escapes inside double quotes and bare words), and whitespace outside
// quotes separates tokens.
func tokenizeQuick(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	hasToken := false

	runes := []rune(line)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\'':
			hasToken = true
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				cur.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, &PayloadParseError{Dialect: "quick command", Reason: "unterminated single quote"}
			}
			i = j + 1
		case r == '"':
			hasToken = true
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				if runes[j] == '\\' && j+1 < len(runes) {
					cur.WriteRune(runes[j+1])
					j += 2
					continue
				}
				if runes[j] == '\\' && j+1 >= len(runes) {
					return nil, &PayloadParseError{Dialect: "quick command", Reason: "trailing escape inside quotes"}
				}
				cur.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, &PayloadParseError{Dialect: "quick command", Reason: "unterminated double quote"}
			}
			i = j + 1
		case r == '\\':
			if i+1 >= len(runes) {
				return nil, &PayloadParseError{Dialect: "quick command", Reason: "trailing escape"}
			}
			hasToken = true
			cur.WriteRune(runes[i+1])
			i += 2
		case r == ' ' || r == '\t' || r == '\n':
			if hasToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				hasToken = false
			}
			i++
		default:
			hasToken = true
			cur.WriteRune(r)
			i++
		}
	}
	if hasToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

var quickActions = map[string]Action{
	"search":  ActionSearch,
	"find":    ActionSearch,
	"open":    ActionOpen,
	"snippet": ActionSnippet,
	"atlas":   ActionAtlas,
	"facet":   ActionFacet,
	"history": ActionHistory,
}

// categoryShorthands maps a bare quick-command token to the profile it
// latches. Of these, only tests, docs and deps also set their only_*
// filter when preceded by "only"; parseQuickCommand decides that.
var categoryShorthands = map[string]Profile{
	"tests":   ProfileTests,
	"docs":    ProfileDocs,
	"deps":    ProfileDeps,
	"recent":  ProfileRecent,
	"refs":    ProfileReferences,
	"symbols": ProfileSymbols,
	"files":   ProfileFiles,
	"ai":      ProfileAi,
	"text":    ProfileText,
}

// parseQuickCommand implements the first dialect of 4.4: an action token
// followed by shorthand flags, key=value options, and a free-text query.
func parseQuickCommand(line string) (*ParsedPayload, error) {
	tokens, err := tokenizeQuick(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &PayloadParseError{Dialect: "quick command", Reason: "empty command"}
	}

	action, ok := quickActions[strings.ToLower(tokens[0])]
	if !ok {
		return nil, &PayloadParseError{Dialect: "quick command", Reason: "unknown action " + tokens[0]}
	}

	payload := &ParsedPayload{Action: action}
	var queryParts []string
	onlyLatched := false

	for _, tok := range tokens[1:] {
		if tok == "only" {
			onlyLatched = true
			continue
		}
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			key, value := tok[:eq], tok[eq+1:]
			applyQuickOption(payload, key, value)
			onlyLatched = false
			continue
		}
		if profile, isShorthand := categoryShorthands[strings.ToLower(tok)]; isShorthand {
			payload.Profiles = append(payload.Profiles, profile)
			if onlyLatched {
				switch profile {
				case ProfileTests:
					payload.OnlyTests = true
				case ProfileDocs:
					payload.OnlyDocs = true
				case ProfileDeps:
					payload.OnlyDeps = true
				}
			}
			onlyLatched = false
			continue
		}
		if strings.EqualFold(tok, "with_refs") {
			payload.WithRefs = true
			onlyLatched = false
			continue
		}
		onlyLatched = false
		queryParts = append(queryParts, tok)
	}

	payload.Query = strings.Join(queryParts, " ")
	return payload, nil
}

func applyQuickOption(payload *ParsedPayload, key, value string) {
	switch strings.ToLower(key) {
	case "query", "q":
		payload.Query = value
	case "symbol_exact":
		payload.SymbolExact = value
	case "id":
		payload.OpenID = value
		payload.SnippetID = value
	case "context":
		payload.Context = parseIntDefault(value, payload.Context)
	case "kind", "kinds":
		payload.KindsExplicit = true
		payload.KindsRaw = append(payload.KindsRaw, splitCSV(value)...)
	case "language", "languages":
		payload.Languages = append(payload.Languages, splitCSV(value)...)
	case "category", "categories":
		payload.CategoriesRaw = append(payload.CategoriesRaw, splitCSV(value)...)
	case "path_glob", "path_globs":
		payload.PathGlobs = append(payload.PathGlobs, splitCSV(value)...)
	case "file", "files":
		payload.FileSubstrings = append(payload.FileSubstrings, splitCSV(value)...)
	case "recent":
		payload.RecentOnly = parseBool(value)
	case "only_tests":
		payload.OnlyTests = parseBool(value)
	case "only_docs":
		payload.OnlyDocs = parseBool(value)
	case "only_deps":
		payload.OnlyDeps = parseBool(value)
	case "profile", "profiles":
		for _, p := range splitCSV(value) {
			payload.Profiles = append(payload.Profiles, Profile(strings.ToLower(p)))
		}
	case "with_refs":
		payload.WithRefs = parseBool(value)
	case "refs_role":
		payload.RefsRole = value
	case "refs_limit":
		payload.RefsLimit = parseIntDefault(value, payload.RefsLimit)
	case "help_symbol":
		payload.HelpSymbol = value
	case "limit":
		payload.Limit = parseIntDefault(value, payload.Limit)
	case "refine":
		payload.Refine = value
	default:
		recordUnknownKey(payload, key)
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func parseIntDefault(value string, fallback int) int {
	n := 0
	neg := false
	i := 0
	if len(value) > 0 && value[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(value) {
		return fallback
	}
	for ; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return fallback
		}
		n = n*10 + int(value[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}
