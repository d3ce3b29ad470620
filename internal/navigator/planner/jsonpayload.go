package planner

import (
	"encoding/json"
	"fmt"
)

// looksLikeJSON reports whether trimmed text opens with a JSON object.
func looksLikeJSON(text string) bool {
	for _, r := range text {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// parseJSONPayload implements dialect 2 of §4.4: either an {action, …}
// envelope, a shorthand {search:{…}}|{open:"…"}|{snippet:{id,context}}, or
// an escape hatch where a string value starting with "*** Begin " is
// re-parsed as a freeform block.
func parseJSONPayload(text string) (*ParsedPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &PayloadParseError{Dialect: "JSON", Reason: err.Error()}
	}

	if actionRaw, ok := raw["action"]; ok {
		var actionName string
		if err := json.Unmarshal(actionRaw, &actionName); err != nil {
			return nil, &PayloadParseError{Dialect: "JSON", Reason: "action must be a string"}
		}
		action, ok := quickActions[actionName]
		if !ok {
			return nil, &PayloadParseError{Dialect: "JSON", Reason: "unknown action " + actionName}
		}
		payload := &ParsedPayload{Action: action}
		for key, value := range raw {
			if key == "action" {
				continue
			}
			if handled, err := applyJSONEscapeHatch(payload, key, value); err != nil {
				return nil, err
			} else if handled {
				continue
			}
			applyJSONField(payload, key, value)
		}
		return payload, nil
	}

	for name, action := range map[string]Action{"search": ActionSearch, "open": ActionOpen, "snippet": ActionSnippet} {
		body, ok := raw[name]
		if !ok {
			continue
		}
		return parseJSONShorthand(action, body)
	}

	return nil, &PayloadParseError{Dialect: "JSON", Reason: "missing action"}
}

// parseJSONShorthand handles {search:{…}} / {open:"…"} / {snippet:{id,context}}.
func parseJSONShorthand(action Action, body json.RawMessage) (*ParsedPayload, error) {
	payload := &ParsedPayload{Action: action}

	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		switch action {
		case ActionOpen:
			payload.OpenID = asString
		case ActionSnippet:
			payload.SnippetID = asString
		default:
			payload.Query = asString
		}
		return payload, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &PayloadParseError{Dialect: "JSON", Reason: "invalid " + string(action) + " body"}
	}
	for key, value := range fields {
		if handled, err := applyJSONEscapeHatch(payload, key, value); err != nil {
			return nil, err
		} else if handled {
			continue
		}
		applyJSONField(payload, key, value)
	}
	return payload, nil
}

// applyJSONEscapeHatch detects a string value beginning with "*** Begin "
// and re-parses it as a freeform block, merging the result into payload.
func applyJSONEscapeHatch(payload *ParsedPayload, key string, value json.RawMessage) (bool, error) {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return false, nil
	}
	if !looksLikeFreeform(s) {
		return false, nil
	}
	nested, err := parseFreeform(s)
	if err != nil {
		return true, err
	}
	mergePayload(payload, nested)
	return true, nil
}

func mergePayload(dst, src *ParsedPayload) {
	dst.Action = src.Action
	if src.Query != "" {
		dst.Query = src.Query
	}
	if src.SymbolExact != "" {
		dst.SymbolExact = src.SymbolExact
	}
	if src.OpenID != "" {
		dst.OpenID = src.OpenID
	}
	if src.SnippetID != "" {
		dst.SnippetID = src.SnippetID
	}
	if src.Context != 0 {
		dst.Context = src.Context
	}
	dst.KindsRaw = append(dst.KindsRaw, src.KindsRaw...)
	dst.KindsExplicit = dst.KindsExplicit || src.KindsExplicit
	dst.Languages = append(dst.Languages, src.Languages...)
	dst.CategoriesRaw = append(dst.CategoriesRaw, src.CategoriesRaw...)
	dst.PathGlobs = append(dst.PathGlobs, src.PathGlobs...)
	dst.FileSubstrings = append(dst.FileSubstrings, src.FileSubstrings...)
	dst.RecentOnly = dst.RecentOnly || src.RecentOnly
	dst.OnlyTests = dst.OnlyTests || src.OnlyTests
	dst.OnlyDocs = dst.OnlyDocs || src.OnlyDocs
	dst.OnlyDeps = dst.OnlyDeps || src.OnlyDeps
	dst.Profiles = append(dst.Profiles, src.Profiles...)
	dst.WithRefs = dst.WithRefs || src.WithRefs
	if src.RefsRole != "" {
		dst.RefsRole = src.RefsRole
	}
	if src.RefsLimit != 0 {
		dst.RefsLimit = src.RefsLimit
	}
	if src.HelpSymbol != "" {
		dst.HelpSymbol = src.HelpSymbol
	}
	if src.Limit != 0 {
		dst.Limit = src.Limit
	}
	if src.Refine != "" {
		dst.Refine = src.Refine
	}
	dst.UnknownKeys = append(dst.UnknownKeys, src.UnknownKeys...)
}

func applyJSONField(payload *ParsedPayload, key string, value json.RawMessage) {
	switch key {
	case "context", "refs_limit", "limit":
		var n int
		if err := json.Unmarshal(value, &n); err != nil {
			recordUnknownKey(payload, key)
			return
		}
		applyQuickOption(payload, key, fmt.Sprintf("%d", n))
	case "recent", "only_tests", "only_docs", "only_deps", "with_refs":
		var b bool
		if err := json.Unmarshal(value, &b); err != nil {
			recordUnknownKey(payload, key)
			return
		}
		applyQuickOption(payload, key, fmt.Sprintf("%t", b))
	case "kind", "kinds", "language", "languages", "category", "categories",
		"path_glob", "path_globs", "file", "files", "profile", "profiles":
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			for _, item := range list {
				applyQuickOption(payload, key, item)
			}
			return
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			applyQuickOption(payload, key, single)
			return
		}
		recordUnknownKey(payload, key)
	default:
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			recordUnknownKey(payload, key)
			return
		}
		applyQuickOption(payload, key, s)
	}
}
