package planner

import "strings"

var freeformActions = map[string]Action{
	"search":  ActionSearch,
	"open":    ActionOpen,
	"snippet": ActionSnippet,
}

// looksLikeFreeform reports whether text opens with the freeform header,
// ignoring leading blank lines.
func looksLikeFreeform(text string) bool {
	return strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "*** Begin ")
}

// parseFreeform implements dialect 3 of §4.4: a "*** Begin <Action>"
// header, key: value / key = value lines, "#" comments, and an optional
// "*** End <Action>" footer.
func parseFreeform(text string) (*ParsedPayload, error) {
	lines := strings.Split(text, "\n")
	var bodyStart int
	var action Action
	found := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "*** Begin ") {
			return nil, &PayloadParseError{Dialect: "freeform", Reason: "missing *** Begin header"}
		}
		name := strings.TrimSpace(strings.TrimPrefix(trimmed, "*** Begin "))
		a, ok := freeformActions[strings.ToLower(name)]
		if !ok {
			return nil, &PayloadParseError{Dialect: "freeform", Reason: "unknown action " + name}
		}
		action = a
		bodyStart = i + 1
		found = true
		break
	}
	if !found {
		return nil, &PayloadParseError{Dialect: "freeform", Reason: "missing *** Begin header"}
	}

	payload := &ParsedPayload{Action: action}
	for _, line := range lines[bodyStart:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "*** End ") {
			break
		}
		key, value, ok := splitFreeformLine(trimmed)
		if !ok {
			continue
		}
		value = cleanFreeformValue(value)
		applyFreeformOption(payload, key, value)
	}
	return payload, nil
}

// splitFreeformLine accepts either "key: value" or "key = value".
func splitFreeformLine(line string) (key, value string, ok bool) {
	if idx := strings.Index(line, ":"); idx >= 0 {
		if eq := strings.Index(line, "="); eq < 0 || idx < eq {
			return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
		}
	}
	if idx := strings.Index(line, "="); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
	}
	return "", "", false
}

// cleanFreeformValue strips one layer of matching surrounding quotes.
func cleanFreeformValue(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func applyFreeformOption(payload *ParsedPayload, key, value string) {
	applyQuickOption(payload, strings.ToLower(key), value)
}
