package planner

import "strings"

// ParsePayload auto-detects which of the three dialects text uses and
// parses it into a ParsedPayload. JSON is checked first since it has the
// most distinctive opening character, then the freeform header, then
// quick command as the fallback.
func ParsePayload(text string) (*ParsedPayload, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &PayloadParseError{Dialect: "payload", Reason: "empty payload"}
	}
	switch {
	case looksLikeJSON(trimmed):
		return parseJSONPayload(trimmed)
	case looksLikeFreeform(trimmed):
		return parseFreeform(trimmed)
	default:
		return parseQuickCommand(trimmed)
	}
}
