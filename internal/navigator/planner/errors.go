package planner

import "fmt"

// PayloadParseError reports a malformed payload before any semantic
// validation runs (unterminated quote, trailing escape, bad JSON, missing
// freeform header).
type PayloadParseError struct {
	Dialect string
	Reason  string
}

func (e *PayloadParseError) Error() string {
	return fmt.Sprintf("%s payload: %s", e.Dialect, e.Reason)
}

// PlannerError reports a semantic problem with an otherwise well-formed
// payload: an unknown enum value, a missing anchor, or a validation
// failure caught once the request has been resolved.
type PlannerError struct {
	Field      string
	Value      string
	Suggestion string
	Reason     string
}

func (e *PlannerError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown value %q for %s (did you mean %q?)", e.Value, e.Field, e.Suggestion)
	}
	return fmt.Sprintf("unknown value %q for %s", e.Value, e.Field)
}
