package patch

import "fmt"

// InvalidPatchError is a structural failure: missing/duplicated markers,
// no blocks, or an otherwise malformed envelope.
type InvalidPatchError struct {
	Message string
}

func (e *InvalidPatchError) Error() string {
	return fmt.Sprintf("invalid patch: %s", e.Message)
}

// InvalidHunkError pinpoints a per-hunk failure to the offending line
// within the patch text (1-indexed, counting the Begin Patch line as 1).
type InvalidHunkError struct {
	LineNumber int
	Message    string
}

func (e *InvalidHunkError) Error() string {
	return fmt.Sprintf("invalid hunk at line %d, %s", e.LineNumber, e.Message)
}

func invalidPatch(format string, args ...any) error {
	return &InvalidPatchError{Message: fmt.Sprintf(format, args...)}
}

func invalidHunk(line int, format string, args ...any) error {
	return &InvalidHunkError{LineNumber: line, Message: fmt.Sprintf(format, args...)}
}
