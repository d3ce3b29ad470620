package index

import "fmt"

// IndexError wraps a failure encountered while building or persisting the
// index: I/O, a corrupted snapshot (recovered by reset), or a glob compile
// failure, which is returned to the caller rather than swallowed.
type IndexError struct {
	Op      string
	Path    string
	Message string
}

func (e *IndexError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("index: %s %s: %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("index: %s: %s", e.Op, e.Message)
}

func newIndexError(op, path string, err error) *IndexError {
	return &IndexError{Op: op, Path: path, Message: err.Error()}
}
