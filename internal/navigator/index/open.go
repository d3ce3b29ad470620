package index

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	OpenMaxBytes    = 16 * 1024
	SnippetMaxBytes = 8 * 1024
)

// OpenResult is the response to both Open and Snippet; the caller picks
// the byte cap (OpenMaxBytes vs SnippetMaxBytes) via maxBytes.
type OpenResult struct {
	ID           string
	Path         string
	Language     string
	Range        SymbolRange
	Body         string
	DisplayStart int
	Truncated    bool
}

// Open resolves id (a normal symbol id or a "literal::<path>#<line>" id)
// and returns the file window around it, capped at OpenMaxBytes.
func (idx *Index) Open(id string, ctxBefore, ctxAfter int) (OpenResult, error) {
	return idx.resolveAndSlice(id, ctxBefore, ctxAfter, OpenMaxBytes)
}

// Snippet behaves like Open but with SnippetMaxBytes and is intended for a
// smaller context window.
func (idx *Index) Snippet(id string, ctxBefore, ctxAfter int) (OpenResult, error) {
	return idx.resolveAndSlice(id, ctxBefore, ctxAfter, SnippetMaxBytes)
}

func (idx *Index) resolveAndSlice(id string, ctxBefore, ctxAfter, maxBytes int) (OpenResult, error) {
	snapshot := idx.Snapshot()

	rec, path, err := resolveSymbol(snapshot, id)
	if err != nil {
		return OpenResult{}, err
	}

	ft, ok := snapshot.Text[path]
	if !ok {
		return OpenResult{}, &IndexError{Op: "open", Path: path, Message: "no cached text for path"}
	}

	start := rec.Range.Start - ctxBefore
	if start < 0 {
		start = 0
	}
	end := rec.Range.End + ctxAfter

	lines := lineRange(ft, start, end)
	body := strings.Join(lines, "\n")
	truncated := false
	if len(body) > maxBytes {
		body = body[:maxBytes]
		truncated = true
	}

	return OpenResult{
		ID:           id,
		Path:         path,
		Language:     rec.Language,
		Range:        rec.Range,
		Body:         body,
		DisplayStart: start,
		Truncated:    truncated,
	}, nil
}

// resolveSymbol returns a SymbolRecord for id, synthesizing one for a
// literal id from the owning FileEntry when id isn't a known symbol.
func resolveSymbol(snapshot *IndexSnapshot, id string) (SymbolRecord, string, error) {
	if rec, ok := snapshot.Symbols[SymbolID(id)]; ok {
		return rec, rec.Path, nil
	}

	if strings.HasPrefix(id, "literal::") {
		rest := strings.TrimPrefix(id, "literal::")
		hashIdx := strings.LastIndex(rest, "#")
		if hashIdx < 0 {
			return SymbolRecord{}, "", &IndexError{Op: "open", Path: id, Message: "malformed literal id"}
		}
		path := rest[:hashIdx]
		line, err := strconv.Atoi(rest[hashIdx+1:])
		if err != nil {
			return SymbolRecord{}, "", &IndexError{Op: "open", Path: id, Message: "malformed literal line number"}
		}
		entry, ok := snapshot.Files[path]
		if !ok {
			return SymbolRecord{}, "", &IndexError{Op: "open", Path: path, Message: "unknown path"}
		}
		return SymbolRecord{
			ID:         SymbolID(id),
			Identifier: fmt.Sprintf("%s:%d", path, line),
			Language:   entry.Language,
			Path:       path,
			Range:      SymbolRange{Start: line, End: line + 1},
			Categories: entry.Categories,
			Recent:     entry.Recent,
		}, path, nil
	}

	return SymbolRecord{}, "", &IndexError{Op: "open", Path: id, Message: "unknown id"}
}
