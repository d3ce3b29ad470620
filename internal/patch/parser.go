package patch

import "strings"

const (
	beginPatchMarker         = "*** Begin Patch"
	endPatchMarker           = "*** End Patch"
	addFileMarker            = "*** Add File: "
	deleteFileMarker         = "*** Delete File: "
	updateFileMarker         = "*** Update File: "
	insertBeforeSymbolMarker = "*** Insert Before Symbol: "
	insertAfterSymbolMarker  = "*** Insert After Symbol: "
	replaceSymbolBodyMarker  = "*** Replace Symbol Body: "
	moveToMarker             = "*** Move to: "
	eofMarker                = "*** End of File"
	changeContextMarker      = "@@ "
	emptyChangeContextMarker = "@@"
)

// Parse turns patch text into an ordered Patch. Leniency (heredoc
// stripping, an optional @@ marker on an UpdateFile's first chunk, and
// splitting multiple "*** Begin Patch" blocks) is always enabled.
func Parse(text string) (*Patch, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parsePatchText(trimmed)
	}

	beginCount := 0
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), beginPatchMarker) {
			beginCount++
		}
	}
	if beginCount <= 1 {
		return parsePatchText(trimmed)
	}

	blocks, err := splitPatchBlocks(trimmed)
	if err != nil {
		return nil, err
	}
	var allHunks []Hunk
	for _, block := range blocks {
		parsed, err := parsePatchText(block)
		if err != nil {
			return nil, err
		}
		allHunks = append(allHunks, parsed.Hunks...)
	}
	return &Patch{Hunks: allHunks, Text: strings.Join(strings.Split(trimmed, "\n"), "\n")}, nil
}

func splitPatchBlocks(text string) ([]string, error) {
	var blocks []string
	var current []string
	inside := false

	lines := strings.Split(text, "\n")
	for idx, line := range lines {
		trimmedStart := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmedStart, beginPatchMarker) {
			if inside {
				return nil, invalidPatch("Nested *** Begin Patch at line %d", idx+1)
			}
			inside = true
			current = nil
		}
		if inside {
			current = append(current, line)
		}
		if strings.HasPrefix(trimmedStart, endPatchMarker) {
			if !inside {
				return nil, invalidPatch("*** End Patch without matching begin at line %d", idx+1)
			}
			inside = false
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	if inside {
		return nil, invalidPatch("Patch ended before *** End Patch")
	}
	if len(blocks) == 0 {
		return nil, invalidPatch("Patch does not contain any *** Begin Patch blocks.")
	}
	return blocks, nil
}

func parsePatchText(text string) (*Patch, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if strings.TrimSpace(text) == "" {
		lines = nil
	}

	effective, err := checkPatchBoundariesStrict(lines)
	if err != nil {
		effective, err = checkPatchBoundariesLenient(lines, err)
		if err != nil {
			return nil, err
		}
	}

	var hunks []Hunk
	lastLineIndex := len(effective) - 1
	remaining := effective[1:lastLineIndex]
	lineNumber := 2

	for len(remaining) > 0 && strings.TrimSpace(remaining[0]) == "" {
		remaining = remaining[1:]
		lineNumber++
	}

	for len(remaining) > 0 {
		hunk, consumed, err := parseOneHunk(remaining, lineNumber)
		if err != nil {
			return nil, err
		}
		hunks = append(hunks, hunk)
		lineNumber += consumed
		remaining = remaining[consumed:]
	}

	return &Patch{Hunks: hunks, Text: strings.Join(effective, "\n")}, nil
}

func checkPatchBoundariesStrict(lines []string) ([]string, error) {
	var first, last *string
	switch len(lines) {
	case 0:
	case 1:
		first, last = &lines[0], &lines[0]
	default:
		first, last = &lines[0], &lines[len(lines)-1]
	}
	if err := checkStartAndEndLinesStrict(first, last); err != nil {
		return nil, err
	}
	return lines, nil
}

func checkStartAndEndLinesStrict(first, last *string) error {
	if first != nil && last != nil && *first == beginPatchMarker && *last == endPatchMarker {
		return nil
	}
	if first != nil && *first != beginPatchMarker {
		return invalidPatch("The first line of the patch must be '*** Begin Patch'")
	}
	return invalidPatch("The last line of the patch must be '*** End Patch'")
}

func checkPatchBoundariesLenient(originalLines []string, originalErr error) ([]string, error) {
	if len(originalLines) == 0 {
		return nil, originalErr
	}
	first := originalLines[0]
	last := originalLines[len(originalLines)-1]
	if (first == "<<EOF" || first == "<<'EOF'" || first == `<<"EOF"`) &&
		strings.HasSuffix(last, "EOF") && len(originalLines) >= 4 {
		inner := originalLines[1 : len(originalLines)-1]
		if _, err := checkPatchBoundariesStrict(inner); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, originalErr
}

// parseOneHunk parses a single hunk from the start of lines, returning the
// hunk and how many lines it consumed.
func parseOneHunk(lines []string, lineNumber int) (Hunk, int, error) {
	firstLine := strings.TrimSpace(lines[0])

	if path, ok := strip(firstLine, addFileMarker); ok {
		contents := strings.Builder{}
		consumed := 1
		for _, addLine := range lines[1:] {
			rest, ok := strip(addLine, "+")
			if !ok {
				break
			}
			contents.WriteString(rest)
			contents.WriteByte('\n')
			consumed++
		}
		return Hunk{Kind: AddFile, Path: path, Contents: contents.String()}, consumed, nil
	}

	if path, ok := strip(firstLine, deleteFileMarker); ok {
		return Hunk{Kind: DeleteFile, Path: path}, 1, nil
	}

	if path, ok := strip(firstLine, updateFileMarker); ok {
		return parseUpdateFileHunk(path, lines, lineNumber)
	}

	if target, ok := strip(firstLine, insertBeforeSymbolMarker); ok {
		return parseSymbolHunk(InsertBeforeSymbol, target, lines, lineNumber, "Insert Before Symbol")
	}
	if target, ok := strip(firstLine, insertAfterSymbolMarker); ok {
		return parseSymbolHunk(InsertAfterSymbol, target, lines, lineNumber, "Insert After Symbol")
	}
	if target, ok := strip(firstLine, replaceSymbolBodyMarker); ok {
		return parseSymbolHunk(ReplaceSymbolBody, target, lines, lineNumber, "Replace Symbol Body")
	}

	return Hunk{}, 0, invalidHunk(lineNumber,
		"'%s' is not a valid hunk header. Valid hunk headers: '*** Add File: {path}', '*** Delete File: {path}', '*** Update File: {path}', '*** Insert Before Symbol: {path}::{symbol}', '*** Insert After Symbol: {path}::{symbol}', '*** Replace Symbol Body: {path}::{symbol}'",
		firstLine)
}

func strip(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

func parseUpdateFileHunk(path string, lines []string, lineNumber int) (Hunk, int, error) {
	remaining := lines[1:]
	consumed := 1

	var moveTo *string
	if len(remaining) > 0 {
		if rest, ok := strip(remaining[0], moveToMarker); ok {
			moveTo = &rest
			remaining = remaining[1:]
			consumed++
		}
	}

	var chunks []UpdateChunk
	for len(remaining) > 0 {
		if strings.TrimSpace(remaining[0]) == "" {
			consumed++
			remaining = remaining[1:]
			continue
		}
		if strings.HasPrefix(remaining[0], "***") {
			break
		}

		chunk, chunkLines, err := parseUpdateFileChunk(remaining, lineNumber+consumed, len(chunks) == 0)
		if err != nil {
			return Hunk{}, 0, err
		}
		chunks = append(chunks, chunk)
		consumed += chunkLines
		remaining = remaining[chunkLines:]
	}

	if len(chunks) == 0 {
		return Hunk{}, 0, invalidHunk(lineNumber, "Update file hunk for path '%s' is empty", path)
	}

	return Hunk{Kind: UpdateFile, Path: path, MoveTo: moveTo, Chunks: chunks}, consumed, nil
}

func parseSymbolHunk(kind HunkKind, target string, lines []string, lineNumber int, opName string) (Hunk, int, error) {
	path, symbol, err := parseSymbolHeader(target, lineNumber)
	if err != nil {
		return Hunk{}, 0, err
	}
	newLines, consumed, err := parseSymbolLines(lines[1:], lineNumber+1, opName)
	if err != nil {
		return Hunk{}, 0, err
	}
	return Hunk{Kind: kind, Path: path, SymbolPath: symbol, NewLines: newLines}, consumed + 1, nil
}

func parseSymbolHeader(raw string, lineNumber int) (string, SymbolPath, error) {
	target := strings.TrimSpace(raw)
	pathPart, symbolPart, found := strings.Cut(target, "::")
	if !found {
		return "", nil, invalidHunk(lineNumber,
			"Symbol hunk header '%s' must include a symbol path (use 'file::Symbol')", target)
	}

	path := strings.TrimSpace(pathPart)
	if path == "" {
		return "", nil, invalidHunk(lineNumber, "Symbol hunk header must include a file path")
	}

	symbolPath := symbolPathFromStr(strings.TrimSpace(symbolPart))
	if len(symbolPath) == 0 {
		return "", nil, invalidHunk(lineNumber, "Symbol path for '%s' is empty", target)
	}

	return path, symbolPath, nil
}

func symbolPathFromStr(s string) SymbolPath {
	if s == "" {
		return nil
	}
	var segments SymbolPath
	for _, part := range strings.Split(s, "::") {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func parseSymbolLines(lines []string, lineNumber int, opName string) ([]string, int, error) {
	var collected []string
	consumed := 0
	for _, line := range lines {
		rest, ok := strip(line, "+")
		if !ok {
			break
		}
		collected = append(collected, rest)
		consumed++
	}

	if len(collected) == 0 {
		return nil, 0, invalidHunk(lineNumber, "%s hunk must include at least one '+ line'", opName)
	}
	return collected, consumed, nil
}

func parseUpdateFileChunk(lines []string, lineNumber int, allowMissingContext bool) (UpdateChunk, int, error) {
	if len(lines) == 0 {
		return UpdateChunk{}, 0, invalidHunk(lineNumber, "Update hunk does not contain any lines")
	}

	var changeContext *string
	startIndex := 0
	switch {
	case lines[0] == emptyChangeContextMarker:
		startIndex = 1
	default:
		if ctx, ok := strip(lines[0], changeContextMarker); ok {
			changeContext = &ctx
			startIndex = 1
		} else if !allowMissingContext {
			return UpdateChunk{}, 0, invalidHunk(lineNumber,
				"Expected update hunk to start with a @@ context marker, got: '%s'", lines[0])
		}
	}

	if startIndex >= len(lines) {
		return UpdateChunk{}, 0, invalidHunk(lineNumber+1, "Update hunk does not contain any lines")
	}

	chunk := UpdateChunk{ChangeContext: changeContext}
	parsedLines := 0

	for _, line := range lines[startIndex:] {
		if line == eofMarker {
			if parsedLines == 0 {
				return UpdateChunk{}, 0, invalidHunk(lineNumber+1, "Update hunk does not contain any lines")
			}
			chunk.IsEndOfFile = true
			parsedLines++
			break
		}

		if line == "" {
			chunk.OldLines = append(chunk.OldLines, "")
			chunk.NewLines = append(chunk.NewLines, "")
			parsedLines++
			continue
		}

		switch line[0] {
		case ' ':
			chunk.OldLines = append(chunk.OldLines, line[1:])
			chunk.NewLines = append(chunk.NewLines, line[1:])
		case '+':
			chunk.NewLines = append(chunk.NewLines, line[1:])
		case '-':
			chunk.OldLines = append(chunk.OldLines, line[1:])
		default:
			if parsedLines == 0 {
				return UpdateChunk{}, 0, invalidHunk(lineNumber+1,
					"Unexpected line found in update hunk: '%s'. Every line should start with ' ' (context line), '+' (added line), or '-' (removed line)",
					line)
			}
			// Assume this is the start of the next hunk.
			return chunk, parsedLines + startIndex, nil
		}
		parsedLines++
	}

	return chunk, parsedLines + startIndex, nil
}
