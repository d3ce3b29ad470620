package shell

import "strings"

const (
	logCapacity        = 512
	defaultTailLimit       = 40
	defaultDiagnosticLimit = 120
	shellTailByteBudget    = 2 * 1024
	shellTailLineBudget    = 16
)

// LogLine is one complete line in a process's ring buffer, with a
// monotonically increasing cursor that is never reused even after the
// line it named has been evicted.
type LogLine struct {
	Cursor uint64
	Text   string
}

// TailSnapshot is a bounded, byte- and line-capped view of the most
// recent output, suitable for a glanceable UI.
type TailSnapshot struct {
	Lines     []string
	Truncated bool
	Bytes     uint64
}

// LogBuffer is a per-process ring of complete lines plus partial
// stdout/stderr accumulators for trailing bytes that haven't hit a
// newline yet.
type LogBuffer struct {
	lines         []LogLine
	partialStdout string
	partialStderr string
	nextCursor    uint64
}

// NewLogBuffer returns an empty log buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// PushChunk appends raw bytes from stdout or stderr, splitting complete
// lines into the ring and leaving any trailing partial line buffered.
func (b *LogBuffer) PushChunk(chunk string, isStderr bool) {
	partial := &b.partialStdout
	if isStderr {
		partial = &b.partialStderr
	}
	*partial += chunk

	for {
		idx := strings.IndexByte(*partial, '\n')
		if idx < 0 {
			break
		}
		line := (*partial)[:idx]
		*partial = (*partial)[idx+1:]
		b.pushLine(line)
	}
}

func (b *LogBuffer) pushLine(text string) {
	cursor := b.nextCursor
	b.nextCursor++
	b.lines = append(b.lines, LogLine{Cursor: cursor, Text: text})
	if len(b.lines) > logCapacity {
		b.lines = b.lines[len(b.lines)-logCapacity:]
	}
}

// Flush pushes any pending partial stdout/stderr as final lines. Called
// when the underlying process has ended.
func (b *LogBuffer) Flush() {
	if b.partialStdout != "" {
		remaining := b.partialStdout
		b.partialStdout = ""
		b.pushLine(remaining)
	}
	if b.partialStderr != "" {
		remaining := b.partialStderr
		b.partialStderr = ""
		b.pushLine(remaining)
	}
}

// ReadFrom returns up to limit lines with cursor strictly greater than
// cursor (or from the start, if cursor is nil), plus whether more lines
// remain beyond the returned window.
func (b *LogBuffer) ReadFrom(cursor *uint64, limit int) ([]LogLine, bool) {
	var collected []LogLine
	started := cursor == nil
	var cursorValue uint64
	if cursor != nil {
		cursorValue = *cursor
	}
	for i, line := range b.lines {
		if !started {
			if line.Cursor > cursorValue {
				started = true
			} else {
				continue
			}
		}
		collected = append(collected, line)
		cursorValue = line.Cursor
		if len(collected) == limit {
			return collected, i < len(b.lines)-1
		}
	}
	return collected, false
}

// TailSnapshot returns the last lines (ring buffer plus any pending
// partials) whose total bytes and count stay within the tail budget,
// along with whether anything was omitted. Returns nil if there is no
// output at all yet.
func (b *LogBuffer) TailSnapshot() *TailSnapshot {
	if len(b.lines) == 0 && b.partialStdout == "" && b.partialStderr == "" {
		return nil
	}

	view := make([]LogLine, len(b.lines))
	copy(view, b.lines)
	cursor := b.nextCursor
	if b.partialStdout != "" {
		view = append(view, LogLine{Cursor: cursor, Text: b.partialStdout})
		cursor++
	}
	if b.partialStderr != "" {
		view = append(view, LogLine{Cursor: cursor, Text: b.partialStderr})
	}

	totalLines := len(view)
	var bytes uint64
	var collected []string
	for i := len(view) - 1; i >= 0; i-- {
		lineLen := uint64(len(view[i].Text) + 1)
		if len(collected) >= shellTailLineBudget || bytes+lineLen > shellTailByteBudget {
			break
		}
		bytes += lineLen
		collected = append(collected, view[i].Text)
	}
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}

	return &TailSnapshot{
		Lines:     collected,
		Truncated: len(collected) < totalLines,
		Bytes:     bytes,
	}
}
