package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushChunkSplitsOnNewlines(t *testing.T) {
	buf := NewLogBuffer()
	buf.PushChunk("line one\nline two\npartial", false)

	lines, hasMore := buf.ReadFrom(nil, 10)
	require.False(t, hasMore)
	require.Len(t, lines, 2)
	require.Equal(t, "line one", lines[0].Text)
	require.Equal(t, "line two", lines[1].Text)
}

func TestFlushEmitsPendingPartials(t *testing.T) {
	buf := NewLogBuffer()
	buf.PushChunk("stdout partial", false)
	buf.PushChunk("stderr partial", true)
	buf.Flush()

	lines, _ := buf.ReadFrom(nil, 10)
	require.Len(t, lines, 2)
}

func TestRingBufferEvictsBeyondCapacity(t *testing.T) {
	buf := NewLogBuffer()
	for i := 0; i < logCapacity+10; i++ {
		buf.PushChunk(fmt.Sprintf("line-%d\n", i), false)
	}

	lines, _ := buf.ReadFrom(nil, logCapacity+10)
	require.Len(t, lines, logCapacity)
	require.Equal(t, "line-10", lines[0].Text)
	require.Equal(t, fmt.Sprintf("line-%d", logCapacity+9), lines[len(lines)-1].Text)
}

func TestCursorsAreMonotonicAcrossEviction(t *testing.T) {
	buf := NewLogBuffer()
	for i := 0; i < logCapacity+5; i++ {
		buf.PushChunk(fmt.Sprintf("line-%d\n", i), false)
	}

	lines, _ := buf.ReadFrom(nil, logCapacity)
	for i := 1; i < len(lines); i++ {
		require.Greater(t, lines[i].Cursor, lines[i-1].Cursor)
	}
}

func TestReadFromPaginatesWithHasMore(t *testing.T) {
	buf := NewLogBuffer()
	for i := 0; i < 5; i++ {
		buf.PushChunk(fmt.Sprintf("line-%d\n", i), false)
	}

	first, hasMore := buf.ReadFrom(nil, 2)
	require.True(t, hasMore)
	require.Len(t, first, 2)
	require.Equal(t, "line-0", first[0].Text)
	require.Equal(t, "line-1", first[1].Text)

	cursor := first[len(first)-1].Cursor
	second, hasMore := buf.ReadFrom(&cursor, 2)
	require.True(t, hasMore)
	require.Len(t, second, 2)
	require.Equal(t, "line-2", second[0].Text)
	require.Equal(t, "line-3", second[1].Text)

	cursor = second[len(second)-1].Cursor
	third, hasMore := buf.ReadFrom(&cursor, 2)
	require.False(t, hasMore)
	require.Len(t, third, 1)
	require.Equal(t, "line-4", third[0].Text)
}

func TestTailSnapshotNilWhenEmpty(t *testing.T) {
	buf := NewLogBuffer()
	require.Nil(t, buf.TailSnapshot())
}

func TestTailSnapshotRespectsLineBudget(t *testing.T) {
	buf := NewLogBuffer()
	for i := 0; i < shellTailLineBudget+5; i++ {
		buf.PushChunk(fmt.Sprintf("line-%d\n", i), false)
	}

	tail := buf.TailSnapshot()
	require.NotNil(t, tail)
	require.LessOrEqual(t, len(tail.Lines), shellTailLineBudget)
	require.True(t, tail.Truncated)
	require.Equal(t, fmt.Sprintf("line-%d", shellTailLineBudget+4), tail.Lines[len(tail.Lines)-1])
}

func TestTailSnapshotIncludesPendingPartial(t *testing.T) {
	buf := NewLogBuffer()
	buf.PushChunk("complete\n", false)
	buf.PushChunk("pending tail", false)

	tail := buf.TailSnapshot()
	require.NotNil(t, tail)
	require.Equal(t, []string{"complete", "pending tail"}, tail.Lines)
	require.False(t, tail.Truncated)
}

func TestTailSnapshotNotTruncatedWhenEverythingFits(t *testing.T) {
	buf := NewLogBuffer()
	buf.PushChunk("only line\n", false)

	tail := buf.TailSnapshot()
	require.NotNil(t, tail)
	require.False(t, tail.Truncated)
	require.Equal(t, []string{"only line"}, tail.Lines)
}
