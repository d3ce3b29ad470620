package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyPatchYieldsZeroHunks(t *testing.T) {
	p, err := Parse("*** Begin Patch\n*** End Patch")
	require.NoError(t, err)
	require.Empty(t, p.Hunks)
}

func TestMissingBeginMarkerFails(t *testing.T) {
	_, err := Parse("bad")
	require.Error(t, err)
	var ipe *InvalidPatchError
	require.ErrorAs(t, err, &ipe)
	require.Contains(t, ipe.Message, "Begin Patch")
}

func TestMissingEndMarkerFails(t *testing.T) {
	_, err := Parse("*** Begin Patch\nbad")
	require.Error(t, err)
	var ipe *InvalidPatchError
	require.ErrorAs(t, err, &ipe)
	require.Contains(t, ipe.Message, "End Patch")
}

func TestEmptyUpdateHunkErrors(t *testing.T) {
	_, err := Parse("*** Begin Patch\n*** Update File: test.py\n*** End Patch")
	require.Error(t, err)
	var ihe *InvalidHunkError
	require.ErrorAs(t, err, &ihe)
	require.Equal(t, 2, ihe.LineNumber)
	require.Contains(t, ihe.Message, "test.py")
}

func TestRoundTripAddDeleteUpdate(t *testing.T) {
	text := `*** Begin Patch
*** Add File: path/add.py
+abc
+def
*** Delete File: path/delete.py
*** Update File: path/update.py
*** Move to: path/update2.py
@@ def f():
-    pass
+    return 123
*** End Patch`

	p, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, p.Hunks, 3)

	require.Equal(t, AddFile, p.Hunks[0].Kind)
	require.Equal(t, "path/add.py", p.Hunks[0].Path)
	require.Equal(t, "abc\ndef\n", p.Hunks[0].Contents)

	require.Equal(t, DeleteFile, p.Hunks[1].Kind)
	require.Equal(t, "path/delete.py", p.Hunks[1].Path)

	u := p.Hunks[2]
	require.Equal(t, UpdateFile, u.Kind)
	require.Equal(t, "path/update.py", u.Path)
	require.NotNil(t, u.MoveTo)
	require.Equal(t, "path/update2.py", *u.MoveTo)
	require.Len(t, u.Chunks, 1)
	require.Equal(t, "def f():", *u.Chunks[0].ChangeContext)
	require.Equal(t, []string{"    pass"}, u.Chunks[0].OldLines)
	require.Equal(t, []string{"    return 123"}, u.Chunks[0].NewLines)
	require.False(t, u.Chunks[0].IsEndOfFile)
}

func TestUpdateHunkStopsAtNextHeader(t *testing.T) {
	text := `*** Begin Patch
*** Update File: file.py
@@
+line
*** Add File: other.py
+content
*** End Patch`

	p, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, p.Hunks, 2)
	require.Equal(t, UpdateFile, p.Hunks[0].Kind)
	require.Nil(t, p.Hunks[0].Chunks[0].ChangeContext)
	require.Equal(t, []string{"line"}, p.Hunks[0].Chunks[0].NewLines)
	require.Equal(t, AddFile, p.Hunks[1].Kind)
	require.Equal(t, "content\n", p.Hunks[1].Contents)
}

func TestImplicitFirstChunkContextIsLenient(t *testing.T) {
	text := `*** Begin Patch
*** Update File: file2.py
 import foo
+bar
*** End Patch`

	p, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, p.Hunks, 1)
	chunk := p.Hunks[0].Chunks[0]
	require.Nil(t, chunk.ChangeContext)
	require.Equal(t, []string{"import foo"}, chunk.OldLines)
	require.Equal(t, []string{"import foo", "bar"}, chunk.NewLines)
}

func TestHeredocWrappersAreStripped(t *testing.T) {
	inner := `*** Begin Patch
*** Update File: file2.py
 import foo
+bar
*** End Patch`

	for _, wrap := range []string{"<<EOF", "<<'EOF'", `<<"EOF"`} {
		wrapped := wrap + "\n" + inner + "\nEOF\n"
		p, err := Parse(wrapped)
		require.NoError(t, err, wrap)
		require.Len(t, p.Hunks, 1, wrap)
	}
}

func TestMismatchedHeredocQuotesFail(t *testing.T) {
	inner := `*** Begin Patch
*** Update File: file2.py
 import foo
+bar
*** End Patch`
	wrapped := "<<\"EOF'\n" + inner + "\nEOF\n"
	_, err := Parse(wrapped)
	require.Error(t, err)
}

func TestMultiBlockPatchFlattensHunks(t *testing.T) {
	text := `*** Begin Patch
*** Add File: a.py
+1
*** End Patch
*** Begin Patch
*** Add File: b.py
+2
*** End Patch`

	p, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, p.Hunks, 2)
	require.Equal(t, "a.py", p.Hunks[0].Path)
	require.Equal(t, "b.py", p.Hunks[1].Path)
}

func TestInsertBeforeSymbolHunk(t *testing.T) {
	text := strings.Join([]string{
		"*** Begin Patch",
		"*** Insert Before Symbol: lib.rs::greet",
		"+// comment",
		"*** End Patch",
	}, "\n")

	p, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, p.Hunks, 1)
	h := p.Hunks[0]
	require.Equal(t, InsertBeforeSymbol, h.Kind)
	require.Equal(t, "lib.rs", h.Path)
	require.Equal(t, SymbolPath{"greet"}, h.SymbolPath)
	require.Equal(t, []string{"// comment"}, h.NewLines)
}

func TestInsertAfterSymbolHunkNestedPath(t *testing.T) {
	text := strings.Join([]string{
		"*** Begin Patch",
		"*** Insert After Symbol: main.py::Greeter::greet",
		"+print('ok')",
		"*** End Patch",
	}, "\n")

	p, err := Parse(text)
	require.NoError(t, err)
	h := p.Hunks[0]
	require.Equal(t, InsertAfterSymbol, h.Kind)
	require.Equal(t, "main.py", h.Path)
	require.Equal(t, SymbolPath{"Greeter", "greet"}, h.SymbolPath)
}

func TestReplaceSymbolBodyHunk(t *testing.T) {
	text := strings.Join([]string{
		"*** Begin Patch",
		"*** Replace Symbol Body: service.ts::Service::run",
		"+{",
		"+  return true;",
		"+}",
		"*** End Patch",
	}, "\n")

	p, err := Parse(text)
	require.NoError(t, err)
	h := p.Hunks[0]
	require.Equal(t, ReplaceSymbolBody, h.Kind)
	require.Equal(t, SymbolPath{"Service", "run"}, h.SymbolPath)
	require.Equal(t, []string{"{", "  return true;", "}"}, h.NewLines)
}

func TestSymbolHeaderRequiresSymbolPath(t *testing.T) {
	_, _, err := parseSymbolHeader("lib.rs", 42)
	require.Error(t, err)
	var ihe *InvalidHunkError
	require.ErrorAs(t, err, &ihe)
	require.Equal(t, 42, ihe.LineNumber)
	require.Contains(t, ihe.Message, "must include a symbol path")
}

func TestSymbolLinesRequireAtLeastOneChange(t *testing.T) {
	_, _, err := parseSymbolLines([]string{"context"}, 10, "Insert Before Symbol")
	require.Error(t, err)
	var ihe *InvalidHunkError
	require.ErrorAs(t, err, &ihe)
	require.Equal(t, 10, ihe.LineNumber)
}

func TestEndOfFileMarkerSetsFlag(t *testing.T) {
	chunk, consumed, err := parseUpdateFileChunk([]string{"@@", "+line", eofMarker}, 123, false)
	require.NoError(t, err)
	require.Equal(t, 3, consumed)
	require.True(t, chunk.IsEndOfFile)
	require.Equal(t, []string{"line"}, chunk.NewLines)
}

func TestUnexpectedFirstLineInChunkErrors(t *testing.T) {
	_, _, err := parseUpdateFileChunk([]string{"@@", "bad"}, 123, false)
	require.Error(t, err)
	var ihe *InvalidHunkError
	require.ErrorAs(t, err, &ihe)
	require.Equal(t, 124, ihe.LineNumber)
}
