package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestBuildFullIndexesGoSymbols(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc Greet(name string) string {\n\treturn \"hi \" + name\n}\n")

	builder := NewIndexBuilder(root)
	snapshot, outcomes, err := builder.BuildFull(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeIndexed, outcomes["main.go"])

	entry, ok := snapshot.Files["main.go"]
	require.True(t, ok)
	require.Equal(t, "go", entry.Language)
	require.NotEmpty(t, entry.SymbolIDs)

	var found bool
	for _, id := range entry.SymbolIDs {
		if rec := snapshot.Symbols[id]; rec.Identifier == "Greet" {
			found = true
			require.Equal(t, KindFunction, rec.Kind)
		}
	}
	require.True(t, found)
}

func TestBuildFullSkipsOversizeFiles(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, MaxFileBytes+1)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "huge.txt", string(big))

	builder := NewIndexBuilder(root)
	snapshot, outcomes, err := builder.BuildFull(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, outcomes["huge.txt"])
	_, ok := snapshot.Files["huge.txt"]
	require.False(t, ok)
}

func TestBuildFullSkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")
	writeFile(t, root, "src/app.js", "function run() { return 1; }\n")

	builder := NewIndexBuilder(root)
	snapshot, _, err := builder.BuildFull(context.Background())
	require.NoError(t, err)

	_, ok := snapshot.Files["node_modules/pkg/index.js"]
	require.False(t, ok)
	_, ok = snapshot.Files["src/app.js"]
	require.True(t, ok)
}

func TestIngestReindexesOnlyGivenPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc A() {}\n")
	writeFile(t, root, "b.go", "package a\nfunc B() {}\n")

	builder := NewIndexBuilder(root)
	snapshot, _, err := builder.BuildFull(context.Background())
	require.NoError(t, err)

	writeFile(t, root, "b.go", "package a\nfunc B() {}\nfunc C() {}\n")
	next, outcomes := builder.Ingest(context.Background(), snapshot, []string{"b.go"})
	require.Equal(t, OutcomeIndexed, outcomes["b.go"])

	require.Len(t, next.Files["a.go"].SymbolIDs, 1)
	require.Len(t, next.Files["b.go"].SymbolIDs, 2)
}

func TestAtlasCountsFilesPerDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/a.go", "package pkg\nfunc A() {}\n")
	writeFile(t, root, "pkg/b.go", "package pkg\nfunc B() {}\n")

	builder := NewIndexBuilder(root)
	snapshot, _, err := builder.BuildFull(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, snapshot.Atlas.FileCount)
	var pkgNode *AtlasNode
	for _, c := range snapshot.Atlas.Root.Children {
		if c.Path == "pkg" {
			pkgNode = c
		}
	}
	require.NotNil(t, pkgNode)
	require.Equal(t, 2, pkgNode.Files)
}
