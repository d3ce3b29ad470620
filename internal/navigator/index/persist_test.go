package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPersistThenLoadRoundTrips(t *testing.T) {
	root := t.TempDir()
	snapshot := newEmptySnapshot()
	snapshot.Files["a.go"] = FileEntry{Path: "a.go", Language: "go", LineCount: 3}

	require.NoError(t, Persist(root, snapshot))

	loaded, ok := Load(root)
	require.True(t, ok)
	require.Equal(t, snapshot.Files["a.go"].Path, loaded.Files["a.go"].Path)
}

func TestLoadMissingSnapshotReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	loaded, ok := Load(root)
	require.False(t, ok)
	require.Empty(t, loaded.Files)
}

func TestLoadCorruptSnapshotResetsToEmpty(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".navshell")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFileName), []byte("not a gob stream"), 0o644))

	loaded, ok := Load(root)
	require.False(t, ok)
	require.NotNil(t, loaded)
	require.Empty(t, loaded.Files)
}
