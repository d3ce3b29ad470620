package index

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"navshell/internal/logging"
)

// snapshotFileName is the on-disk name for the persisted index snapshot.
// Its binary contents are opaque outside this package.
const snapshotFileName = "index.bin"

// Persist writes snapshot to <workspaceRoot>/.navshell/<snapshotFileName>
// via a temp file + rename, so a crash mid-write never leaves a partially
// written snapshot for the next load to trip over.
func Persist(workspaceRoot string, snapshot *IndexSnapshot) error {
	dir := filepath.Join(workspaceRoot, ".navshell")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newIndexError("persist", dir, err)
	}
	final := filepath.Join(dir, snapshotFileName)
	tmp := final + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return newIndexError("persist", tmp, err)
	}
	if err := gob.NewEncoder(f).Encode(snapshot); err != nil {
		f.Close()
		os.Remove(tmp)
		return newIndexError("persist", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return newIndexError("persist", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return newIndexError("persist", final, err)
	}
	return nil
}

// Load reads a persisted snapshot. A missing file returns a fresh empty
// snapshot (not an error); a corrupted file is reset to empty and logged,
// per the index's "corruption detected at load time resets to empty with a
// notice" lifecycle rule.
func Load(workspaceRoot string) (*IndexSnapshot, bool) {
	final := filepath.Join(workspaceRoot, ".navshell", snapshotFileName)
	f, err := os.Open(final)
	if err != nil {
		return newEmptySnapshot(), false
	}
	defer f.Close()

	var snapshot IndexSnapshot
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		logging.Get(logging.CategoryNavigator).Warn("index snapshot corrupted, resetting", map[string]any{"error": err.Error()})
		return newEmptySnapshot(), false
	}
	if snapshot.Files == nil {
		snapshot.Files = make(map[string]FileEntry)
	}
	if snapshot.Symbols == nil {
		snapshot.Symbols = make(map[SymbolID]SymbolRecord)
	}
	if snapshot.TokenToFiles == nil {
		snapshot.TokenToFiles = make(map[string]map[string]struct{})
	}
	if snapshot.TrigramToFiles == nil {
		snapshot.TrigramToFiles = make(map[uint32]map[string]struct{})
	}
	if snapshot.Text == nil {
		snapshot.Text = make(map[string]FileText)
	}
	return &snapshot, true
}
