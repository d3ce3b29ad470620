package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"navshell/internal/logging"
)

const buildConcurrency = 8

// IndexBuilder walks a workspace (or a delta list of paths) and produces
// FileEntry/SymbolRecord/FileText records, applying PathFilter. It holds a
// fingerprint cache, but indexing does not consult it: every path handed to
// a build or ingest pass is read and parsed again, changed or not.
type IndexBuilder struct {
	root        string
	filter      *PathFilter
	fingerprint *fingerprintCache
	log         *logging.Logger
}

// NewIndexBuilder returns a builder rooted at workspaceRoot.
func NewIndexBuilder(workspaceRoot string) *IndexBuilder {
	return &IndexBuilder{
		root:        workspaceRoot,
		filter:      NewPathFilter(),
		fingerprint: newFingerprintCache(),
		log:         logging.Get(logging.CategoryNavigator),
	}
}

// fileResult is one path's outcome from a build/ingest pass.
type fileResult struct {
	path    string
	entry   FileEntry
	symbols []SymbolRecord
	text    FileText
	outcome FileOutcome
	reason  CoverageReason
	err     error
}

// Walk lists every non-ignored path under the builder's root.
func (b *IndexBuilder) Walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(b.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != b.root && b.filter.SkipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(b.root, path)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, newIndexError("walk", b.root, err)
	}
	return paths, nil
}

// BuildFull walks the whole workspace and returns a fresh snapshot plus the
// per-path outcome, recording the git-derived recent set along the way.
func (b *IndexBuilder) BuildFull(ctx context.Context) (*IndexSnapshot, map[string]FileOutcome, error) {
	paths, err := b.Walk()
	if err != nil {
		return nil, nil, err
	}
	snapshot, outcomes := b.process(ctx, newEmptySnapshot(), paths)
	snapshot.Atlas = buildAtlas(snapshot)
	return snapshot, outcomes, nil
}

// Ingest reindexes a delta set of paths in place against a cloned snapshot,
// used by the incremental watcher path.
func (b *IndexBuilder) Ingest(ctx context.Context, base *IndexSnapshot, paths []string) (*IndexSnapshot, map[string]FileOutcome) {
	next := cloneSnapshot(base)
	next, outcomes := b.process(ctx, next, paths)
	next.Atlas = buildAtlas(next)
	return next, outcomes
}

func (b *IndexBuilder) process(ctx context.Context, snapshot *IndexSnapshot, paths []string) (*IndexSnapshot, map[string]FileOutcome) {
	recent := scanRecentPaths(ctx, b.root)

	sem := semaphore.NewWeighted(buildConcurrency)
	results := make([]fileResult, len(paths))
	var wg sync.WaitGroup

	for i, rel := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			defer sem.Release(1)
			extractor := newSymbolExtractor()
			defer extractor.Close()
			results[i] = b.indexOne(ctx, extractor, rel, recent)
		}(i, rel)
	}
	wg.Wait()

	outcomes := make(map[string]FileOutcome, len(paths))
	for _, r := range results {
		if r.path == "" {
			continue
		}
		outcomes[r.path] = r.outcome
		if r.err != nil {
			b.log.Warn("index file failed", map[string]any{"path": r.path, "error": r.err.Error()})
			removeFileSymbols(snapshot, r.path)
			delete(snapshot.Files, r.path)
			continue
		}
		if r.outcome == OutcomeSkipped {
			removeFileSymbols(snapshot, r.path)
			delete(snapshot.Files, r.path)
			delete(snapshot.Text, r.path)
			continue
		}
		applyFileResult(snapshot, r)
	}
	recomputeAttention(snapshot)
	snapshot.BuiltAt = snapshot.Atlas.BuiltAt
	return snapshot, outcomes
}

// recomputeAttention derives each symbol's Attention score from how many
// other symbols in the workspace name it as a dependency: a function called
// from many places gets more attention than one nothing refers to.
func recomputeAttention(snapshot *IndexSnapshot) {
	usageCount := make(map[string]int, len(snapshot.Symbols))
	for _, rec := range snapshot.Symbols {
		for _, dep := range rec.Dependencies {
			usageCount[dep]++
		}
	}
	for id, rec := range snapshot.Symbols {
		rec.Attention = usageCount[rec.Identifier]
		snapshot.Symbols[id] = rec
	}
}

func (b *IndexBuilder) indexOne(ctx context.Context, extractor *symbolExtractor, rel string, recent map[string]struct{}) fileResult {
	full := filepath.Join(b.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return fileResult{path: rel, outcome: OutcomeSkipped, reason: ReasonReadError, err: err}
	}
	if b.filter.Oversize(info.Size()) {
		return fileResult{path: rel, outcome: OutcomeSkipped, reason: ReasonOversize}
	}

	content, err := os.ReadFile(full)
	if err != nil {
		return fileResult{path: rel, outcome: OutcomeSkipped, reason: ReasonReadError, err: err}
	}

	language := detectLanguage(rel)
	_, isRecent := recent[rel]

	var symbols []SymbolRecord
	outcome := OutcomeIndexed
	reason := CoverageReason("")
	if language != "" {
		symbols, err = extractor.Extract(ctx, rel, language, content)
		if err != nil {
			outcome = OutcomeIndexedTextOnly
			reason = ReasonNoSymbols
		} else if len(symbols) == 0 {
			outcome = OutcomeIndexedTextOnly
			reason = ReasonNoSymbols
		}
	} else {
		outcome = OutcomeIndexedTextOnly
		reason = ReasonNoSymbols
	}

	ft := newFileText(content)
	tokens := tokenize(string(content))
	tris := trigrams(content)

	var symbolIDs []SymbolID
	for i := range symbols {
		symbols[i].Recent = isRecent
		symbolIDs = append(symbolIDs, symbols[i].ID)
	}

	entry := FileEntry{
		Path:       rel,
		Language:   language,
		Categories: classifyCategories(rel),
		Recent:     isRecent,
		SymbolIDs:  symbolIDs,
		Tokens:     tokens,
		Trigrams:   tris,
		LineCount:  splitLinesKeepOffsets(content).lineCount(len(content)),
		Fingerprint: Fingerprint{
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		},
	}

	return fileResult{path: rel, entry: entry, symbols: symbols, text: ft, outcome: outcome, reason: reason}
}

func applyFileResult(snapshot *IndexSnapshot, r fileResult) {
	removeFileSymbols(snapshot, r.path)
	for _, tok := range snapshot.TokenToFiles {
		delete(tok, r.path)
	}
	for _, tg := range snapshot.TrigramToFiles {
		delete(tg, r.path)
	}

	snapshot.Files[r.path] = r.entry
	snapshot.Text[r.path] = r.text
	for _, sym := range r.symbols {
		snapshot.Symbols[sym.ID] = sym
	}
	for _, tok := range r.entry.Tokens {
		set, ok := snapshot.TokenToFiles[tok]
		if !ok {
			set = make(map[string]struct{})
			snapshot.TokenToFiles[tok] = set
		}
		set[r.path] = struct{}{}
	}
	for _, tg := range r.entry.Trigrams {
		set, ok := snapshot.TrigramToFiles[tg]
		if !ok {
			set = make(map[string]struct{})
			snapshot.TrigramToFiles[tg] = set
		}
		set[r.path] = struct{}{}
	}
}

func removeFileSymbols(snapshot *IndexSnapshot, path string) {
	if old, ok := snapshot.Files[path]; ok {
		for _, id := range old.SymbolIDs {
			delete(snapshot.Symbols, id)
		}
	}
}

func cloneSnapshot(src *IndexSnapshot) *IndexSnapshot {
	next := newEmptySnapshot()
	for k, v := range src.Files {
		next.Files[k] = v
	}
	for k, v := range src.Symbols {
		next.Symbols[k] = v
	}
	for k, v := range src.Text {
		next.Text[k] = v
	}
	for tok, set := range src.TokenToFiles {
		clone := make(map[string]struct{}, len(set))
		for p := range set {
			clone[p] = struct{}{}
		}
		next.TokenToFiles[tok] = clone
	}
	for tg, set := range src.TrigramToFiles {
		clone := make(map[string]struct{}, len(set))
		for p := range set {
			clone[p] = struct{}{}
		}
		next.TrigramToFiles[tg] = clone
	}
	next.Atlas = src.Atlas
	next.BuiltAt = src.BuiltAt
	return next
}
