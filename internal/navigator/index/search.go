package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

const longQueryThreshold = 48

// literalFallbackAllowed mirrors the planner's gate: a literal sweep only
// runs for a non-empty query with no symbol_exact and no help_symbol.
func literalFallbackAllowed(req SearchRequest) bool {
	return req.Query != "" && req.Filters.SymbolExact == "" && req.HelpSymbol == ""
}

// Search executes a resolved SearchRequest against snapshot, running the
// ranked path (or the literal-only path for TextMode), the refine
// fallback, and the literal fallback, in that order.
func (idx *Index) Search(ctx context.Context, req SearchRequest) SearchResponse {
	start := time.Now()
	snapshot := idx.Snapshot()

	if req.TextMode {
		hits := idx.literalSearch(snapshot, req)
		return idx.finishResponse(req, hits, SearchStats{
			CandidateCount:  len(hits),
			LiteralFallback: true,
			Elapsed:         time.Since(start),
		})
	}

	candidates, refineFallback := idx.candidateIDs(snapshot, req)
	hits := idx.rankedSearch(snapshot, req, candidates)

	if refineNeedsFallback(req, hits) {
		req2 := req
		req2.Refine = nil
		candidates = allSymbolIDs(snapshot)
		hits = idx.rankedSearch(snapshot, req2, candidates)
		refineFallback = true
	}

	literalUsed := false
	if len(hits) == 0 && literalFallbackAllowed(req) {
		hits = idx.literalSearch(snapshot, req)
		literalUsed = len(hits) > 0
	}

	return idx.finishResponse(req, hits, SearchStats{
		CandidateCount:  len(candidates),
		RefineFallback:  refineFallback,
		LiteralFallback: literalUsed,
		Elapsed:         time.Since(start),
	})
}

func refineNeedsFallback(req SearchRequest, hits []NavHit) bool {
	return req.Refine != nil && len(hits) == 0 && req.Query != ""
}

func (idx *Index) candidateIDs(snapshot *IndexSnapshot, req SearchRequest) ([]SymbolID, bool) {
	if req.Refine != nil {
		if cached, ok := idx.cache.Lookup(*req.Refine); ok {
			return cached.CandidateIDs, false
		}
	}
	return allSymbolIDs(snapshot), false
}

func allSymbolIDs(snapshot *IndexSnapshot) []SymbolID {
	ids := make([]SymbolID, 0, len(snapshot.Symbols))
	for id := range snapshot.Symbols {
		ids = append(ids, id)
	}
	return ids
}

func (idx *Index) rankedSearch(snapshot *IndexSnapshot, req SearchRequest, candidates []SymbolID) []NavHit {
	type scored struct {
		rec   SymbolRecord
		score float64
	}
	var surviving []scored

	longQuery := len(req.Query) > longQueryThreshold
	normQuery := normalizeForSubstring(req.Query)

	for _, id := range candidates {
		rec, ok := snapshot.Symbols[id]
		if !ok || !req.Filters.Matches(rec) {
			continue
		}
		var score float64
		matched := req.Query == ""
		if req.Query != "" {
			if longQuery {
				haystack := normalizeForSubstring(rec.Identifier + " " + rec.Path + " " + rec.Preview)
				if strings.Contains(haystack, normQuery) {
					matched = true
					score = 200
				}
			} else {
				corpus := rec.Identifier + " " + rec.Path + " " + rec.Preview
				matches := fuzzy.Find(req.Query, []string{corpus})
				if len(matches) > 0 {
					matched = true
					score = float64(matches[0].Score)
				}
			}
		}
		if !matched {
			continue
		}
		score += heuristicBonus(rec, req)
		surviving = append(surviving, scored{rec: rec, score: score})
	}

	sort.Slice(surviving, func(i, j int) bool {
		if surviving[i].score != surviving[j].score {
			return surviving[i].score > surviving[j].score
		}
		return surviving[i].rec.ID < surviving[j].rec.ID
	})

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(surviving) > limit {
		surviving = surviving[:limit]
	}

	hits := make([]NavHit, 0, len(surviving))
	for _, s := range surviving {
		hits = append(hits, buildHit(snapshot, s.rec, s.score, req))
	}

	ids := make([]SymbolID, len(hits))
	for i, h := range hits {
		ids[i] = SymbolID(h.ID)
	}
	idx.cache.Store(CachedQuery{CandidateIDs: ids, Query: req.Query, Filters: req.Filters})

	return hits
}

const attentionCap = 5

func heuristicBonus(rec SymbolRecord, req SearchRequest) float64 {
	var bonus float64
	if rec.Recent {
		bonus += 5
	}
	if rec.Attention > 0 {
		capped := rec.Attention
		if capped > attentionCap {
			capped = attentionCap
		}
		bonus += float64(capped) * 2
	}
	if strings.EqualFold(rec.Identifier, req.Query) {
		bonus += 25
	}
	if req.Query != "" && strings.Contains(strings.ToLower(rec.Preview), strings.ToLower(req.Query)) {
		bonus += 3
	}
	if containsKind(req.CategoryBonusKinds, rec.Kind) {
		bonus += 4
	}
	return bonus
}

func buildHit(snapshot *IndexSnapshot, rec SymbolRecord, score float64, req SearchRequest) NavHit {
	hit := NavHit{
		ID:         string(rec.ID),
		Kind:       string(rec.Kind),
		Identifier: rec.Identifier,
		Path:       rec.Path,
		Language:   rec.Language,
		Range:      rec.Range,
		Score:      score,
		Preview:    rec.Preview,
		DocSummary: rec.DocSummary,
	}
	if req.HelpSymbol != "" && req.HelpSymbol == rec.Identifier {
		hit.Help = &HelpBlock{Summary: rec.DocSummary, Usage: rec.Preview}
	}
	if req.WithRefs {
		hit.References = findReferences(snapshot, rec, req.RefsRole, req.RefsLimit)
	}
	return hit
}

// findReferences builds rec's reference bucket: a "definition" entry for
// each of rec's own Dependencies (the symbols it relies on) and a "usage"
// entry for every other symbol that names rec as a dependency. role, when
// non-empty, keeps only "definition" or "usage" entries; limit (defaulting
// to 12, matching the planner's References/Symbols/Ai profile default)
// caps the combined bucket.
func findReferences(snapshot *IndexSnapshot, rec SymbolRecord, role string, limit int) []Reference {
	if limit <= 0 {
		limit = 12
	}

	ids := make([]SymbolID, 0, len(snapshot.Symbols))
	for id := range snapshot.Symbols {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var refs []Reference
	if role == "" || role == "definition" {
		for _, dep := range rec.Dependencies {
			for _, id := range ids {
				other := snapshot.Symbols[id]
				if other.Identifier == dep && other.ID != rec.ID {
					refs = append(refs, Reference{Path: other.Path, Line: other.Range.Start, Role: "definition"})
					break
				}
			}
			if len(refs) >= limit {
				break
			}
		}
	}
	if (role == "" || role == "usage") && len(refs) < limit {
		for _, id := range ids {
			other := snapshot.Symbols[id]
			if other.ID == rec.ID {
				continue
			}
			if containsString(other.Dependencies, rec.Identifier) {
				refs = append(refs, Reference{Path: other.Path, Line: other.Range.Start, Role: "usage"})
				if len(refs) >= limit {
					break
				}
			}
		}
	}
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs
}

// literalSearch scans candidate files line-by-line for the lowercased
// query, building a 5-line/~160-byte snippet per hit.
func (idx *Index) literalSearch(snapshot *IndexSnapshot, req SearchRequest) []NavHit {
	if req.Query == "" {
		return nil
	}
	needle := strings.ToLower(req.Query)
	candidates := literalCandidatePaths(snapshot, req.Query)

	var hits []NavHit
	for _, path := range candidates {
		entry, ok := snapshot.Files[path]
		if !ok || !req.Filters.MatchesFile(entry) {
			continue
		}
		ft, ok := snapshot.Text[path]
		if !ok {
			continue
		}
		for _, m := range findLiteralMatches(ft, needle) {
			hits = append(hits, NavHit{
				ID:       fmt.Sprintf("literal::%s#%d", path, m.Line),
				Kind:     "document",
				Path:     path,
				Language: entry.Language,
				Range:    SymbolRange{Start: m.Line, End: m.Line + 1},
				Score:    300,
				Preview:  m.Snippet,
			})
		}
	}
	return hits
}

type literalMatch struct {
	Line    int
	Snippet string
}

const literalSnippetMaxBytes = 160
const literalSnippetLines = 5

func findLiteralMatches(ft FileText, needleLower string) []literalMatch {
	lo := lineOffsets{offsets: ft.LineOffsets}
	total := lo.lineCount(len(ft.Bytes))

	var matches []literalMatch
	for line := 0; line < total; line++ {
		text := lineRange(ft, line, line+1)
		if len(text) == 0 {
			continue
		}
		if !strings.Contains(strings.ToLower(text[0]), needleLower) {
			continue
		}
		start := line - literalSnippetLines/2
		if start < 0 {
			start = 0
		}
		end := start + literalSnippetLines
		if end > total {
			end = total
		}
		snippetLines := lineRange(ft, start, end)
		snippet := strings.Join(snippetLines, "\n")
		if len(snippet) > literalSnippetMaxBytes {
			snippet = snippet[:literalSnippetMaxBytes]
		}
		matches = append(matches, literalMatch{Line: line, Snippet: snippet})
	}
	return matches
}

// literalCandidatePaths returns the files worth scanning literally: exact
// token matches for identifier-like queries, trigram intersection
// otherwise.
func literalCandidatePaths(snapshot *IndexSnapshot, query string) []string {
	if isIdentifierLike(query) {
		set, ok := snapshot.TokenToFiles[strings.ToLower(query)]
		if !ok {
			return nil
		}
		out := make([]string, 0, len(set))
		for p := range set {
			out = append(out, p)
		}
		sort.Strings(out)
		return out
	}

	tris := trigrams([]byte(query))
	if len(tris) == 0 {
		out := make([]string, 0, len(snapshot.Files))
		for p := range snapshot.Files {
			out = append(out, p)
		}
		sort.Strings(out)
		return out
	}

	counts := make(map[string]int)
	for _, t := range tris {
		for p := range snapshot.TrigramToFiles[t] {
			counts[p]++
		}
	}
	need := len(tris)
	var out []string
	for p, c := range counts {
		if c == need {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (idx *Index) finishResponse(req SearchRequest, hits []NavHit, stats SearchStats) SearchResponse {
	states, counts := idx.coverage.Summary()
	_ = states
	var paths []string
	ids := make([]SymbolID, 0, len(hits))
	for _, h := range hits {
		paths = append(paths, h.Path)
		ids = append(ids, SymbolID(h.ID))
	}
	queryID := idx.cache.Store(CachedQuery{CandidateIDs: ids, Query: req.Query, Filters: req.Filters})

	return SearchResponse{
		QueryID: queryID,
		Hits:    hits,
		Stats:   stats,
		Diagnostics: SearchDiagnostics{
			IndexState:      idx.State(),
			Coverage:        counts,
			PendingLiterals: idx.coverage.PendingPaths(),
		},
		AtlasHint: atlasHintFor(paths),
	}
}
