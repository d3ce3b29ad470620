package index

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, root string) *Index {
	t.Helper()
	idx := NewIndex(root)
	require.NoError(t, idx.Rebuild(context.Background()))
	return idx
}

func TestRankedSearchFindsExactIdentifier(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lib.go", "package lib\n\nfunc ParsePatch(text string) error {\n\treturn nil\n}\n")

	idx := newTestIndex(t, root)
	resp := idx.Search(context.Background(), SearchRequest{Query: "ParsePatch", Limit: 10})

	require.NotEmpty(t, resp.Hits)
	require.Equal(t, "ParsePatch", resp.Hits[0].Identifier)
}

func TestLiteralFallbackFindsRawStringOccurrence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", "first line\nthe sandbox flag is CODEX_SANDBOX here\nlast line\n")

	idx := newTestIndex(t, root)
	resp := idx.Search(context.Background(), SearchRequest{Query: "CODEX_SANDBOX", Limit: 10})

	require.True(t, resp.Stats.LiteralFallback)
	require.NotEmpty(t, resp.Hits)
	require.True(t, strings.HasPrefix(resp.Hits[0].ID, "literal::"))
	require.Equal(t, 1, resp.Hits[0].Range.Start)
}

func TestTextModeOnlyReturnsLiteralHits(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc Widget() {}\n")
	writeFile(t, root, "b.txt", "a widget appears here\n")

	idx := newTestIndex(t, root)
	resp := idx.Search(context.Background(), SearchRequest{Query: "widget", TextMode: true, Limit: 10})

	require.NotEmpty(t, resp.Hits)
	for _, h := range resp.Hits {
		require.True(t, strings.HasPrefix(h.ID, "literal::"))
	}
}

func TestRefineFallbackTriggersOnEmptyCandidateSet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\nfunc Alpha() {}\n")

	idx := newTestIndex(t, root)
	empty := idx.cache.Store(CachedQuery{CandidateIDs: nil})

	resp := idx.Search(context.Background(), SearchRequest{Query: "Alpha", Refine: &empty, Limit: 10})
	require.True(t, resp.Stats.RefineFallback)
	require.NotEmpty(t, resp.Hits)
}

func TestIdentifierLikeQueryUsesExactTokenCandidates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "one.txt", "apple banana\n")
	writeFile(t, root, "two.txt", "banana cherry\n")

	idx := newTestIndex(t, root)
	snapshot := idx.Snapshot()
	paths := literalCandidatePaths(snapshot, "banana")

	require.ElementsMatch(t, []string{"one.txt", "two.txt"}, paths)
}

func TestLongQueryBypassesFuzzyMatching(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("x", 60)
	writeFile(t, root, "lib.go", "package lib\n\nfunc "+long+"() {}\n")

	idx := newTestIndex(t, root)
	resp := idx.Search(context.Background(), SearchRequest{Query: long, Limit: 10})
	require.NotEmpty(t, resp.Hits)
}

func TestWithRefsPopulatesDefinitionAndUsageBuckets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lib.go", "package lib\n\nfunc Helper() int {\n\treturn 1\n}\n\nfunc Caller() int {\n\treturn Helper()\n}\n")

	idx := newTestIndex(t, root)

	callerResp := idx.Search(context.Background(), SearchRequest{
		Query: "Caller", Limit: 10, WithRefs: true, RefsLimit: 5, RefsRole: "definition",
	})
	require.NotEmpty(t, callerResp.Hits)
	require.NotEmpty(t, callerResp.Hits[0].References)
	require.Equal(t, "definition", callerResp.Hits[0].References[0].Role)
	require.Equal(t, "lib.go", callerResp.Hits[0].References[0].Path)

	helperResp := idx.Search(context.Background(), SearchRequest{
		Query: "Helper", Limit: 10, WithRefs: true, RefsLimit: 5, RefsRole: "usage",
	})
	require.NotEmpty(t, helperResp.Hits)
	require.NotEmpty(t, helperResp.Hits[0].References)
	require.Equal(t, "usage", helperResp.Hits[0].References[0].Role)
}

func TestAttentionBonusRanksFrequentlyUsedSymbolHigher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "lib.go", "package lib\n\nfunc Popular() int {\n\treturn 1\n}\n\nfunc A() int {\n\treturn Popular()\n}\n\nfunc B() int {\n\treturn Popular()\n}\n\nfunc Lonely() int {\n\treturn 2\n}\n")

	idx := newTestIndex(t, root)
	snapshot := idx.Snapshot()

	var popular, lonely SymbolRecord
	for _, rec := range snapshot.Symbols {
		switch rec.Identifier {
		case "Popular":
			popular = rec
		case "Lonely":
			lonely = rec
		}
	}
	require.Greater(t, popular.Attention, lonely.Attention)
}
