package planner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuickCommandShorthandAndOnlyLatch(t *testing.T) {
	payload, err := parseQuickCommand(`search tests only docs "http server"`)
	require.NoError(t, err)

	require.Equal(t, "http server", payload.Query)
	require.Contains(t, payload.Profiles, ProfileTests)
	require.Contains(t, payload.Profiles, ProfileDocs)
	require.True(t, payload.OnlyDocs)
	require.False(t, payload.OnlyTests)
}

func TestQuickCommandKeyValueOptions(t *testing.T) {
	payload, err := parseQuickCommand(`search query=widget kind=function,struct limit=5`)
	require.NoError(t, err)

	require.Equal(t, "widget", payload.Query)
	require.ElementsMatch(t, []string{"function", "struct"}, payload.KindsRaw)
	require.True(t, payload.KindsExplicit)
	require.Equal(t, 5, payload.Limit)
}

func TestQuickCommandUnterminatedQuoteErrors(t *testing.T) {
	_, err := tokenizeQuick(`search "unterminated`)
	require.Error(t, err)
}

func TestQuickCommandUnknownKeyRecordsSuggestion(t *testing.T) {
	payload, err := parseQuickCommand(`search widget limt=5`)
	require.NoError(t, err)
	require.Len(t, payload.UnknownKeys, 1)
	require.Equal(t, "limt", payload.UnknownKeys[0].Key)
	require.Equal(t, "limit", payload.UnknownKeys[0].Suggestion)
}

func TestFreeformBlockParsesKeyValueLines(t *testing.T) {
	text := "*** Begin Search\n" +
		"query: \"http server\"\n" +
		"# a comment\n" +
		"category = tests\n" +
		"*** End Search\n"

	payload, err := parseFreeform(text)
	require.NoError(t, err)
	require.Equal(t, ActionSearch, payload.Action)
	require.Equal(t, "http server", payload.Query)
	require.Equal(t, []string{"tests"}, payload.CategoriesRaw)
}

func TestFreeformMissingHeaderErrors(t *testing.T) {
	_, err := parseFreeform("query: widget\n")
	require.Error(t, err)
}

func TestJSONActionEnvelope(t *testing.T) {
	payload, err := parseJSONPayload(`{"action":"search","query":"widget","limit":7}`)
	require.NoError(t, err)
	require.Equal(t, ActionSearch, payload.Action)
	require.Equal(t, "widget", payload.Query)
	require.Equal(t, 7, payload.Limit)
}

func TestJSONShorthandOpen(t *testing.T) {
	payload, err := parseJSONPayload(`{"open":"lib.go:function:3:Greet"}`)
	require.NoError(t, err)
	require.Equal(t, ActionOpen, payload.Action)
	require.Equal(t, "lib.go:function:3:Greet", payload.OpenID)
}

func TestJSONShorthandSnippetObject(t *testing.T) {
	payload, err := parseJSONPayload(`{"snippet":{"id":"abc","context":4}}`)
	require.NoError(t, err)
	require.Equal(t, ActionSnippet, payload.Action)
	require.Equal(t, "abc", payload.SnippetID)
	require.Equal(t, 4, payload.Context)
}

func TestJSONEscapeHatchReparsesFreeform(t *testing.T) {
	inner := "*** Begin Search\nquery: widget\ncategory: docs\n*** End Search\n"
	payload, err := parseJSONPayload(`{"action":"search","freeform":` + jsonQuote(inner) + `}`)
	require.NoError(t, err)
	require.Equal(t, "widget", payload.Query)
	require.Equal(t, []string{"docs"}, payload.CategoriesRaw)
}

func jsonQuote(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\n':
			out += `\n`
		case '\\':
			out += `\\`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestResolveSearchAppliesInferredSymbolsProfile(t *testing.T) {
	resolved, err := Plan("search ParsePatch")
	require.NoError(t, err)
	require.Equal(t, ActionSearch, resolved.Action)
	require.NotEmpty(t, resolved.Search.Filters.Kinds)
}

func TestResolveSearchRequiresAnchor(t *testing.T) {
	_, err := Plan("search")
	require.Error(t, err)
}

func TestResolveOpenRequiresID(t *testing.T) {
	_, err := Plan("open")
	require.Error(t, err)
}

func TestResolveUnknownKindSuggestsCorrection(t *testing.T) {
	_, err := Plan(`search query=widget kind=functio`)
	require.Error(t, err)
	plannerErr, ok := err.(*PlannerError)
	require.True(t, ok)
	require.Equal(t, "function", plannerErr.Suggestion)
}

func TestBroadProfileDisablesRefsAndRaisesLimit(t *testing.T) {
	resolved, err := Plan("search query=widget profile=broad")
	require.NoError(t, err)
	require.Equal(t, 80, resolved.Search.Limit)
	require.False(t, resolved.Search.WithRefs)
}

func TestExplicitKindsSurviveProfileMutation(t *testing.T) {
	resolved, err := Plan("search query=widget kind=const files")
	require.NoError(t, err)
	require.False(t, resolved.AllowKindOverrides)
	require.Len(t, resolved.Search.Filters.Kinds, 1)
	require.Equal(t, "const", string(resolved.Search.Filters.Kinds[0]))
}
