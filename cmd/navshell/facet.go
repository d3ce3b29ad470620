package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"navshell/internal/navigator/index"
)

// facetResult breaks the index down by category, language, and symbol
// kind, complementing atlas's directory-shaped summary with a
// classification-shaped one.
type facetResult struct {
	Categories map[string]int `json:"categories"`
	Languages  map[string]int `json:"languages"`
	Kinds      map[string]int `json:"kinds"`
}

var facetCmd = &cobra.Command{
	Use:   "facet",
	Short: "break the index down by category, language, and symbol kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		result := buildFacets(navIdx.Snapshot())
		return emit(result, func() string {
			var b strings.Builder
			writeFacetGroup(&b, "categories", result.Categories)
			writeFacetGroup(&b, "languages", result.Languages)
			writeFacetGroup(&b, "kinds", result.Kinds)
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

func buildFacets(snapshot *index.IndexSnapshot) facetResult {
	result := facetResult{
		Categories: map[string]int{},
		Languages:  map[string]int{},
		Kinds:      map[string]int{},
	}
	for _, entry := range snapshot.Files {
		result.Languages[entry.Language]++
		for _, cat := range entry.Categories {
			result.Categories[string(cat)]++
		}
	}
	for _, rec := range snapshot.Symbols {
		result.Kinds[string(rec.Kind)]++
	}
	return result
}

func writeFacetGroup(b *strings.Builder, name string, counts map[string]int) {
	fmt.Fprintf(b, "%s:\n", name)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %-12s %d\n", k, counts[k])
	}
}
