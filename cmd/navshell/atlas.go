package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"navshell/internal/navigator/index"
)

var atlasCmd = &cobra.Command{
	Use:   "atlas",
	Short: "print the hierarchical workspace summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		snapshot := navIdx.Atlas()
		return emit(snapshot, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "files=%d\n", snapshot.FileCount)
			if snapshot.Root != nil {
				renderAtlasNode(&b, snapshot.Root, 0)
			}
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

func renderAtlasNode(b *strings.Builder, n *index.AtlasNode, depth int) {
	fmt.Fprintf(b, "%s%s (files=%d lines=%d symbols=%d)\n", strings.Repeat("  ", depth), nodeLabel(n), n.Files, n.Lines, n.Symbols)
	for _, c := range n.Children {
		renderAtlasNode(b, c, depth+1)
	}
}

func nodeLabel(n *index.AtlasNode) string {
	if n.Path == "" {
		return "."
	}
	return n.Path
}
