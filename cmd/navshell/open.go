package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	openCtxBefore int
	openCtxAfter  int
)

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "fetch a symbol or literal id and print windowed file contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		result, err := navIdx.Open(args[0], openCtxBefore, openCtxAfter)
		if err != nil {
			return err
		}
		return emit(result, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "%s (%s) lines %d-%d%s\n", result.Path, result.Language, result.DisplayStart+1, result.DisplayStart+strings.Count(result.Body, "\n")+1, truncatedSuffix(result.Truncated))
			b.WriteString(result.Body)
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

var snippetCmd = &cobra.Command{
	Use:   "snippet <id>",
	Short: "like open, but capped to a smaller context window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		result, err := navIdx.Snippet(args[0], openCtxBefore, openCtxAfter)
		if err != nil {
			return err
		}
		return emit(result, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "%s (%s) lines %d-%d%s\n", result.Path, result.Language, result.DisplayStart+1, result.DisplayStart+strings.Count(result.Body, "\n")+1, truncatedSuffix(result.Truncated))
			b.WriteString(result.Body)
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

func truncatedSuffix(truncated bool) string {
	if truncated {
		return " (truncated)"
	}
	return ""
}

func init() {
	for _, c := range []*cobra.Command{openCmd, snippetCmd} {
		c.Flags().IntVar(&openCtxBefore, "context-before", 2, "lines of context before the range")
		c.Flags().IntVar(&openCtxAfter, "context-after", 2, "lines of context after the range")
	}
}
