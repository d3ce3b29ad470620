package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"navshell/internal/navigator/index"
	"navshell/internal/navigator/planner"
)

var (
	navLimit    int
	navRefsMode string
)

var refsModeChoices = []string{"all", "definitions", "usages"}

var navCmd = &cobra.Command{
	Use:   "nav [payload...]",
	Short: "search the code navigator index",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(); err != nil {
			return err
		}
		if err := validateRefsMode(); err != nil {
			return err
		}

		payload := buildNavPayload(cmd, args)
		resolved, err := planner.Plan(payload)
		if err != nil {
			return err
		}
		if resolved.Action != planner.ActionSearch {
			return fmt.Errorf("nav accepts search-shaped payloads, got %s", resolved.Action)
		}
		applyRefsMode(&resolved.Search)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		resp := navIdx.Search(ctx, resolved.Search)

		return emit(resp, func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "query_id=%s hits=%d (candidates=%d)\n", resp.QueryID, len(resp.Hits), resp.Stats.CandidateCount)
			for _, h := range resp.Hits {
				fmt.Fprintf(&b, "  %-6.1f %-10s %s (%s:%d)\n", h.Score, h.Kind, h.Identifier, h.Path, h.Range.Start+1)
			}
			for _, hint := range resp.Hints {
				fmt.Fprintf(&b, "hint: %s\n", hint)
			}
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

func init() {
	navCmd.Flags().IntVar(&navLimit, "limit", 40, "maximum hits to return")
	navCmd.Flags().StringVar(&navRefsMode, "refs-mode", "all", "reference filter: all, definitions, usages")
}

func validateRefsMode() error {
	for _, m := range refsModeChoices {
		if navRefsMode == m {
			return nil
		}
	}
	if s := planner.Suggest(navRefsMode, refsModeChoices); s != "" {
		return fmt.Errorf("unknown --refs-mode %q (did you mean %q?)", navRefsMode, s)
	}
	return fmt.Errorf("unknown --refs-mode %q, must be one of %v", navRefsMode, refsModeChoices)
}

// applyRefsMode layers the CLI's --refs-mode flag on top of whatever the
// payload itself requested, since the flag is a convenience the quick
// command/JSON/freeform dialects don't need to spell out.
func applyRefsMode(req *index.SearchRequest) {
	switch navRefsMode {
	case "definitions":
		req.RefsRole = "definition"
		req.WithRefs = true
	case "usages":
		req.RefsRole = "usage"
		req.WithRefs = true
	}
}

// buildNavPayload turns CLI args into a quick-command payload. Flags the
// user didn't set explicitly fall back to the workspace's configured
// planner defaults rather than navLimit's bare cobra default.
func buildNavPayload(cmd *cobra.Command, args []string) string {
	limit := navLimit
	if !cmd.Flags().Changed("limit") && navCfg.Planner.DefaultLimit > 0 {
		limit = navCfg.Planner.DefaultLimit
	}

	if len(args) == 0 {
		return "search limit=" + strconv.Itoa(limit)
	}
	joined := strings.Join(args, " ")
	if strings.HasPrefix(strings.TrimSpace(joined), "search") ||
		strings.HasPrefix(strings.TrimSpace(joined), "{") ||
		strings.HasPrefix(strings.TrimSpace(joined), "*** Begin") {
		return joined
	}
	payload := "search " + joined + " limit=" + strconv.Itoa(limit)
	explicitProfile := false
	if parsed, err := planner.ParsePayload("search " + joined); err == nil && len(parsed.Profiles) > 0 {
		explicitProfile = true
	}
	if !explicitProfile && navCfg.Planner.DefaultProfile != "" && navCfg.Planner.DefaultProfile != "balanced" {
		payload += " profile=" + navCfg.Planner.DefaultProfile
	}
	return payload
}
