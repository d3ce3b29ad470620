package index

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"navshell/internal/logging"
)

// scanRecentPaths returns the set of workspace-relative paths git considers
// modified, staged, or untracked — the "recent" ranking signal. A missing
// git binary or a non-repo workspace is not an error; it yields an empty
// set, matching the teacher's git scan short-circuit on a non-repo root.
func scanRecentPaths(ctx context.Context, root string) map[string]struct{} {
	log := logging.Get(logging.CategoryNavigator)
	recent := make(map[string]struct{})

	checkCmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	checkCmd.Dir = root
	if err := checkCmd.Run(); err != nil {
		return recent
	}

	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	cmd.Dir = root
	output, err := cmd.Output()
	if err != nil {
		log.Warn("git status failed", map[string]any{"error": err.Error()})
		return recent
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if arrow := strings.Index(path, " -> "); arrow >= 0 {
			path = path[arrow+len(" -> "):]
		}
		recent[filepath.ToSlash(path)] = struct{}{}
	}
	return recent
}
