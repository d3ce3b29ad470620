package index

import (
	"path/filepath"
	"sort"
	"strings"
)

// buildAtlas summarizes file/line/symbol counts per directory into a tree
// rooted at the workspace root ("."). Nodes are collected in a flat map
// keyed by directory path and linked through each parent's Children
// pointer slice; the result is an acyclic tree. Each node counts only the
// files directly inside its own directory.
func buildAtlas(snapshot *IndexSnapshot) AtlasSnapshot {
	nodes := map[string]*AtlasNode{
		".": {Path: ".", Categories: make(map[Category]int)},
	}

	ensure := func(dir string) *AtlasNode {
		if dir == "" {
			dir = "."
		}
		if n, ok := nodes[dir]; ok {
			return n
		}
		n := &AtlasNode{Path: dir, Categories: make(map[Category]int)}
		nodes[dir] = n
		return n
	}

	for path, entry := range snapshot.Files {
		dir := filepath.ToSlash(filepath.Dir(path))
		node := ensure(dir)
		node.Files++
		node.Lines += entry.LineCount
		node.Symbols += len(entry.SymbolIDs)
		for _, cat := range entry.Categories {
			node.Categories[cat]++
		}

		cur := dir
		for cur != "." && cur != "" && cur != "/" {
			parentDir := filepath.ToSlash(filepath.Dir(cur))
			parent := ensure(parentDir)
			if !hasChild(parent, cur) {
				parent.Children = append(parent.Children, ensure(cur))
			}
			cur = parentDir
		}
	}

	root := nodes["."]
	sortChildren(root)

	var fileCount int
	for _, n := range nodes {
		fileCount += n.Files
	}
	// Each file is counted once, in its own directory's node, so the sum
	// above equals the snapshot's own file count, which is used directly.
	fileCount = len(snapshot.Files)

	return AtlasSnapshot{Root: root, FileCount: fileCount}
}

func hasChild(parent *AtlasNode, path string) bool {
	for _, c := range parent.Children {
		if c.Path == path {
			return true
		}
	}
	return false
}

func sortChildren(n *AtlasNode) {
	sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Path < n.Children[j].Path })
	for _, c := range n.Children {
		sortChildren(c)
	}
}

// atlasHintFor returns the shallowest directory that contains the most top
// hits, used as SearchResponse.atlas_hint.
func atlasHintFor(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, p := range paths {
		dir := filepath.ToSlash(filepath.Dir(p))
		counts[dir]++
	}
	best, bestCount := "", -1
	for dir, count := range counts {
		if count > bestCount || (count == bestCount && strings.Count(dir, "/") < strings.Count(best, "/")) {
			best, bestCount = dir, count
		}
	}
	return best
}
