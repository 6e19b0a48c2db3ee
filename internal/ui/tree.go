package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
)

// RenderStackTree renders one stack rooted at its trunk base.
// Example output:
//
//	feat-tests
//	╰─┬ main
//	  ├─● #123 Add parser (a1b2c3d4)
//	  ├─◐ #124 Add cache (b2c3d4e5)
//	  ╰─◯ Add tests (c3d4e5f6) [local]
//
// prs may be nil when remote state was not fetched; every entry then
// renders as local.
func RenderStackTree(s *graph.Stack, trunk string, prs map[string]*forge.PullRequest, current string) string {
	t := tree.Root(TreeRootStyle.Render(s.Target()))

	baseNode := tree.Root(Dim(trunk))
	for _, entry := range s.Entries {
		var pr *forge.PullRequest
		if prs != nil {
			pr = prs[entry.Name]
		}
		baseNode.Child(formatEntryForTree(entry, pr, entry.Name == current))
	}
	t.Child(baseNode)

	t.Enumerator(roundedEnumerator).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(treeIndenter)

	return t.String()
}

// RenderStackList renders every stack in the workspace with a per-stack
// summary line, for `ryu analyze`.
func RenderStackList(stacks []*graph.Stack, excluded int) string {
	if len(stacks) == 0 {
		return Dim("No stacked bookmarks found.")
	}

	title := fmt.Sprintf("Stacks (%d total)", len(stacks))
	t := tree.Root(HeaderStyle.Render(title))

	for _, s := range stacks {
		node := tree.Root(TreeRootStyle.Render(s.Target()))
		for _, entry := range s.Entries {
			node.Child(formatEntryForTree(entry, nil, false))
		}
		t.Child(node)
	}

	t.Enumerator(roundedEnumerator).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(treeIndenter)

	out := t.String()
	if excluded > 0 {
		out += "\n" + Dim(fmt.Sprintf("(%d bookmarks excluded: history is not a linear chain)", excluded))
	}
	return out
}

// formatEntryForTree renders one bookmark line:
// "● #123 Add parser (a1b2c3d4)" with an arrow on the current entry.
func formatEntryForTree(entry graph.Entry, pr *forge.PullRequest, current bool) string {
	status := GetStatus(pr)

	label := "[local]"
	if pr != nil {
		label = Highlight(fmt.Sprintf("#%d", pr.Number))
	}

	commit := entry.CommitID
	if len(commit) > 8 {
		commit = commit[:8]
	}

	line := fmt.Sprintf("%s %s %s %s",
		status.RenderCompact(), label, Truncate(entry.Title, 60), Dim("("+commit+")"))
	if !entry.Synced {
		line += " " + WarningStyle.Render("*")
	}
	if current {
		line += " " + CurrentMarkerStyle.Render("←")
	}
	return line
}

func roundedEnumerator(children tree.Children, i int) string {
	if children.Length() == 0 {
		return ""
	}
	if i == children.Length()-1 {
		return "╰─ "
	}
	return "├─ "
}

func treeIndenter(children tree.Children, i int) string {
	if children.Length() == 0 {
		return ""
	}
	if i == children.Length()-1 {
		return "   "
	}
	return "│  "
}
