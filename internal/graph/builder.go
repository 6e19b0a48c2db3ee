package graph

import (
	"fmt"
	"sort"

	"github.com/bjulian5/ryu/internal/jj"
)

// Workspace defines the jj operations needed by the graph builder
type Workspace interface {
	LocalBookmarks() ([]jj.Bookmark, error)
	Revset(revset string) ([]jj.LogEntry, error)
}

// Graph is a read-only snapshot of the workspace's bookmark topology.
// Each bookmark resolves to either a linear chain back to trunk or an
// error explaining why it doesn't.
type Graph struct {
	bookmarks map[string]jj.Bookmark
	chains    map[string]*Stack
	chainErrs map[string]error

	// ExcludedCount is the number of bookmarks excluded because their
	// history back to trunk is not a linear chain.
	ExcludedCount int
}

// Build constructs the bookmark graph by walking each bookmark's history
// back to trunk.
func Build(ws Workspace) (*Graph, error) {
	bookmarks, err := ws.LocalBookmarks()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	g := &Graph{
		bookmarks: make(map[string]jj.Bookmark, len(bookmarks)),
		chains:    make(map[string]*Stack, len(bookmarks)),
		chainErrs: make(map[string]error),
	}
	for _, b := range bookmarks {
		g.bookmarks[b.Name] = b
	}

	names := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		names = append(names, b.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		chain, err := buildChain(ws, g.bookmarks, name)
		if err != nil {
			g.chainErrs[name] = err
			g.ExcludedCount++
			continue
		}
		g.chains[name] = chain
	}

	return g, nil
}

// Bookmark returns the named bookmark, if it exists
func (g *Graph) Bookmark(name string) (jj.Bookmark, bool) {
	b, ok := g.bookmarks[name]
	return b, ok
}

// StackFor returns the linear stack from trunk up to the named bookmark.
// With descendants set, the stack is extended through the bookmark's unique
// descendant chain to its leaf.
func (g *Graph) StackFor(name string, descendants bool) (*Stack, error) {
	if _, ok := g.bookmarks[name]; !ok {
		return nil, &NoSuchBookmarkError{Name: name}
	}
	if err, ok := g.chainErrs[name]; ok {
		return nil, err
	}

	if !descendants {
		return g.chains[name], nil
	}

	var containing []*Stack
	for _, leaf := range g.leafNames() {
		if chain := g.chains[leaf]; chain.Contains(name) {
			containing = append(containing, chain)
		}
	}
	switch len(containing) {
	case 0:
		return g.chains[name], nil
	case 1:
		return containing[0], nil
	default:
		return nil, &AmbiguousStackError{
			Name:   name,
			Reason: fmt.Sprintf("%d descendant chains diverge above it", len(containing)),
		}
	}
}

// Stacks returns every maximal stack reachable from trunk, ordered by tip
// bookmark name.
func (g *Graph) Stacks() []*Stack {
	leaves := g.leafNames()
	stacks := make([]*Stack, 0, len(leaves))
	for _, leaf := range leaves {
		stacks = append(stacks, g.chains[leaf])
	}
	return stacks
}

// leafNames returns bookmarks that no other chain stacks on top of,
// deduplicated by tip commit so aliases don't produce duplicate stacks.
func (g *Graph) leafNames() []string {
	hasChild := make(map[string]bool)
	for _, chain := range g.chains {
		for _, e := range chain.Entries[:max(len(chain.Entries)-1, 0)] {
			hasChild[e.Name] = true
		}
	}

	seenTip := make(map[string]string) // tip commit -> leaf name
	var leaves []string
	names := make([]string, 0, len(g.chains))
	for name := range g.chains {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if hasChild[name] {
			continue
		}
		tip := g.bookmarks[name].CommitID
		if _, dup := seenTip[tip]; dup {
			continue
		}
		seenTip[tip] = name
		leaves = append(leaves, name)
	}
	return leaves
}

// buildChain walks trunk()..<bookmark> and extracts the ordered bookmark
// chain. Entries arrive newest first; every commit carrying a local bookmark
// is the tip of the segment below it.
func buildChain(ws Workspace, bookmarks map[string]jj.Bookmark, name string) (*Stack, error) {
	target := bookmarks[name]
	entries, err := ws.Revset(fmt.Sprintf("trunk()..%s", target.CommitID))
	if err != nil {
		return nil, fmt.Errorf("failed to walk history of %s: %w", name, err)
	}

	for _, e := range entries {
		if len(e.Parents) > 1 {
			return nil, &AmbiguousStackError{Name: name, Reason: "history contains a merge commit"}
		}
	}

	// Collected tip-first, reversed at the end.
	var reversed []Entry
	for i, e := range entries {
		if len(e.Bookmarks) == 0 {
			continue
		}

		segName := ""
		if i == 0 {
			// The tip commit may carry alias bookmarks; the requested name wins.
			for _, n := range e.Bookmarks {
				if n == name {
					segName = name
					break
				}
			}
		}
		if segName == "" {
			if len(e.Bookmarks) > 1 {
				return nil, &AmbiguousStackError{
					Name:   name,
					Reason: fmt.Sprintf("commit %s carries multiple bookmarks (%v)", shortID(e.CommitID), e.Bookmarks),
				}
			}
			segName = e.Bookmarks[0]
		}

		b, ok := bookmarks[segName]
		if !ok {
			continue
		}
		reversed = append(reversed, Entry{Bookmark: b, Title: titleOrName(e.Description, segName)})
	}

	if len(reversed) == 0 || reversed[0].Name != name {
		// The bookmark sits on trunk itself, or its tip commit is shared
		// with another bookmark's segment; surface it as a single-entry stack.
		reversed = append([]Entry{{Bookmark: target, Title: titleOrName(tipDescription(entries), name)}}, reversed...)
	}

	stack := &Stack{Entries: make([]Entry, len(reversed))}
	for i, e := range reversed {
		stack.Entries[len(reversed)-1-i] = e
	}
	for i := range stack.Entries {
		if i > 0 {
			stack.Entries[i].Parent = stack.Entries[i-1].Name
		}
	}
	return stack, nil
}

func tipDescription(entries []jj.LogEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Description
}

func titleOrName(description, name string) string {
	if description == "" {
		return name
	}
	return description
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
