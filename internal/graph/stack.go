package graph

import "github.com/bjulian5/ryu/internal/jj"

// Entry is one bookmark in a stack, trunk-most entries first.
type Entry struct {
	jj.Bookmark

	// Parent is the bookmark immediately below this one in the stack.
	// Empty means the entry sits directly on trunk.
	Parent string

	// Title is the first line of the tip commit's description, used as the
	// pull request title when one is created.
	Title string
}

// Stack is an ordered chain of bookmarks from trunk to a tip.
// It is a read-only snapshot derived once per run and never mutated;
// filters return new stacks.
type Stack struct {
	Entries []Entry
}

// Target returns the name of the tip bookmark
func (s *Stack) Target() string {
	if len(s.Entries) == 0 {
		return ""
	}
	return s.Entries[len(s.Entries)-1].Name
}

// Names returns the bookmark names in stack order
func (s *Stack) Names() []string {
	names := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		names[i] = e.Name
	}
	return names
}

// Contains reports whether the stack includes the named bookmark
func (s *Stack) Contains(name string) bool {
	for _, e := range s.Entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Upto returns a copy truncated to end at the named bookmark, dropping
// everything strictly above it.
func (s *Stack) Upto(name string) (*Stack, error) {
	for i, e := range s.Entries {
		if e.Name == name {
			return &Stack{Entries: append([]Entry(nil), s.Entries[:i+1]...)}, nil
		}
	}
	return nil, &NoSuchBookmarkError{Name: name}
}

// Only narrows the stack to its tip bookmark. The returned parent name is
// the bookmark the tip sits on (empty for trunk); callers must verify that
// parent already has a pull request before reconciling.
func (s *Stack) Only() (*Stack, string) {
	if len(s.Entries) == 0 {
		return &Stack{}, ""
	}
	tip := s.Entries[len(s.Entries)-1]
	return &Stack{Entries: []Entry{tip}}, tip.Parent
}

// Restrict returns a copy containing only the named bookmarks, preserving
// stack order. Parent references are relinked to the previous kept entry so
// the chain of pull request bases stays contiguous.
func (s *Stack) Restrict(names []string) *Stack {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}

	restricted := &Stack{}
	prev := ""
	for _, e := range s.Entries {
		if !keep[e.Name] {
			continue
		}
		e.Parent = prev
		restricted.Entries = append(restricted.Entries, e)
		prev = e.Name
	}
	return restricted
}
