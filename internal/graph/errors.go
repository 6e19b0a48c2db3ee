package graph

import "fmt"

// NoSuchBookmarkError indicates a named bookmark does not exist in the workspace.
type NoSuchBookmarkError struct {
	Name string
}

func (e *NoSuchBookmarkError) Error() string {
	return fmt.Sprintf("bookmark %q does not exist", e.Name)
}

// AmbiguousStackError indicates a bookmark does not resolve to a single
// linear chain between trunk and its tip.
type AmbiguousStackError struct {
	Name   string
	Reason string
}

func (e *AmbiguousStackError) Error() string {
	return fmt.Sprintf("bookmark %q does not form a linear stack: %s", e.Name, e.Reason)
}
