package engine

import "fmt"

// RemoteStateUnavailableError indicates the remote pull request state for a
// stack could not be fully read. A partially-read state is never reconciled,
// since absent-vs-failed lookups would be indistinguishable.
type RemoteStateUnavailableError struct {
	Stack string
	Err   error
}

func (e *RemoteStateUnavailableError) Error() string {
	return fmt.Sprintf("could not read remote state for stack %s: %v", e.Stack, e.Err)
}

func (e *RemoteStateUnavailableError) Unwrap() error {
	return e.Err
}

// MissingParentPullRequestError indicates a bookmark was submitted with
// --only but the bookmark below it has no pull request to base on.
type MissingParentPullRequestError struct {
	Bookmark string
	Parent   string
}

func (e *MissingParentPullRequestError) Error() string {
	return fmt.Sprintf("cannot submit %s alone: parent bookmark %s has no pull request", e.Bookmark, e.Parent)
}
