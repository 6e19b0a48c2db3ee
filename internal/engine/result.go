package engine

import "github.com/bjulian5/ryu/internal/forge"

// Status is a per-bookmark outcome recorded during execution
type Status string

const (
	StatusNoop           Status = "noop"
	StatusPushed         Status = "pushed"
	StatusCreated        Status = "created"
	StatusBaseUpdated    Status = "baseUpdated"
	StatusPublished      Status = "published"
	StatusCommentUpdated Status = "commentUpdated"
	StatusSkippedNoPR    Status = "skippedNoExistingPR"
	StatusBlocked        Status = "blocked"
	StatusFailed         Status = "failed"
)

// ExecState tracks the executor's progress through a stack
type ExecState string

const (
	StatePlanned        ExecState = "planned"
	StatePhase1Running  ExecState = "phase1-running"
	StatePhase1Complete ExecState = "phase1-complete"
	StatePhase2Running  ExecState = "phase2-running"
	StateDone           ExecState = "done"
	StateFailed         ExecState = "failed"
)

// BookmarkResult is the outcome for a single bookmark. Statuses accumulate
// in execution order; Err is set when an action for the bookmark failed.
type BookmarkResult struct {
	Bookmark string
	Statuses []Status
	PR       *forge.PullRequest
	Err      error
}

// Has reports whether the bookmark recorded the given status
func (r *BookmarkResult) Has(status Status) bool {
	for _, s := range r.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Result is the outcome of executing one stack's plan. It is reporting
// output only and is never fed back into subsequent plans.
type Result struct {
	Target    string
	State     ExecState
	Bookmarks []*BookmarkResult
	Errors    []error
}

// Failed reports whether execution stopped before completing
func (r *Result) Failed() bool {
	return r.State == StateFailed
}

// bookmark returns the result slot for a bookmark, creating it on first use
func (r *Result) bookmark(name string) *BookmarkResult {
	for _, b := range r.Bookmarks {
		if b.Bookmark == name {
			return b
		}
	}
	b := &BookmarkResult{Bookmark: name}
	r.Bookmarks = append(r.Bookmarks, b)
	return b
}

func (r *Result) record(name string, status Status) {
	b := r.bookmark(name)
	b.Statuses = append(b.Statuses, status)
}

func (r *Result) recordErr(name string, err error) {
	b := r.bookmark(name)
	b.Statuses = append(b.Statuses, StatusFailed)
	b.Err = err
	r.Errors = append(r.Errors, err)
}
