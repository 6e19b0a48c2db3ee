package forge

import (
	"context"
	"fmt"
)

// State is the lifecycle state of a pull request
type State string

const (
	StateOpen   State = "open"
	StateDraft  State = "draft"
	StateMerged State = "merged"
	StateClosed State = "closed"
)

// Active reports whether the pull request can still be updated
func (s State) Active() bool {
	return s == StateOpen || s == StateDraft
}

// PullRequest is a provider-owned pull/merge request. The engine only ever
// reads it or issues update requests; it is never deleted.
type PullRequest struct {
	Number     int
	Title      string
	HeadBranch string
	BaseBranch string
	State      State
	Draft      bool
	Body       string
	URL        string

	// NodeID is the GraphQL node identifier (GitHub only), needed to flip
	// a draft to ready for review.
	NodeID string
}

// NewPullRequest describes a pull request to be created
type NewPullRequest struct {
	Title string
	Head  string
	Base  string
	Body  string
	Draft bool
}

// Comment is a comment on a pull request
type Comment struct {
	ID   int64
	Body string
}

// Provider is the capability set the engine needs from a hosting service.
// Implementations exist for GitHub- and GitLab-shaped APIs; the engine is
// provider-agnostic.
type Provider interface {
	Name() string
	// FindByHead returns the pull request whose head branch matches, or nil
	// if none exists.
	FindByHead(ctx context.Context, head string) (*PullRequest, error)
	Create(ctx context.Context, pr NewPullRequest) (*PullRequest, error)
	UpdateBase(ctx context.Context, number int, base string) (*PullRequest, error)
	// MarkReady transitions a draft pull request to ready for review.
	MarkReady(ctx context.Context, pr *PullRequest) error
	ListComments(ctx context.Context, number int) ([]Comment, error)
	CreateComment(ctx context.Context, number int, body string) error
	UpdateComment(ctx context.Context, number int, commentID int64, body string) error
	// CurrentUser validates the configured token and returns the login
	CurrentUser(ctx context.Context) (string, error)
}

// ProviderError is returned for non-2xx provider responses. The engine
// surfaces it without interpreting the status code.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}
