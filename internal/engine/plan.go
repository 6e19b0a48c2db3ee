package engine

import (
	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
)

// ActionKind identifies a planned unit of work
type ActionKind string

const (
	ActionPushRef    ActionKind = "push"
	ActionCreatePR   ActionKind = "create"
	ActionUpdateBase ActionKind = "update-base"
	ActionPublish    ActionKind = "publish"
)

// Action is a single idempotent unit of planned work. Actions carry enough
// information to execute without re-deriving context.
type Action struct {
	Kind     ActionKind
	Bookmark string

	Base  string // create, update-base
	Title string // create
	Draft bool   // create

	// PR is the existing pull request for update-base and publish
	PR *forge.PullRequest
}

// Options control reconciliation of one stack
type Options struct {
	Trunk      string
	Remote     string
	UpdateOnly bool
	Draft      bool
	Publish    bool
}

// Plan is the ordered work for one stack. Phase1 actions run strictly in
// stack order; the comment roster is resolved into comment writes only
// after every phase-1 action has finished.
type Plan struct {
	Stack  *graph.Stack
	Trunk  string
	Remote string

	Phase1 []Action

	// CommentRoster lists bookmarks expected to hold an open pull request
	// once phase 1 completes, in stack order. Merged and closed pull
	// requests are omitted entirely.
	CommentRoster []string

	// Existing is the remote state snapshot the plan was derived from
	Existing RemoteState

	// Skipped lists bookmarks without a pull request that were not planned
	// because the run was update-only.
	Skipped []string
}

// Empty reports whether phase 1 has no work
func (p *Plan) Empty() bool {
	return len(p.Phase1) == 0
}

// created reports whether the plan creates a pull request for the bookmark
func (p *Plan) created(name string) bool {
	for _, a := range p.Phase1 {
		if a.Kind == ActionCreatePR && a.Bookmark == name {
			return true
		}
	}
	return false
}

// Reconcile diffs a stack against its remote state and produces the minimal
// ordered plan that converges remote state to local state. It is a pure
// function: same inputs, same plan.
func Reconcile(stack *graph.Stack, remote RemoteState, opts Options) *Plan {
	plan := &Plan{
		Stack:    stack,
		Trunk:    opts.Trunk,
		Remote:   opts.Remote,
		Existing: remote,
	}

	for _, entry := range stack.Entries {
		expectedBase := entry.Parent
		if expectedBase == "" {
			expectedBase = opts.Trunk
		}

		pr := remote[entry.Name]
		if pr == nil {
			if opts.UpdateOnly {
				plan.Skipped = append(plan.Skipped, entry.Name)
				continue
			}
			// The branch must exist on the remote before a pull request
			// can reference it.
			plan.Phase1 = append(plan.Phase1,
				Action{Kind: ActionPushRef, Bookmark: entry.Name},
				Action{Kind: ActionCreatePR, Bookmark: entry.Name, Base: expectedBase, Title: entry.Title, Draft: opts.Draft},
			)
			plan.CommentRoster = append(plan.CommentRoster, entry.Name)
			continue
		}

		if !pr.State.Active() {
			// Merged and closed pull requests are left alone and excluded
			// from stack numbering.
			continue
		}

		if !entry.HasRemote || !entry.Synced {
			plan.Phase1 = append(plan.Phase1, Action{Kind: ActionPushRef, Bookmark: entry.Name})
		}
		if pr.BaseBranch != expectedBase {
			// Self-healing after a bookmark is reordered or removed.
			plan.Phase1 = append(plan.Phase1, Action{Kind: ActionUpdateBase, Bookmark: entry.Name, Base: expectedBase, PR: pr})
		}
		if opts.Publish && pr.State == forge.StateDraft {
			plan.Phase1 = append(plan.Phase1, Action{Kind: ActionPublish, Bookmark: entry.Name, PR: pr})
		}
		plan.CommentRoster = append(plan.CommentRoster, entry.Name)
	}

	return plan
}
