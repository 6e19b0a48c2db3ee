package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
)

// SubmitOptions configure one submission
type SubmitOptions struct {
	Bookmark string
	Remote   string
	Trunk    string

	DryRun bool
	// Confirm, when set, is shown the plan and must approve execution.
	Confirm func(*Plan) (bool, error)
	// Select, when set, narrows the candidate bookmarks to a user-chosen
	// subset before reconciliation.
	Select func(names []string) ([]string, error)

	Upto       string
	Only       bool
	StackScope bool
	UpdateOnly bool
	Draft      bool
	Publish    bool
}

// Submit reconciles one stack with its remote pull requests and executes
// the resulting plan. The returned result is nil when nothing was executed
// (dry run, declined confirmation, or an empty converged plan still runs
// the comment barrier, so only the first two).
func Submit(ctx context.Context, g *graph.Graph, provider forge.Provider, vcs Pusher, opts SubmitOptions) (*Plan, *Result, error) {
	stack, err := buildScopedStack(g, opts)
	if err != nil {
		return nil, nil, err
	}
	if len(stack.Entries) == 0 {
		return nil, nil, fmt.Errorf("no bookmarks selected for %s", opts.Bookmark)
	}

	if opts.Only {
		if err := checkParentPullRequest(ctx, provider, stack); err != nil {
			return nil, nil, err
		}
	}

	remote, err := FetchRemoteState(ctx, provider, stack)
	if err != nil {
		return nil, nil, err
	}

	plan := Reconcile(stack, remote, Options{
		Trunk:      opts.Trunk,
		Remote:     opts.Remote,
		UpdateOnly: opts.UpdateOnly,
		Draft:      opts.Draft,
		Publish:    opts.Publish,
	})

	zap.L().Debug("reconciled stack",
		zap.String("target", stack.Target()),
		zap.Int("phase1", len(plan.Phase1)),
		zap.Int("roster", len(plan.CommentRoster)))

	if opts.DryRun {
		return plan, nil, nil
	}
	if opts.Confirm != nil {
		ok, err := opts.Confirm(plan)
		if err != nil {
			return plan, nil, err
		}
		if !ok {
			return plan, nil, nil
		}
	}

	result := NewExecutor(provider, vcs).Execute(ctx, plan)
	return plan, result, nil
}

// buildScopedStack resolves the target stack and applies the scope filters
func buildScopedStack(g *graph.Graph, opts SubmitOptions) (*graph.Stack, error) {
	stack, err := g.StackFor(opts.Bookmark, opts.StackScope)
	if err != nil {
		return nil, err
	}

	if opts.Upto != "" {
		if stack, err = stack.Upto(opts.Upto); err != nil {
			return nil, err
		}
	}

	if opts.Select != nil {
		selected, err := opts.Select(stack.Names())
		if err != nil {
			return nil, err
		}
		stack = stack.Restrict(selected)
	}

	if opts.Only {
		only, _ := stack.Only()
		stack = only
	}

	return stack, nil
}

// checkParentPullRequest enforces the --only precondition: the bookmark
// below the narrowed stack must already have an open pull request to serve
// as the base.
func checkParentPullRequest(ctx context.Context, provider forge.Provider, stack *graph.Stack) error {
	parent := stack.Entries[0].Parent
	if parent == "" {
		// Bottom of the stack bases on trunk directly.
		return nil
	}

	pr, err := provider.FindByHead(ctx, parent)
	if err != nil {
		return &RemoteStateUnavailableError{Stack: stack.Target(), Err: err}
	}
	if pr == nil || !pr.State.Active() {
		return &MissingParentPullRequestError{Bookmark: stack.Target(), Parent: parent}
	}
	return nil
}
