package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bjulian5/ryu/internal/forge"
)

// Pusher pushes local bookmarks to the remote. The push is idempotent: it
// is a no-op when the remote ref tip already equals the local commit.
type Pusher interface {
	Push(ctx context.Context, remote, bookmark string) error
}

// Executor runs a plan against the provider. There is no rollback: phase-1
// actions apply forward-only and a failure blocks the bookmarks above it,
// leaving everything already applied in place.
type Executor struct {
	provider forge.Provider
	vcs      Pusher
	log      *zap.Logger
}

// NewExecutor creates an executor
func NewExecutor(provider forge.Provider, vcs Pusher) *Executor {
	return &Executor{provider: provider, vcs: vcs, log: zap.L().Named("executor")}
}

// Execute runs the plan: phase-1 actions strictly in stack order, then the
// comment-sync barrier pass once every pull request number in the stack is
// known. The returned result always reports what was and wasn't done.
func (e *Executor) Execute(ctx context.Context, plan *Plan) *Result {
	result := &Result{Target: plan.Stack.Target(), State: StatePlanned}

	prs := make(map[string]*forge.PullRequest, len(plan.Existing))
	for name, pr := range plan.Existing {
		if pr != nil {
			prs[name] = pr
		}
	}

	for _, name := range plan.Skipped {
		result.record(name, StatusSkippedNoPR)
	}

	result.State = StatePhase1Running
	if !e.runPhase1(ctx, plan, prs, result) {
		result.State = StateFailed
		return result
	}
	result.State = StatePhase1Complete

	if !e.rereadCreated(ctx, plan, prs, result) {
		result.State = StateFailed
		return result
	}

	items := commentItems(plan.CommentRoster, prs)
	if len(items) == 0 {
		e.markNoops(plan, result)
		result.State = StateDone
		return result
	}

	result.State = StatePhase2Running
	e.runPhase2(ctx, plan, prs, items, result)

	e.markNoops(plan, result)
	result.State = StateDone
	return result
}

// runPhase1 applies push/create/update-base/publish actions in order.
// Returns false when execution stopped early; remaining bookmarks are
// marked blocked, not attempted.
func (e *Executor) runPhase1(ctx context.Context, plan *Plan, prs map[string]*forge.PullRequest, result *Result) bool {
	for i, action := range plan.Phase1 {
		// A user interrupt stops launching new actions; whatever is
		// in flight completes on its own.
		if err := ctx.Err(); err != nil {
			result.recordErr(action.Bookmark, fmt.Errorf("interrupted: %w", err))
			e.blockRemaining(plan.Phase1[i+1:], action.Bookmark, result)
			return false
		}

		if err := e.apply(ctx, plan, prs, action, result); err != nil {
			e.log.Debug("phase 1 action failed",
				zap.String("bookmark", action.Bookmark),
				zap.String("kind", string(action.Kind)),
				zap.Error(err))
			result.recordErr(action.Bookmark, err)
			e.blockRemaining(plan.Phase1[i+1:], action.Bookmark, result)
			return false
		}
	}
	return true
}

// apply executes one phase-1 action
func (e *Executor) apply(ctx context.Context, plan *Plan, prs map[string]*forge.PullRequest, action Action, result *Result) error {
	switch action.Kind {
	case ActionPushRef:
		if err := e.vcs.Push(ctx, plan.Remote, action.Bookmark); err != nil {
			return err
		}
		result.record(action.Bookmark, StatusPushed)

	case ActionCreatePR:
		pr, err := e.provider.Create(ctx, forge.NewPullRequest{
			Title: action.Title,
			Head:  action.Bookmark,
			Base:  action.Base,
			Draft: action.Draft,
		})
		if err != nil {
			return fmt.Errorf("failed to create pull request for %s: %w", action.Bookmark, err)
		}
		prs[action.Bookmark] = pr
		result.record(action.Bookmark, StatusCreated)
		result.bookmark(action.Bookmark).PR = pr

	case ActionUpdateBase:
		pr, err := e.provider.UpdateBase(ctx, action.PR.Number, action.Base)
		if err != nil {
			return fmt.Errorf("failed to update base of #%d: %w", action.PR.Number, err)
		}
		prs[action.Bookmark] = pr
		result.record(action.Bookmark, StatusBaseUpdated)
		result.bookmark(action.Bookmark).PR = pr

	case ActionPublish:
		if err := e.provider.MarkReady(ctx, action.PR); err != nil {
			return fmt.Errorf("failed to mark #%d ready: %w", action.PR.Number, err)
		}
		result.record(action.Bookmark, StatusPublished)
	}
	return nil
}

// blockRemaining marks every bookmark with unattempted phase-1 actions as
// blocked, once each. The bookmark that failed keeps its failure status.
func (e *Executor) blockRemaining(remaining []Action, failed string, result *Result) {
	blocked := map[string]bool{failed: true}
	for _, action := range remaining {
		if blocked[action.Bookmark] {
			continue
		}
		blocked[action.Bookmark] = true
		result.record(action.Bookmark, StatusBlocked)
	}
}

// rereadCreated re-fetches just-created pull requests so the comment pass
// works from provider-assigned numbers, not locally-remembered state.
func (e *Executor) rereadCreated(ctx context.Context, plan *Plan, prs map[string]*forge.PullRequest, result *Result) bool {
	for _, name := range plan.CommentRoster {
		if !plan.created(name) {
			continue
		}
		pr, err := e.provider.FindByHead(ctx, name)
		if err != nil {
			result.recordErr(name, fmt.Errorf("failed to re-read created pull request for %s: %w", name, err))
			return false
		}
		if pr == nil {
			result.recordErr(name, fmt.Errorf("pull request for %s was created but not found on re-read", name))
			return false
		}
		prs[name] = pr
		result.bookmark(name).PR = pr
	}
	return true
}

// runPhase2 upserts the managed stack comment on every active pull request
// in the roster. A failed comment is recorded but does not stop the rest.
func (e *Executor) runPhase2(ctx context.Context, plan *Plan, prs map[string]*forge.PullRequest, items []stackCommentItem, result *Result) {
	for idx, item := range items {
		if ctx.Err() != nil {
			return
		}

		body := renderStackComment(items, idx)

		comments, err := e.provider.ListComments(ctx, item.Number)
		if err != nil {
			result.recordErr(item.Bookmark, fmt.Errorf("failed to list comments on #%d: %w", item.Number, err))
			continue
		}

		existing := findManagedComment(comments)
		if existing != nil && existing.Body == body {
			// Byte-identical body: nothing to write.
			continue
		}

		if existing != nil {
			err = e.provider.UpdateComment(ctx, item.Number, existing.ID, body)
		} else {
			err = e.provider.CreateComment(ctx, item.Number, body)
		}
		if err != nil {
			result.recordErr(item.Bookmark, fmt.Errorf("failed to sync stack comment on #%d: %w", item.Number, err))
			continue
		}
		result.record(item.Bookmark, StatusCommentUpdated)
	}
}

// markNoops gives every stack bookmark that recorded nothing an explicit
// noop outcome so reports cover the whole stack.
func (e *Executor) markNoops(plan *Plan, result *Result) {
	for _, entry := range plan.Stack.Entries {
		b := result.bookmark(entry.Name)
		if len(b.Statuses) == 0 {
			b.Statuses = append(b.Statuses, StatusNoop)
		}
	}
}
