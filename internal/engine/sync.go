package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
)

// defaultSyncWorkers bounds concurrent stack reconciliation so a large
// repository doesn't burst the provider's rate limit.
const defaultSyncWorkers = 4

// SyncOptions configure a whole-repository sync
type SyncOptions struct {
	Remote string
	Trunk  string

	DryRun bool
	// Confirm, when set, is shown every plan and must approve execution
	Confirm func([]*StackReport) (bool, error)

	// Stack limits the sync to the single stack containing this bookmark
	Stack string

	// Workers bounds the worker pool; zero means the default
	Workers int
}

// StackReport is the per-stack slot in the aggregated sync report. Each
// stack writes only its own slot, so concurrent contribution is safe.
type StackReport struct {
	Target string
	Plan   *Plan
	Result *Result
	Err    error
}

// SyncAll reconciles every discovered stack against its remote pull
// requests. Stacks touch disjoint branch namespaces, so they proceed
// concurrently through a bounded worker pool, and one stack's failure
// never stops the others.
func SyncAll(ctx context.Context, g *graph.Graph, provider forge.Provider, vcs Pusher, opts SyncOptions) ([]*StackReport, error) {
	stacks := g.Stacks()
	if opts.Stack != "" {
		filtered := stacks[:0]
		for _, s := range stacks {
			if s.Contains(opts.Stack) {
				filtered = append(filtered, s)
			}
		}
		stacks = filtered
		if len(stacks) == 0 {
			return nil, &graph.NoSuchBookmarkError{Name: opts.Stack}
		}
	}

	reports := make([]*StackReport, len(stacks))

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultSyncWorkers
	}

	// Planning pass: fetch remote state and reconcile each stack.
	eg, planCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, stack := range stacks {
		i, stack := i, stack
		eg.Go(func() error {
			report := &StackReport{Target: stack.Target()}
			reports[i] = report

			remote, err := FetchRemoteState(planCtx, provider, stack)
			if err != nil {
				report.Err = err
				return nil
			}
			report.Plan = Reconcile(stack, remote, Options{
				Trunk:  opts.Trunk,
				Remote: opts.Remote,
			})
			return nil
		})
	}
	// Workers only record per-stack errors, but Wait still surfaces
	// context cancellation.
	if err := eg.Wait(); err != nil {
		return reports, err
	}

	if opts.DryRun {
		return reports, nil
	}
	if opts.Confirm != nil {
		ok, err := opts.Confirm(reports)
		if err != nil {
			return reports, err
		}
		if !ok {
			return reports, nil
		}
	}

	// Execution pass over the stacks that planned cleanly.
	executor := NewExecutor(provider, vcs)
	eg, execCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, report := range reports {
		if report.Err != nil || report.Plan == nil {
			continue
		}
		report := report
		eg.Go(func() error {
			report.Result = executor.Execute(execCtx, report.Plan)
			if report.Result.Failed() {
				zap.L().Debug("stack sync failed", zap.String("target", report.Target))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return reports, err
	}

	return reports, nil
}
