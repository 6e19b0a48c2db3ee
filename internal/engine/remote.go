package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bjulian5/ryu/internal/forge"
	"github.com/bjulian5/ryu/internal/graph"
)

// RemoteState maps bookmark names to their existing pull request, if any.
// It is a snapshot fetched once per submission; a nil entry means no pull
// request exists for that bookmark.
type RemoteState map[string]*forge.PullRequest

// FetchRemoteState looks up the pull request for every bookmark in the
// stack. Lookups run concurrently since they are independent reads. The
// fetch is all-or-nothing: any failed lookup fails the whole stack with
// RemoteStateUnavailableError.
func FetchRemoteState(ctx context.Context, provider forge.Provider, stack *graph.Stack) (RemoteState, error) {
	state := make(RemoteState, len(stack.Entries))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range stack.Entries {
		name := entry.Name
		g.Go(func() error {
			pr, err := provider.FindByHead(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			state[name] = pr
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &RemoteStateUnavailableError{Stack: stack.Target(), Err: err}
	}
	return state, nil
}
