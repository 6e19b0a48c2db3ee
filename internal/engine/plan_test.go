package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/ryu/internal/forge"
)

func kinds(actions []Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a.Kind) + ":" + a.Bookmark
	}
	return out
}

func TestReconcileFreshStack(t *testing.T) {
	// Scenario: three bookmarks, none with a pull request yet.
	stack := testStack("a", "b", "c")
	remote := RemoteState{"a": nil, "b": nil, "c": nil}

	plan := Reconcile(stack, remote, Options{Trunk: "main", Remote: "origin"})

	require.Equal(t, []string{
		"push:a", "create:a",
		"push:b", "create:b",
		"push:c", "create:c",
	}, kinds(plan.Phase1))

	assert.Equal(t, "main", plan.Phase1[1].Base)
	assert.Equal(t, "a", plan.Phase1[3].Base)
	assert.Equal(t, "b", plan.Phase1[5].Base)
	assert.Equal(t, []string{"a", "b", "c"}, plan.CommentRoster)
}

func TestReconcileRebasedStack(t *testing.T) {
	// Scenario: "a" was removed from between trunk and "b"; b's PR still
	// bases on a and must be repointed at trunk.
	stack := syncedStack("b")
	remote := RemoteState{
		"b": {Number: 2, HeadBranch: "b", BaseBranch: "a", State: forge.StateOpen},
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main"})

	require.Equal(t, []string{"update-base:b"}, kinds(plan.Phase1))
	assert.Equal(t, "main", plan.Phase1[0].Base)
}

func TestReconcileConvergedStackIsEmpty(t *testing.T) {
	stack := syncedStack("a", "b")
	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "main", State: forge.StateOpen},
		"b": {Number: 2, HeadBranch: "b", BaseBranch: "a", State: forge.StateOpen},
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main"})

	assert.True(t, plan.Empty())
	assert.Equal(t, []string{"a", "b"}, plan.CommentRoster)
}

func TestReconcileOutOfDateBookmarkIsPushed(t *testing.T) {
	stack := syncedStack("a", "b")
	stack.Entries[1].Synced = false // local commit moved

	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "main", State: forge.StateOpen},
		"b": {Number: 2, HeadBranch: "b", BaseBranch: "a", State: forge.StateOpen},
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main"})

	require.Equal(t, []string{"push:b"}, kinds(plan.Phase1))
}

func TestReconcileUpdateOnlySkipsMissingPRs(t *testing.T) {
	// Scenario: c has no PR and the run is update-only.
	stack := syncedStack("a", "c")
	stack.Entries[1].Synced = false
	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "main", State: forge.StateOpen},
		"c": nil,
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main", UpdateOnly: true})

	assert.Equal(t, []string{"c"}, plan.Skipped)
	assert.Empty(t, plan.Phase1, "no create may be planned for c")
	assert.Equal(t, []string{"a"}, plan.CommentRoster)
}

func TestReconcileMergedPRExcludedFromRoster(t *testing.T) {
	stack := syncedStack("a", "b")
	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "main", State: forge.StateMerged},
		"b": {Number: 2, HeadBranch: "b", BaseBranch: "a", State: forge.StateOpen},
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main"})

	assert.Equal(t, []string{"b"}, plan.CommentRoster, "merged PRs are omitted from numbering")
	// The merged PR also gets no base update even though its recorded
	// base no longer matches.
	for _, a := range plan.Phase1 {
		assert.NotEqual(t, "a", a.Bookmark)
	}
}

func TestReconcileClosedPRLeftAlone(t *testing.T) {
	stack := syncedStack("a")
	stack.Entries[0].Synced = false
	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "stale", State: forge.StateClosed},
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main"})

	assert.True(t, plan.Empty())
	assert.Empty(t, plan.CommentRoster)
}

func TestReconcilePublishPlansReadyTransitions(t *testing.T) {
	stack := syncedStack("a", "b")
	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "main", State: forge.StateDraft, Draft: true},
		"b": {Number: 2, HeadBranch: "b", BaseBranch: "a", State: forge.StateOpen},
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main", Publish: true})

	require.Equal(t, []string{"publish:a"}, kinds(plan.Phase1))
}

func TestReconcileDraftAppliesOnlyToNewPRs(t *testing.T) {
	stack := syncedStack("a", "b")
	stack.Entries[1].HasRemote = false
	stack.Entries[1].Synced = false
	remote := RemoteState{
		"a": {Number: 1, HeadBranch: "a", BaseBranch: "main", State: forge.StateOpen},
		"b": nil,
	}

	plan := Reconcile(stack, remote, Options{Trunk: "main", Draft: true})

	require.Equal(t, []string{"push:b", "create:b"}, kinds(plan.Phase1))
	assert.True(t, plan.Phase1[1].Draft)
}

func TestReconcileIsPure(t *testing.T) {
	stack := testStack("a", "b")
	remote := RemoteState{"a": nil, "b": nil}
	opts := Options{Trunk: "main", Remote: "origin"}

	first := Reconcile(stack, remote, opts)
	second := Reconcile(stack, remote, opts)

	assert.Equal(t, kinds(first.Phase1), kinds(second.Phase1))
	assert.Equal(t, first.CommentRoster, second.CommentRoster)
}
