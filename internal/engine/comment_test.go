package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/ryu/internal/forge"
)

func sampleItems() []stackCommentItem {
	return []stackCommentItem{
		{Bookmark: "a", Number: 1, URL: "https://example.test/pull/1"},
		{Bookmark: "b", Number: 2, URL: "https://example.test/pull/2"},
		{Bookmark: "c", Number: 3, URL: "https://example.test/pull/3"},
	}
}

func TestRenderStackCommentLayout(t *testing.T) {
	body := renderStackComment(sampleItems(), 1)
	lines := strings.Split(body, "\n")

	require.GreaterOrEqual(t, len(lines), 7)
	assert.True(t, strings.HasPrefix(lines[0], commentMarkerPrefix))
	assert.True(t, strings.HasSuffix(lines[0], commentMarkerSuffix))

	// Leaf-first ordering with the current entry badged.
	assert.Equal(t, "* [#3](https://example.test/pull/3)", lines[1])
	assert.Equal(t, "* **#2 👈**", lines[2])
	assert.Equal(t, "* [#1](https://example.test/pull/1)", lines[3])

	assert.Equal(t, "---", lines[5])
	assert.Equal(t, commentFooter, lines[6])
}

func TestRenderStackCommentIsDeterministic(t *testing.T) {
	first := renderStackComment(sampleItems(), 0)
	second := renderStackComment(sampleItems(), 0)
	assert.Equal(t, first, second, "re-rendering must be byte-identical for idempotent upserts")
}

func TestRenderStackCommentDiffersPerPosition(t *testing.T) {
	assert.NotEqual(t, renderStackComment(sampleItems(), 0), renderStackComment(sampleItems(), 2))
}

func TestFindManagedComment(t *testing.T) {
	body := renderStackComment(sampleItems(), 0)
	comments := []forge.Comment{
		{ID: 10, Body: "LGTM"},
		{ID: 11, Body: body},
		{ID: 12, Body: "one more nit"},
	}

	found := findManagedComment(comments)
	require.NotNil(t, found)
	assert.Equal(t, int64(11), found.ID)
}

func TestFindManagedCommentAbsent(t *testing.T) {
	assert.Nil(t, findManagedComment([]forge.Comment{{ID: 1, Body: "just a review"}}))
}

func TestCommentItemsSkipInactivePRs(t *testing.T) {
	prs := map[string]*forge.PullRequest{
		"a": {Number: 1, State: forge.StateMerged},
		"b": {Number: 2, State: forge.StateOpen, URL: "u2"},
		"c": nil,
	}

	items := commentItems([]string{"a", "b", "c"}, prs)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Bookmark)
}
