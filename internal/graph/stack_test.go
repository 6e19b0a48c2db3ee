package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/ryu/internal/jj"
)

func chain(names ...string) *Stack {
	s := &Stack{}
	for i, name := range names {
		e := Entry{Bookmark: jj.Bookmark{Name: name, CommitID: "c-" + name}, Title: "Title " + name}
		if i > 0 {
			e.Parent = names[i-1]
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

func TestUpto(t *testing.T) {
	s := chain("a", "b", "c")

	truncated, err := s.Upto("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, truncated.Names())

	// Original stack is untouched.
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())
}

func TestUptoUnknownBookmark(t *testing.T) {
	s := chain("a", "b")

	_, err := s.Upto("z")
	var notFound *NoSuchBookmarkError
	require.ErrorAs(t, err, &notFound)
}

func TestOnly(t *testing.T) {
	s := chain("a", "b", "c")

	only, parent := s.Only()
	assert.Equal(t, []string{"c"}, only.Names())
	assert.Equal(t, "b", parent)
}

func TestOnlyBottomOfStack(t *testing.T) {
	s := chain("a")

	only, parent := s.Only()
	assert.Equal(t, []string{"a"}, only.Names())
	assert.Equal(t, "", parent, "bottom bookmark bases on trunk")
}

func TestRestrictRelinksParents(t *testing.T) {
	s := chain("a", "b", "c")

	restricted := s.Restrict([]string{"a", "c"})
	require.Equal(t, []string{"a", "c"}, restricted.Names())
	assert.Equal(t, "", restricted.Entries[0].Parent)
	assert.Equal(t, "a", restricted.Entries[1].Parent)
}

func TestRestrictEmptySelection(t *testing.T) {
	s := chain("a", "b")
	assert.Empty(t, s.Restrict(nil).Entries)
}
