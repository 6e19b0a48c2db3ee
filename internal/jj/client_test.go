package jj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookmarkList(t *testing.T) {
	output := []byte(
		"feat-a\taaa111\tzzz111\n" +
			"feat-a@origin\taaa111\tzzz111\n" +
			"feat-b\tbbb222\tzzz222\n" +
			"feat-b@origin\tbbb000\tzzz222\n" +
			"feat-c\tccc333\tzzz333\n")

	bookmarks, err := parseBookmarkList(output)
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)

	byName := make(map[string]Bookmark)
	for _, b := range bookmarks {
		byName[b.Name] = b
	}

	a := byName["feat-a"]
	assert.Equal(t, "aaa111", a.CommitID)
	assert.True(t, a.HasRemote)
	assert.True(t, a.Synced)

	b := byName["feat-b"]
	assert.True(t, b.HasRemote)
	assert.False(t, b.Synced, "remote tip differs from local commit")

	c := byName["feat-c"]
	assert.False(t, c.HasRemote)
	assert.False(t, c.Synced)
}

func TestParseBookmarkListMalformed(t *testing.T) {
	_, err := parseBookmarkList([]byte("feat-a\tonly-two-fields\n"))
	require.Error(t, err)
}

func TestParseBookmarkListEmpty(t *testing.T) {
	bookmarks, err := parseBookmarkList([]byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, bookmarks)
}

func TestParseLogEntries(t *testing.T) {
	output := []byte(
		"ccc333\tzzz333\tbbb222\tfeat-c\tAdd feature C\n" +
			"bbb222\tzzz222\taaa111\tfeat-b,alias-b\tAdd feature B\n" +
			"aaa111\tzzz111\t000aaa\tfeat-a\tAdd feature A\n")

	entries := parseLogEntries(output)
	require.Len(t, entries, 3)

	assert.Equal(t, "ccc333", entries[0].CommitID)
	assert.Equal(t, []string{"feat-c"}, entries[0].Bookmarks)
	assert.Equal(t, "Add feature C", entries[0].Description)

	assert.Equal(t, []string{"feat-b", "alias-b"}, entries[1].Bookmarks)
	assert.Equal(t, []string{"aaa111"}, entries[1].Parents)
}

func TestParseLogEntriesMergeCommit(t *testing.T) {
	output := []byte("mmm999\tzzz999\taaa111,bbb222\t\tMerge branches\n")

	entries := parseLogEntries(output)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Parents, 2)
	assert.Empty(t, entries[0].Bookmarks)
}

func TestParseRemotes(t *testing.T) {
	output := []byte("origin git@github.com:owner/repo.git\nupstream https://gitlab.com/group/sub/repo.git\n")

	remotes := parseRemotes(output)
	require.Len(t, remotes, 2)
	assert.Equal(t, Remote{Name: "origin", URL: "git@github.com:owner/repo.git"}, remotes[0])
	assert.Equal(t, Remote{Name: "upstream", URL: "https://gitlab.com/group/sub/repo.git"}, remotes[1])
}
