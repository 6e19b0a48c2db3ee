package jj

// Bookmark is a named pointer to a commit in the local workspace.
type Bookmark struct {
	Name     string
	CommitID string
	ChangeID string

	// HasRemote reports whether the bookmark is tracked on any remote.
	HasRemote bool
	// Synced reports whether the tracked remote ref tip equals the local commit.
	Synced bool
}

// LogEntry is a single commit as reported by jj log.
type LogEntry struct {
	CommitID    string
	ChangeID    string
	Parents     []string // parent commit IDs
	Bookmarks   []string // local bookmark names pointing at this commit
	Description string   // first line of the commit description
}

// Remote is a configured git remote.
type Remote struct {
	Name string
	URL  string
}
