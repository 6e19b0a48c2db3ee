package jj

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Templates handed to jj. Fields are tab-separated; none of them can contain
// a tab, and the description is narrowed to its first line.
const (
	bookmarkTemplate = `if(remote, name ++ "@" ++ remote, name) ++ "\t" ++ normal_target.commit_id() ++ "\t" ++ normal_target.change_id() ++ "\n"`
	logTemplate      = `commit_id ++ "\t" ++ change_id ++ "\t" ++ parents.map(|c| c.commit_id()).join(",") ++ "\t" ++ local_bookmarks.join(",") ++ "\t" ++ description.first_line() ++ "\n"`
)

// Client provides jj operations for a workspace
type Client struct {
	root string
}

// NewClient creates a new jj client for the current directory
func NewClient() (*Client, error) {
	root, err := workspaceRoot()
	if err != nil {
		return nil, err
	}
	return &Client{root: root}, nil
}

// Root returns the root directory of the jj workspace
func (c *Client) Root() string {
	return c.root
}

// LocalBookmarks returns all local bookmarks with their remote tracking state
func (c *Client) LocalBookmarks() ([]Bookmark, error) {
	output, err := c.execJJ("bookmark", "list", "--all-remotes", "-T", bookmarkTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return parseBookmarkList(output)
}

// Revset resolves a revset expression and returns the matching commits,
// newest first, in jj log order.
func (c *Client) Revset(revset string) ([]LogEntry, error) {
	output, err := c.execJJ("log", "-r", revset, "--no-graph", "-T", logTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revset %q: %w", revset, err)
	}
	return parseLogEntries(output), nil
}

// Push pushes a bookmark to the remote. jj makes this a no-op when the
// remote ref already points at the local commit.
func (c *Client) Push(ctx context.Context, remote, bookmark string) error {
	cmd := exec.CommandContext(ctx, "jj", "git", "push", "--remote", remote, "--bookmark", bookmark, "--allow-new")
	cmd.Dir = c.root
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to push bookmark %s: %w\nOutput: %s", bookmark, err, string(output))
	}
	return nil
}

// Remotes returns the configured git remotes
func (c *Client) Remotes() ([]Remote, error) {
	output, err := c.execJJ("git", "remote", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	return parseRemotes(output), nil
}

// TrunkName returns the name of the trunk branch for a remote. It prefers
// the remote HEAD and falls back to a main/master bookmark.
func (c *Client) TrunkName(remote string) (string, error) {
	cmd := exec.Command("git", "symbolic-ref", "--short", fmt.Sprintf("refs/remotes/%s/HEAD", remote))
	cmd.Dir = c.root
	if output, err := cmd.Output(); err == nil {
		ref := strings.TrimSpace(string(output))
		if name, ok := strings.CutPrefix(ref, remote+"/"); ok && name != "" {
			return name, nil
		}
	}

	bookmarks, err := c.LocalBookmarks()
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{"main", "master", "trunk"} {
		for _, b := range bookmarks {
			if b.Name == candidate {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("could not determine trunk branch for remote %s", remote)
}

// execJJ executes a jj command in the workspace root and returns the output
func (c *Client) execJJ(args ...string) ([]byte, error) {
	cmd := exec.Command("jj", args...)
	if c.root != "" {
		cmd.Dir = c.root
	}
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("jj error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute jj: %w", err)
	}
	return output, nil
}

// workspaceRoot is a private helper to get the jj workspace root
func workspaceRoot() (string, error) {
	cmd := exec.Command("jj", "workspace", "root")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a jj workspace: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// parseBookmarkList parses jj bookmark list output. Local entries appear as
// "name", remote tracking entries as "name@remote"; both carry the commit and
// change IDs of their target.
func parseBookmarkList(output []byte) ([]Bookmark, error) {
	type remoteTarget struct {
		commitID string
	}

	local := make(map[string]*Bookmark)
	remotes := make(map[string][]remoteTarget)
	var order []string

	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed bookmark entry: %q", line)
		}
		name, commitID, changeID := fields[0], fields[1], fields[2]

		if base, _, isRemote := strings.Cut(name, "@"); isRemote {
			remotes[base] = append(remotes[base], remoteTarget{commitID: commitID})
			continue
		}

		if _, seen := local[name]; !seen {
			order = append(order, name)
		}
		local[name] = &Bookmark{Name: name, CommitID: commitID, ChangeID: changeID}
	}

	sort.Strings(order)
	bookmarks := make([]Bookmark, 0, len(order))
	for _, name := range order {
		b := local[name]
		targets := remotes[name]
		b.HasRemote = len(targets) > 0
		b.Synced = false
		for _, t := range targets {
			if t.commitID == b.CommitID {
				b.Synced = true
				break
			}
		}
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks, nil
}

// parseLogEntries parses jj log template output into entries
func parseLogEntries(output []byte) []LogEntry {
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 5)
		if len(fields) != 5 {
			continue
		}
		entries = append(entries, LogEntry{
			CommitID:    fields[0],
			ChangeID:    fields[1],
			Parents:     splitList(fields[2]),
			Bookmarks:   splitList(fields[3]),
			Description: fields[4],
		})
	}
	return entries
}

// parseRemotes parses "name url" lines from jj git remote list
func parseRemotes(output []byte) []Remote {
	var remotes []Remote
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		name, url, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		remotes = append(remotes, Remote{Name: name, URL: strings.TrimSpace(url)})
	}
	return remotes
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
