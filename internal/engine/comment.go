package engine

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bjulian5/ryu/internal/forge"
)

// The marker line is the sole key used to recognize the tool's own comment
// among all comments on a pull request. It must stay byte-stable across
// versions for upserts to remain idempotent.
const (
	commentMarkerPrefix = "<!--- RYU-STACK: "
	commentMarkerSuffix = " --->"
	commentCurrentBadge = "👈"
	commentFooter       = "This stack of pull requests is managed by [ryu](https://github.com/bjulian5/ryu)."
)

// stackCommentData is the machine-readable stack embedded in the marker
type stackCommentData struct {
	Version int                `json:"version"`
	Stack   []stackCommentItem `json:"stack"`
}

type stackCommentItem struct {
	Bookmark string `json:"bookmark"`
	Number   int    `json:"pr_number"`
	URL      string `json:"pr_url"`
}

// commentItems builds the stack roster for comment rendering from resolved
// pull requests, in stack order.
func commentItems(roster []string, prs map[string]*forge.PullRequest) []stackCommentItem {
	items := make([]stackCommentItem, 0, len(roster))
	for _, name := range roster {
		pr := prs[name]
		if pr == nil || !pr.State.Active() {
			continue
		}
		items = append(items, stackCommentItem{Bookmark: name, Number: pr.Number, URL: pr.URL})
	}
	return items
}

// renderStackComment renders the managed comment body for the stack entry
// at currentIdx. Entries are listed leaf-first; the current pull request is
// bolded with a badge, the others are plain cross-references.
func renderStackComment(items []stackCommentItem, currentIdx int) string {
	data, _ := json.Marshal(stackCommentData{Version: 1, Stack: items})
	encoded := base64.StdEncoding.EncodeToString(data)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", commentMarkerPrefix, encoded, commentMarkerSuffix)

	reversedIdx := len(items) - 1 - currentIdx
	for i, item := range reverseItems(items) {
		if i == reversedIdx {
			fmt.Fprintf(&b, "* **#%d %s**\n", item.Number, commentCurrentBadge)
		} else {
			fmt.Fprintf(&b, "* [#%d](%s)\n", item.Number, item.URL)
		}
	}

	fmt.Fprintf(&b, "\n---\n%s", commentFooter)
	return b.String()
}

func reverseItems(items []stackCommentItem) []stackCommentItem {
	reversed := make([]stackCommentItem, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}
	return reversed
}

// isManagedComment reports whether a comment body belongs to the tool
func isManagedComment(body string) bool {
	return strings.Contains(body, commentMarkerPrefix)
}

// findManagedComment returns the tool's comment among a pull request's
// comments, or nil if none exists yet.
func findManagedComment(comments []forge.Comment) *forge.Comment {
	for i := range comments {
		if isManagedComment(comments[i].Body) {
			return &comments[i]
		}
	}
	return nil
}
