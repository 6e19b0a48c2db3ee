package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"
)

func init() {
	// Force lipgloss to initialize and detect terminal before fuzzy finder starts
	// This prevents ANSI escape sequences from leaking into the finder input
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// SelectBookmarks presents a fuzzy finder to pick a subset of the stack's
// bookmarks, listed bottom-of-stack first. Returns nil when the user
// cancels. Tab marks multiple entries; enter confirms.
func SelectBookmarks(names []string) ([]string, error) {
	// Flush stdout/stderr before starting fuzzy finder to clear any ANSI sequences
	os.Stdout.Sync()
	os.Stderr.Sync()

	indices, err := fuzzyfinder.FindMulti(
		names,
		func(i int) string {
			return fmt.Sprintf("%d  %s", i+1, names[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return formatBookmarkPreview(names, i)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, err
	}

	// Preserve stack order regardless of the order entries were marked.
	picked := make(map[int]bool, len(indices))
	for _, idx := range indices {
		picked[idx] = true
	}
	var selected []string
	for i, name := range names {
		if picked[i] {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

func formatBookmarkPreview(names []string, i int) string {
	base := "trunk"
	if i > 0 {
		base = names[i-1]
	}
	return strings.Join([]string{
		RenderKeyValue("Bookmark", Bold(names[i])),
		RenderKeyValue("Position", fmt.Sprintf("%d of %d (bottom first)", i+1, len(names))),
		RenderKeyValue("Stacks on", base),
	}, "\n")
}
