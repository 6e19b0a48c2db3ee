package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/ryu/internal/forge"
)

// Status icons
const (
	IconOpen   = "●"
	IconDraft  = "◐"
	IconMerged = "◆"
	IconClosed = "○"
	IconLocal  = "◯"
)

// Status pairs a pull request state with its icon and style
type Status struct {
	Icon  string
	Label string
	Style lipgloss.Style
}

// GetStatus returns the Status for a pull request state. A nil pull
// request renders as local-only.
func GetStatus(pr *forge.PullRequest) Status {
	if pr == nil {
		return Status{Icon: IconLocal, Label: "local", Style: StatusLocalStyle}
	}
	switch pr.State {
	case forge.StateOpen:
		return Status{Icon: IconOpen, Label: "open", Style: StatusOpenStyle}
	case forge.StateDraft:
		return Status{Icon: IconDraft, Label: "draft", Style: StatusDraftStyle}
	case forge.StateMerged:
		return Status{Icon: IconMerged, Label: "merged", Style: StatusMergedStyle}
	case forge.StateClosed:
		return Status{Icon: IconClosed, Label: "closed", Style: StatusClosedStyle}
	}
	return Status{Icon: IconLocal, Label: string(pr.State), Style: StatusLocalStyle}
}

// RenderCompact returns just the styled icon
func (s Status) RenderCompact() string {
	return s.Style.Render(s.Icon)
}
