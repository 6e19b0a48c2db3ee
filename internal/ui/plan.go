package ui

import (
	"fmt"
	"strings"

	"github.com/bjulian5/ryu/internal/engine"
)

// RenderPlan renders the planned actions for one stack, bottom of the
// stack first, the way the executor will apply them.
func RenderPlan(plan *engine.Plan) string {
	var b strings.Builder

	titleWidth := GetTerminalWidth() - 40
	if titleWidth < 20 {
		titleWidth = 20
	}

	header := fmt.Sprintf("%s → %s", plan.Stack.Target(), plan.Trunk)
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")

	if plan.Empty() {
		b.WriteString(Dim("  Nothing to do: stack matches remote state."))
		b.WriteString("\n")
	}

	for _, action := range plan.Phase1 {
		b.WriteString("  ")
		b.WriteString(formatAction(plan, action, titleWidth))
		b.WriteString("\n")
	}

	for _, name := range plan.Skipped {
		b.WriteString("  ")
		b.WriteString(Dim(fmt.Sprintf("skip    %s (no existing pull request)", name)))
		b.WriteString("\n")
	}

	if n := len(plan.CommentRoster); n > 0 {
		b.WriteString(Dim(fmt.Sprintf("  then sync the stack comment on %d pull request(s)", n)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatAction(plan *engine.Plan, action engine.Action, titleWidth int) string {
	switch action.Kind {
	case engine.ActionPushRef:
		return fmt.Sprintf("%s %s → %s",
			InfoStyle.Render("push   "), Bold(action.Bookmark), plan.Remote)
	case engine.ActionCreatePR:
		line := fmt.Sprintf("%s %s (base: %s) %s",
			SuccessStyle.Render("create "), Bold(action.Bookmark), action.Base, Dim(Truncate(action.Title, titleWidth)))
		if action.Draft {
			line += " " + StatusDraftStyle.Render("[draft]")
		}
		return line
	case engine.ActionUpdateBase:
		return fmt.Sprintf("%s #%d %s → %s",
			WarningStyle.Render("rebase "), action.PR.Number, Bold(action.Bookmark), action.Base)
	case engine.ActionPublish:
		return fmt.Sprintf("%s #%d %s (ready for review)",
			SuccessStyle.Render("publish"), action.PR.Number, Bold(action.Bookmark))
	}
	return string(action.Kind) + " " + action.Bookmark
}
