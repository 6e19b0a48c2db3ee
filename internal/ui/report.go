package ui

import (
	"fmt"
	"strings"

	"github.com/bjulian5/ryu/internal/engine"
)

var statusLabels = map[engine.Status]string{
	engine.StatusNoop:           "up to date",
	engine.StatusPushed:         "pushed",
	engine.StatusCreated:        "created",
	engine.StatusBaseUpdated:    "base updated",
	engine.StatusPublished:      "published",
	engine.StatusCommentUpdated: "comment synced",
	engine.StatusSkippedNoPR:    "skipped (no pull request)",
	engine.StatusBlocked:        "blocked",
	engine.StatusFailed:         "failed",
}

// RenderResult renders the per-bookmark outcome of one executed stack
func RenderResult(result *engine.Result) string {
	var b strings.Builder

	for _, bookmark := range result.Bookmarks {
		b.WriteString("  ")
		b.WriteString(formatBookmarkResult(bookmark))
		b.WriteString("\n")
	}

	if result.Failed() {
		b.WriteString(ErrorStyle.Render("  Execution stopped early; rerun after fixing the failure to resume."))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSyncReports renders the aggregated report of a whole-repository sync
func RenderSyncReports(reports []*engine.StackReport) string {
	var b strings.Builder

	for i, report := range reports {
		if i > 0 {
			b.WriteString(RenderSeparator(0))
			b.WriteString("\n")
		}
		b.WriteString(HeaderStyle.Render(report.Target))
		b.WriteString("\n")

		switch {
		case report.Err != nil:
			b.WriteString("  ")
			b.WriteString(ErrorStyle.Render("✗ " + report.Err.Error()))
			b.WriteString("\n")
		case report.Result != nil:
			b.WriteString(RenderResult(report.Result))
		case report.Plan != nil:
			b.WriteString(RenderPlan(report.Plan))
		}
	}
	return b.String()
}

func formatBookmarkResult(r *engine.BookmarkResult) string {
	labels := make([]string, 0, len(r.Statuses))
	for _, s := range r.Statuses {
		label, ok := statusLabels[s]
		if !ok {
			label = string(s)
		}
		labels = append(labels, label)
	}

	icon := SuccessStyle.Render("✓")
	switch {
	case r.Err != nil:
		icon = ErrorStyle.Render("✗")
	case r.Has(engine.StatusBlocked):
		icon = WarningStyle.Render("⊘")
	case r.Has(engine.StatusNoop) || r.Has(engine.StatusSkippedNoPR):
		icon = Dim("·")
	}

	line := fmt.Sprintf("%s %s  %s", icon, Bold(r.Bookmark), Dim(strings.Join(labels, ", ")))
	if r.PR != nil {
		line += "  " + Highlight(fmt.Sprintf("#%d", r.PR.Number))
		if r.PR.URL != "" {
			line += " " + Dim(r.PR.URL)
		}
	}
	if r.Err != nil {
		line += "\n      " + ErrorStyle.Render(r.Err.Error())
	}
	return line
}
