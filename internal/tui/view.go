package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jask/surveyboard/internal/notify"
	"github.com/jask/surveyboard/internal/survey"
)

// quickAction is a view-dialog shortcut that only reports back to the user.
type quickAction struct {
	key   string
	label string
	cat   notify.Category
	title string
	body  func(title string) string
}

var quickActions = []quickAction{
	{"p", "Preview", notify.Info, "Opening Preview", func(string) string { return "Survey preview will open in a new tab" }},
	{"s", "Share", notify.Info, "Share Link Copied", func(string) string { return "Survey link has been copied to your clipboard" }},
	{"u", "Duplicate", notify.Success, "Survey Copied", func(t string) string { return fmt.Sprintf("%q has been duplicated", t) }},
	{"w", "Download", notify.Success, "Download Started", func(t string) string { return fmt.Sprintf("Downloading %q data", t) }},
}

func findQuickAction(key string) (quickAction, bool) {
	for _, qa := range quickActions {
		if qa.key == key {
			return qa, true
		}
	}
	return quickAction{}, false
}

func renderDetails(r survey.Record, layout string, loc *time.Location, now time.Time) string {
	d := survey.Describe(r, layout, loc)
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(44).Render(titleStyle.Render(d.Title)),
		badge(d.Status),
	)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Survey ID: " + d.ID))
	b.WriteString("\n\n")

	actions := make([]string, 0, len(quickActions))
	for _, qa := range quickActions {
		actions = append(actions, fmt.Sprintf("[%s] %s", qa.key, qa.label))
	}
	b.WriteString(subtleStyle.Render(strings.Join(actions, "  ")))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Width(14).Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Type", d.Type)
	row("Language", d.Language)
	row("Responses", humanize.Comma(int64(d.Responses)))
	row("Created", d.CreatedAt+" by "+d.CreatedBy)
	modified := d.ModifiedAt + " by " + d.ModifiedBy
	if r.ModifiedAt != nil {
		modified += subtleStyle.Render(" (" + humanize.RelTime(*r.ModifiedAt, now, "ago", "from now") + ")")
	}
	row("Modified", modified)

	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		buttonStyle.Foreground(danger).Render("d Delete"),
		"  ",
		buttonStyle.Render("esc Close"),
	))
	return b.String()
}
