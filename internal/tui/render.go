package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/jask/surveyboard/internal/filter"
	"github.com/jask/surveyboard/internal/modal"
	"github.com/jask/surveyboard/internal/survey"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

func (a *App) View() string {
	w, h := a.size()
	out := a.renderList(w)

	if d, body := a.activeDialog(); d != nil {
		card := cardStyle
		if !d.IsOpen() {
			card = fadingCard
		}
		var rect modal.Rect
		out, rect = placeCenter(out, card.Render(body), w, h)
		d.SetBounds(rect)
		if c := d.Confirmation(); c != nil {
			out, _ = placeCenter(out, renderConfirmation(c), w, h)
		}
	}

	if st := a.loading.Snapshot(); st.Active {
		out, _ = placeCenter(out, a.renderLoading(st.Message, st.Submessage), w, h)
	}
	if toasts := a.renderToasts(); toasts != "" {
		out = placeTopRight(out, toasts, w, h)
	}
	return out
}

func (a *App) size() (int, int) {
	w, h := a.width, a.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// activeDialog returns the visible dialog and its body, if any.
func (a *App) activeDialog() (*modal.Dialog, string) {
	switch {
	case a.create.Visible():
		return a.create, a.form.view(a.cfg.UI.CurrentUser, a.dateLayout(), a.loc)
	case a.view.Visible():
		return a.view, renderDetails(a.viewing, a.dateLayout(), a.loc, a.now())
	}
	return nil, ""
}

func (a *App) renderList(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Surveys"))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %s total", humanize.Comma(int64(len(a.orch.Surveys()))))))
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(a.result.Counts))
	for i, t := range filter.Tabs {
		label := fmt.Sprintf("%d %s (%d)", i+1, t, a.result.Counts[t])
		if t == a.filter.ActiveTab {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	date := "any date"
	if a.filter.DateFilter != nil {
		date = a.filter.DateFilter.Format(a.dateLayout())
	}
	controls := []string{a.search.View(), labelStyle.Render("date: ") + date, labelStyle.Render("sort: ") + sortLabel(a.sort)}
	if a.screen.Focused() == focusDate {
		controls[1] = a.date.View()
	}
	b.WriteString(strings.Join(controls, "   "))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(tableRow("Title", "Status", "Type", "Responses", "Modified", width)))
	b.WriteString("\n")
	if len(a.result.Page) == 0 {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(a.emptyMessage()))
		b.WriteString("\n")
	}
	for i, r := range a.result.Page {
		d := survey.Describe(r, a.dateLayout(), a.loc)
		line := tableRow(d.Title, string(d.Status), d.Type, humanize.Comma(int64(d.Responses)), d.ModifiedAt, width)
		if i == a.cursor && !a.create.Visible() && !a.view.Visible() {
			line = selectedRow.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.result.TotalItems > 0 {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("Showing %d to %d of %d entries", a.result.From, a.result.To, a.result.TotalItems)))
		if a.result.TotalPages > 1 {
			b.WriteString("  ")
			b.WriteString(a.pager.View())
		}
		b.WriteString("\n")
	}
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) emptyMessage() string {
	if a.filter.SearchTerm != "" || a.filter.DateFilter != nil {
		return "No surveys match your filters."
	}
	if len(a.orch.Surveys()) == 0 {
		return "No surveys yet. Press n to create one."
	}
	return "No surveys in this tab."
}

func tableRow(title, status, kind, responses, modified string, width int) string {
	titleW := max(width-58, 16)
	cell := func(s string, w int) string {
		return padRightANSI(ansi.Truncate(s, w-1, "…"), w)
	}
	return cell(title, titleW) + cell(status, 12) + cell(kind, 10) + cell(responses, 12) + cell(modified, 14)
}

func renderConfirmation(c *modal.Confirmation) string {
	accent := danger
	if c.Content.Emphasis == modal.Cautionary {
		accent = warning
	}
	confirm, cancel := buttonStyle, buttonSelected
	if c.ConfirmSelected() {
		confirm, cancel = buttonSelected, buttonStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(c.Content.Title),
		"",
		lipgloss.NewStyle().Width(48).Render(c.Content.Message),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			cancel.Render(c.Content.CancelLabel),
			"  ",
			confirm.Foreground(accent).Render(c.Content.ConfirmLabel),
		),
	)
	return confirmCard.BorderForeground(accent).Render(body)
}

func (a *App) renderLoading(message, sub string) string {
	dots := strings.Repeat(".", a.frame%4)
	lines := []string{a.spinner.View() + " " + message + dots}
	if sub != "" {
		lines = append(lines, subtleStyle.Render(sub))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderToasts() string {
	active := a.toasts.Active()
	if len(active) == 0 {
		return ""
	}
	cards := make([]string, 0, len(active))
	for _, t := range active {
		color := toastColor(t.Category)
		body := lipgloss.NewStyle().Bold(true).Foreground(color).Render(t.Title)
		if t.Message != "" {
			body += "\n" + lipgloss.NewStyle().Width(36).Render(t.Message)
		}
		cards = append(cards, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Right, cards...)
}
