package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/surveyboard/internal/survey"
)

type formField int

const (
	fieldTitle formField = iota
	fieldStatus
	fieldType
	fieldLanguage
	fieldSubmit
	fieldCount
)

const typePlaceholder = "Select survey type"

// createForm is the body of the "Create New Survey" dialog. Select fields
// hold an index into their option list; -1 means nothing chosen.
type createForm struct {
	title      textinput.Model
	status     int
	kind       int
	language   int
	field      formField
	modifiedAt time.Time
	errs       map[string]string
}

func newCreateForm(now time.Time) createForm {
	ti := textinput.New()
	ti.Placeholder = "Enter survey title"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Focus()
	return createForm{
		title:      ti,
		status:     indexOf(statusNames(), string(survey.StatusDraft)),
		kind:       -1,
		language:   indexOf(survey.Languages, "English"),
		modifiedAt: now,
	}
}

func statusNames() []string {
	out := make([]string, len(survey.Statuses))
	for i, s := range survey.Statuses {
		out[i] = string(s)
	}
	return out
}

func indexOf(opts []string, v string) int {
	for i, o := range opts {
		if o == v {
			return i
		}
	}
	return -1
}

func option(opts []string, i int) string {
	if i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i]
}

// dirty reports whether cancelling would lose user input.
func (f createForm) dirty() bool {
	return strings.TrimSpace(f.title.Value()) != "" || f.kind >= 0
}

func (f createForm) input(userID int64) survey.Input {
	return survey.Input{
		Title:      f.title.Value(),
		Status:     survey.Status(option(statusNames(), f.status)),
		Type:       option(survey.Types, f.kind),
		Language:   option(survey.Languages, f.language),
		CreatedBy:  userID,
		ModifiedBy: userID,
		ModifiedAt: f.modifiedAt,
	}
}

func (f *createForm) focus(field formField) {
	f.field = (field + fieldCount) % fieldCount
	if f.field == fieldTitle {
		f.title.Focus()
	} else {
		f.title.Blur()
	}
}

func cycle(i, n, delta int) int {
	if i < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return (i + delta + n) % n
}

// update handles keys for the form. submit is set when the user asked to
// save.
func (f *createForm) update(msg tea.KeyMsg, now time.Time) (cmd tea.Cmd, submit bool) {
	switch msg.String() {
	case "tab", "down":
		f.focus(f.field + 1)
		return nil, false
	case "shift+tab", "up":
		f.focus(f.field - 1)
		return nil, false
	case "ctrl+s":
		return nil, true
	case "enter":
		if f.field == fieldSubmit {
			return nil, true
		}
		f.focus(f.field + 1)
		return nil, false
	}

	delta := 0
	switch msg.String() {
	case "left", "h":
		delta = -1
	case "right", "l", " ":
		delta = 1
	}
	switch f.field {
	case fieldTitle:
		before := f.title.Value()
		f.title, cmd = f.title.Update(msg)
		if f.title.Value() != before {
			f.touch(now)
			delete(f.errs, "title")
		}
		return cmd, false
	case fieldStatus:
		if delta != 0 {
			f.status = cycle(f.status, len(survey.Statuses), delta)
			f.touch(now)
		}
	case fieldType:
		if delta != 0 {
			f.kind = cycle(f.kind, len(survey.Types), delta)
			f.touch(now)
			delete(f.errs, "type")
		}
	case fieldLanguage:
		if delta != 0 {
			f.language = cycle(f.language, len(survey.Languages), delta)
			f.touch(now)
		}
	}
	return nil, false
}

func (f *createForm) touch(now time.Time) { f.modifiedAt = now }

func (f createForm) view(user, dateLayout string, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create New Survey"))
	b.WriteString("\n\n")

	b.WriteString(f.label(fieldTitle, "Survey Title *"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString(f.fieldError("title"))
	b.WriteString("\n\n")

	b.WriteString(f.selectRow(fieldStatus, "Status *", option(statusNames(), f.status), "", "status"))
	b.WriteString(f.selectRow(fieldType, "Survey Type *", option(survey.Types, f.kind), typePlaceholder, "type"))
	b.WriteString(f.selectRow(fieldLanguage, "Language *", option(survey.Languages, f.language), "", "language"))

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Created by %s · Modified %s · Responses 0",
		user, f.modifiedAt.In(loc).Format(dateLayout+" 15:04"))))
	b.WriteString("\n\n")

	submit := buttonStyle.Render("Create Survey")
	if f.field == fieldSubmit {
		submit = buttonSelected.Render("Create Survey")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, submit, "  ", subtleStyle.Render("esc cancel · tab next · ←/→ choose · ctrl+s save")))
	return b.String()
}

func (f createForm) label(field formField, text string) string {
	if f.field == field {
		return focusedField.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}

func (f createForm) selectRow(field formField, label, value, placeholder, errKey string) string {
	shown := value
	if shown == "" {
		shown = subtleStyle.Render(placeholder)
	}
	row := lipgloss.NewStyle().Width(20).Render(f.label(field, label)) + "‹ " + shown + " ›"
	return row + f.fieldError(errKey) + "\n"
}

func (f createForm) fieldError(key string) string {
	if msg, ok := f.errs[key]; ok {
		return "  " + errorText.Render(msg)
	}
	return ""
}
