package modal

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Kind selects the stock wording of a confirmation.
type Kind string

const (
	KindDelete  Kind = "delete"
	KindDiscard Kind = "discard"
	KindArchive Kind = "archive"
)

// Emphasis is the visual weight of the confirm button.
type Emphasis int

const (
	Destructive Emphasis = iota
	Cautionary
)

// Content is what a confirmation shows.
type Content struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Emphasis     Emphasis
}

// ContentOption overrides part of the stock content.
type ContentOption func(*Content)

func WithTitle(s string) ContentOption        { return func(c *Content) { c.Title = s } }
func WithMessage(s string) ContentOption      { return func(c *Content) { c.Message = s } }
func WithConfirmLabel(s string) ContentOption { return func(c *Content) { c.ConfirmLabel = s } }
func WithCancelLabel(s string) ContentOption  { return func(c *Content) { c.CancelLabel = s } }
func WithEmphasis(e Emphasis) ContentOption   { return func(c *Content) { c.Emphasis = e } }

// ContentFor returns the stock wording for kind. subject is usually the
// survey title and may be empty. Unknown kinds fall back to delete.
func ContentFor(kind Kind, subject string) Content {
	c := Content{CancelLabel: "Cancel", Emphasis: Destructive}
	switch kind {
	case KindDiscard:
		c.Title = "Discard Changes?"
		c.Message = "Are you sure you want to discard your changes? Any unsaved data will be lost."
		c.ConfirmLabel = "Discard"
	case KindArchive:
		c.Title = "Archive Item?"
		c.Message = "Are you sure you want to archive this item?"
		if subject != "" {
			c.Message = fmt.Sprintf("Are you sure you want to archive %q?", subject)
		}
		c.ConfirmLabel = "Archive"
		c.Emphasis = Cautionary
	default:
		c.Title = "Delete Survey?"
		c.Message = "Are you sure you want to delete this item? This action cannot be undone."
		if subject != "" {
			c.Message = fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", subject)
		}
		c.ConfirmLabel = "Delete"
	}
	return c
}

// ConfirmedMsg is emitted when the user accepts a confirmation.
type ConfirmedMsg struct {
	DialogID string
	Kind     Kind
}

// CancelledMsg is emitted when the user backs out of a confirmation.
type CancelledMsg struct {
	DialogID string
	Kind     Kind
}

// Confirmation is the child dialog stacked above a primary one. The cancel
// button is selected initially.
type Confirmation struct {
	Kind    Kind
	Content Content

	parent     string
	confirmSel bool
	remove     func()
}

func newConfirmation(parent string, kind Kind, subject string, opts ...ContentOption) *Confirmation {
	c := ContentFor(kind, subject)
	for _, o := range opts {
		o(&c)
	}
	if kind == "" {
		kind = KindDelete
	}
	return &Confirmation{Kind: kind, Content: c, parent: parent}
}

// ConfirmSelected reports whether the confirm button has focus.
func (c *Confirmation) ConfirmSelected() bool { return c.confirmSel }

func (c *Confirmation) result(confirmed bool) tea.Cmd {
	var msg tea.Msg = CancelledMsg{DialogID: c.parent, Kind: c.Kind}
	if confirmed {
		msg = ConfirmedMsg{DialogID: c.parent, Kind: c.Kind}
	}
	return func() tea.Msg { return msg }
}

// handle consumes every key and click while the confirmation is showing.
// done reports that the confirmation was answered.
func (c *Confirmation) handle(msg tea.Msg) (handled bool, cmd tea.Cmd, done bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "esc", "n":
			return true, c.result(false), true
		case "y":
			return true, c.result(true), true
		case "enter":
			return true, c.result(c.confirmSel), true
		case "left", "right", "tab", "shift+tab", "h", "l":
			c.confirmSel = !c.confirmSel
		}
		return true, nil, false
	case tea.MouseMsg:
		return true, nil, false
	}
	return false, nil, false
}
