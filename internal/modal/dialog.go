// Package modal implements the dialog lifecycle used by the list screen:
// Closed -> Opening -> Open -> Closing -> Closed, with focus capture and
// restore, background scroll locking, per-instance input listeners and an
// optional confirmation dialog stacked above the primary one.
package modal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase of a dialog.
type Phase int

const (
	Closed Phase = iota
	Opening
	Open
	Closing
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// DefaultOpenDelay is the entrance transition length.
const DefaultOpenDelay = 100 * time.Millisecond

// Options configure a dialog instance.
type Options struct {
	CloseOnEscape       bool
	CloseOnOverlayClick bool
	OpenDelay           time.Duration
	CloseDelay          time.Duration
	// RequestClose, when set, replaces Close for Escape and overlay clicks so
	// the owner can intercept (e.g. ask before discarding edits).
	RequestClose func() tea.Cmd
}

// DefaultOptions close on Escape and overlay clicks.
func DefaultOptions() Options {
	return Options{CloseOnEscape: true, CloseOnOverlayClick: true, OpenDelay: DefaultOpenDelay}
}

// Rect is the on-screen area of a dialog card, in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// OpenedMsg ends the Opening phase.
type OpenedMsg struct {
	ID  string
	Gen int
}

// ClosedMsg ends the Closing phase.
type ClosedMsg struct {
	ID  string
	Gen int
}

// Dialog is one modal instance.
type Dialog struct {
	id        string
	host      Host
	opts      Options
	phase     Phase
	gen       int
	prevFocus FocusID
	removers  []func()
	bounds    Rect
	confirm   *Confirmation
}

// New creates a closed dialog.
func New(id string, host Host, opts Options) *Dialog {
	return &Dialog{id: id, host: host, opts: opts}
}

func (d *Dialog) ID() string { return d.id }

func (d *Dialog) Phase() Phase { return d.phase }

func (d *Dialog) Options() Options { return d.opts }

// Visible reports whether the dialog should be rendered.
func (d *Dialog) Visible() bool { return d.phase != Closed }

// IsOpen reports whether the dialog is fully open.
func (d *Dialog) IsOpen() bool { return d.phase == Open }

// FocusTarget is the focus ID of the dialog container.
func (d *Dialog) FocusTarget() FocusID { return FocusID("dialog:" + d.id) }

// SetBounds records where the card was drawn, for overlay-click detection.
func (d *Dialog) SetBounds(r Rect) { d.bounds = r }

// Open starts the entrance transition. It is a no-op unless Closed.
func (d *Dialog) Open() tea.Cmd {
	if d.phase != Closed {
		return nil
	}
	d.phase = Opening
	d.gen++
	d.prevFocus = d.host.Focused()
	d.host.LockScroll()
	d.removers = append(d.removers, d.host.Listen(d.handle))

	return after(d.opts.OpenDelay, OpenedMsg{ID: d.id, Gen: d.gen})
}

// Close starts the exit transition from Opening or Open.
func (d *Dialog) Close() tea.Cmd {
	if d.phase != Opening && d.phase != Open {
		return nil
	}
	d.dismissConfirm()
	d.phase = Closing
	d.gen++
	return after(d.opts.CloseDelay, ClosedMsg{ID: d.id, Gen: d.gen})
}

// Update advances the lifecycle for this dialog's transition messages and
// ignores everything else, including stale generations.
func (d *Dialog) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case OpenedMsg:
		if m.ID != d.id || m.Gen != d.gen || d.phase != Opening {
			return nil
		}
		d.phase = Open
		d.host.Focus(d.FocusTarget())
	case ClosedMsg:
		if m.ID != d.id || m.Gen != d.gen || d.phase != Closing {
			return nil
		}
		d.finishClose()
	}
	return nil
}

func (d *Dialog) finishClose() {
	d.phase = Closed
	d.host.Focus(d.prevFocus)
	d.prevFocus = ""
	d.host.UnlockScroll()
	for _, remove := range d.removers {
		remove()
	}
	d.removers = nil
	d.bounds = Rect{}
}

func (d *Dialog) requestClose() tea.Cmd {
	if d.opts.RequestClose != nil {
		return d.opts.RequestClose()
	}
	return d.Close()
}

func (d *Dialog) handle(msg tea.Msg) (bool, tea.Cmd) {
	if d.phase != Open {
		return false, nil
	}
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.Type == tea.KeyEsc && d.opts.CloseOnEscape {
			return true, d.requestClose()
		}
	case tea.MouseMsg:
		if m.Action != tea.MouseActionPress || m.Button != tea.MouseButtonLeft {
			return false, nil
		}
		if d.bounds.Empty() || d.bounds.Contains(m.X, m.Y) {
			return false, nil
		}
		if d.opts.CloseOnOverlayClick {
			return true, d.requestClose()
		}
		// clicks on the overlay never reach the screen underneath
		return true, nil
	}
	return false, nil
}

// Confirmation returns the open child confirmation, or nil.
func (d *Dialog) Confirmation() *Confirmation { return d.confirm }

// Confirm opens a confirmation above the dialog. It only succeeds while the
// dialog is Open and no confirmation is showing.
func (d *Dialog) Confirm(kind Kind, subject string, opts ...ContentOption) bool {
	if d.phase != Open || d.confirm != nil {
		return false
	}
	c := newConfirmation(d.id, kind, subject, opts...)
	c.remove = d.host.Listen(func(msg tea.Msg) (bool, tea.Cmd) {
		handled, cmd, done := c.handle(msg)
		if done {
			d.dismissConfirm()
		}
		return handled, cmd
	})
	d.confirm = c
	return true
}

// dismissConfirm closes the confirmation without touching the dialog phase.
func (d *Dialog) dismissConfirm() {
	if d.confirm == nil {
		return
	}
	if d.confirm.remove != nil {
		d.confirm.remove()
	}
	d.confirm = nil
}

// Resolve answers the open confirmation programmatically.
func (d *Dialog) Resolve(confirmed bool) tea.Cmd {
	c := d.confirm
	if c == nil {
		return nil
	}
	d.dismissConfirm()
	return c.result(confirmed)
}

func after(delay time.Duration, msg tea.Msg) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return msg })
}
