package modal

import tea "github.com/charmbracelet/bubbletea"

// FocusID names a focusable element of the screen.
type FocusID string

// Listener receives global input while installed and reports whether it
// consumed the event.
type Listener func(msg tea.Msg) (handled bool, cmd tea.Cmd)

// Host is the screen a dialog lives on.
type Host interface {
	Focused() FocusID
	Focus(FocusID)
	LockScroll()
	UnlockScroll()
	Listen(Listener) (remove func())
}

// Screen is the stock Host: a focus pointer, a scroll-lock counter and a
// listener stack dispatched topmost first.
type Screen struct {
	focus     FocusID
	locks     int
	nextID    int
	listeners []listenerEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

// NewScreen starts with focus on initial.
func NewScreen(initial FocusID) *Screen {
	return &Screen{focus: initial}
}

func (s *Screen) Focused() FocusID { return s.focus }

func (s *Screen) Focus(id FocusID) { s.focus = id }

// ScrollLocked reports whether any dialog holds the background scroll lock.
func (s *Screen) ScrollLocked() bool { return s.locks > 0 }

func (s *Screen) LockScroll() { s.locks++ }

func (s *Screen) UnlockScroll() {
	if s.locks > 0 {
		s.locks--
	}
}

// Listen installs fn above every existing listener.
func (s *Screen) Listen(fn Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners reports how many listeners are installed.
func (s *Screen) Listeners() int { return len(s.listeners) }

// Dispatch offers msg to listeners from the top of the stack down and stops
// at the first one that handles it.
func (s *Screen) Dispatch(msg tea.Msg) (bool, tea.Cmd) {
	for i := len(s.listeners) - 1; i >= 0; i-- {
		if i >= len(s.listeners) {
			continue
		}
		if handled, cmd := s.listeners[i].fn(msg); handled {
			return true, cmd
		}
	}
	return false, nil
}
