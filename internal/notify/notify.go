// Package notify carries user-facing notifications (toasts) from the
// orchestration layer to the screen.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Category selects how a notification is presented.
type Category string

const (
	Success Category = "success"
	Danger  Category = "danger"
	Warning Category = "warning"
	Info    Category = "info"
)

// Sink accepts fire-and-forget notifications.
type Sink interface {
	Notify(cat Category, title, message string)
}

// Toast is one queued notification.
type Toast struct {
	ID       string
	Category Category
	Title    string
	Message  string
	Created  time.Time
}

// Toasts is an in-memory Sink with a bounded queue and a time-to-live.
type Toasts struct {
	mu    sync.Mutex
	items []Toast
	ttl   time.Duration
	max   int
	now   func() time.Time
}

// NewToasts returns a store keeping at most max toasts for ttl each.
func NewToasts(ttl time.Duration, max int) *Toasts {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	if max <= 0 {
		max = 5
	}
	return &Toasts{ttl: ttl, max: max, now: time.Now}
}

func (t *Toasts) Notify(cat Category, title, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, Toast{
		ID:       uuid.NewString(),
		Category: cat,
		Title:    title,
		Message:  message,
		Created:  t.now(),
	})
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
}

// Active returns the toasts that have not expired, oldest first.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	out := make([]Toast, len(t.items))
	copy(out, t.items)
	return out
}

// Prune drops expired toasts and reports whether any remain.
func (t *Toasts) Prune() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	return len(t.items) > 0
}

// Dismiss removes a toast by ID.
func (t *Toasts) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

func (t *Toasts) pruneLocked() {
	cutoff := t.now().Add(-t.ttl)
	kept := t.items[:0]
	for _, it := range t.items {
		if it.Created.After(cutoff) {
			kept = append(kept, it)
		}
	}
	t.items = kept
}

// Recorder is a Sink that remembers everything it was given.
type Recorder struct {
	mu    sync.Mutex
	Items []Toast
}

func (r *Recorder) Notify(cat Category, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, Toast{Category: cat, Title: title, Message: message})
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Items) == 0 {
		return Toast{}, false
	}
	return r.Items[len(r.Items)-1], true
}

// Len reports how many notifications were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Items)
}
