// Package loading tracks whether a blocking "operation in progress" overlay
// should be shown.
//
// The coordinator holds a single display payload but counts acquisitions, so
// the overlay stays up until every started operation has stopped. The most
// recent Start decides what is displayed.
package loading

import "sync"

// Kind is the animation used by the overlay.
type Kind string

const (
	Spinner  Kind = "spinner"
	Dots     Kind = "dots"
	Pulse    Kind = "pulse"
	Wave     Kind = "wave"
	Orbit    Kind = "orbit"
	Gradient Kind = "gradient"
)

// Size of the overlay animation.
type Size string

const (
	Small  Size = "sm"
	Medium Size = "md"
	Large  Size = "lg"
	XLarge Size = "xl"
)

// Color names understood by the overlay.
type Color string

const (
	Blue   Color = "blue"
	Purple Color = "purple"
	Green  Color = "green"
	Orange Color = "orange"
	Pink   Color = "pink"
	Indigo Color = "indigo"
)

// Style is the visual payload of the overlay. Zero fields fall back to the
// coordinator defaults.
type Style struct {
	Kind  Kind
	Size  Size
	Color Color
}

// DefaultStyle is used when a coordinator is created without one.
var DefaultStyle = Style{Kind: Gradient, Size: Medium, Color: Blue}

// State is a snapshot of the slot.
type State struct {
	Active     bool
	Message    string
	Submessage string
	Style      Style
}

// Coordinator is safe for concurrent use.
type Coordinator struct {
	mu       sync.Mutex
	defaults Style
	count    int
	state    State
	onChange func(State)
}

// New returns a coordinator; zero fields of defaults use DefaultStyle.
func New(defaults Style) *Coordinator {
	d := merge(DefaultStyle, defaults)
	return &Coordinator{defaults: d, state: State{Style: d}}
}

// OnChange registers a callback invoked (outside the lock) after every
// transition. Only one callback is kept.
func (c *Coordinator) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Start marks an operation in progress and overwrites the displayed payload.
func (c *Coordinator) Start(message, submessage string, style Style) {
	c.mu.Lock()
	c.count++
	c.state = State{
		Active:     true,
		Message:    message,
		Submessage: submessage,
		Style:      merge(c.defaults, style),
	}
	s, fn := c.state, c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// Stop ends one operation. The slot clears once no operation remains.
// Extra calls are ignored.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.count == 0 {
		c.mu.Unlock()
		return
	}
	c.count--
	if c.count == 0 {
		c.state = State{Style: c.defaults}
	}
	s, fn := c.state, c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports how many operations are in flight.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Acquire starts an operation and returns a permit that stops it.
//
//	p := c.Acquire("Deleting survey", "", loading.Style{})
//	defer p.Release()
func (c *Coordinator) Acquire(message, submessage string, style Style) *Permit {
	c.Start(message, submessage, style)
	return &Permit{c: c}
}

// Permit releases exactly one acquisition.
type Permit struct {
	c    *Coordinator
	once sync.Once
}

// Release is idempotent.
func (p *Permit) Release() {
	if p == nil || p.c == nil {
		return
	}
	p.once.Do(p.c.Stop)
}

func merge(base, over Style) Style {
	if over.Kind != "" {
		base.Kind = over.Kind
	}
	if over.Size != "" {
		base.Size = over.Size
	}
	if over.Color != "" {
		base.Color = over.Color
	}
	return base
}
