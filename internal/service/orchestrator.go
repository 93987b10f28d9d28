// Package service owns the canonical survey collection and runs the list,
// create, view and delete round trips against the remote API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/surveyboard/internal/api"
	"github.com/jask/surveyboard/internal/loading"
	"github.com/jask/surveyboard/internal/notify"
	"github.com/jask/surveyboard/internal/survey"
)

// Result messages. Commands return them from their goroutine; Apply folds
// them into the collection on the UI loop.
type (
	ListedMsg struct {
		Seq     uint64
		Records []survey.Record
		Err     error
	}
	CreatedMsg struct {
		Input  survey.Input
		Record *survey.Record
		Err    error
	}
	DeletedMsg struct {
		ID    int64
		Title string
		Err   error
	}
	// ViewedMsg carries the freshest copy of one survey. When the fetch
	// failed, Record is the cached row and Cached is set.
	ViewedMsg struct {
		ID     int64
		Record survey.Record
		Cached bool
		Found  bool
		Err    error
	}
)

// Orchestrator is used from the bubbletea Update loop only; its commands
// run concurrently but never touch the collection.
type Orchestrator struct {
	API     api.Surveys
	Loading *loading.Coordinator
	Notify  notify.Sink
	Log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	coll       Collection
	issued     uint64
	applied    uint64
	tombstones map[int64]uint64
}

// NewOrchestrator binds the orchestrator's lifetime to parent.
func NewOrchestrator(parent context.Context, surveys api.Surveys, lc *loading.Coordinator, sink notify.Sink, log *zap.Logger) *Orchestrator {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if lc == nil {
		lc = loading.New(loading.DefaultStyle)
	}
	ctx, cancel := context.WithCancel(parent)
	return &Orchestrator{
		API:        surveys,
		Loading:    lc,
		Notify:     sink,
		Log:        log,
		ctx:        ctx,
		cancel:     cancel,
		tombstones: make(map[int64]uint64),
	}
}

// Close cancels in-flight calls. Results that arrive afterwards are dropped.
func (o *Orchestrator) Close() {
	o.closed = true
	o.cancel()
}

// Surveys returns a copy of the canonical collection.
func (o *Orchestrator) Surveys() []survey.Record { return o.coll.Items() }

// Lookup returns the cached survey with id.
func (o *Orchestrator) Lookup(id int64) (survey.Record, bool) { return o.coll.Get(id) }

// List fetches the full collection.
func (o *Orchestrator) List() tea.Cmd {
	if o.closed {
		return nil
	}
	o.issued++
	seq := o.issued
	ctx := o.ctx
	return func() tea.Msg {
		permit := o.Loading.Acquire("Loading surveys", "", loading.Style{})
		defer permit.Release()
		recs, err := o.API.GetAll(ctx)
		return ListedMsg{Seq: seq, Records: recs, Err: err}
	}
}

// Create validates in and, when it passes, returns the command that posts
// it. A validation failure is reported to the sink and returned; no command
// is produced and nothing is sent.
func (o *Orchestrator) Create(in survey.Input) (tea.Cmd, error) {
	if err := Validate(in); err != nil {
		o.notify(notify.Danger, "Validation Error", "Please fill in all required fields")
		return nil, err
	}
	if o.closed {
		return nil, nil
	}
	in.Title = strings.TrimSpace(in.Title)
	ctx := o.ctx
	return func() tea.Msg {
		permit := o.Loading.Acquire("Creating survey", "", loading.Style{Kind: loading.Gradient})
		defer permit.Release()
		rec, err := o.API.Add(ctx, in)
		return CreatedMsg{Input: in, Record: rec, Err: err}
	}, nil
}

// Delete removes the survey with id remotely. The local row stays until the
// server confirms.
func (o *Orchestrator) Delete(id int64) tea.Cmd {
	if o.closed {
		return nil
	}
	var title string
	if r, ok := o.coll.Get(id); ok {
		title = r.Title
	}
	ctx := o.ctx
	return func() tea.Msg {
		permit := o.Loading.Acquire("Deleting survey", "", loading.Style{})
		defer permit.Release()
		err := o.API.Delete(ctx, id)
		return DeletedMsg{ID: id, Title: title, Err: err}
	}
}

// View fetches one survey, falling back to the cached row on failure.
func (o *Orchestrator) View(id int64) tea.Cmd {
	if o.closed {
		return nil
	}
	cached, found := o.coll.Get(id)
	ctx := o.ctx
	return func() tea.Msg {
		permit := o.Loading.Acquire("Loading survey", "", loading.Style{Kind: loading.Dots})
		defer permit.Release()
		rec, err := o.API.GetByID(ctx, id)
		if err != nil {
			return ViewedMsg{ID: id, Record: cached, Cached: true, Found: found, Err: err}
		}
		return ViewedMsg{ID: id, Record: rec, Found: true}
	}
}

// Apply folds a result message into the collection and reports the outcome.
// It returns a follow-up command when one is needed (a refresh after
// create). Messages of other types are ignored.
func (o *Orchestrator) Apply(msg tea.Msg) tea.Cmd {
	if o.closed {
		return nil
	}
	switch m := msg.(type) {
	case ListedMsg:
		o.applyList(m)
	case CreatedMsg:
		return o.applyCreate(m)
	case DeletedMsg:
		o.applyDelete(m)
	case ViewedMsg:
		o.applyView(m)
	}
	return nil
}

func (o *Orchestrator) applyList(m ListedMsg) {
	if m.Seq < o.applied {
		o.Log.Debug("dropping stale list result", zap.Uint64("seq", m.Seq), zap.Uint64("applied", o.applied))
		return
	}
	o.applied = m.Seq
	if m.Err != nil {
		if errors.Is(m.Err, context.Canceled) {
			return
		}
		o.Log.Warn("list surveys failed", zap.Error(m.Err))
		o.coll.Replace(nil)
		o.notify(notify.Danger, "Error", messageOr(m.Err, "Failed to load surveys. Please try again."))
		return
	}

	recs := make([]survey.Record, 0, len(m.Records))
	for _, r := range m.Records {
		// deleted after this list was issued
		if seq, ok := o.tombstones[r.ID]; ok && seq >= m.Seq {
			continue
		}
		recs = append(recs, r)
	}
	for id, seq := range o.tombstones {
		if seq < m.Seq {
			delete(o.tombstones, id)
		}
	}
	o.coll.Replace(recs)
	o.Log.Debug("surveys loaded", zap.Int("count", len(recs)), zap.Uint64("seq", m.Seq))
	if len(recs) == 0 {
		o.notify(notify.Info, "No surveys found", "Create a survey to get started.")
	}
}

func (o *Orchestrator) applyCreate(m CreatedMsg) tea.Cmd {
	if m.Err != nil {
		o.Log.Warn("create survey failed", zap.String("title", m.Input.Title), zap.Error(m.Err))
		o.notify(notify.Danger, "Error", messageOr(m.Err, "Failed to create survey. Please try again."))
		return nil
	}
	o.notify(notify.Success, "Survey Created!", fmt.Sprintf("%q has been created successfully", m.Input.Title))
	if m.Record != nil && m.Record.ID != 0 {
		o.coll.Upsert(*m.Record)
	}
	return o.List()
}

func (o *Orchestrator) applyDelete(m DeletedMsg) {
	if m.Err != nil {
		o.Log.Warn("delete survey failed", zap.Int64("id", m.ID), zap.Error(m.Err))
		o.notify(notify.Danger, "Error", messageOr(m.Err, "Failed to delete survey. Please try again."))
		return
	}
	o.coll.Remove(m.ID)
	o.tombstones[m.ID] = o.issued
	body := "The survey has been deleted."
	if m.Title != "" {
		body = fmt.Sprintf("%q has been deleted.", m.Title)
	}
	o.notify(notify.Success, "Survey Deleted", body)
}

func (o *Orchestrator) applyView(m ViewedMsg) {
	if m.Err == nil {
		if _, ok := o.coll.Get(m.ID); ok {
			o.coll.Upsert(m.Record)
		}
		return
	}
	o.Log.Warn("get survey failed", zap.Int64("id", m.ID), zap.Error(m.Err))
	if m.Found {
		o.notify(notify.Warning, "Showing cached details", messageOr(m.Err, "Could not refresh this survey."))
		return
	}
	o.notify(notify.Danger, "Error", messageOr(m.Err, "Failed to load survey. Please try again."))
}

func (o *Orchestrator) notify(cat notify.Category, title, body string) {
	if o.Notify != nil {
		o.Notify.Notify(cat, title, body)
	}
}

func messageOr(err error, fallback string) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return fallback
}
