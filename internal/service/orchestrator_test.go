package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jask/surveyboard/internal/api"
	"github.com/jask/surveyboard/internal/loading"
	"github.com/jask/surveyboard/internal/notify"
	"github.com/jask/surveyboard/internal/survey"
)

type fakeAPI struct {
	mu      sync.Mutex
	records []survey.Record
	created *survey.Record
	listErr error
	addErr  error
	delErr  error
	getErr  error
	calls   map[string]int
	ctxs    []context.Context
}

func (f *fakeAPI) hit(op string, ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
	f.ctxs = append(f.ctxs, ctx)
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) GetAll(ctx context.Context) ([]survey.Record, error) {
	f.hit("GetAll", ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]survey.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) GetByID(ctx context.Context, id int64) (survey.Record, error) {
	f.hit("GetByID", ctx)
	if f.getErr != nil {
		return survey.Record{}, f.getErr
	}
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return survey.Record{}, &api.ServerError{Op: "get survey", Code: api.CodeNoItemsFound}
}

func (f *fakeAPI) Add(ctx context.Context, in survey.Input) (*survey.Record, error) {
	f.hit("Add", ctx)
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.created, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.hit("Delete", ctx)
	return f.delErr
}

func fixture() []survey.Record {
	return []survey.Record{
		{ID: 1, Title: "Customer Survey", Status: survey.StatusScheduled},
		{ID: 2, Title: "Employee survey", Status: survey.StatusPublished},
		{ID: 3, Title: "Onboarding feedback", Status: survey.StatusPublished},
		{ID: 4, Title: "SURVEY of tools", Status: survey.StatusDraft},
		{ID: 5, Title: "Exit interview", Status: survey.StatusArchived},
		{ID: 6, Title: "Pulse Survey", Status: survey.StatusScheduled},
	}
}

func newOrchestrator(t *testing.T, f *fakeAPI) (*Orchestrator, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	o := NewOrchestrator(context.Background(), f, loading.New(loading.DefaultStyle), rec, nil)
	t.Cleanup(o.Close)
	return o, rec
}

func loaded(t *testing.T, f *fakeAPI) (*Orchestrator, *notify.Recorder) {
	t.Helper()
	o, rec := newOrchestrator(t, f)
	require.Nil(t, o.Apply(o.List()()))
	require.Len(t, o.Surveys(), len(f.records))
	return o, rec
}

func ids(rs []survey.Record) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func valid() survey.Input {
	return survey.Input{Title: "  Pulse check ", Status: survey.StatusDraft, Type: "Web", Language: "English", CreatedBy: 1, ModifiedBy: 1}
}

func TestListReplacesCollection(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(o.Surveys()))
	require.Zero(t, rec.Len())
	require.Zero(t, o.Loading.Pending())
}

func TestListEmptyNotifiesInfo(t *testing.T) {
	f := &fakeAPI{}
	o, rec := newOrchestrator(t, f)
	o.Apply(o.List()())
	last, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, notify.Info, last.Category)
	require.Equal(t, "No surveys found", last.Title)
}

func TestListFailureFallsBackToEmpty(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)

	f.listErr = &api.NetworkError{Op: "get all surveys", Status: 500}
	o.Apply(o.List()())
	require.Empty(t, o.Surveys())
	last, _ := rec.Last()
	require.Equal(t, notify.Danger, last.Category)
	require.Equal(t, "HTTP error! status: 500", last.Message)
	require.Zero(t, o.Loading.Pending())
}

func TestDeleteRemovesAfterConfirmation(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)

	cmd := o.Delete(3)
	require.Len(t, o.Surveys(), 6, "row stays until the server confirms")

	o.Apply(cmd())
	require.Equal(t, []int64{1, 2, 4, 5, 6}, ids(o.Surveys()))
	last, _ := rec.Last()
	require.Equal(t, notify.Success, last.Category)
	require.Equal(t, "Survey Deleted", last.Title)
	require.Equal(t, `"Onboarding feedback" has been deleted.`, last.Message)
}

func TestDeleteUnknownID(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, _ := loaded(t, f)
	require.NotPanics(t, func() { o.Apply(o.Delete(99)()) })
	require.Len(t, o.Surveys(), 6)
}

func TestDeleteFailureLeavesCollection(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)
	f.delErr = &api.ServerError{Op: "delete survey", Code: api.CodeUnexpectedError, Message: "boom"}

	o.Apply(o.Delete(3)())
	require.Len(t, o.Surveys(), 6)
	last, _ := rec.Last()
	require.Equal(t, notify.Danger, last.Category)
	require.Equal(t, "boom", last.Message)
}

func TestCreateRejectsEmptyTitleBeforeNetwork(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)

	var changes int
	o.Loading.OnChange(func(loading.State) { changes++ })

	in := valid()
	in.Title = "   "
	cmd, err := o.Create(in)
	require.Nil(t, cmd)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.True(t, verr.Has("title"))
	require.False(t, verr.Has("type"))

	require.Zero(t, f.count("Add"))
	require.Zero(t, changes, "validation never touches the loading slot")
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(o.Surveys()))

	last, _ := rec.Last()
	require.Equal(t, notify.Danger, last.Category)
	require.Equal(t, "Validation Error", last.Title)
	require.Equal(t, "Please fill in all required fields", last.Message)
}

func TestValidateAggregatesFields(t *testing.T) {
	err := Validate(survey.Input{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := verr.Fields()
	require.Len(t, fields, 4)
	require.Equal(t, "title", fields[0].Field)
	require.Equal(t, "language", fields[3].Field)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	require.NoError(t, Validate(valid()))
}

func TestCreateSuccessRefreshes(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)
	created := survey.Record{ID: 7, Title: "Pulse check", Status: survey.StatusDraft}
	f.created = &created

	cmd, err := o.Create(valid())
	require.NoError(t, err)
	msg := cmd()
	require.Equal(t, "Pulse check", msg.(CreatedMsg).Input.Title)

	refresh := o.Apply(msg)
	require.NotNil(t, refresh)
	require.Equal(t, int64(7), o.Surveys()[0].ID)

	last, _ := rec.Last()
	require.Equal(t, notify.Success, last.Category)
	require.Equal(t, `"Pulse check" has been created successfully`, last.Message)

	f.records = append(f.records, created)
	o.Apply(refresh())
	require.Equal(t, 2, f.count("GetAll"))
	require.Len(t, o.Surveys(), 7)
}

func TestCreateFailureMessages(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)

	f.addErr = &api.ServerError{Op: "create survey", Code: api.CodeDuplicateData, Message: "Duplicate data found."}
	cmd, err := o.Create(valid())
	require.NoError(t, err)
	require.Nil(t, o.Apply(cmd()))
	last, _ := rec.Last()
	require.Equal(t, "Duplicate data found.", last.Message)

	f.addErr = errors.New("opaque")
	cmd, _ = o.Create(valid())
	o.Apply(cmd())
	last, _ = rec.Last()
	require.Equal(t, notify.Danger, last.Category)
	require.Equal(t, "Failed to create survey. Please try again.", last.Message)
	require.Len(t, o.Surveys(), 6)
}

func TestStaleListDoesNotResurrectDeletedRecord(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, _ := loaded(t, f)

	// a refresh is issued, then a delete completes before the refresh lands
	stale := o.List()
	staleMsg := stale()
	o.Apply(o.Delete(3)())
	o.Apply(staleMsg)
	require.NotContains(t, ids(o.Surveys()), int64(3))
	require.Len(t, o.Surveys(), 5)

	// a list issued after the delete is authoritative
	o.Apply(o.List()())
	require.Contains(t, ids(o.Surveys()), int64(3))
}

func TestOutOfOrderListResults(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, _ := newOrchestrator(t, f)

	first := o.List()
	second := o.List()
	older := first()
	f.records = f.records[:2]
	newer := second()

	o.Apply(newer)
	o.Apply(older)
	require.Equal(t, []int64{1, 2}, ids(o.Surveys()))
}

func TestApplyAfterCloseIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeAPI{records: fixture()}
	o, rec := newOrchestrator(t, f)

	cmd := o.List()
	o.Close()
	msg := cmd()
	require.ErrorIs(t, msg.(ListedMsg).Err, context.Canceled)
	require.Nil(t, o.Apply(msg))
	require.Empty(t, o.Surveys())
	require.Zero(t, rec.Len())
	require.Nil(t, o.List())
	require.Zero(t, o.Loading.Pending())
}

func TestViewFallsBackToCache(t *testing.T) {
	f := &fakeAPI{records: fixture()}
	o, rec := loaded(t, f)

	msg := o.View(2)().(ViewedMsg)
	require.NoError(t, msg.Err)
	require.Equal(t, "Employee survey", msg.Record.Title)

	f.getErr = &api.NetworkError{Op: "get survey", Status: 503}
	msg = o.View(2)().(ViewedMsg)
	require.True(t, msg.Cached)
	require.Equal(t, "Employee survey", msg.Record.Title)
	o.Apply(msg)
	last, _ := rec.Last()
	require.Equal(t, notify.Warning, last.Category)

	msg = o.View(42)().(ViewedMsg)
	require.False(t, msg.Found)
	o.Apply(msg)
	last, _ = rec.Last()
	require.Equal(t, notify.Danger, last.Category)
}

func TestConcurrentCommandsReleasePermits(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeAPI{records: fixture()}
	o, _ := loaded(t, f)

	cmds := []tea.Cmd{o.List(), o.Delete(1), o.View(2)}
	msgs := make([]tea.Msg, len(cmds))
	var wg sync.WaitGroup
	for i, c := range cmds {
		wg.Add(1)
		go func(i int, c tea.Cmd) {
			defer wg.Done()
			msgs[i] = c()
		}(i, c)
	}
	wg.Wait()
	for _, m := range msgs {
		o.Apply(m)
	}
	require.NotContains(t, ids(o.Surveys()), int64(1))
	require.Zero(t, o.Loading.Pending())
	require.False(t, o.Loading.Snapshot().Active)
}

func TestCollectionUpsertAndRemove(t *testing.T) {
	var c Collection
	c.Replace(fixture())
	c.Upsert(survey.Record{ID: 2, Title: "renamed"})
	r, ok := c.Get(2)
	require.True(t, ok)
	require.Equal(t, "renamed", r.Title)
	require.Equal(t, 6, c.Len())

	require.True(t, c.Remove(2))
	require.False(t, c.Remove(2))
	require.Equal(t, 5, c.Len())
}
