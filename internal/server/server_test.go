package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jask/surveyboard/internal/api"
	"github.com/jask/surveyboard/internal/database"
	"github.com/jask/surveyboard/internal/survey"
)

var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newSeededServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "surveys.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedDefaults(context.Background(), db, fixedNow))
	return New(db, WithClock(func() time.Time { return fixedNow }))
}

func newClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(newSeededServer(t).Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, api.WithHTTPClient(srv.Client()))
}

func TestGetAllServesSeed(t *testing.T) {
	c := newClient(t)
	recs, err := c.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 6)

	first := recs[0]
	require.Equal(t, "Customer Satisfaction Survey", first.Title)
	require.Equal(t, survey.StatusScheduled, first.Status)
	require.Equal(t, "Basem Shawaly", first.CreatedByName)
	require.NotNil(t, first.ModifiedAt)
	require.True(t, fixedNow.Add(-24*time.Hour).Equal(*first.ModifiedAt))
}

func TestAddThenGetByID(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	rec, err := c.Add(ctx, survey.Input{
		Title: "Quarterly Pulse", Status: survey.StatusPublished, Type: "Web", Language: "English",
		CreatedBy: 1, ModifiedBy: 2, ModifiedAt: fixedNow,
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotZero(t, rec.ID)
	require.Equal(t, "Nermien Shawky", rec.ModifiedByName)

	got, err := c.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "Quarterly Pulse", got.Title)
	require.Equal(t, survey.StatusPublished, got.Status)

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 7)
}

func TestAddRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	in := survey.Input{Status: survey.StatusDraft, Type: "Web", Language: "English", CreatedBy: 1}

	in.Title = "  customer satisfaction SURVEY "
	_, err := c.Add(ctx, in)
	require.True(t, api.IsCode(err, api.CodeDuplicateData))
	require.Equal(t, "Duplicate data found.", api.Message(err))

	in.Title = "Customer Satisfaction Surveys"
	_, err = c.Add(ctx, in)
	require.True(t, api.IsCode(err, api.CodeDuplicateData), "one edit away from an existing title")

	in.Title = "Customer Survey"
	_, err = c.Add(ctx, in)
	require.NoError(t, err)
}

func TestAddRequiresFields(t *testing.T) {
	c := newClient(t)
	_, err := c.Add(context.Background(), survey.Input{Title: " ", Status: survey.StatusDraft, Type: "Web", Language: "English"})
	require.True(t, api.IsCode(err, api.CodeAPIPostFailed))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	require.NoError(t, c.Delete(ctx, 3))
	err := c.Delete(ctx, 3)
	require.True(t, api.IsCode(err, api.CodeNoItemsFound))

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for _, r := range all {
		require.NotEqual(t, int64(3), r.ID)
	}
}

func TestGetByIDMissing(t *testing.T) {
	c := newClient(t)
	_, err := c.GetByID(context.Background(), 404)
	require.True(t, api.IsCode(err, api.CodeNoItemsFound))
	require.Equal(t, "No items found.", api.Message(err))
}

func TestRequestIDEchoed(t *testing.T) {
	srv := httptest.NewServer(newSeededServer(t).Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+api.PathGetAll, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestSimilarity(t *testing.T) {
	sim, err := similarity("Employee Engagement", "employee  engagement")
	require.NoError(t, err)
	require.Equal(t, 1.0, sim)

	_, err = similarity(" ", "")
	require.ErrorIs(t, err, errNoTitle)

	s := &Server{threshold: DefaultDuplicateThreshold}
	_, dup := s.findDuplicate("Pulse A", nil)
	require.False(t, dup)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	s := newSeededServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	c := api.NewClient("http://" + ln.Addr().String())
	_, err = c.GetAll(context.Background())
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}
