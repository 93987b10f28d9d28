package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/surveyboard/internal/survey"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", WithHTTPClient(srv.Client()), WithTimeout(2*time.Second))
}

func TestGetAllNormalizesRecords(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, PathGetAll, r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"Result":[
			{"ID":1,"Title":"Alpha","Status":"Published","CreatedByUserName":"Basem"},
			{"id":2,"title":"beta","status":"archived","createdBy":"Nermien"}
		]}`))
	})

	recs, err := c.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, survey.StatusPublished, recs[0].Status)
	require.Equal(t, "Basem", recs[0].CreatedByName)
	require.Equal(t, survey.StatusArchived, recs[1].Status)
	require.Equal(t, "Nermien", recs[1].CreatedByName)
}

func TestGetAllReadsZonelessTimesInLocation(t *testing.T) {
	loc := time.FixedZone("AST", 3*60*60)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Result":[{"ID":1,"Title":"Late","ModifiedAt":"2026-05-10T23:30:00"}]}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithLocation(loc))

	recs, err := c.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].ModifiedAt)
	require.True(t, recs[0].ModifiedAt.Equal(time.Date(2026, 5, 10, 20, 30, 0, 0, time.UTC)))
}

func TestGetAllNullResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Result":null}`))
	})
	recs, err := c.GetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestEnvelopeErrorOnSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Result":null,"Error":{"Code":4,"Message":"Duplicate data found."}}`))
	})
	_, err := c.Add(context.Background(), survey.Input{Title: "x"})
	require.Error(t, err)

	var se *ServerError
	require.True(t, errors.As(err, &se))
	require.Equal(t, CodeDuplicateData, se.Code)
	require.Equal(t, "Duplicate data found.", Message(err))
	require.True(t, IsCode(err, CodeDuplicateData))
}

func TestNonSuccessStatusWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kaput", http.StatusBadGateway)
	})
	err := c.Delete(context.Background(), 3)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	require.Equal(t, http.StatusBadGateway, ne.Status)
	require.Equal(t, "HTTP error! status: 502", Message(err))
}

func TestNonSuccessStatusWithEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"Error":{"Code":1,"Message":""}}`))
	})
	_, err := c.GetByID(context.Background(), 99)
	require.True(t, IsCode(err, CodeNoItemsFound))
	require.Equal(t, "No items found.", Message(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithTimeout(time.Second))
	_, err := c.GetAll(context.Background())
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	require.Zero(t, ne.Status)
	require.NotEmpty(t, Message(err))
}

func TestMalformedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	_, err := c.GetAll(context.Background())
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
}

func TestAddPostsPascalCaseBody(t *testing.T) {
	modified := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, PathAdd, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Pulse check", body["Title"])
		require.Equal(t, "Draft", body["Status"])
		require.Equal(t, "Web", body["Type"])
		require.Equal(t, "English", body["Language"])
		require.Equal(t, float64(1), body["CreatedBy"])
		require.Equal(t, "2026-03-01T10:00:00Z", body["ModifiedAt"])
		_, _ = w.Write([]byte(`{"Result":{"ID":41,"Title":"Pulse check","Status":"Draft"}}`))
	})

	rec, err := c.Add(context.Background(), survey.Input{
		Title: "Pulse check", Status: survey.StatusDraft, Type: "Web", Language: "English",
		CreatedBy: 1, ModifiedBy: 1, ModifiedAt: modified,
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, int64(41), rec.ID)
}

func TestAddBareIDResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Result":17}`))
	})
	rec, err := c.Add(context.Background(), survey.Input{Title: "t", Type: "Web", Language: "English"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, int64(17), rec.ID)
	require.Equal(t, "t", rec.Title)
	require.Equal(t, survey.StatusDraft, rec.Status)
}

func TestAddWithoutResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Result":true}`))
	})
	rec, err := c.Add(context.Background(), survey.Input{Title: "t"})
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestDeletePostsID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body DeleteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, int64(3), body.ID)
		_, _ = w.Write([]byte(`{"Result":true}`))
	})
	require.NoError(t, c.Delete(context.Background(), 3))
}

func TestGetByIDQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "5", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"Result":{"ID":5,"Title":"five"}}`))
	})
	rec, err := c.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "five", rec.Title)
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetAll(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}
