// Package api is the HTTP client for the remote survey service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/surveyboard/internal/survey"
)

// Paths relative to the base URL.
const (
	PathGetAll  = "/API/Survey/GetAll"
	PathGetByID = "/API/Survey/GetById"
	PathAdd     = "/API/Survey/Add"
	PathDelete  = "/API/Survey/Delete"
)

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

// Surveys is the remote surface the orchestrator depends on.
type Surveys interface {
	GetAll(ctx context.Context) ([]survey.Record, error)
	GetByID(ctx context.Context, id int64) (survey.Record, error)
	Add(ctx context.Context, in survey.Input) (*survey.Record, error)
	Delete(ctx context.Context, id int64) error
}

// Client talks to the survey API.
type Client struct {
	base    string
	http    *http.Client
	log     *zap.Logger
	timeout time.Duration
	loc     *time.Location
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// WithTimeout bounds each request. Zero disables the per-request bound.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithLocation sets the zone for timestamps the API sends without an offset.
func WithLocation(loc *time.Location) Option { return func(c *Client) { c.loc = loc } }

// NewClient builds a client for baseURL (e.g. http://localhost:5080).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    http.DefaultClient,
		log:     zap.NewNop(),
		timeout: 10 * time.Second,
		loc:     time.UTC,
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	return c
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) GetAll(ctx context.Context) ([]survey.Record, error) {
	const op = "get all surveys"
	env, err := c.do(ctx, op, http.MethodGet, PathGetAll, nil, nil)
	if err != nil {
		return nil, err
	}
	raws, err := decodeList(env.Result)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("decode result: %w", err)}
	}
	return survey.NormalizeAllIn(raws, c.loc), nil
}

func (c *Client) GetByID(ctx context.Context, id int64) (survey.Record, error) {
	const op = "get survey"
	q := url.Values{"id": []string{strconv.FormatInt(id, 10)}}
	env, err := c.do(ctx, op, http.MethodGet, PathGetByID, q, nil)
	if err != nil {
		return survey.Record{}, err
	}
	raw, err := decodeObject(env.Result)
	if err != nil {
		return survey.Record{}, &NetworkError{Op: op, Err: fmt.Errorf("decode result: %w", err)}
	}
	if raw == nil {
		return survey.Record{}, &ServerError{Op: op, Code: CodeNoItemsFound}
	}
	return survey.NormalizeIn(raw, c.loc), nil
}

// Add creates a survey. The returned record is nil when the server did not
// echo anything identifiable back.
func (c *Client) Add(ctx context.Context, in survey.Input) (*survey.Record, error) {
	const op = "create survey"
	env, err := c.do(ctx, op, http.MethodPost, PathAdd, nil, NewAddRequest(in))
	if err != nil {
		return nil, err
	}
	return createdRecord(env.Result, in, c.loc), nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	const op = "delete survey"
	_, err := c.do(ctx, op, http.MethodPost, PathDelete, nil, DeleteRequest{ID: id})
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body any) (*Envelope, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &NetworkError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("op", op), zap.String("request_id", reqID), zap.Error(err))
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.log.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	var env Envelope
	decoded := readErr == nil && len(bytes.TrimSpace(data)) > 0 && json.Unmarshal(data, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decoded && env.Error != nil {
			return nil, &ServerError{Op: op, Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
		}
		return nil, &NetworkError{Op: op, Status: resp.StatusCode}
	}
	if readErr != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", readErr)}
	}
	if !decoded {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("malformed response envelope")}
	}
	if env.Error != nil {
		return nil, &ServerError{Op: op, Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
	}
	return &env, nil
}

func newDecoder(raw json.RawMessage) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func decodeList(raw json.RawMessage) ([]map[string]any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var out []map[string]any
	if err := newDecoder(raw).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var out map[string]any
	if err := newDecoder(raw).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// createdRecord interprets an Add result: a full object, a bare ID, or nothing.
func createdRecord(raw json.RawMessage, in survey.Input, loc *time.Location) *survey.Record {
	if isNull(raw) {
		return nil
	}
	if obj, err := decodeObject(raw); err == nil && obj != nil {
		r := survey.NormalizeIn(obj, loc)
		if r.ID == 0 {
			return nil
		}
		return &r
	}
	var n json.Number
	if err := newDecoder(raw).Decode(&n); err == nil {
		id, err := n.Int64()
		if err != nil || id == 0 {
			return nil
		}
		modified := in.ModifiedAt
		return &survey.Record{
			ID:         id,
			Title:      in.Title,
			Status:     survey.ParseStatus(string(in.Status)),
			Type:       in.Type,
			Language:   in.Language,
			Responses:  in.Responses,
			CreatedAt:  &modified,
			ModifiedAt: &modified,
		}
	}
	return nil
}
