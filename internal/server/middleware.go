package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/surveyboard/internal/api"
)

// maxRequestBody bounds POST bodies.
const maxRequestBody = 1 << 20

// response mirrors api.Envelope for writing.
type response struct {
	Result any            `json:"Result"`
	Error  *api.ErrorBody `json:"Error,omitempty"`
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs each request with its status and duration, echoing or
// minting an X-Request-ID.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		s.log.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", reqID),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// cors allows a browser client on another origin to use the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeResult(w http.ResponseWriter, result any) {
	s.writeJSON(w, http.StatusOK, response{Result: result})
}

// writeError sends an envelope error. An empty message uses the code's default text.
func (s *Server) writeError(w http.ResponseWriter, status int, code api.ResultCode, message string) {
	if message == "" {
		message = code.Description()
	}
	s.writeJSON(w, status, response{Error: &api.ErrorBody{Code: code, Message: message}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

func parseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
}
