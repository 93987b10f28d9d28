// Package server is a local stand-in for the remote survey API. It serves
// the same envelope and endpoints from sqlite so the list screen can be run
// and tested without the production backend.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/surveyboard/internal/api"
	"github.com/jask/surveyboard/internal/database/repository"
)

// DefaultDuplicateThreshold is the title similarity at which an Add is
// rejected as a duplicate.
const DefaultDuplicateThreshold = 0.9

const shutdownTimeout = 5 * time.Second

// Server handles /API/Survey requests.
type Server struct {
	surveys   *repository.SurveyRepo
	log       *zap.Logger
	threshold float64
	now       func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.log = l } }

// WithDuplicateThreshold sets the similarity ratio in (0, 1] for duplicate titles.
func WithDuplicateThreshold(t float64) Option { return func(s *Server) { s.threshold = t } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func New(db *sql.DB, opts ...Option) *Server {
	s := &Server{
		surveys:   repository.NewSurveyRepo(db),
		log:       zap.NewNop(),
		threshold: DefaultDuplicateThreshold,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET "+api.PathGetAll, s.withLogging(s.getAll))
	mux.HandleFunc("GET "+api.PathGetByID, s.withLogging(s.getByID))
	mux.HandleFunc("POST "+api.PathAdd, s.withLogging(s.add))
	mux.HandleFunc("POST "+api.PathDelete, s.withLogging(s.remove))

	return cors(mux)
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("survey API listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("survey API shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
