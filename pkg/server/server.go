package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/datasprout/pkg/buildinfo"
	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/pipeline"
)

const (
	// DefaultPort is the port the server listens on.
	DefaultPort = 6883

	// DefaultRequestTimeout bounds one generation request.
	DefaultRequestTimeout = 10 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Server serves generated datasets.
type Server struct {
	// Runner executes the pipeline. Its cache stores archives and its store
	// records runs.
	Runner *pipeline.Runner

	// Graphs maps knowledge-graph names to local graph files.
	Graphs map[string]string

	Logger *log.Logger

	// Timeout bounds one request. Zero uses DefaultRequestTimeout.
	Timeout time.Duration

	now func() time.Time
}

// New creates a server for the given runner and graph registry.
func New(runner *pipeline.Runner, graphs map[string]string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		Runner:  runner,
		Graphs:  graphs,
		Logger:  logger,
		Timeout: DefaultRequestTimeout,
		now:     time.Now,
	}
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(timeout))

	r.Get("/sprawl", s.handleSprawl)
	r.Get("/graphs", s.handleGraphs)
	r.Get("/runs", s.handleRuns)
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, buildinfo.Current())
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.Logger.Info("server started", "addr", ln.Addr().String(), "graphs", len(s.Graphs))

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "serve")
	case <-ctx.Done():
	}

	s.Logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return ctx.Err()
}

// GraphNames returns the registered graph names, sorted.
func (s *Server) GraphNames() []string {
	names := make([]string, 0, len(s.Graphs))
	for n := range s.Graphs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

// Addr formats a listen address for port.
func Addr(port int) string {
	return fmt.Sprintf(":%d", port)
}
