// Package server exposes the registry's preprocessors over HTTP.
//
// The server owns no plugin state and performs no routing logic of its own
// beyond picking the first path segment as the plugin route name; everything
// else is a lookup against the shared registry handle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vk/plugserv/internal/registry"
)

// Server serves plugin routes from a shared registry handle.
type Server struct {
	logger     *slog.Logger
	handle     *registry.Handle
	httpServer *http.Server
}

// New builds a server listening on addr, dispatching against h.
func New(addr string, logger *slog.Logger, h *registry.Handle) *Server {
	s := &Server{
		logger: logger,
		handle: h,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s
}

// Handler builds the router. Exposed separately so tests can drive it with
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.health)
	r.HandleFunc("/{plugin}", s.dispatch)
	r.HandleFunc("/{plugin}/*", s.dispatch)

	return r
}

// ListenAndServe runs the server until ctx is cancelled or the listener
// fails. A cancelled context is a normal stop and returns nil; the actual
// connection drain happens in Close, which the caller registers as a
// shutdown action.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🚀 Server starting", "address", fmt.Sprintf("http://localhost%s/", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Stop requested, shutting down.")
		return nil
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}
}

// Close drains in-flight requests and stops the listener.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("🏁 Server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// requestLogger logs one line per request through the application logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served.",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
