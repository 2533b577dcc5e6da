// Package server exposes the application context over HTTP.
//
// Routes mirror the three screens of the product: the dashboard of saved
// forms, the builder session, and the public filler. All bodies are JSON.
// Free text arriving from clients is stripped of markup before it reaches
// a store.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/formkit/internal/app"
)

// Server serves one App.
type Server struct {
	app      *app.App
	logger   *slog.Logger
	router   *chi.Mux
	sanitize *sanitizer
}

// New builds the router for a. A nil logger uses slog.Default.
func New(a *app.App, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		app:      a,
		logger:   logger,
		router:   chi.NewRouter(),
		sanitize: newSanitizer(),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(logger))
	s.router.Use(middleware.Recoverer)

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Route("/api/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Post("/", s.handleCreateForm)
		r.Get("/{id}/responses", s.handleListResponses)
	})

	r.Route("/api/builder", func(r chi.Router) {
		r.Get("/", s.handleGetBuilder)
		r.Patch("/", s.handleUpdateForm)
		r.Post("/fields", s.handleAddField)
		r.Post("/fields/reorder", s.handleReorder)
		r.Patch("/fields/{id}", s.handleUpdateField)
		r.Delete("/fields/{id}", s.handleRemoveField)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Post("/save", s.handleSave)
		r.Post("/load/{id}", s.handleLoad)
		r.Put("/select", s.handleSelect)
		r.Put("/preview", s.handlePreview)
	})

	r.Put("/api/theme", s.handleTheme)

	r.Get("/form/{id}", s.handleGetForm)
	r.Post("/form/{id}/responses", s.handleSubmit)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request through logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
