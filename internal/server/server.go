// Package server exposes the validation pipeline over HTTP: a multipart
// upload endpoint that runs the checks synchronously, and a download
// endpoint for the annotated artifact. It replaces the legacy web front
// end's upload widget, download button, and error surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/chemsmart/fmdqa/internal/config"
)

// Server is a thin wrapper over chi + the stdlib http.Server.
type Server struct {
	cfg   *config.Global
	log   zerolog.Logger
	mux   *chi.Mux
	srv   *http.Server
	store *artifactStore
}

// New builds the server and mounts its routes.
func New(cfg *config.Global, log zerolog.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		log:   log,
		mux:   chi.NewRouter(),
		store: newArtifactStore(time.Hour),
	}
	s.mux.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	s.mux.Use(s.accessLog)
	s.mux.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Get("/artifacts/{id}", s.handleDownload)
	})
	s.srv = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

// Run starts the server and blocks until ctx is canceled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.ListenAddr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutCtx)
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// accessLog logs one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
