// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the citation parser and link writer over HTTP
// so editors and scripts can drive a linking pass without the CLI.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/citelink/internal/wikitext"
	"github.com/pdiddy/citelink/pkg/types"
)

// Searcher looks up article titles for an author name.
type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) ([]types.SearchHit, error)
}

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Extractor  *wikitext.Extractor
	Searcher   Searcher
	Search     types.SearchConfig
	SummaryTag string
	Logger     *zap.Logger
}

// Server is the HTTP API for citelink.
type Server struct {
	router    chi.Router
	extractor *wikitext.Extractor
	searcher  Searcher
	search    types.SearchConfig
	tag       string
	log       *zap.Logger
}

// New creates and configures the HTTP server.
func New(opts Options) *Server {
	s := &Server{
		extractor: opts.Extractor,
		searcher:  opts.Searcher,
		search:    opts.Search,
		tag:       opts.SummaryTag,
		log:       opts.Logger,
	}
	if s.extractor == nil {
		s.extractor = wikitext.DefaultExtractor()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/citations", s.handleCitations)
		r.Post("/apply", s.handleApply)
		r.Post("/ref", s.handleRef)
		r.Post("/summary", s.handleSummary)
		r.Post("/search", s.handleSearch)
	})

	s.router = r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting citelink server", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
