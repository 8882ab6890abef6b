// Package server exposes the builder over HTTP.
//
// Routes:
//
//	GET  /api/version           library version (session cached)
//	GET  /api/modules           module list as JSON
//	GET  /api/modules/fragment  rendered catalog fragment (session cached)
//	POST /api/generate          build a bundle from {"modules": [...], "minify": true}
//	GET  /downloads/{id}        published bundle, for stores served by zbuilder
//
// Every response carries a zbuilder_session cookie. The session keeps the
// version and the rendered catalog between requests.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/zbuilder/pkg/blob"
	"github.com/matzehuels/zbuilder/pkg/bundle"
	"github.com/matzehuels/zbuilder/pkg/catalog"
	"github.com/matzehuels/zbuilder/pkg/pipeline"
	"github.com/matzehuels/zbuilder/pkg/session"
)

const shutdownTimeout = 10 * time.Second

// Config wires the server to its components. Downloads may be nil when the
// publisher hands out self-contained references.
type Config struct {
	Catalog   *catalog.Catalog
	Version   catalog.VersionFetcher
	Sessions  *session.Store
	Assembler *bundle.Assembler
	Downloads blob.Store
	Logger    *log.Logger
}

// Server is the HTTP API.
type Server struct {
	catalog   *catalog.Catalog
	version   catalog.VersionFetcher
	sessions  *session.Store
	downloads blob.Store
	runner    *pipeline.Runner
	logger    *log.Logger

	router chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		catalog:   cfg.Catalog,
		version:   cfg.Version,
		sessions:  cfg.Sessions,
		downloads: cfg.Downloads,
		runner:    pipeline.NewRunner(cfg.Catalog, cfg.Assembler, logger),
		logger:    logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/version", s.handleVersion)
		r.Get("/modules", s.handleModules)
		r.Get("/modules/fragment", s.handleFragment)
		r.Post("/generate", s.handleGenerate)
	})
	r.Get("/downloads/{id}", s.handleDownload)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
