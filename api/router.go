package api

import (
	"io"
	"net/http"

	"openkeep/api/router/handlers"
	"openkeep/core"
	"openkeep/logger"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options selects the services and optional middleware behind the router.
type Options struct {
	Notes    *core.NoteService
	Labels   *core.LabelService
	Metrics  bool
	Compress bool
}

// NewRouter builds the HTTP handler. API routes live under /api, metrics at /metrics.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	if opts.Compress {
		compressor := middleware.NewCompressor(5, "application/json")
		compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
			return brotli.NewWriterLevel(w, level)
		})
		r.Use(compressor.Handler)
	}

	if opts.Metrics {
		m := newMetrics()
		r.Use(m.middleware)
		r.Handle("/metrics", m.handler())
	}

	r.Route("/api", func(apiRouter chi.Router) {
		handlers.RegisterHealthRoutes(apiRouter)
		handlers.RegisterVersionRoutes(apiRouter)
		handlers.RegisterNoteRoutes(apiRouter, opts.Notes)
		handlers.RegisterLabelRoutes(apiRouter, opts.Labels)
		apiRouter.Get("/swagger/doc.json", swaggerDocHandler)

		apiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("API catch-all: unhandled route %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		})
	})

	return r
}
