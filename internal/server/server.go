package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bikeflow/internal/config"
	"bikeflow/internal/handler"
	"bikeflow/internal/overlay"
	"bikeflow/internal/storage"
	"bikeflow/web"
)

// Server is the HTTP server for bikeflow.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	logger *slog.Logger
	ready  chan struct{} // closed when the dataset is installed
}

// New creates a new Server with all routes registered.
func New(cfg *config.Config, ctrl *overlay.Controller, db *storage.DB, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	h := handler.New(ctrl, db, cfg, logger)

	ready := make(chan struct{})
	if ctrl.Loaded() {
		close(ready)
	}

	s := &Server{mux: mux, cfg: cfg, logger: logger, ready: ready}

	// Static files served from embedded FS, versioned URLs get immutable caching
	staticFS, _ := fs.Sub(web.StaticFiles, "static")
	fileServer := http.FileServer(http.FS(staticFS))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticCacheHandler(fileServer)))

	// Pages
	mux.HandleFunc("GET /", h.Home)
	mux.HandleFunc("GET /overlays/{file}", h.Overlay)

	// API
	api := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	mux.Handle("GET /api/traffic", api(http.HandlerFunc(h.Traffic)))
	mux.Handle("GET /api/stations/{id}", api(http.HandlerFunc(h.Station)))
	mux.Handle("GET /api/snapshot.svg", api(http.HandlerFunc(h.Snapshot)))
	mux.Handle("OPTIONS /api/", api(http.NotFoundHandler()))

	// Operations
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// SetReady signals that the dataset is installed and the app can serve requests.
func (s *Server) SetReady() {
	select {
	case <-s.ready:
		// already closed
	default:
		close(s.ready)
	}
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger, s.ready)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}
