// Package server exposes layout persistence and rendering over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /metrics
//	POST   /layouts                 owner: save a new layout, 201 {"id": ...}
//	GET    /layouts                 owner: list the caller's layouts
//	GET    /layouts/{id}            anyone: the stored document
//	DELETE /layouts/{id}            owner of the layout
//	GET    /layouts/{id}/render     anyone: ?width=&height=&format=svg|json
//
// Callers identify with an HS256 bearer token whose subject is the owner id
// and whose role claim is "owner" or "guest". Requests without a token are
// served as anonymous guests, which may read and render layouts.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/render"
	"github.com/matzehuels/seatmap/pkg/store"
)

// Server handles API requests against a layout store.
type Server struct {
	store   store.Store
	logger  *log.Logger
	auth    *Authenticator
	metrics *Metrics
	timeout time.Duration

	icons   render.AssetLoader
	iconURL string
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAuthenticator sets the bearer token verifier.
func WithAuthenticator(a *Authenticator) Option {
	return func(s *Server) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRequestTimeout bounds the time spent on a single request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithIcon draws rendered tables with the icon at url, fetched by loader.
func WithIcon(loader render.AssetLoader, url string) Option {
	return func(s *Server) { s.icons, s.iconURL = loader, url }
}

// New creates a server backed by st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: log.Default(),
		auth:   NewAuthenticator(""),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/layouts", func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.With(requireOwner).Post("/", s.handleSave)
		r.With(requireOwner).Get("/", s.handleList)
		r.Get("/{id}", s.handleLoad)
		r.With(requireOwner).Delete("/{id}", s.handleDelete)
		r.Get("/{id}/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: errors.ErrCodeNotFound, Message: "no such route"})
	})
	return r
}

// adminHandler serves health and metrics on the separate admin listener.
func (s *Server) adminHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}
