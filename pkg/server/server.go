package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/adminstack/pkg/session"
)

const (
	// TopLevelID is the breadcrumb ID used for the seeded top-level page.
	TopLevelID = "top"

	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

// Server serves the HTTP API.
type Server struct {
	store  session.Store
	logger *log.Logger
	ttl    time.Duration

	topTitle string
	topURL   string

	locks sync.Map // session ID -> *sync.Mutex
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTTL sets the lifetime of sessions, renewed on every write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithTopLevel seeds new sessions with a top-level breadcrumb.
func WithTopLevel(title, url string) Option {
	return func(s *Server) { s.topTitle, s.topURL = title, url }
}

// New returns a server storing stacks in store.
func New(store session.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: log.Default(),
		ttl:    session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/order", s.handleOrder)

	r.Route("/stacks/{session}", func(r chi.Router) {
		r.Use(s.validateSession)
		r.Get("/", s.handleGetState)
		r.Delete("/", s.handleDeleteState)

		r.Get("/breadcrumbs", s.handleListBreadcrumbs)
		r.Post("/breadcrumbs", s.handleAddBreadcrumb)
		r.Put("/breadcrumbs/{id}", s.handleUpdateBreadcrumb)
		r.Delete("/breadcrumbs/{id}", s.handleRemoveBreadcrumb)

		r.Get("/visible", s.handleVisible)
		r.Post("/back", s.handleBack)
		r.Post("/back/all", s.handleBackAll)

		r.Get("/switches", s.handleListSwitches)
		r.Put("/switches/{id}", s.handleSetSwitch)
		r.Delete("/switches/{id}", s.handleRemoveSwitch)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errMethodNotAllowed)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// lock serializes writes to one session within this process.
func (s *Server) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
