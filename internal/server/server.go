package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/lazypower/rememberme/internal/engine"
	"github.com/lazypower/rememberme/internal/metrics"
	"github.com/lazypower/rememberme/internal/store"
)

// Options configures a Server beyond its store and engine.
type Options struct {
	Version     string
	Logger      zerolog.Logger
	Metrics     *metrics.Collector
	CORSOrigins []string
}

// Server is the rememberme HTTP API server.
type Server struct {
	store   store.Store
	engine  *engine.Engine
	log     zerolog.Logger
	metrics *metrics.Collector
	router  chi.Router
	version string
	origins []string
	started time.Time
}

// New creates a new Server. A nil Metrics disables /metrics and request
// instrumentation.
func New(st store.Store, eng *engine.Engine, opts Options) *Server {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s := &Server{
		store:   st,
		engine:  eng,
		log:     opts.Logger,
		metrics: opts.Metrics,
		version: opts.Version,
		origins: origins,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	if s.metrics != nil {
		r.Method("GET", "/metrics", s.metrics.Handler())
	}

	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.handleListEvents)
		r.Get("/upcoming", s.handleUpcomingEvents)
		r.Post("/", s.handleCreateEvent)
	})

	r.Route("/familyTree", func(r chi.Router) {
		r.Get("/", s.handleListFamily)
		r.Post("/", s.handleCreateFamily)
	})

	r.Route("/memory", func(r chi.Router) {
		r.Get("/", s.handleListMemories)
		r.Post("/", s.handleCreateMemory)
		r.Get("/{id}", s.handleGetMemory)
		r.Put("/{id}", s.handleUpdateMemory)
		r.Delete("/{id}", s.handleDeleteMemory)
	})

	r.Route("/patientInfo", func(r chi.Router) {
		r.Get("/", s.handleGetPatient)
		r.Post("/", s.handleSavePatient)
	})

	r.Post("/generateStory", s.handleGenerateStory)
	r.Post("/getPersonInfo", s.handlePersonInfo)
	r.Get("/getRandomMemoryHighlight", s.handleHighlight)

	r.Get("/*", spaHandler())

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbOK := true
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("health: store ping failed")
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"ai":      s.engine != nil && s.engine.LLM != nil,
	})
}

// requestLogger emits one line per request once the handler has returned.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			ev := log.Info()
			if status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
