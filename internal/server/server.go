package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/progress"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Options configures optional server behavior.
type Options struct {
	// Identity attributes requests to a user. Defaults to DevIdentity with LocalUser.
	Identity func(http.Handler) http.Handler
	// DefaultExercise picks the charted exercise when the progress page names none.
	DefaultExercise progress.Strategy
	// Metrics enables request instrumentation and /metrics when non-nil.
	Metrics *Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  storage.Store
	log    *slog.Logger
	opts   Options
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store storage.Store, log *slog.Logger, opts Options) *Server {
	if opts.Identity == nil {
		opts.Identity = DevIdentity(store, LocalUser, log)
	}
	if opts.DefaultExercise == "" {
		opts.DefaultExercise = progress.StrategyFirst
	}
	s := &Server{
		store:  store,
		log:    log,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.opts.Metrics != nil {
		s.router.Use(s.opts.Metrics.Instrument)
	}
	s.router.Use(PanicRecovery(s.log, s.opts.Metrics))

	// Unauthenticated operational endpoints
	s.router.Get("/healthz", s.handleHealthz)
	if s.opts.Metrics != nil {
		s.router.Handle("/metrics", s.opts.Metrics.Handler())
	}

	s.router.Group(func(r chi.Router) {
		r.Use(s.opts.Identity)

		r.Get("/", s.handleWorkoutList)
		r.Get("/me/", s.handleMe)

		r.Route("/workout", func(r chi.Router) {
			r.Get("/add/", s.handleWorkoutAddForm)
			r.Post("/add/", s.handleWorkoutCreate)
			r.Get("/{id}/", s.handleWorkoutDetail)
			r.Get("/{id}/edit/", s.handleWorkoutEditForm)
			r.Post("/{id}/edit/", s.handleWorkoutUpdate)
			r.Get("/{id}/delete/", s.handleWorkoutDeleteConfirm)
			r.Post("/{id}/delete/", s.handleWorkoutDelete)
			r.Get("/{id}/set/add/", s.handleSetAddForm)
			r.Post("/{id}/set/add/", s.handleSetCreate)
		})

		r.Route("/set/{id}", func(r chi.Router) {
			r.Get("/edit/", s.handleSetEditForm)
			r.Post("/edit/", s.handleSetUpdate)
			r.Get("/delete/", s.handleSetDeleteConfirm)
			r.Post("/delete/", s.handleSetDelete)
		})

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", s.handleExerciseList)
			r.Get("/add/", s.handleExerciseAddForm)
			r.Post("/add/", s.handleExerciseCreate)
			// archive and unarchive are plain links as well as form posts
			r.Get("/{id}/archive/", s.handleExerciseArchive)
			r.Post("/{id}/archive/", s.handleExerciseArchive)
			r.Get("/{id}/unarchive/", s.handleExerciseUnarchive)
			r.Post("/{id}/unarchive/", s.handleExerciseUnarchive)
			r.Get("/{id}/delete/", s.handleExerciseDeleteConfirm)
			r.Post("/{id}/delete/", s.handleExerciseDelete)
		})

		r.Get("/progress/", s.handleProgress)
	})
}
