// Package httpserver exposes the StudySync JSON API over HTTP.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/config"
	"github.com/and161185/studysync/internal/service"
)

// Services are the application services behind the API.
type Services struct {
	Auth      service.AuthService
	Notes     service.NoteService
	Tasks     service.TaskService
	Resources service.ResourceService
	Profile   service.ProfileService
	Dashboard service.DashboardService
}

// Options tune transport limits.
type Options struct {
	MaxUploadBytes int64
	CORS           config.CORSConfig
	// Ping reports database liveness for /healthz; nil means always healthy.
	Ping func(ctx context.Context) error
}

// Server wires services into HTTP handlers.
type Server struct {
	svc  Services
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

// New constructs the API server.
func New(svc Services, opts Options, log *zap.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Server{svc: svc, opts: opts, log: log.With(zap.String("component", "http")), now: time.Now}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		Logging(s.log),
		Metrics,
		Recover(s.log),
		CORS(s.opts.CORS),
	)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)
		r.Post("/auth/logout", s.logout)
		r.Post("/auth/password-reset", s.sendPasswordReset)
		r.Post("/auth/password-reset/confirm", s.confirmPasswordReset)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/me", s.me)
			r.Put("/account/email", s.changeEmail)
			r.Put("/account/password", s.changePassword)
			r.Put("/account/display-name", s.changeDisplayName)

			r.Get("/notes", s.listNotes)
			r.Post("/notes", s.createNote)
			r.Put("/notes/{id}", s.updateNote)
			r.Delete("/notes/{id}", s.deleteNote)

			r.Get("/tasks", s.listTasks)
			r.Post("/tasks", s.createTask)
			r.Put("/tasks/{id}", s.updateTask)
			r.Post("/tasks/{id}/toggle", s.toggleTask)
			r.Delete("/tasks/{id}", s.deleteTask)

			r.Get("/resources", s.listResources)
			r.Post("/resources", s.uploadResource)
			r.Delete("/resources/{id}", s.deleteResource)
			r.Get("/activity", s.recentActivity)

			r.Get("/profile", s.getProfile)
			r.Patch("/profile", s.patchProfile)
			r.Get("/profile/stats", s.profileStats)

			r.Get("/home", s.home)
		})
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ping(ctx); err != nil {
			s.log.Warn("health ping", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestID(r *http.Request) string { return middleware.GetReqID(r.Context()) }
