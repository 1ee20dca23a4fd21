package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
)

// RouterDeps - зависимости HTTP-маршрутизатора.
type RouterDeps struct {
	Users     *UserHandler
	Exercises *ExerciseHandler
	Health    *HealthHandler

	Collector      metrics.MetricsCollector
	MetricsHandler http.Handler
	// RateLimiter nil отключает ограничение частоты для /api
	RateLimiter *ClientRateLimiter

	CORSAllowedOrigin string
	RequestTimeout    time.Duration
	Logger            *slog.Logger
}

// NewRouter собирает chi-маршрутизатор сервиса.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	// Metrics снаружи Recoverer, чтобы паника учитывалась как 500
	r.Use(Metrics(deps.Collector))
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.CORSAllowedOrigin))
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/", IndexPage(deps.Logger))
	r.Handle("/public/*", PublicFiles())

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		r.Post("/api/users", deps.Users.CreateUser)
		r.Get("/api/users", deps.Users.ListUsers)
		r.Post("/api/users/{id}/exercises", deps.Exercises.AddExercise)
		r.Get("/api/users/{id}/logs", deps.Exercises.GetLogs)
	})

	r.Get("/healthz", deps.Health.Healthz)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	return r
}
