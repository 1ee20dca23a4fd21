// Package metrics собирает метрики Prometheus трекера упражнений.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector - интерфейс сбора метрик для бизнес-логики и воркера.
type MetricsCollector interface {
	RecordUserCreated()
	RecordExerciseLogged()
	RecordExerciseMinutes(minutes float64)
	RecordEventConsumed(result string)
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Collector реализует MetricsCollector поверх Prometheus.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	usersCreated    prometheus.Counter
	exercisesLogged prometheus.Counter
	exerciseMinutes prometheus.Counter
	eventsConsumed  *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exercise_tracker_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exercise_tracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercise_tracker_users_created_total",
			Help: "Users created.",
		}),
		exercisesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercise_tracker_exercises_logged_total",
			Help: "Exercises stored.",
		}),
		exerciseMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exercise_tracker_exercise_minutes_total",
			Help: "Exercise minutes seen by the event worker.",
		}),
		eventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exercise_tracker_events_consumed_total",
			Help: "exercise.logged events consumed by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.usersCreated,
		c.exercisesLogged,
		c.exerciseMinutes,
		c.eventsConsumed,
	)

	return c
}

// RecordUserCreated учитывает созданного пользователя.
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// RecordExerciseLogged учитывает сохранённое упражнение.
func (c *Collector) RecordExerciseLogged() {
	c.exercisesLogged.Inc()
}

// RecordExerciseMinutes суммирует продолжительность упражнений из событий.
// Отрицательные значения пропускаются: счётчик не может убывать.
func (c *Collector) RecordExerciseMinutes(minutes float64) {
	if minutes <= 0 {
		return
	}
	c.exerciseMinutes.Add(minutes)
}

// RecordEventConsumed учитывает обработанное событие ("ok", "failed").
func (c *Collector) RecordEventConsumed(result string) {
	c.eventsConsumed.WithLabelValues(result).Inc()
}

// RecordHTTPRequest учитывает HTTP-запрос.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler возвращает HTTP-обработчик /metrics для указанного gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
