package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
)

// errNoConsumer - воркер запущен без RABBITMQ_URL
var errNoConsumer = errors.New("worker mode requires RABBITMQ_URL")

// workerDeps - зависимости режима worker
type workerDeps struct {
	Consumer  ports.ExerciseEventConsumer
	Archiver  ports.ExerciseEventArchiver // nil: события только учитываются в метриках
	Collector metrics.MetricsCollector
	Logger    *slog.Logger

	// MetricsHandler отдаётся на MetricsListener по пути /metrics; nil listener отключает сервер
	MetricsHandler  http.Handler
	MetricsListener net.Listener
}

// runWorker потребляет события exercise.logged и отдаёт /metrics до отмены ctx.
func runWorker(ctx context.Context, deps workerDeps) error {
	if deps.Consumer == nil {
		closeListener(deps.MetricsListener)
		return errNoConsumer
	}

	handler := exerciseLoggedHandler(deps.Archiver, deps.Collector, deps.Logger)
	if err := deps.Consumer.StartConsumingExerciseLogged(ctx, handler); err != nil {
		closeListener(deps.MetricsListener)
		return fmt.Errorf("start RabbitMQ consumer: %w", err)
	}

	deps.Logger.Info("worker started, waiting for exercise events")

	if deps.MetricsListener != nil && deps.MetricsHandler != nil {
		r := chi.NewRouter()
		r.Handle("/metrics", deps.MetricsHandler)
		if err := serveHTTP(ctx, deps.MetricsListener, r, deps.Logger); err != nil {
			return fmt.Errorf("worker metrics server: %w", err)
		}
	} else {
		closeListener(deps.MetricsListener)
		<-ctx.Done()
	}

	deps.Logger.Info("worker stopped")
	return nil
}

func closeListener(ln net.Listener) {
	if ln != nil {
		_ = ln.Close()
	}
}

// exerciseLoggedHandler архивирует событие и учитывает его в метриках.
// Событие без идентификаторов подтверждается и пропускается: повтор его не исправит.
// Ошибка архива возвращается, и сообщение уходит обратно в очередь
func exerciseLoggedHandler(archiver ports.ExerciseEventArchiver, collector metrics.MetricsCollector, logger *slog.Logger) func(context.Context, payloads.ExerciseLoggedPayload) error {
	return func(ctx context.Context, payload payloads.ExerciseLoggedPayload) error {
		if payload.ExerciseID == "" || payload.UserID == "" {
			collector.RecordEventConsumed("invalid")
			logger.Warn("skipping event without ids", "event", payloads.ExerciseLoggedEvent)
			return nil
		}

		if archiver != nil {
			if err := archiver.ArchiveExerciseLogged(ctx, payload); err != nil {
				collector.RecordEventConsumed("failed")
				return fmt.Errorf("archive event %s: %w", payload.ExerciseID, err)
			}
		}

		collector.RecordExerciseMinutes(payload.Duration)
		collector.RecordEventConsumed("ok")

		logger.Info("exercise logged",
			"exercise_id", payload.ExerciseID,
			"user_id", payload.UserID,
			"username", payload.Username,
			"duration", payload.Duration,
			"date", payload.Date.Format("2006-01-02"),
		)
		return nil
	}
}
