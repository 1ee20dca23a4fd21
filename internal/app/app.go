package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// App держит собранные зависимости и запускает выбранный режим
type App struct {
	Config         *config.Config
	logger         *slog.Logger
	router         http.Handler
	metricsHandler http.Handler
	consumer       ports.ExerciseEventConsumer
	archiver       ports.ExerciseEventArchiver
	collector      metrics.MetricsCollector
	closers        []io.Closer
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	metricsHandler http.Handler,
	consumer ports.ExerciseEventConsumer,
	archiver ports.ExerciseEventArchiver,
	collector metrics.MetricsCollector,
	closers ...io.Closer,
) *App {
	return &App{
		Config:         cfg,
		logger:         logger,
		router:         router,
		metricsHandler: metricsHandler,
		consumer:       consumer,
		archiver:       archiver,
		collector:      collector,
		closers:        closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает режим mode и блокируется до SIGINT/SIGTERM или ошибки
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.router, a.logger)
	case ModeWorker:
		err = a.runWorkerMode(ctx)
	default:
		err = fmt.Errorf("unknown mode %q (use %q or %q)", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// runWorkerMode запускает воркер с отдельным сервером /metrics на METRICS_PORT
func (a *App) runWorkerMode(ctx context.Context) error {
	if a.consumer == nil {
		return errNoConsumer
	}

	ln, err := listen(a.Config.MetricsPort)
	if err != nil {
		return err
	}
	return runWorker(ctx, workerDeps{
		Consumer:        a.consumer,
		Archiver:        a.archiver,
		Collector:       a.collector,
		Logger:          a.logger,
		MetricsHandler:  a.metricsHandler,
		MetricsListener: ln,
	})
}

// Shutdown закрывает все ресурсы приложения в обратном порядке
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloserFunc позволяет передать в App функцию освобождения ресурса
type CloserFunc func() error

func (f CloserFunc) Close() error {
	return f()
}
