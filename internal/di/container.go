package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/GoArmGo/ExerciseTracker/internal/adapter/storage/minio"
	"github.com/GoArmGo/ExerciseTracker/internal/app"
	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/database/client"
	"github.com/GoArmGo/ExerciseTracker/internal/database/mongo"
	"github.com/GoArmGo/ExerciseTracker/internal/database/postgres"
	"github.com/GoArmGo/ExerciseTracker/internal/database/storage"
	"github.com/GoArmGo/ExerciseTracker/internal/handler"
	"github.com/GoArmGo/ExerciseTracker/internal/logger"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
	"github.com/GoArmGo/ExerciseTracker/internal/rabbitmq"
	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

const rateLimitCleanupInterval = 5 * time.Minute

// backend - выбранное хранилище вместе с ресурсом, который нужно закрыть
type backend struct {
	users     ports.UserStorage
	exercises ports.ExerciseStorage
	health    ports.HealthChecker
	closer    io.Closer
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 2. Хранилище по схеме DATABASE_URL
	store, err := openBackend(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{store.closer}

	// 3. Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 4. RabbitMQ необязателен
	var (
		publisher ports.ExerciseEventPublisher
		consumer  ports.ExerciseEventConsumer
	)
	if cfg.EventsEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			closeAll(closers, slogger)
			return nil, err
		}
		publisher = rabbitMQClient
		consumer = rabbitMQClient
		closers = append(closers, rabbitMQClient)
	} else {
		slogger.Info("RABBITMQ_URL is not set, exercise events are disabled")
	}

	// 5. Архив событий воркера в MinIO/S3 (необязателен)
	var archiver ports.ExerciseEventArchiver
	if cfg.ArchiveEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			closeAll(closers, slogger)
			return nil, err
		}
		archiver = minioClient
	}

	// 6. Бизнес-логика
	userUseCase := usecase.NewUserUseCase(store.users, collector, slogger)
	exerciseUseCase := usecase.NewExerciseUseCase(store.users, store.exercises, publisher, collector, slogger)

	// 7. HTTP
	var limiter *handler.ClientRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = handler.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitCleanupInterval, slogger)
		closers = append(closers, app.CloserFunc(func() error {
			limiter.Stop()
			return nil
		}))
	}

	metricsHandler := metrics.Handler(registry)
	router := handler.NewRouter(handler.RouterDeps{
		Users:             handler.NewUserHandler(userUseCase, slogger),
		Exercises:         handler.NewExerciseHandler(exerciseUseCase, slogger),
		Health:            handler.NewHealthHandler(store.health, slogger),
		Collector:         collector,
		MetricsHandler:    metricsHandler,
		RateLimiter:       limiter,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RequestTimeout:    cfg.RequestTimeout,
		Logger:            slogger,
	})

	// 8. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, router, metricsHandler, consumer, archiver, collector, closers...)

	slogger.Info("all dependencies initialized")
	return application, nil
}

// openBackend открывает хранилище, соответствующее DATABASE_URL и STORAGE_ENGINE
func openBackend(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*backend, error) {
	driver, err := cfg.StorageDriver()
	if err != nil {
		return nil, err
	}

	switch {
	case driver == config.DriverMongo:
		mc, err := mongo.NewClient(ctx, cfg, slogger)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:     mongo.NewUserStorage(mc.DB, slogger),
			exercises: mongo.NewExerciseStorage(mc.DB, slogger),
			health:    mc,
			closer:    mc,
		}, nil

	case driver == config.DriverPostgres && cfg.StorageEngine == config.EngineGorm:
		gc, err := postgres.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:     postgres.NewGormUserStorage(gc.DB, slogger),
			exercises: postgres.NewGormExerciseStorage(gc.DB, slogger),
			health:    gc,
			closer:    gc,
		}, nil

	case driver == config.DriverPostgres || driver == config.DriverSQLite:
		if cfg.StorageEngine == config.EngineGorm {
			slogger.Warn("STORAGE_ENGINE=gorm supports PostgreSQL only, using sqlx", "driver", driver)
		}
		sc, err := client.NewClient(cfg, slogger)
		if err != nil {
			return nil, err
		}
		return &backend{
			users:     storage.NewUserStorage(sc.DB, slogger),
			exercises: storage.NewExerciseStorage(sc.DB, slogger),
			health:    sc,
			closer:    sc,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func closeAll(closers []io.Closer, slogger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			slogger.Error("failed to release resource", "error", err)
		}
	}
}
