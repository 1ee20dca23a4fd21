package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/database/migrations"
)

// Client держит подключение GORM к PostgreSQL
type Client struct {
	DB     *gorm.DB
	logger *slog.Logger
}

// NewClient открывает подключение GORM и применяет миграции через golang-migrate
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := gorm.Open(gormpostgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		logger.Error("failed to open GORM connection", "error", err)
		return nil, fmt.Errorf("open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrations.Up(config.DriverPostgres, cfg.DatabaseURL, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("GORM PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Client{DB: db, logger: logger}, nil
}

// Ping проверяет доступность базы
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		c.logger.Error("failed to close gorm connection", "error", err)
		return err
	}
	c.logger.Info("gorm connection closed")
	return nil
}
