package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/database/migrations"
)

// sqliteDriverName - имя драйвера modernc.org/sqlite в database/sql
const sqliteDriverName = "sqlite"

func init() {
	// modernc регистрируется как "sqlite", которого нет в таблице bindvar sqlx
	sqlx.BindDriver(sqliteDriverName, sqlx.QUESTION)
}

// Client представляет клиент для взаимодействия с SQL-базой (PostgreSQL или SQLite)
type Client struct {
	DB      *sqlx.DB
	Dialect string
	logger  *slog.Logger
}

// NewClient открывает соединение по DATABASE_URL и применяет миграции
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	driver, err := cfg.StorageDriver()
	if err != nil {
		return nil, err
	}

	var c *Client
	switch driver {
	case config.DriverPostgres:
		c, err = OpenPostgres(cfg.DatabaseURL, logger)
	case config.DriverSQLite:
		c, err = OpenSQLite(cfg.SQLitePath(), logger)
	default:
		return nil, fmt.Errorf("sql client does not support driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(c.Dialect, cfg.DatabaseURL, logger); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return c, nil
}

// OpenPostgres открывает пул соединений с PostgreSQL через lib/pq
func OpenPostgres(databaseURL string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Client{DB: db, Dialect: config.DriverPostgres, logger: logger}, nil
}

// OpenSQLite открывает файл базы SQLite через modernc.org/sqlite.
// Время пишется в формате, который корректно сравнивается как строка
func OpenSQLite(path string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect(sqliteDriverName, path+"?_time_format=sqlite")
	if err != nil {
		logger.Error("failed to open SQLite database", "path", path, "error", err)
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite поддерживает только одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set sqlite pragma: %w", err)
		}
	}

	logger.Info("SQLite database opened successfully",
		"path", path,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Client{DB: db, Dialect: config.DriverSQLite, logger: logger}, nil
}

// Ping проверяет доступность базы
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
