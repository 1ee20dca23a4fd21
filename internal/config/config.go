package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Драйверы хранилища, определяемые по схеме DATABASE_URL
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongodb"
)

// Движки доступа к PostgreSQL
const (
	EngineSQLX = "sqlx"
	EngineGorm = "gorm"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	ServerPort    string `env:"PORT" envDefault:"3000"`
	MetricsPort   string `env:"METRICS_PORT" envDefault:"9091"` // /metrics в режиме worker
	StorageEngine string `env:"STORAGE_ENGINE" envDefault:"sqlx"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"exercise_tracker"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	RateLimitRPS      float64       `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// RabbitMQ необязателен: без URL события не публикуются
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"exercise_logged"`
	}

	// MinIO/S3 для архива событий воркера; без MINIO_ENDPOINT архив отключён
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"exercise-events"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	// required в env/v6 пропускает пустое значение
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := cfg.StorageDriver(); err != nil {
		return nil, err
	}

	switch cfg.StorageEngine {
	case EngineSQLX, EngineGorm:
	default:
		return nil, fmt.Errorf("unknown STORAGE_ENGINE %q (use %q or %q)", cfg.StorageEngine, EngineSQLX, EngineGorm)
	}

	return &cfg, nil
}

// StorageDriver определяет драйвер хранилища по схеме DATABASE_URL.
func (c *Config) StorageDriver() (string, error) {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "sqlite":
		return DriverSQLite, nil
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
	}
}

// SQLitePath возвращает путь к файлу базы из URL вида sqlite://<path>.
func (c *Config) SQLitePath() string {
	path := strings.TrimPrefix(c.DatabaseURL, "sqlite://")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// ArchiveEnabled сообщает, настроен ли архив событий в MinIO/S3.
func (c *Config) ArchiveEnabled() bool {
	return c.MinioEndpoint != ""
}

// EventsEnabled сообщает, настроена ли публикация событий в RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
