// Package mongo реализует хранилища пользователей и упражнений поверх MongoDB.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
)

const (
	usersCollection     = "users"
	exercisesCollection = "exercises"

	connectTimeout = 10 * time.Second
)

// Client держит подключение к MongoDB и выбранную базу
type Client struct {
	client *mongo.Client
	DB     *mongo.Database
	logger *slog.Logger
}

// NewClient подключается к MongoDB по DATABASE_URL и создаёт индексы
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DatabaseURL))
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	c := &Client{client: mc, DB: mc.Database(cfg.MongoDatabase), logger: logger}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB connection established successfully",
		"database", cfg.MongoDatabase,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	_, err := c.DB.Collection(exercisesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetName("idx_exercises_user_date"),
	})
	if err != nil {
		return fmt.Errorf("create exercises index: %w", err)
	}
	return nil
}

// Ping проверяет доступность MongoDB
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := c.client.Disconnect(ctx); err != nil {
		c.logger.Error("failed to disconnect from MongoDB", "error", err)
		return err
	}
	c.logger.Info("MongoDB connection closed")
	return nil
}
