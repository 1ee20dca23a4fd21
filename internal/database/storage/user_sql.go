package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx (PostgreSQL или SQLite)
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя, присваивая ему UUID
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, created_at)
		VALUES (:id, :username, :created_at)
	`, user)
	if err != nil {
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user saved successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID; (nil, nil), если не найден
func (s *UserStorage) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	start := time.Now()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("user id %q: %w", id, domain.ErrInvalidID)
	}

	var user domain.User
	query := s.db.Rebind(`SELECT id, username, created_at FROM users WHERE id = ? LIMIT 1`)

	err := s.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by id", "user_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "user_id", id, "error", err)
		return nil, fmt.Errorf("select user: %w", err)
	}

	s.logger.Debug("user retrieved by id",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

// ListUsers возвращает всех пользователей в порядке создания
func (s *UserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT id, username, created_at FROM users ORDER BY created_at, id`); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("select users: %w", err)
	}

	s.logger.Debug("listed users successfully",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}
