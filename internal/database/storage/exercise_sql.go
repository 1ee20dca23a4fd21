package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// ExerciseStorage реализует интерфейс ports.ExerciseStorage поверх sqlx
type ExerciseStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewExerciseStorage(db *sqlx.DB, logger *slog.Logger) *ExerciseStorage {
	return &ExerciseStorage{db: db, logger: logger}
}

// CreateExercise сохраняет упражнение, присваивая ему UUID
func (s *ExerciseStorage) CreateExercise(ctx context.Context, exercise *domain.Exercise) error {
	start := time.Now()

	if exercise.ID == "" {
		exercise.ID = uuid.NewString()
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	exercise.Date = exercise.Date.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO exercises (id, user_id, description, duration, date, created_at)
		VALUES (:id, :user_id, :description, :duration, :date, :created_at)
	`, exercise)
	if err != nil {
		s.logger.Error("failed to insert exercise", "user_id", exercise.UserID, "error", err)
		return fmt.Errorf("insert exercise: %w", err)
	}

	s.logger.Info("exercise saved successfully",
		"exercise_id", exercise.ID,
		"user_id", exercise.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// FindExercises выбирает упражнения пользователя по фильтру
func (s *ExerciseStorage) FindExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	start := time.Now()

	query, args := buildExerciseQuery(filter)

	exercises := []domain.Exercise{}
	if err := s.db.SelectContext(ctx, &exercises, s.db.Rebind(query), args...); err != nil {
		s.logger.Error("failed to find exercises", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("select exercises: %w", err)
	}

	s.logger.Debug("exercises found",
		"user_id", filter.UserID,
		"count", len(exercises),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return exercises, nil
}

// buildExerciseQuery собирает запрос с плейсхолдерами '?' (sqlx.Rebind приводит их к диалекту)
func buildExerciseQuery(filter domain.ExerciseFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, user_id, description, duration, date, created_at FROM exercises WHERE user_id = ?`)
	args := []any{filter.UserID}

	if filter.From != nil {
		b.WriteString(` AND date >= ?`)
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		b.WriteString(` AND date <= ?`)
		args = append(args, filter.To.UTC())
	}

	b.WriteString(` ORDER BY created_at, id`)

	if filter.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}
	return b.String(), args
}
