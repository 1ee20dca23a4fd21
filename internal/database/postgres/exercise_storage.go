package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// GormExerciseStorage реализует интерфейс ports.ExerciseStorage с использованием GORM
type GormExerciseStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormExerciseStorage(db *gorm.DB, logger *slog.Logger) *GormExerciseStorage {
	return &GormExerciseStorage{db: db, logger: logger}
}

// CreateExercise сохраняет упражнение с помощью GORM
func (s *GormExerciseStorage) CreateExercise(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = uuid.NewString()
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return fmt.Errorf("create exercise with gorm: %w", err)
	}

	s.logger.Info("exercise saved with gorm", "exercise_id", exercise.ID, "user_id", exercise.UserID)
	return nil
}

// FindExercises ищет упражнения пользователя по фильтру с помощью GORM
func (s *GormExerciseStorage) FindExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}

	if err := exerciseQuery(s.db.WithContext(ctx), filter).Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("find exercises with gorm: %w", err)
	}
	return exercises, nil
}

// exerciseQuery навешивает условия фильтра на запрос
func exerciseQuery(db *gorm.DB, filter domain.ExerciseFilter) *gorm.DB {
	q := db.Where("user_id = ?", filter.UserID)
	if filter.From != nil {
		q = q.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("date <= ?", filter.To.UTC())
	}
	q = q.Order("created_at, id")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return q
}
