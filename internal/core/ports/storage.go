package ports

import (
	"context"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser сохраняет пользователя и присваивает ему ID
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByID возвращает (nil, nil), если пользователь не найден.
	// Некорректный формат id возвращается как ошибка, оборачивающая domain.ErrInvalidID
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// ListUsers возвращает всех пользователей в порядке создания
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ExerciseStorage определяет методы для взаимодействия с хранилищем упражнений
type ExerciseStorage interface {
	// CreateExercise сохраняет упражнение и присваивает ему ID
	CreateExercise(ctx context.Context, exercise *domain.Exercise) error
	// FindExercises возвращает упражнения пользователя по фильтру в порядке создания
	FindExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error)
}

// HealthChecker проверяет доступность хранилища
type HealthChecker interface {
	Ping(ctx context.Context) error
}
