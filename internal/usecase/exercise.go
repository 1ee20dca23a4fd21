package usecase

import (
	"context"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// UserUseCase определяет бизнес-логику работы с пользователями
type UserUseCase interface {
	// CreateUser создаёт пользователя; пустое имя является ошибкой валидации
	CreateUser(ctx context.Context, username string) (*domain.User, error)

	// ListUsers возвращает всех пользователей (пустой срез, если их нет)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// AddExerciseInput - сырые поля запроса на добавление упражнения.
// Date может быть пустой строкой: тогда используется текущий момент.
type AddExerciseInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// LogQuery - параметры запроса журнала; пустые строки означают отсутствие параметра
type LogQuery struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// ExerciseUseCase определяет бизнес-логику работы с упражнениями и журналом
type ExerciseUseCase interface {
	// AddExercise добавляет упражнение существующему пользователю
	// и возвращает данные пользователя вместе с упражнением
	AddExercise(ctx context.Context, input AddExerciseInput) (*domain.ExerciseView, error)

	// GetLogs возвращает журнал упражнений пользователя с фильтром по датам и лимитом
	GetLogs(ctx context.Context, query LogQuery) (*domain.LogResponse, error)
}
