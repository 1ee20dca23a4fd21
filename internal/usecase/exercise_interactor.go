package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
)

// userNotFoundMessage - текст ошибки 404, который ожидают клиенты API
const userNotFoundMessage = "User not found"

// exerciseUseCase implements ExerciseUseCase
type exerciseUseCase struct {
	userStorage     ports.UserStorage
	exerciseStorage ports.ExerciseStorage
	publisher       ports.ExerciseEventPublisher
	metrics         metrics.MetricsCollector
	logger          *slog.Logger
	now             func() time.Time
}

// NewExerciseUseCase создает новый экземпляр ExerciseUseCase.
// publisher может быть nil, тогда события не публикуются
func NewExerciseUseCase(
	userStorage ports.UserStorage,
	exerciseStorage ports.ExerciseStorage,
	publisher ports.ExerciseEventPublisher,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) ExerciseUseCase {
	return &exerciseUseCase{
		userStorage:     userStorage,
		exerciseStorage: exerciseStorage,
		publisher:       publisher,
		metrics:         collector,
		logger:          logger,
		now:             time.Now,
	}
}

// AddExercise проверяет существование пользователя, валидирует поля,
// сохраняет упражнение и возвращает данные пользователя вместе с упражнением
func (uc *exerciseUseCase) AddExercise(ctx context.Context, input AddExerciseInput) (*domain.ExerciseView, error) {
	// 1. Пользователь должен существовать
	user, err := uc.findUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	// 2. Валидация обязательных полей
	if strings.TrimSpace(input.Description) == "" {
		return nil, domain.ValidationError("description is required")
	}
	duration, err := parseDuration(input.Duration)
	if err != nil {
		return nil, err
	}

	// 3. Дата упражнения: из запроса или текущий момент
	date := uc.now().UTC()
	if strings.TrimSpace(input.Date) != "" {
		date, err = domain.ParseDate(input.Date)
		if err != nil {
			return nil, domain.ValidationError(fmt.Sprintf("invalid date %q", input.Date))
		}
	}

	// 4. Сохраняем упражнение
	exercise := &domain.Exercise{
		UserID:      user.ID,
		Description: input.Description,
		Duration:    duration,
		Date:        date,
	}
	if err := uc.exerciseStorage.CreateExercise(ctx, exercise); err != nil {
		return nil, domain.StorageError(fmt.Errorf("create exercise: %w", err))
	}

	uc.metrics.RecordExerciseLogged()
	uc.logger.Info("exercise logged",
		"exercise_id", exercise.ID,
		"user_id", user.ID,
		"duration", exercise.Duration,
	)

	// 5. Публикуем событие; сбой публикации не отменяет сохранение
	uc.publishLogged(ctx, user, exercise)

	return domain.NewExerciseView(user, exercise), nil
}

// findUser возвращает пользователя или NotFound/Storage ошибку
func (uc *exerciseUseCase) findUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userStorage.GetUserByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, domain.NotFoundError(userNotFoundMessage)
	}
	return user, nil
}

func (uc *exerciseUseCase) publishLogged(ctx context.Context, user *domain.User, exercise *domain.Exercise) {
	if uc.publisher == nil {
		return
	}

	payload := payloads.ExerciseLoggedPayload{
		ExerciseID:  exercise.ID,
		UserID:      user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
		LoggedAt:    uc.now().UTC(),
	}
	if err := uc.publisher.PublishExerciseLogged(ctx, payload); err != nil {
		uc.logger.Error("failed to publish exercise.logged event",
			"exercise_id", exercise.ID,
			"error", err,
		)
	}
}

// parseDuration разбирает продолжительность в минутах
func parseDuration(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ValidationError("duration is required")
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, domain.ValidationError(fmt.Sprintf("duration must be a number, got %q", raw))
	}
	return duration, nil
}
