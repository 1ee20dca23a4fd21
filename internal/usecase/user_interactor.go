package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	metrics     metrics.MetricsCollector
	logger      *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	userStorage ports.UserStorage,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		metrics:     collector,
		logger:      logger,
	}
}

// CreateUser сохраняет нового пользователя; имя сохраняется как передано
func (uc *userUseCase) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.ValidationError("username is required")
	}

	user := &domain.User{Username: username}
	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		return nil, domain.StorageError(fmt.Errorf("create user: %w", err))
	}

	uc.metrics.RecordUserCreated()
	uc.logger.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// ListUsers возвращает всех пользователей
func (uc *userUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.userStorage.ListUsers(ctx)
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("list users: %w", err))
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
