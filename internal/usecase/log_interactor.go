package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// GetLogs строит фильтр по пользователю, датам и лимиту,
// выбирает упражнения и приводит их к формату журнала
func (uc *exerciseUseCase) GetLogs(ctx context.Context, query LogQuery) (*domain.LogResponse, error) {
	user, err := uc.findUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	filter := domain.ExerciseFilter{
		UserID: user.ID,
		Limit:  parseLimit(query.Limit),
	}
	if filter.From, err = parseBound("from", query.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseBound("to", query.To); err != nil {
		return nil, err
	}

	exercises, err := uc.exerciseStorage.FindExercises(ctx, filter)
	if err != nil {
		return nil, domain.StorageError(fmt.Errorf("find exercises: %w", err))
	}

	uc.logger.Debug("exercise log fetched",
		"user_id", user.ID,
		"from", query.From,
		"to", query.To,
		"limit", filter.Limit,
		"count", len(exercises),
	)
	return domain.NewLogResponse(user, exercises), nil
}

// parseBound разбирает необязательную границу диапазона дат
func parseBound(name, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return nil, domain.ValidationError(fmt.Sprintf("invalid %s date %q", name, raw))
	}
	return &t, nil
}

// parseLimit разбирает лимит как parseInt в JavaScript: ведущие пробелы,
// необязательный знак и цифры до первого постороннего символа.
// Нечисловое, нулевое или отрицательное значение означает отсутствие лимита;
// отрицательный лимит не сводится к одной записи, как limit(-1) в MongoDB.
func parseLimit(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
