package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

// ExerciseHandler - обработчик HTTP-запросов для упражнений и журнала.
type ExerciseHandler struct {
	exerciseUseCase usecase.ExerciseUseCase
	logger          *slog.Logger
}

// NewExerciseHandler создаёт новый экземпляр ExerciseHandler.
func NewExerciseHandler(uc usecase.ExerciseUseCase, logger *slog.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseUseCase: uc, logger: logger}
}

// AddExercise - POST /api/users/{id}/exercises, поля description, duration и необязательное date.
func (h *ExerciseHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	fields, err := readFields(w, r, "description", "duration", "date")
	if err != nil {
		respondWithDomainError(w, r, err, writePolicy, h.logger)
		return
	}

	view, err := h.exerciseUseCase.AddExercise(r.Context(), usecase.AddExerciseInput{
		UserID:      userID,
		Description: fields["description"],
		Duration:    fields["duration"],
		Date:        fields["date"],
	})
	if err != nil {
		respondWithDomainError(w, r, err, writePolicy, h.logger)
		return
	}

	h.logger.Info("exercise added", "user_id", userID, "date", view.Date)
	respondWithJSON(w, http.StatusOK, view, h.logger)
}

// GetLogs - GET /api/users/{id}/logs?from=&to=&limit=.
func (h *ExerciseHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := usecase.LogQuery{
		UserID: chi.URLParam(r, "id"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Limit:  q.Get("limit"),
	}

	logs, err := h.exerciseUseCase.GetLogs(r.Context(), query)
	if err != nil {
		respondWithDomainError(w, r, err, readPolicy, h.logger)
		return
	}

	h.logger.Debug("logs served", "user_id", query.UserID, "count", logs.Count)
	respondWithJSON(w, http.StatusOK, logs, h.logger)
}
