package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
)

// serverErrorMessage - ответ на непредвиденные ошибки
const serverErrorMessage = "Server error"

// respondWithJSON - отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError - отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// errorPolicy задаёт, как отвечать на сбой хранилища на конкретном маршруте
type errorPolicy struct {
	storageStatus int
	// hideStorage заменяет текст ошибки хранилища на serverErrorMessage
	hideStorage bool
}

var (
	// запись: ошибка хранилища возвращается клиенту как 400 с её текстом
	writePolicy = errorPolicy{storageStatus: http.StatusBadRequest}
	// журнал: любая неожиданная ошибка даёт 500 "Server error"
	readPolicy = errorPolicy{storageStatus: http.StatusInternalServerError, hideStorage: true}
)

// statusFor отображает вид ошибки бизнес-логики в HTTP-статус и сообщение
func (p errorPolicy) statusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest, domain.MessageOf(err)
	case domain.KindNotFound:
		return http.StatusNotFound, domain.MessageOf(err)
	case domain.KindStorage:
		if p.hideStorage {
			return p.storageStatus, serverErrorMessage
		}
		return p.storageStatus, domain.MessageOf(err)
	default:
		return http.StatusInternalServerError, serverErrorMessage
	}
}

// respondWithDomainError логирует ошибку и отвечает статусом по её виду
func respondWithDomainError(w http.ResponseWriter, r *http.Request, err error, policy errorPolicy, logger *slog.Logger) {
	code, message := policy.statusFor(err)

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"path", r.URL.Path,
		"status", code,
		"kind", domain.KindOf(err).String(),
		"error", err,
	)

	respondWithError(w, code, message, logger)
}
