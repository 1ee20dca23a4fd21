package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

// UserHandler - обработчик HTTP-запросов для работы с пользователями.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: uc, logger: logger}
}

// CreateUser - POST /api/users, поле username.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r, "username")
	if err != nil {
		respondWithDomainError(w, r, err, writePolicy, h.logger)
		return
	}

	user, err := h.userUseCase.CreateUser(r.Context(), fields["username"])
	if err != nil {
		respondWithDomainError(w, r, err, writePolicy, h.logger)
		return
	}

	h.logger.Info("user created", "user_id", user.ID, "username", user.Username)
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// ListUsers - GET /api/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUseCase.ListUsers(r.Context())
	if err != nil {
		respondWithDomainError(w, r, err, writePolicy, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, users, h.logger)
}
