package payloads

import "time"

// ExerciseLoggedEvent - тип события в заголовке сообщения
const ExerciseLoggedEvent = "exercise.logged"

// ExerciseLoggedPayload представляет событие о сохранённом упражнении,
// которое передаётся через RabbitMQ.
type ExerciseLoggedPayload struct {
	ExerciseID  string    `json:"exercise_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Date        time.Time `json:"date"`
	LoggedAt    time.Time `json:"logged_at"`
}
