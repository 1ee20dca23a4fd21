package domain

import (
	"time"
)

// Exercise представляет запись об упражнении пользователя,
// соответствует таблице exercises в бд
type Exercise struct {
	ID          string    `json:"id" db:"id" gorm:"primaryKey"`
	UserID      string    `json:"userId" db:"user_id"`
	Description string    `json:"description" db:"description"`
	Duration    float64   `json:"duration" db:"duration"`
	Date        time.Time `json:"date" db:"date"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// ExerciseFilter описывает выборку упражнений одного пользователя.
// From и To включительные, nil означает отсутствие границы.
// Limit <= 0 означает выборку без ограничения.
type ExerciseFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// ExerciseView - ответ на добавление упражнения: данные пользователя
// вместе с данными одного упражнения.
type ExerciseView struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// LogEntry - упражнение в журнале пользователя (без id и userId).
type LogEntry struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// LogResponse - журнал упражнений пользователя.
type LogResponse struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// NewExerciseView собирает ответ на добавление упражнения.
func NewExerciseView(user *User, exercise *Exercise) *ExerciseView {
	return &ExerciseView{
		ID:          user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        FormatDate(exercise.Date),
	}
}

// NewLogResponse собирает журнал из найденных упражнений.
func NewLogResponse(user *User, exercises []Exercise) *LogResponse {
	log := make([]LogEntry, 0, len(exercises))
	for _, e := range exercises {
		log = append(log, LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        FormatDate(e.Date),
		})
	}
	return &LogResponse{
		ID:       user.ID,
		Username: user.Username,
		Count:    len(log),
		Log:      log,
	}
}
