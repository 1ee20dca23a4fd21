package ports

import (
	"context"

	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

// ExerciseEventPublisher публикует события о добавленных упражнениях.
// Используется бизнес-логикой после успешного сохранения упражнения
type ExerciseEventPublisher interface {
	PublishExerciseLogged(ctx context.Context, payload payloads.ExerciseLoggedPayload) error
}

// ExerciseEventConsumer потребляет события о добавленных упражнениях,
// используется воркером
type ExerciseEventConsumer interface {
	// StartConsumingExerciseLogged начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingExerciseLogged(ctx context.Context, handler func(context.Context, payloads.ExerciseLoggedPayload) error) error
}

// ExerciseEventArchiver сохраняет полученные воркером события во внешнее хранилище
type ExerciseEventArchiver interface {
	ArchiveExerciseLogged(ctx context.Context, payload payloads.ExerciseLoggedPayload) error
}
