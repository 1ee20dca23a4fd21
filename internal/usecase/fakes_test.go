package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

// memoryStore - in-memory реализация портов хранилища для тестов
type memoryStore struct {
	mu        sync.Mutex
	seq       int
	users     []domain.User
	exercises []domain.Exercise

	failCreateUser     error
	failGetUser        error
	failCreateExercise error
	failFind           error
	lastFilter         domain.ExerciseFilter
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (m *memoryStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateUser != nil {
		return m.failCreateUser
	}
	user.ID = m.nextID("user")
	m.users = append(m.users, *user)
	return nil
}

func (m *memoryStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGetUser != nil {
		return nil, m.failGetUser
	}
	for _, u := range m.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.User(nil), m.users...), nil
}

func (m *memoryStore) CreateExercise(ctx context.Context, exercise *domain.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateExercise != nil {
		return m.failCreateExercise
	}
	exercise.ID = m.nextID("exercise")
	m.exercises = append(m.exercises, *exercise)
	return nil
}

func (m *memoryStore) FindExercises(ctx context.Context, filter domain.ExerciseFilter) ([]domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	if m.failFind != nil {
		return nil, m.failFind
	}

	var out []domain.Exercise
	for _, e := range m.exercises {
		if e.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *memoryStore) exerciseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exercises)
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu       sync.Mutex
	payloads []payloads.ExerciseLoggedPayload
	err      error
}

func (p *recordingPublisher) PublishExerciseLogged(ctx context.Context, payload payloads.ExerciseLoggedPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

var errStorageDown = errors.New("storage is down")
