package usecase

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/logger"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
)

func newTestCollector() *metrics.Collector {
	return metrics.NewCollector(prometheus.NewRegistry())
}

func TestCreateUser(t *testing.T) {
	store := newMemoryStore()
	uc := NewUserUseCase(store, newTestCollector(), logger.Discard())

	first, err := uc.CreateUser(context.Background(), "fcc_test")
	require.NoError(t, err)
	require.Equal(t, "fcc_test", first.Username)
	require.NotEmpty(t, first.ID)

	second, err := uc.CreateUser(context.Background(), "fcc_test")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID, "ids must be unique even for equal usernames")
}

func TestCreateUserRequiresUsername(t *testing.T) {
	store := newMemoryStore()
	uc := NewUserUseCase(store, newTestCollector(), logger.Discard())

	for _, username := range []string{"", "   "} {
		user, err := uc.CreateUser(context.Background(), username)
		require.Nil(t, user)
		require.Equal(t, domain.KindValidation, domain.KindOf(err))
	}

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users, "nothing must be persisted")
}

func TestCreateUserStorageFailure(t *testing.T) {
	store := newMemoryStore()
	store.failCreateUser = errStorageDown
	uc := NewUserUseCase(store, newTestCollector(), logger.Discard())

	_, err := uc.CreateUser(context.Background(), "alice")
	require.Equal(t, domain.KindStorage, domain.KindOf(err))
	require.ErrorIs(t, err, errStorageDown)
}

func TestListUsers(t *testing.T) {
	store := newMemoryStore()
	uc := NewUserUseCase(store, newTestCollector(), logger.Discard())

	users, err := uc.ListUsers(context.Background())
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := uc.CreateUser(context.Background(), name)
		require.NoError(t, err)
	}

	users, err = uc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "alice", users[0].Username)
	require.Equal(t, "carol", users[2].Username)
}
