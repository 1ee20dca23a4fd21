package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUserCreated()
	c.RecordUserCreated()
	c.RecordExerciseLogged()
	c.RecordExerciseMinutes(30)
	c.RecordExerciseMinutes(-5)
	c.RecordEventConsumed("ok")
	c.RecordEventConsumed("failed")
	c.RecordEventConsumed("ok")

	require.Equal(t, 2.0, testutil.ToFloat64(c.usersCreated))
	require.Equal(t, 1.0, testutil.ToFloat64(c.exercisesLogged))
	require.Equal(t, 30.0, testutil.ToFloat64(c.exerciseMinutes))
	require.Equal(t, 2.0, testutil.ToFloat64(c.eventsConsumed.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.eventsConsumed.WithLabelValues("failed")))
}

func TestCollectorHTTPAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, "/api/users", http.StatusOK, 15*time.Millisecond)
	require.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/users", "200")))

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "exercise_tracker_http_requests_total")
	require.Contains(t, rr.Body.String(), "exercise_tracker_users_created_total")
}
