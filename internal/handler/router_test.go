package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/database/client"
	"github.com/GoArmGo/ExerciseTracker/internal/database/storage"
	"github.com/GoArmGo/ExerciseTracker/internal/domain"
	"github.com/GoArmGo/ExerciseTracker/internal/logger"
	"github.com/GoArmGo/ExerciseTracker/internal/metrics"
	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

type testServer struct {
	router http.Handler
	db     *client.Client
	reg    *prometheus.Registry
}

// newTestServer собирает маршрутизатор поверх SQLite во временном каталоге
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.Discard()
	cfg := &config.Config{DatabaseURL: "sqlite://" + filepath.Join(t.TempDir(), "tracker.db")}
	db, err := client.NewClient(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	users := storage.NewUserStorage(db.DB, log)
	exercises := storage.NewExerciseStorage(db.DB, log)

	router := NewRouter(RouterDeps{
		Users:             NewUserHandler(usecase.NewUserUseCase(users, collector, log), log),
		Exercises:         NewExerciseHandler(usecase.NewExerciseUseCase(users, exercises, nil, collector, log), log),
		Health:            NewHealthHandler(db, log),
		Collector:         collector,
		MetricsHandler:    metrics.Handler(reg),
		CORSAllowedOrigin: "*",
		Logger:            log,
	})
	return &testServer{router: router, db: db, reg: reg}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) createUser(t *testing.T, username string) domain.User {
	t.Helper()
	rec := s.postForm(t, "/api/users", url.Values{"username": {username}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[domain.User](t, rec)
}

func TestTrackerScenario(t *testing.T) {
	s := newTestServer(t)

	user := s.createUser(t, "fcc_test")
	require.NotEmpty(t, user.ID)
	require.Equal(t, "fcc_test", user.Username)

	rec := s.postForm(t, "/api/users/"+user.ID+"/exercises", url.Values{
		"description": {"test"},
		"duration":    {"60"},
		"date":        {"2023-01-01"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"id":"`+user.ID+`","username":"fcc_test","description":"test","duration":60,"date":"Sun Jan 01 2023"}`, rec.Body.String())

	rec = s.get(t, "/api/users/"+user.ID+"/logs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":"`+user.ID+`","username":"fcc_test","count":1,"log":[{"description":"test","duration":60,"date":"Sun Jan 01 2023"}]}`, rec.Body.String())

	rec = s.get(t, "/api/users")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[{"id":"`+user.ID+`","username":"fcc_test"}]`, rec.Body.String())
}

func TestListUsersEmpty(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/api/users")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateUserValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.postForm(t, "/api/users", url.Values{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "username is required", decode[map[string]string](t, rec)["error"])

	rec = s.get(t, "/api/users")
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateUserAcceptsJSONAndMultipart(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"username":"json_user"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "json_user", decode[domain.User](t, rec).Username)

	body := "--b\r\nContent-Disposition: form-data; name=\"username\"\r\n\r\nform_user\r\n--b--\r\n"
	req = httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	rec = s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "form_user", decode[domain.User](t, rec).Username)
}

func TestAddExerciseJSONNumberDuration(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "alice")

	req := httptest.NewRequest(http.MethodPost, "/api/users/"+user.ID+"/exercises",
		strings.NewReader(`{"description":"bike","duration":42.5,"date":"2023-05-20"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := decode[domain.ExerciseView](t, rec)
	require.Equal(t, 42.5, view.Duration)
	require.Equal(t, "Sat May 20 2023", view.Date)
}

func TestAddExerciseErrors(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "alice")

	rec := s.postForm(t, "/api/users/5b7a6f2e-6a4c-4c57-9a3e-1f0f6a1f8d11/exercises", url.Values{
		"description": {"run"}, "duration": {"30"},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", decode[map[string]string](t, rec)["error"])

	rec = s.postForm(t, "/api/users/not-an-id/exercises", url.Values{
		"description": {"run"}, "duration": {"30"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	for name, form := range map[string]url.Values{
		"missing description": {"duration": {"30"}},
		"missing duration":    {"description": {"run"}},
		"bad duration":        {"description": {"run"}, "duration": {"half an hour"}},
		"bad date":            {"description": {"run"}, "duration": {"30"}, "date": {"someday"}},
	} {
		rec = s.postForm(t, "/api/users/"+user.ID+"/exercises", form)
		require.Equal(t, http.StatusBadRequest, rec.Code, name)
		require.NotEmpty(t, decode[map[string]string](t, rec)["error"], name)
	}

	rec = s.get(t, "/api/users/"+user.ID+"/logs")
	require.Equal(t, 0, decode[domain.LogResponse](t, rec).Count)
}

func TestGetLogsFilters(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "alice")

	for i, date := range []string{"2023-01-01", "2023-01-05", "2023-01-10", "2023-01-15"} {
		rec := s.postForm(t, "/api/users/"+user.ID+"/exercises", url.Values{
			"description": {"run " + date},
			"duration":    {strings.Repeat("1", i+1)},
			"date":        {date},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	cases := map[string]int{
		"":                               4,
		"?limit=2":                       2,
		"?limit=abc":                     4,
		"?from=2023-01-05":               3,
		"?to=2023-01-05":                 2,
		"?from=2023-01-05&to=2023-01-10": 2,
		"?from=2024-01-01":               0,

		"?from=2023-01-02&to=2023-01-15&limit=1": 1,
	}
	for query, want := range cases {
		rec := s.get(t, "/api/users/"+user.ID+"/logs"+query)
		require.Equal(t, http.StatusOK, rec.Code, query)
		logs := decode[domain.LogResponse](t, rec)
		require.Equal(t, want, logs.Count, query)
		require.Len(t, logs.Log, want, query)
		require.Equal(t, "alice", logs.Username)
	}

	rec := s.get(t, "/api/users/"+user.ID+"/logs?from=2023-01-05&to=2023-01-10")
	logs := decode[domain.LogResponse](t, rec)
	require.Equal(t, "Thu Jan 05 2023", logs.Log[0].Date)
	require.Equal(t, "Tue Jan 10 2023", logs.Log[1].Date)
}

func TestGetLogsErrors(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "alice")

	rec := s.get(t, "/api/users/5b7a6f2e-6a4c-4c57-9a3e-1f0f6a1f8d11/logs")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", decode[map[string]string](t, rec)["error"])

	rec = s.get(t, "/api/users/"+user.ID+"/logs?from=yesterday")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get(t, "/api/users/not-an-id/logs")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Server error", decode[map[string]string](t, rec)["error"])
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, s.db.Close())
	rec = s.get(t, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStaticPages(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Exercise tracker")

	rec = s.get(t, "/public/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = s.get(t, "/public/missing.js")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointUsesRoutePatterns(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "alice")
	s.get(t, "/api/users/"+user.ID+"/logs")

	rec := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `exercise_tracker_http_requests_total{method="GET",route="/api/users/{id}/logs",status="200"} 1`)
	require.Contains(t, body, "exercise_tracker_users_created_total 1")
	require.NotContains(t, body, user.ID)
}

func TestMetricsCountRecoveredPanics(t *testing.T) {
	s := newTestServer(t)
	mux, ok := s.router.(*chi.Mux)
	require.True(t, ok)
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := s.get(t, "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := s.get(t, "/metrics").Body.String()
	require.Contains(t, body, `exercise_tracker_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "https://www.freecodecamp.org")
	rec := s.do(t, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.get(t, "/api/users")
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
