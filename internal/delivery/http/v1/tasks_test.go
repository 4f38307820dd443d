package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

// fixedAugmenter serves a canned snapshot for every located task.
type fixedAugmenter struct {
	snapshot *models.WeatherSnapshot
}

func (a *fixedAugmenter) Augment(_ context.Context, task *models.Task) *models.WeatherSnapshot {
	if task.Location == "" {
		return nil
	}
	return a.snapshot
}

func (a *fixedAugmenter) AugmentAll(ctx context.Context, tasks []*models.Task) map[int64]*models.WeatherSnapshot {
	snapshots := make(map[int64]*models.WeatherSnapshot)
	for _, task := range tasks {
		if snapshot := a.Augment(ctx, task); snapshot != nil {
			snapshots[task.ID] = snapshot
		}
	}
	return snapshots
}

func newTestRouter(augmenter services.WeatherAugmenter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	repo := repository.NewMemoryRepository(logger)
	if augmenter == nil {
		augmenter = services.NewWeatherService(logger, nil, nil)
	}

	handler := New(
		logger,
		services.NewTaskService(logger, repo),
		augmenter,
		services.NewStatsService(logger, repo),
	)

	router := gin.New()
	api := router.Group("/api/v1")

	tasksRouter := api.Group("/tasks")
	tasksRouter.POST("", handler.HandleCreateTask)
	tasksRouter.GET("", handler.HandleGetTasks)
	tasksRouter.GET("/search", handler.HandleSearchTasks)
	tasksRouter.GET("/:id", handler.HandleGetTask)
	tasksRouter.PUT("/:id", handler.HandleUpdateTask)
	tasksRouter.POST("/:id/toggle", handler.HandleToggleTaskStatus)
	tasksRouter.DELETE("/:id", handler.HandleDeleteTask)

	api.GET("/stats", handler.HandleGetStats)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeTask(t *testing.T, body []byte) taskResponse {
	t.Helper()

	var task taskResponse
	require.NoError(t, json.Unmarshal(body, &task))
	return task
}

func TestHandleCreateTask(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "Buy milk", "category": "shopping"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	task := decodeTask(t, rec.Body.Bytes())
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.CategoryShopping, task.Category)
}

func TestHandleCreateTaskWithoutTitle(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"description": "no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Tasks []taskResponse `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Tasks)
}

func TestHandleCreateTaskRejectsBadEnumsAndDates(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "t", "priority": "urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "t", "due_date": "tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "t", "due_date": "2025-07-01T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decodeTask(t, rec.Body.Bytes())
	require.NotNil(t, task.DueDate)
}

func TestHandleGetTask(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title": "detail me"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	task := decodeTask(t, rec.Body.Bytes())
	assert.Equal(t, "detail me", task.Title)
	assert.Nil(t, task.Weather)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetTaskWithWeather(t *testing.T) {
	augmenter := &fixedAugmenter{snapshot: &models.WeatherSnapshot{
		Temperature:  18.5,
		Condition:    "Rain",
		Location:     "Tokyo",
		IsBadWeather: true,
	}}
	router := newTestRouter(augmenter)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "meet client", "location": "Tokyo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	task := decodeTask(t, rec.Body.Bytes())
	require.NotNil(t, task.Weather)
	assert.Equal(t, "Rain", task.Weather.Condition)
	assert.True(t, task.Weather.IsBadWeather)
}

func TestHandleGetTasksFilterAndSort(t *testing.T) {
	router := newTestRouter(nil)

	for _, body := range []string{
		`{"title": "low prio", "priority": "low"}`,
		`{"title": "high prio", "priority": "high"}`,
		`{"title": "done", "status": "completed"}`,
	} {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Tasks []taskResponse `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Tasks, 2)
	for _, task := range listing.Tasks {
		assert.Equal(t, models.StatusPending, task.Status)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks?sort=priority&order=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Tasks, 3)
	assert.Equal(t, "high prio", listing.Tasks[0].Title)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdateTask(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "original", "description": "keep me"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/tasks/1",
		`{"title": "renamed", "priority": "high"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	task := decodeTask(t, rec.Body.Bytes())
	assert.Equal(t, "renamed", task.Title)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "keep me", task.Description)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/tasks/1", `{"status": "archived"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/api/v1/tasks/42", `{"title": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleToggleTaskStatus(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title": "flip"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/tasks/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	task := decodeTask(t, rec.Body.Bytes())
	assert.Equal(t, models.StatusCompleted, task.Status)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/tasks/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	task = decodeTask(t, rec.Body.Bytes())
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestHandleDeleteTask(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title": "short lived"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSearchTasks(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title": "Buy Milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title": "unrelated"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/tasks/search?q=milk", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var results struct {
		Results []taskResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results.Results, 1)
	assert.Equal(t, "Buy Milk", results.Results[0].Title)
}

func TestHandleGetStats(t *testing.T) {
	router := newTestRouter(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks",
		`{"title": "work thing", "category": "work", "priority": "high"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/tasks/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.InDelta(t, 1.0, stats.CompletionRate, 1e-9)
	assert.Equal(t, int64(1), stats.ByCategory[models.CategoryWork])
}
