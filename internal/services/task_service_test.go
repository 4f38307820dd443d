package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

func newTestTaskService() (TaskService, repository.TaskRepository) {
	repo := repository.NewMemoryRepository(zerolog.Nop())
	return NewTaskService(zerolog.Nop(), repo), repo
}

func TestTaskService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestTaskService()

	task, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Title:    "Buy milk",
		Category: models.CategoryShopping,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.CategoryShopping, task.Category)
	assert.False(t, task.CreatedAt.IsZero())
	assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
}

func TestTaskService_CreateWithoutTitle(t *testing.T) {
	svc, repo := newTestTaskService()

	_, err := svc.CreateTask(context.Background(), CreateTaskParams{Title: "   "})
	require.ErrorIs(t, err, ErrTitleRequired)

	// Nothing must be persisted by a rejected create.
	tasks, err := repo.List(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_CreateRejectsInvalidEnums(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskParams{Title: "t", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "t", Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "t", Category: "hobbies"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestTaskService_GetTaskNotFound(t *testing.T) {
	svc, _ := newTestTaskService()

	_, err := svc.GetTask(context.Background(), 99)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_UpdateAppliesPartialFields(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskParams{
		Title:       "Walk the dog",
		Description: "around the block",
	})
	require.NoError(t, err)

	newTitle := "Walk both dogs"
	newPriority := models.PriorityHigh
	updated, err := svc.UpdateTask(ctx, created.ID, UpdateTaskParams{
		Title:    &newTitle,
		Priority: &newPriority,
	})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	// Untouched fields survive the update.
	assert.Equal(t, "around the block", updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestTaskService_UpdateRejectsEmptyTitle(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskParams{Title: "keep me"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateTask(ctx, created.ID, UpdateTaskParams{Title: &empty})
	require.ErrorIs(t, err, ErrTitleRequired)

	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestTaskService_UpdateUnknownID(t *testing.T) {
	svc, _ := newTestTaskService()

	title := "ghost"
	_, err := svc.UpdateTask(context.Background(), 42, UpdateTaskParams{Title: &title})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_UpdateClearsDueDate(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	due := time.Now().Add(24 * time.Hour)
	created, err := svc.CreateTask(ctx, CreateTaskParams{
		Title:   "with deadline",
		DueDate: &due,
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	updated, err := svc.UpdateTask(ctx, created.ID, UpdateTaskParams{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestTaskService_ToggleTaskStatus(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskParams{Title: "flip me"})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, created.Status)

	toggled, err := svc.ToggleTaskStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, toggled.Status)

	toggled, err = svc.ToggleTaskStatus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, toggled.Status)
}

func TestTaskService_DeleteTask(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskParams{Title: "short lived"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	_, err = svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_ListValidatesFilter(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	_, err := svc.ListTasks(ctx, repository.ListFilter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)

	_, err = svc.ListTasks(ctx, repository.ListFilter{SortBy: "title"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = svc.ListTasks(ctx, repository.ListFilter{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = svc.ListTasks(ctx, repository.ListFilter{Category: "hobbies"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestTaskService_ListSortedByPriority(t *testing.T) {
	svc, _ := newTestTaskService()
	ctx := context.Background()

	// Created low first, high second: rank must win over recency.
	_, err := svc.CreateTask(ctx, CreateTaskParams{
		Title: "low", Priority: models.PriorityLow,
	})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, CreateTaskParams{
		Title: "high", Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, repository.ListFilter{
		SortBy: repository.SortByPriority,
		Order:  repository.OrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "high", tasks[0].Title)
	assert.Equal(t, "low", tasks[1].Title)
}
