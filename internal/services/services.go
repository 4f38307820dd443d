package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")

	ErrInvalidTask     = errors.New("invalid task fields")
	ErrTitleRequired   = errors.New("task title is required")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidCategory = errors.New("invalid task category")

	ErrInvalidStatusFilter = errors.New("invalid status filter")
	ErrInvalidSort         = errors.New("invalid sort key")
	ErrInvalidOrder        = errors.New("invalid sort order")
)

type TaskService interface {
	// CreateTask validates the fields, applies the defaults (medium
	// priority, pending status) and persists the task.
	//
	// It returns ErrTitleRequired for an empty title and the
	// matching ErrInvalid* for a value outside its enumerated set.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTask returns ErrTaskNotFound for an unknown id.
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// ListTasks validates the filter and returns the matching tasks
	// in the filter's order. All provided filters must match at once.
	ListTasks(ctx context.Context, filter repository.ListFilter) ([]*models.Task, error)

	// UpdateTask applies the provided fields only. Nil fields stay
	// untouched. It validates changed fields the same way CreateTask
	// does and bumps the updated_at timestamp.
	UpdateTask(ctx context.Context, id int64, params UpdateTaskParams) (*models.Task, error)

	// ToggleTaskStatus flips a task between pending and completed.
	ToggleTaskStatus(ctx context.Context, id int64) (*models.Task, error)

	// DeleteTask removes the task for good.
	DeleteTask(ctx context.Context, id int64) error
}

type CreateTaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
	Category    string
	Location    string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	// ClearDueDate removes the due date; it wins over DueDate.
	ClearDueDate bool
	Priority     *string
	Status       *string
	Category     *string
	Location     *string
}

// WeatherAugmenter attaches transient weather data to task responses.
// Augmentation is best effort: a lookup that fails for any reason
// yields no snapshot, never an error, so an unreliable provider
// cannot destabilize a list or detail request.
type WeatherAugmenter interface {
	Augment(ctx context.Context, task *models.Task) *models.WeatherSnapshot

	// AugmentAll resolves snapshots for every task with a location,
	// keyed by task id. Lookups are deduplicated by city within
	// the call.
	AugmentAll(ctx context.Context, tasks []*models.Task) map[int64]*models.WeatherSnapshot
}

// WeatherProvider is the upstream weather API.
type WeatherProvider interface {
	CurrentByCity(ctx context.Context, city string) (*models.WeatherSnapshot, error)
}

// WeatherCache is an optional snapshot cache in front of the provider.
type WeatherCache interface {
	Get(ctx context.Context, city string) (*models.WeatherSnapshot, bool)
	Set(ctx context.Context, city string, snapshot *models.WeatherSnapshot)
}

type StatsService interface {
	GetStats(ctx context.Context) (*TaskStatsResult, error)
}

type TaskStatsResult struct {
	Total          int64
	Pending        int64
	Completed      int64
	Overdue        int64
	CompletionRate float64
	ByCategory     map[string]int64
	ByPriority     map[string]int64
}
