package repository

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")

	// ErrConstraintViolated is returned when the backend rejects a
	// record, e.g. a CHECK constraint on an enum column. Callers are
	// expected to validate before writing, so hitting this means a
	// value slipped past validation.
	ErrConstraintViolated = errors.New("task constraint violated")
)

const (
	StatusFilterAll = "all"

	SortByPriority  = "priority"
	SortByDueDate   = "due_date"
	SortByCreatedAt = "created_at"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListFilter narrows and orders a task listing. Zero values mean
// "not applied". All provided filters must match at once.
type ListFilter struct {
	// Status is pending, completed or all. Empty equals all.
	Status string
	// Category matches exactly when set.
	Category string
	// Keyword matches case-insensitively as a substring of the
	// title or the description.
	Keyword string
	// SortBy is priority, due_date or created_at (the default).
	SortBy string
	// Order is asc or desc. Empty picks the per-key default:
	// priority desc (high first), due_date asc, created_at desc.
	Order string
}

func (f ListFilter) SortKey() string {
	switch f.SortBy {
	case SortByPriority, SortByDueDate:
		return f.SortBy
	default:
		return SortByCreatedAt
	}
}

func (f ListFilter) Direction() string {
	if f.Order == OrderAsc || f.Order == OrderDesc {
		return f.Order
	}

	switch f.SortKey() {
	case SortByDueDate:
		return OrderAsc
	default:
		// Both priority and created_at default to descending:
		// high urgency first, newest first.
		return OrderDesc
	}
}

func (f ListFilter) FiltersByStatus() bool {
	return f.Status != "" && f.Status != StatusFilterAll
}

type TaskStats struct {
	Total      int64
	Pending    int64
	Completed  int64
	Overdue    int64
	ByCategory map[string]int64
	ByPriority map[string]int64
}

type TaskRepository interface {
	// Create persists the task and fills in its ID.
	Create(ctx context.Context, task *models.Task) error

	// GetByID returns ErrTaskNotFound for an unknown id.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// List returns tasks matching the filter in the filter's order.
	// The result is recomputed on every call.
	List(ctx context.Context, filter ListFilter) ([]*models.Task, error)

	// Update overwrites the stored record with the given task.
	// It returns ErrTaskNotFound for an unknown id.
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the record for good. It returns
	// ErrTaskNotFound for an unknown id.
	Delete(ctx context.Context, id int64) error

	// CollectStats aggregates counters over the whole store.
	// A task counts as overdue when its due date is before now
	// and it is still pending.
	CollectStats(ctx context.Context, now time.Time) (*TaskStats, error)

	Close()
}
