package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

// memoryRepository keeps tasks in process memory. It exists for
// running the tool without Postgres and for tests; records do not
// survive a restart.
type memoryRepository struct {
	logger zerolog.Logger

	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*models.Task
}

func NewMemoryRepository(logger zerolog.Logger) TaskRepository {
	return &memoryRepository{
		logger: logger,
		nextID: 1,
		tasks:  make(map[int64]*models.Task),
	}
}

func (r *memoryRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.nextID++

	stored := *task
	r.tasks[task.ID] = &stored

	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("stored task")
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		r.logger.Warn().
			Int64("task_id", id).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	task := *stored
	return &task, nil
}

func (r *memoryRepository) List(_ context.Context, filter ListFilter) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]*models.Task, 0, len(r.tasks))
	for _, stored := range r.tasks {
		if !matchesFilter(stored, filter) {
			continue
		}
		task := *stored
		tasks = append(tasks, &task)
	}

	sortTasks(tasks, filter)

	r.logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

func matchesFilter(task *models.Task, filter ListFilter) bool {
	if filter.FiltersByStatus() && task.Status != filter.Status {
		return false
	}
	if filter.Category != "" && task.Category != filter.Category {
		return false
	}
	if filter.Keyword != "" {
		keyword := strings.ToLower(filter.Keyword)
		if !strings.Contains(strings.ToLower(task.Title), keyword) &&
			!strings.Contains(strings.ToLower(task.Description), keyword) {
			return false
		}
	}
	return true
}

func sortTasks(tasks []*models.Task, filter ListFilter) {
	descending := filter.Direction() == OrderDesc

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		switch filter.SortKey() {
		case SortByPriority:
			ra, rb := models.PriorityRank(a.Priority), models.PriorityRank(b.Priority)
			if ra != rb {
				// Descending priority puts the lowest
				// rank, i.e. the most urgent, first.
				if descending {
					return ra < rb
				}
				return ra > rb
			}
		case SortByDueDate:
			// Tasks without a due date always go last.
			switch {
			case a.DueDate == nil && b.DueDate != nil:
				return false
			case a.DueDate != nil && b.DueDate == nil:
				return true
			case a.DueDate != nil && b.DueDate != nil &&
				!a.DueDate.Equal(*b.DueDate):
				if descending {
					return a.DueDate.After(*b.DueDate)
				}
				return a.DueDate.Before(*b.DueDate)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				if descending {
					return a.CreatedAt.After(b.CreatedAt)
				}
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}

		// Ties on the primary key break by creation time ascending.
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *memoryRepository) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tasks[task.ID]
	if !ok {
		r.logger.Warn().
			Int64("task_id", task.ID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	stored := *task
	r.tasks[task.ID] = &stored

	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tasks[id]
	if !ok {
		r.logger.Warn().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	delete(r.tasks, id)

	r.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

func (r *memoryRepository) CollectStats(_ context.Context, now time.Time) (*TaskStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &TaskStats{
		ByCategory: make(map[string]int64),
		ByPriority: make(map[string]int64),
	}
	for _, task := range r.tasks {
		stats.Total++
		switch task.Status {
		case models.StatusPending:
			stats.Pending++
			if task.DueDate != nil && task.DueDate.Before(now) {
				stats.Overdue++
			}
		case models.StatusCompleted:
			stats.Completed++
		}
		if task.Category != "" {
			stats.ByCategory[task.Category]++
		}
		if task.Priority != "" {
			stats.ByPriority[task.Priority]++
		}
	}

	return stats, nil
}

func (r *memoryRepository) Close() {}
