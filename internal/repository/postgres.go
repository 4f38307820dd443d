package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type postgresRepository struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresRepository(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskRepository {
	return &postgresRepository{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *postgresRepository) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (title,
                   description,
                   due_date,
                   priority,
                   status,
                   category,
                   location,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`
	err := r.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Category,
		task.Location,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		if isConstraintViolation(err) {
			r.logger.Error().
				Err(err).
				Msg("task rejected by constraint")
			return ErrConstraintViolated
		}

		r.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id,
       title,
       description,
       due_date,
       priority,
       status,
       category,
       location,
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	task := new(models.Task)
	err := r.pgPool.QueryRow(ctx, selectTaskQuery, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&task.Category,
		&task.Location,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	return task, nil
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Task, error) {
	query, args := buildListQuery(filter)

	rows, err := r.pgPool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := new(models.Task)
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Priority,
			&task.Status,
			&task.Category,
			&task.Location,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	r.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func buildListQuery(filter ListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
SELECT id,
       title,
       description,
       due_date,
       priority,
       status,
       category,
       location,
       created_at,
       updated_at
FROM tasks
`)

	var (
		conds []string
		args  []any
	)
	if filter.FiltersByStatus() {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d)",
			len(args), len(args),
		))
	}
	if len(conds) > 0 {
		sb.WriteString("WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
		sb.WriteString("\n")
	}

	sb.WriteString("ORDER BY ")
	sb.WriteString(orderByClause(filter))
	return sb.String(), args
}

// orderByClause renders the sort contract. Priority sorts by an
// explicit rank so that high outranks medium outranks low. Ties fall
// back to created_at ascending to keep results deterministic.
func orderByClause(filter ListFilter) string {
	const priorityRank = `
CASE priority
    WHEN 'high' THEN 1
    WHEN 'medium' THEN 2
    WHEN 'low' THEN 3
    ELSE 4
END`

	descending := filter.Direction() == OrderDesc
	switch filter.SortKey() {
	case SortByPriority:
		// Descending priority means the most urgent rank first.
		if descending {
			return priorityRank + " ASC, created_at ASC"
		}
		return priorityRank + " DESC, created_at ASC"
	case SortByDueDate:
		if descending {
			return "due_date DESC NULLS LAST, created_at ASC"
		}
		return "due_date ASC NULLS LAST, created_at ASC"
	default:
		if descending {
			return "created_at DESC"
		}
		return "created_at ASC"
	}
}

func (r *postgresRepository) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    due_date = $3,
    priority = $4,
    status = $5,
    category = $6,
    location = $7,
    updated_at = $8
WHERE id = $9
`
	tag, err := r.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Category,
		task.Location,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			r.logger.Error().
				Err(err).
				Int64("task_id", task.ID).
				Msg("task update rejected by constraint")
			return ErrConstraintViolated
		}

		r.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Int64("task_id", task.ID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := r.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	r.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

func (r *postgresRepository) CollectStats(ctx context.Context, now time.Time) (*TaskStats, error) {
	const selectCountersQuery = `
SELECT count(*),
       count(*) FILTER (WHERE status = 'pending'),
       count(*) FILTER (WHERE status = 'completed'),
       count(*) FILTER (WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < $1)
FROM tasks
`
	stats := &TaskStats{
		ByCategory: make(map[string]int64),
		ByPriority: make(map[string]int64),
	}
	err := r.pgPool.QueryRow(ctx, selectCountersQuery, now).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Completed,
		&stats.Overdue,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return nil, err
	}

	err = r.countByColumn(ctx, "category", stats.ByCategory)
	if err != nil {
		return nil, err
	}
	err = r.countByColumn(ctx, "priority", stats.ByPriority)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *postgresRepository) countByColumn(ctx context.Context, column string, into map[string]int64) error {
	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`
SELECT %s, count(*)
FROM tasks
WHERE %s <> ''
GROUP BY %s
`, column, column, column)

	rows, err := r.pgPool.Query(ctx, query)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("column", column).
			Msg("failed to count tasks by column")
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			value string
			count int64
		)
		err = rows.Scan(&value, &count)
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("column", column).
				Msg("failed to scan counter")
			return err
		}
		into[value] = count
	}

	return rows.Err()
}

func (r *postgresRepository) Close() {
	r.pgPool.Close()
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
}
