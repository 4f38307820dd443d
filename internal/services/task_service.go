package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	repo   repository.TaskRepository
}

func NewTaskService(
	logger zerolog.Logger,
	repo repository.TaskRepository,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		DueDate:     params.DueDate,
		Priority:    params.Priority,
		Status:      params.Status,
		Category:    params.Category,
		Location:    params.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}

	err := validateTask(task)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("rejected task")
		return nil, err
	}

	err = s.repo.Create(ctx, task)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, filter repository.ListFilter) ([]*models.Task, error) {
	err := validateListFilter(filter)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("rejected list filter")
		return nil, err
	}

	tasks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if params.Title != nil {
		task.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.ClearDueDate {
		task.DueDate = nil
	} else if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Category != nil {
		task.Category = *params.Category
	}
	if params.Location != nil {
		task.Location = *params.Location
	}

	err = validateTask(task)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("task_id", id).
			Msg("rejected task update")
		return nil, err
	}

	task.UpdatedAt = time.Now()
	err = s.repo.Update(ctx, task)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) ToggleTaskStatus(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if task.Status == models.StatusCompleted {
		task.Status = models.StatusPending
	} else {
		task.Status = models.StatusCompleted
	}

	task.UpdatedAt = time.Now()
	err = s.repo.Update(ctx, task)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logger.Info().
		Int64("task_id", id).
		Str("status", task.Status).
		Msg("toggled task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

func validateTask(task *models.Task) error {
	if task.Title == "" {
		return ErrTitleRequired
	}
	if !models.IsValidPriority(task.Priority) {
		return ErrInvalidPriority
	}
	if !models.IsValidStatus(task.Status) {
		return ErrInvalidStatus
	}
	if task.Category != "" && !models.IsValidCategory(task.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func validateListFilter(filter repository.ListFilter) error {
	switch filter.Status {
	case "", repository.StatusFilterAll,
		models.StatusPending, models.StatusCompleted:
	default:
		return ErrInvalidStatusFilter
	}

	switch filter.SortBy {
	case "", repository.SortByPriority,
		repository.SortByDueDate, repository.SortByCreatedAt:
	default:
		return ErrInvalidSort
	}

	switch filter.Order {
	case "", repository.OrderAsc, repository.OrderDesc:
	default:
		return ErrInvalidOrder
	}

	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, repository.ErrConstraintViolated):
		// The database agreed with what validation should have
		// caught; surface it the same way.
		return ErrInvalidTask
	default:
		return err
	}
}
