package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

type statsServiceImpl struct {
	logger zerolog.Logger
	repo   repository.TaskRepository
}

func NewStatsService(
	logger zerolog.Logger,
	repo repository.TaskRepository,
) StatsService {
	return &statsServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *statsServiceImpl) GetStats(ctx context.Context) (*TaskStatsResult, error) {
	stats, err := s.repo.CollectStats(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := &TaskStatsResult{
		Total:      stats.Total,
		Pending:    stats.Pending,
		Completed:  stats.Completed,
		Overdue:    stats.Overdue,
		ByCategory: stats.ByCategory,
		ByPriority: stats.ByPriority,
	}
	if stats.Total > 0 {
		result.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}

	s.logger.Debug().
		Int64("total", result.Total).
		Int64("overdue", result.Overdue).
		Msg("collected task stats")
	return result, nil
}
