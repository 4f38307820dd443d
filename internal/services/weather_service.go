package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

type weatherServiceImpl struct {
	logger   zerolog.Logger
	provider WeatherProvider
	cache    WeatherCache
}

// NewWeatherService builds the augmenter. A nil provider disables
// augmentation entirely, which is how the app runs without an API
// key. A nil cache means every lookup goes to the provider.
func NewWeatherService(
	logger zerolog.Logger,
	provider WeatherProvider,
	cache WeatherCache,
) WeatherAugmenter {
	return &weatherServiceImpl{
		logger:   logger,
		provider: provider,
		cache:    cache,
	}
}

func (s *weatherServiceImpl) Augment(ctx context.Context, task *models.Task) *models.WeatherSnapshot {
	if task == nil || task.Location == "" || s.provider == nil {
		return nil
	}

	return s.lookup(ctx, task.Location)
}

func (s *weatherServiceImpl) AugmentAll(ctx context.Context, tasks []*models.Task) map[int64]*models.WeatherSnapshot {
	if s.provider == nil {
		return nil
	}

	snapshots := make(map[int64]*models.WeatherSnapshot)
	// One lookup per distinct city within the call; a nil entry
	// remembers a failed lookup so it is not retried per task.
	byCity := make(map[string]*models.WeatherSnapshot)

	for _, task := range tasks {
		if task.Location == "" {
			continue
		}

		city := strings.ToLower(strings.TrimSpace(task.Location))
		snapshot, seen := byCity[city]
		if !seen {
			snapshot = s.lookup(ctx, task.Location)
			byCity[city] = snapshot
		}
		if snapshot != nil {
			snapshots[task.ID] = snapshot
		}
	}

	return snapshots
}

func (s *weatherServiceImpl) lookup(ctx context.Context, city string) *models.WeatherSnapshot {
	if s.cache != nil {
		snapshot, ok := s.cache.Get(ctx, city)
		if ok {
			s.logger.Debug().
				Str("city", city).
				Msg("weather cache hit")
			return snapshot
		}
	}

	snapshot, err := s.provider.CurrentByCity(ctx, city)
	if err != nil {
		// Weather stays best effort: the task is served either way.
		s.logger.Warn().
			Err(err).
			Str("city", city).
			Msg("weather lookup failed")
		return nil
	}

	if s.cache != nil {
		s.cache.Set(ctx, city, snapshot)
	}

	s.logger.Debug().
		Str("city", city).
		Str("condition", snapshot.Condition).
		Msg("fetched weather")
	return snapshot
}
