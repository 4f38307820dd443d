package weather

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

const cacheKeyPrefix = "weather:"

// SnapshotCache keeps recent weather lookups in Redis so repeated
// listings of tasks in the same city do not hammer the provider.
// Every cache failure is treated as a miss; the cache can never make
// a lookup fail.
type SnapshotCache struct {
	logger zerolog.Logger
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(
	logger zerolog.Logger,
	client *redis.Client,
	ttl time.Duration,
) *SnapshotCache {
	return &SnapshotCache{
		logger: logger,
		client: client,
		ttl:    ttl,
	}
}

type cachedSnapshot struct {
	Temperature  float64 `json:"temperature"`
	Condition    string  `json:"condition"`
	Description  string  `json:"description"`
	Icon         string  `json:"icon"`
	Location     string  `json:"location"`
	IsBadWeather bool    `json:"is_bad_weather"`
}

func (c *SnapshotCache) Get(ctx context.Context, city string) (*models.WeatherSnapshot, bool) {
	raw, err := c.client.Get(ctx, cacheKey(city)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().
				Err(err).
				Str("city", city).
				Msg("failed to read weather cache")
		}
		return nil, false
	}

	var cached cachedSnapshot
	err = json.Unmarshal(raw, &cached)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("city", city).
			Msg("failed to decode cached snapshot")
		return nil, false
	}

	return &models.WeatherSnapshot{
		Temperature:  cached.Temperature,
		Condition:    cached.Condition,
		Description:  cached.Description,
		Icon:         cached.Icon,
		Location:     cached.Location,
		IsBadWeather: cached.IsBadWeather,
	}, true
}

func (c *SnapshotCache) Set(ctx context.Context, city string, snapshot *models.WeatherSnapshot) {
	raw, err := json.Marshal(cachedSnapshot{
		Temperature:  snapshot.Temperature,
		Condition:    snapshot.Condition,
		Description:  snapshot.Description,
		Icon:         snapshot.Icon,
		Location:     snapshot.Location,
		IsBadWeather: snapshot.IsBadWeather,
	})
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("city", city).
			Msg("failed to encode snapshot")
		return
	}

	err = c.client.Set(ctx, cacheKey(city), raw, c.ttl).Err()
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("city", city).
			Msg("failed to write weather cache")
	}
}

func cacheKey(city string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(city))
}
