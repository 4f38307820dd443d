package app

import (
	"context"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/services"
	"github.com/adanyl0v/go-task-tracker/internal/weather"
)

var (
	globalWeatherAugmenter services.WeatherAugmenter
	globalRedisClient      *redis.Client
)

// MustInitWeather wires the weather augmenter. Without an API key
// augmentation is disabled and every task is served without a
// weather block, the same way a provider outage is handled.
func MustInitWeather() {
	cfg := config.Global().Weather

	var provider services.WeatherProvider
	if cfg.APIKey != "" {
		provider = weather.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Language, cfg.Timeout)
	} else {
		globalLogger.Warn().
			Msg("no weather api key set, weather augmentation disabled")
	}

	var cache services.WeatherCache
	if provider != nil && cfg.CacheEnabled {
		cache = weather.NewSnapshotCache(
			globalLogger, mustConnectRedis(), cfg.CacheTTL)
	}

	globalWeatherAugmenter = services.NewWeatherService(globalLogger, provider, cache)
	globalLogger.Info().
		Bool("enabled", provider != nil).
		Bool("cache", cache != nil).
		Msg("initialized weather augmenter")
}

func DisconnectRedis() {
	if globalRedisClient == nil {
		return
	}

	err := globalRedisClient.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to disconnect from redis")
		return
	}
	globalLogger.Info().Msg("disconnected from redis")
}

func mustConnectRedis() *redis.Client {
	cfg := config.Global().Redis

	globalRedisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := globalRedisClient.Ping(context.Background()).Err()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping redis")
		panic(err)
	}

	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to redis")
	return globalRedisClient
}
