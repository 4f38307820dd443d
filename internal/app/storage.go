package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/repository"
)

var globalTaskRepository repository.TaskRepository

func MustOpenTaskStorage() {
	cfg := config.Global()

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		globalTaskRepository = repository.NewPostgresRepository(
			globalLogger, mustConnectPostgres())
	case config.StorageDriverMemory:
		globalTaskRepository = repository.NewMemoryRepository(globalLogger)
		globalLogger.Warn().
			Msg("using in-memory task storage, tasks will not survive a restart")
	default:
		globalLogger.Error().
			Str("driver", cfg.Storage.Driver).
			Msg("unknown storage driver")
		panic(fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver))
	}

	globalLogger.Info().
		Str("driver", cfg.Storage.Driver).
		Msg("opened task storage")
}

func CloseTaskStorage() {
	if globalTaskRepository != nil {
		globalTaskRepository.Close()
		globalLogger.Info().Msg("closed task storage")
	}
}

func mustConnectPostgres() *pgxpool.Pool {
	cfg := config.Global().Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(pingCtx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}

	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to postgres")
	return pool
}
