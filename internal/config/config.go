package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	Storage  StorageConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Weather  WeatherConfig
}

type StorageConfig struct {
	// Driver selects the task store backend. The memory driver keeps
	// everything in process and loses it on restart, which is enough
	// for trying the tool out without a database.
	Driver string `env:"STORAGE_DRIVER" env-default:"postgres"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres"`
	Password       string        `env:"POSTGRES_PASSWORD" env-default:""`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"tasks"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `env:"REDIS_PORT" env-default:"6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type WeatherConfig struct {
	// APIKey left empty disables weather augmentation entirely.
	APIKey       string        `env:"OPENWEATHER_API_KEY" env-default:""`
	BaseURL      string        `env:"OPENWEATHER_API_URL" env-default:"https://api.openweathermap.org"`
	Language     string        `env:"OPENWEATHER_LANGUAGE" env-default:"en"`
	Timeout      time.Duration `env:"OPENWEATHER_TIMEOUT" env-default:"10s"`
	CacheEnabled bool          `env:"WEATHER_CACHE_ENABLED" env-default:"false"`
	CacheTTL     time.Duration `env:"WEATHER_CACHE_TTL" env-default:"10m"`
}
