package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

// CatalogConfig configures access to the TMDB catalog API.
// FallbackAddr and ImageFallbackAddr are fixed addresses tried when the
// DNS-resolved primary host fails; the original virtual hostname is kept
// in the Host header of the fallback request.
type CatalogConfig struct {
	APIKey            string        `envconfig:"TMDB_API_KEY" required:"true"`
	BaseURL           string        `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	FallbackAddr      string        `envconfig:"TMDB_FALLBACK_ADDR" default:"65.9.175.66"`
	ImageBaseURL      string        `envconfig:"TMDB_IMAGE_BASE_URL" default:"https://image.tmdb.org/t/p/w500"`
	ImageFallbackAddr string        `envconfig:"TMDB_IMAGE_FALLBACK_ADDR" default:"185.93.2.243"`
	RequestTimeout    time.Duration `envconfig:"TMDB_REQUEST_TIMEOUT" default:"15s"`
	MaxInFlight       int64         `envconfig:"TMDB_MAX_IN_FLIGHT" default:"12"`
	RatePerSecond     float64       `envconfig:"TMDB_RATE_PER_SECOND" default:"4"`
	RateBurst         int           `envconfig:"TMDB_RATE_BURST" default:"8"`
}

type CacheConfig struct {
	// Backend selects the response cache implementation: "redis" or "memory".
	Backend      string        `envconfig:"CACHE_BACKEND" default:"redis"`
	DiscoveryTTL time.Duration `envconfig:"CACHE_DISCOVERY_TTL" default:"10m"`
	DetailsTTL   time.Duration `envconfig:"CACHE_DETAILS_TTL" default:"30m"`
	GenresTTL    time.Duration `envconfig:"CACHE_GENRES_TTL" default:"60m"`
	// MemoryMaxEntries bounds the in-memory backend; ignored for Redis.
	MemoryMaxEntries int `envconfig:"CACHE_MEMORY_MAX_ENTRIES" default:"4096"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"cinegraph"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"cinegraph"`
	DBName   string `envconfig:"POSTGRES_DB" default:"cinegraph"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"posters"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"cinegraph"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"cinegraph"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type WorkerConfig struct {
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
