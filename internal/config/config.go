package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Queue     QueueConfig
	Player    PlayerConfig
	Auth      AuthConfig
	Telemetry TelemetryConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	// PresignExpiry bounds the lifetime of presigned playback URLs.
	PresignExpiry time.Duration
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// PlayerConfig holds playback session defaults
type PlayerConfig struct {
	// StartLevel is the adaptive level index playback begins at.
	StartLevel int
	// CapLevelToSurfaceSize limits automatic level selection to the
	// surface's display size.
	CapLevelToSurfaceSize bool
	// SeekStep is the default seek-by step for UI skip buttons, in seconds.
	SeekStep float64
	// ResumeEnabled toggles resume-from-position lookups.
	ResumeEnabled bool
	// SourceCacheTTL bounds how long resolved source lists are cached.
	SourceCacheTTL time.Duration
}

// AuthConfig holds JWT authentication configuration
type AuthConfig struct {
	JWTSecret string
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	ServiceName    string
	JaegerEndpoint string
	Enabled        bool
}

// MetricsConfig holds the standalone metrics server configuration
type MetricsConfig struct {
	Port int
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "kemomovies")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Storage defaults
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "streams")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)
	viper.SetDefault("storage.presignExpiry", "4h")

	// Queue defaults
	viper.SetDefault("queue.host", "localhost")
	viper.SetDefault("queue.port", 5672)
	viper.SetDefault("queue.user", "guest")
	viper.SetDefault("queue.password", "guest")
	viper.SetDefault("queue.vhost", "/")

	// Player defaults
	viper.SetDefault("player.startLevel", 2)
	viper.SetDefault("player.capLevelToSurfaceSize", true)
	viper.SetDefault("player.seekStep", 10)
	viper.SetDefault("player.resumeEnabled", true)
	viper.SetDefault("player.sourceCacheTTL", "5m")

	// Telemetry defaults
	viper.SetDefault("telemetry.serviceName", "kemomovies")
	viper.SetDefault("telemetry.jaegerEndpoint", "http://localhost:14268/api/traces")
	viper.SetDefault("telemetry.enabled", false)

	// Metrics defaults
	viper.SetDefault("metrics.port", 9100)
}
