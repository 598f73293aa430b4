// Package config provides configuration loading and validation for the samples
// runtime. Configuration is loaded from YAML files with environment variable
// overrides using a layered system:
// defaults -> base.yaml -> {profile}.yaml -> APP_ env vars -> Google env vars.
package config

import "time"

// Config holds all configuration for the samples CLI and server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Client    ClientConfig    `koanf:"client"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	GCP       GCPConfig       `koanf:"gcp"`
	Poll      PollConfig      `koanf:"poll"`
	PubSub    PubSubConfig    `koanf:"pubsub"`
	Database  DatabaseConfig  `koanf:"database"`
	Batch     BatchConfig     `koanf:"batch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	// HealthCheckTimeout bounds each dependency probe behind /health/ready.
	HealthCheckTimeout time.Duration `koanf:"health_check_timeout"`
	// SampleRuns enables POST /api/v1/samples/{name}/run and /batch.
	SampleRuns bool `koanf:"sample_runs"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds outbound HTTP client settings, used when samples call
// authenticated endpoints directly.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings. The same settings
// guard every Google Cloud SDK adapter.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound token-bucket settings. A zero rate disables
// limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// GCPConfig holds project and credential settings shared by every client.
type GCPConfig struct {
	ProjectID   string `koanf:"project_id"`
	Credentials string `koanf:"credentials"`
	Location    string `koanf:"location"`
	Bucket      string `koanf:"bucket"`
	KMSKey      string `koanf:"kms_key"`
	Endpoint    string `koanf:"endpoint"`
}

// PollConfig controls the poll-until-complete loop for long-running
// operations.
type PollConfig struct {
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
	Timeout         time.Duration `koanf:"timeout"`
	// MaxAttempts bounds the number of status checks. Zero means unlimited.
	MaxAttempts int `koanf:"max_attempts"`
	// Fixed disables exponential growth; every wait is InitialInterval.
	Fixed bool `koanf:"fixed"`
}

// PubSubConfig holds settings for the Pub/Sub web app.
type PubSubConfig struct {
	Topic             string `koanf:"topic"`
	Subscription      string `koanf:"subscription"`
	VerificationToken string `koanf:"verification_token"`
}

// DatabaseConfig holds the Cloud SQL connection used by the voting app.
type DatabaseConfig struct {
	Driver     string `koanf:"driver"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	UnixSocket string `koanf:"unix_socket"`
	MaxConns   int    `koanf:"max_conns"`
}

// BatchConfig bounds concurrent sample runs in batch mode.
type BatchConfig struct {
	Workers int `koanf:"workers"`
}
