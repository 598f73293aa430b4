package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
		c.Poll.validate(),
		c.Database.validate(),
		c.Batch.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.ReadHeaderTimeout < 0 {
		errs = append(errs, errors.New("server.read_header_timeout must not be negative"))
	}
	if s.HealthCheckTimeout < 0 {
		errs = append(errs, errors.New("server.health_check_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text", "cloud":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text, cloud; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.requests_per_second must be >= 0, got %f",
			cl.RateLimit.RequestsPerSecond))
	}
	if cl.RateLimit.RequestsPerSecond > 0 && cl.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("client.rate_limit.burst must be >= 1 when rate limiting, got %d",
			cl.RateLimit.Burst))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (p *PollConfig) validate() error {
	var errs []error

	if p.InitialInterval <= 0 {
		errs = append(errs, errors.New("poll.initial_interval must be positive"))
	}
	if !p.Fixed {
		if p.MaxInterval < p.InitialInterval {
			errs = append(errs, fmt.Errorf("poll.max_interval must be >= poll.initial_interval, got %s < %s",
				p.MaxInterval, p.InitialInterval))
		}
		if p.Multiplier < 1 {
			errs = append(errs, fmt.Errorf("poll.multiplier must be >= 1, got %f", p.Multiplier))
		}
	}
	if p.Timeout < 0 {
		errs = append(errs, errors.New("poll.timeout must not be negative"))
	}
	if p.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("poll.max_attempts must be >= 0, got %d", p.MaxAttempts))
	}

	return errors.Join(errs...)
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case "memory":
		return nil
	case "postgres":
	default:
		return fmt.Errorf("database.driver must be one of: memory, postgres; got %q", d.Driver)
	}

	var errs []error

	if d.User == "" {
		errs = append(errs, errors.New("database.user must not be empty for postgres"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("database.name must not be empty for postgres"))
	}
	if d.Host == "" && d.UnixSocket == "" {
		errs = append(errs, errors.New("database.host or database.unix_socket must be set for postgres"))
	}
	if d.UnixSocket == "" && (d.Port < 1 || d.Port > 65535) {
		errs = append(errs, fmt.Errorf("database.port must be between 1 and 65535, got %d", d.Port))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}

	return errors.Join(errs...)
}

func (b *BatchConfig) validate() error {
	if b.Workers < 1 {
		return fmt.Errorf("batch.workers must be >= 1, got %d", b.Workers)
	}
	return nil
}
