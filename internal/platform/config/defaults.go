package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultPollMultiplier = 2.0

	defaultDatabasePort     = 5432
	defaultDatabaseMaxConns = 4

	defaultBatchWorkers = 4
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":                 "0.0.0.0",
		"server.port":                 defaultServerPort,
		"server.read_timeout":         "5s",
		"server.read_header_timeout":  "2s",
		"server.write_timeout":        "10s",
		"server.idle_timeout":         "120s",
		"server.health_check_timeout": "2s",
		"server.sample_runs":          true,

		"log.level":  "info",
		"log.format": "json",

		"client.timeout":                         "30s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "100ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst":                0,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "gcp-samples",

		"gcp.project_id":  "",
		"gcp.credentials": "",
		"gcp.location":    "US",
		"gcp.bucket":      "",
		"gcp.kms_key":     "",
		"gcp.endpoint":    "",

		"poll.initial_interval": "1s",
		"poll.max_interval":     "30s",
		"poll.multiplier":       defaultPollMultiplier,
		"poll.timeout":          "10m",
		"poll.max_attempts":     0,
		"poll.fixed":            false,

		"pubsub.topic":              "php-pubsub-example",
		"pubsub.subscription":       "",
		"pubsub.verification_token": "",

		"database.driver":      "memory",
		"database.user":        "",
		"database.password":    "",
		"database.name":        "",
		"database.host":        "",
		"database.port":        defaultDatabasePort,
		"database.unix_socket": "",
		"database.max_conns":   defaultDatabaseMaxConns,

		"batch.workers": defaultBatchWorkers,
	}
}

// googleEnv maps well-known Google Cloud and Cloud SQL sample variables to
// config keys. Each key lists its variables in precedence order. They sit
// just above the built-in defaults, so YAML files and APP_ vars override them.
var googleEnv = []struct {
	key  string
	vars []string
}{
	{key: "server.port", vars: []string{"PORT"}},
	{key: "gcp.project_id", vars: []string{"GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT"}},
	{key: "gcp.bucket", vars: []string{"GOOGLE_STORAGE_BUCKET"}},
	{key: "gcp.credentials", vars: []string{"GOOGLE_APPLICATION_CREDENTIALS"}},
	{key: "pubsub.topic", vars: []string{"TOPIC_NAME"}},
	{key: "database.user", vars: []string{"DB_USER"}},
	{key: "database.password", vars: []string{"DB_PASS"}},
	{key: "database.name", vars: []string{"DB_NAME"}},
	{key: "database.host", vars: []string{"INSTANCE_HOST"}},
	{key: "database.unix_socket", vars: []string{"INSTANCE_UNIX_SOCKET"}},
	{key: "database.port", vars: []string{"DB_PORT"}},
}
