package config

import "time"

const (
	envFile          = "ENV_FILE"
	envPort          = "PORT"
	envProvider      = "PROVIDER"
	envTeamsFile     = "TEAMS_FILE"
	envAdminToken    = "ADMIN_TOKEN"
	envIterations    = "SIM_ITERATIONS"
	envWorkers       = "SIM_WORKERS"
	envSeed          = "SIM_SEED"
	envBatchInterval = "BATCH_INTERVAL"
	envBatchSize     = "BATCH_ITERATIONS"
	envResultsDir    = "RESULTS_DIR"
	envRetention     = "RESULTS_RETENTION"
	envStore         = "STORE"
	envRedisURL      = "REDIS_URL"
	envRedisKey      = "REDIS_KEY"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"

	defaultEnvFile     = ".env"
	defaultPort        = "4000"
	defaultIterations  = 100_000
	defaultWorkers     = 1
	defaultBatchSize   = 10_000
	defaultResultsDir  = "data/forecasts"
	defaultRetention   = 10
	defaultStore       = StoreMemory
	defaultRedisKey    = "worldcup:forecast:current"
	defaultMetricsPort = "9090"
	defaultServiceName = "worldcup-sim"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	// Interval between refinement batches in service mode.
	defaultBatchInterval = 5 * Duration(time.Minute)
)
