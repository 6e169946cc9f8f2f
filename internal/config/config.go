package config

// Config holds runtime configuration for the server and CLI.
type Config struct {
	Port       string
	Provider   string // fixture or file; empty picks file when TeamsFile is set
	TeamsFile  string
	AdminToken string
	Simulation SimulationConfig
	Batch      BatchConfig
	Results    ResultsConfig
	Store      StoreConfig
	Metrics    MetricsConfig
	Log        LogConfig
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file (or the file named by ENV_FILE) is applied first without overriding
// variables already set.
func Load() Config {
	loadDotEnv(envOrDefault(envFile, defaultEnvFile))

	return Config{
		Port:       envOrDefault(envPort, defaultPort),
		Provider:   envOrDefault(envProvider, ""),
		TeamsFile:  envOrDefault(envTeamsFile, ""),
		AdminToken: envOrDefault(envAdminToken, ""),
		Simulation: loadSimulation(),
		Batch:      loadBatch(),
		Results:    loadResults(),
		Store:      loadStore(),
		Metrics:    loadMetrics(),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
	}
}
