package config

import "time"

// SimulationConfig sizes a simulation run.
type SimulationConfig struct {
	Iterations int
	Workers    int
	Seed       uint64 // 0 means time based
}

// BatchConfig controls refinement batches in service mode.
type BatchConfig struct {
	Interval   time.Duration
	Iterations int
}

// ResultsConfig controls where forecast snapshots are written and how many are kept.
type ResultsConfig struct {
	Dir       string
	Retention int
}

func loadSimulation() SimulationConfig {
	return SimulationConfig{
		Iterations: intEnvOrDefault(envIterations, defaultIterations),
		Workers:    intEnvOrDefault(envWorkers, defaultWorkers),
		Seed:       uint64EnvOrDefault(envSeed, 0),
	}
}

func loadBatch() BatchConfig {
	return BatchConfig{
		Interval:   durationEnvOrDefault(envBatchInterval, defaultBatchInterval),
		Iterations: intEnvOrDefault(envBatchSize, defaultBatchSize),
	}
}

func loadResults() ResultsConfig {
	return ResultsConfig{
		Dir:       envOrDefault(envResultsDir, defaultResultsDir),
		Retention: intEnvOrDefault(envRetention, defaultRetention),
	}
}
