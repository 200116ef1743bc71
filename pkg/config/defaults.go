package config

// Default returns the baseline configuration: a modest population with
// conservative tree depth, suitable for tests and quick experiments.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PopulationSize:   100,
			Generations:      50,
			MaxDepth:         6,
			MaxMutationDepth: 3,
			TerminalProb:     0.3,
			TournamentSize:   3,
			RootType:         "decision-signal",
			Concurrency:      4,
			Seed:             1,
		},
		Decomposition: DecompositionConfig{
			Divisions:        12,
			NeighborhoodSize: 10,
		},
		Adaptive: AdaptiveConfig{
			FloorProb:  0.1,
			WindowSize: 50,
		},
		Logging: LoggingConfig{
			Level:    "INFO",
			UseColor: true,
		},
	}
}
