package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// Config is the complete configuration for an evolutionary run.
type Config struct {
	// Engine configuration
	Engine EngineConfig `yaml:"engine" validate:"required"`

	// Decomposition configuration (MOEA/D runs)
	Decomposition DecompositionConfig `yaml:"decomposition,omitempty"`

	// Adaptive operator manager configuration
	Adaptive AdaptiveConfig `yaml:"adaptive,omitempty"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// EngineConfig holds the shared evolutionary parameters.
type EngineConfig struct {
	// Population size and generation budget
	PopulationSize int `yaml:"population_size" validate:"required,min=2"`
	Generations    int `yaml:"generations" validate:"required,min=1"`

	// Tree shape bounds
	MaxDepth         int `yaml:"max_depth" validate:"required,min=2"`
	MaxMutationDepth int `yaml:"max_mutation_depth" validate:"required,min=1"`

	// Probability of cutting tree growth short with a terminal
	TerminalProb float64 `yaml:"terminal_prob" validate:"gte=0,lte=1"`

	// Tournament size for parent selection
	TournamentSize int `yaml:"tournament_size" validate:"required,min=2"`

	// Semantic type of evolved rule roots
	RootType string `yaml:"root_type" validate:"required"`

	// Number of concurrent offspring evaluations
	Concurrency int `yaml:"concurrency" validate:"required,min=1"`

	// Seed for the engine-owned random source
	Seed int64 `yaml:"seed"`
}

// DecompositionConfig holds the MOEA/D-specific parameters.
type DecompositionConfig struct {
	// Divisions of the simplex lattice; population size becomes
	// C(divisions+objectives-1, objectives-1)
	Divisions int `yaml:"divisions" validate:"omitempty,min=1"`

	// Neighborhood size for restricted mating
	NeighborhoodSize int `yaml:"neighborhood_size" validate:"omitempty,min=1"`
}

// AdaptiveConfig holds the operator-credit parameters.
type AdaptiveConfig struct {
	// Minimum selection probability kept per operator variant
	FloorProb float64 `yaml:"floor_prob" validate:"gte=0,lte=1"`

	// Sliding window of acceptance outcomes per variant
	WindowSize int `yaml:"window_size" validate:"omitempty,min=1"`
}

// LoggingConfig controls the logger wiring.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR, FATAL
	Level string `yaml:"level,omitempty"`

	// UseColor toggles ANSI colors on the console output
	UseColor bool `yaml:"use_color,omitempty"`
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	if c.Engine.MaxMutationDepth > c.Engine.MaxDepth {
		return errors.New(errors.ValidationFailed, "max_mutation_depth must not exceed max_depth")
	}
	return nil
}

// Load parses a YAML document into a Config, applying defaults first so
// partial documents stay valid.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and parses a YAML configuration file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to read configuration file"),
			errors.Fields{"path": path},
		)
	}
	return Load(data)
}
