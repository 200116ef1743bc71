package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/triet4p/itapia-sub001/pkg/config"
	"github.com/triet4p/itapia-sub001/pkg/evolution"
	"github.com/triet4p/itapia-sub001/pkg/logging"
	"github.com/triet4p/itapia-sub001/pkg/rules"
	"github.com/triet4p/itapia-sub001/pkg/store"
)

// NewRunCommand builds the `evolve run` command: execute one evolutionary
// run and persist the resulting non-dominated front.
func NewRunCommand() *cobra.Command {
	var (
		configPath string
		algorithm  string
		dbPath     string
		dataPath   string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an evolutionary search and store the resulting front",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Engine.Seed = seed
			}
			setupLogging(cfg)

			extractor, err := evolution.NewMultiObjectiveExtractor(evolution.DefaultObjectiveSpecs())
			if err != nil {
				return err
			}

			// The bundled evaluator replays rules over recorded analysis
			// reports; production deployments inject a real backtester here.
			snapshots, err := evolution.LoadSnapshots(dataPath)
			if err != nil {
				return err
			}
			evaluator, err := evolution.NewReplayEvaluator(snapshots, 252)
			if err != nil {
				return err
			}

			result, err := runEngine(cmd.Context(), algorithm, cfg, extractor, evaluator)
			if err != nil {
				return err
			}

			db, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, ind := range result.Front {
				if err := db.Save(cmd.Context(), ind.Rule); err != nil {
					return err
				}
			}

			fmt.Printf("run complete: %d generations, stored %d front rules in %s\n",
				result.Generations, len(result.Front), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration (defaults apply when omitted)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "nsga2", "search algorithm: nsga2 or moead")
	cmd.Flags().StringVar(&dbPath, "db", "rules.db", "path to the rule store database")
	cmd.Flags().StringVar(&dataPath, "data", "", "path to a JSON snapshot series (report + forward return per period)")
	_ = cmd.MarkFlagRequired("data")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override the configured random seed")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func setupLogging(cfg *config.Config) {
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Logging.Level),
		Outputs: []logging.Output{
			logging.NewConsoleOutput(true, logging.WithColor(cfg.Logging.UseColor)),
		},
	}))
}

func runEngine(ctx context.Context, algorithm string, cfg *config.Config, extractor *evolution.MultiObjectiveExtractor, evaluator evolution.Evaluator) (*evolution.Result, error) {
	pool := rules.DefaultTradingPool()

	switch algorithm {
	case "nsga2":
		engine, err := evolution.NewNSGAEngine(cfg, pool, evaluator, extractor)
		if err != nil {
			return nil, err
		}
		return engine.Run(ctx)
	case "moead":
		engine, err := evolution.NewMOEADEngine(cfg, pool, evaluator, extractor)
		if err != nil {
			return nil, err
		}
		return engine.Run(ctx)
	default:
		return nil, fmt.Errorf("unknown algorithm %q (want nsga2 or moead)", algorithm)
	}
}
