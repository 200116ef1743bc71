package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/triet4p/itapia-sub001/cmd/evolve/commands"
)

var rootCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Evolve trading decision rules with multi-objective search",
	Long: `Evolves typed trading-rule expression trees against a backtesting
evaluator using NSGA-II or MOEA/D, and manages the resulting rule store.

Rules are grown, crossed over and mutated under semantic-type constraints,
scored on return, risk-adjusted return, consistency and drawdown
resilience, and persisted in their validated structural form.`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewShowCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
