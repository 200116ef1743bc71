// Package itapia provides an evolutionary engine for trading decision
// rules: typed expression trees grown, recombined and mutated under
// semantic-type constraints, scored against backtest metrics, and selected
// with multi-objective search (NSGA-II or MOEA/D).
//
// The main packages are:
//
//   - pkg/rules: semantic types, expression trees, random tree growth, rule
//     lifecycle and structural serialization
//   - pkg/evolution: evaluators, objective extraction, search operators,
//     dominance and decomposition machinery, and the two engines
//   - pkg/store: SQLite persistence for evolved rules
//   - pkg/config: YAML configuration with validation
//   - pkg/logging, pkg/errors: structured logging and typed errors shared
//     across the module
//
// The evolve command under cmd/evolve wires these together into a CLI.
package itapia
