package evolution

import (
	"context"
	"math/rand"

	"github.com/google/uuid"

	"github.com/triet4p/itapia-sub001/pkg/config"
	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/logging"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// NSGAEngine evolves a population under Pareto dominance with NSGA-II
// environmental selection. It owns its random source and adaptive managers;
// two engines with the same configuration, seed and evaluator produce
// identical generation sequences.
type NSGAEngine struct {
	cfg       *config.Config
	ops       *Operators
	evaluator Evaluator
	extractor *MultiObjectiveExtractor

	crossoverMgr *AdaptiveOperatorManager
	mutationMgr  *AdaptiveOperatorManager

	rng *rand.Rand
}

// NewNSGAEngine validates the configuration and wires the engine.
func NewNSGAEngine(cfg *config.Config, pool *rules.NodePool, evaluator Evaluator, extractor *MultiObjectiveExtractor) (*NSGAEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, errors.New(errors.ConstructionFailed, "engine requires an evaluator")
	}
	if extractor == nil {
		return nil, errors.New(errors.ConstructionFailed, "engine requires an objective extractor")
	}

	return &NSGAEngine{
		cfg:       cfg,
		ops:       operatorsFromConfig(cfg, pool),
		evaluator: evaluator,
		extractor: extractor,
		crossoverMgr: NewAdaptiveOperatorManager(
			CrossoverVariants, cfg.Adaptive.FloorProb, cfg.Adaptive.WindowSize),
		mutationMgr: NewAdaptiveOperatorManager(
			MutationVariants, cfg.Adaptive.FloorProb, cfg.Adaptive.WindowSize),
		rng: rand.New(rand.NewSource(cfg.Engine.Seed)),
	}, nil
}

func operatorsFromConfig(cfg *config.Config, pool *rules.NodePool) *Operators {
	return &Operators{
		Pool:             pool,
		RootType:         rules.SemanticType(cfg.Engine.RootType),
		MaxDepth:         cfg.Engine.MaxDepth,
		MaxMutationDepth: cfg.Engine.MaxMutationDepth,
		TerminalProb:     cfg.Engine.TerminalProb,
	}
}

// Run executes the full evolutionary loop and returns the final population
// with its non-dominated front. The context cancels the run between
// generations; in-flight evaluations also receive it.
func (e *NSGAEngine) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.GetLogger()

	size := e.cfg.Engine.PopulationSize
	logger.Info(ctx, "starting NSGA-II run: population=%d generations=%d seed=%d",
		size, e.cfg.Engine.Generations, e.cfg.Engine.Seed)

	pop := NewPopulation(e.ops.RootType, size)
	for i := 0; i < size; i++ {
		ind, err := e.ops.NewIndividual(e.rng)
		if err != nil {
			return nil, err
		}
		if err := pop.Add(ind); err != nil {
			return nil, err
		}
	}

	outcome := evaluateAll(ctx, e.evaluator, e.extractor, pop.Members(), e.cfg.Engine.Concurrency)
	logEvalOutcome(ctx, outcome)
	if err := errors.CheckContext(ctx, "initial evaluation"); err != nil {
		return nil, err
	}

	// Seed rank and crowding so the first generation's tournaments have a
	// total order to work with.
	for _, front := range NonDominatedSort(pop.Members()) {
		CrowdingDistance(front)
	}

	for gen := 1; gen <= e.cfg.Engine.Generations; gen++ {
		gctx := logging.WithGeneration(ctx, gen)
		if err := errors.CheckContext(gctx, "generation"); err != nil {
			return nil, err
		}

		offspring, tags, err := e.breed(pop)
		if err != nil {
			return nil, err
		}

		outcome := evaluateAll(gctx, e.evaluator, e.extractor, offspring, e.cfg.Engine.Concurrency)
		logEvalOutcome(gctx, outcome)

		next := ReplaceNSGA(pop.Members(), offspring, size)

		survived := make(map[*Individual]bool, len(next))
		for _, ind := range next {
			survived[ind] = true
		}
		for i, child := range offspring {
			e.crossoverMgr.Record(tags[i].crossover, survived[child])
			e.mutationMgr.Record(tags[i].mutation, survived[child])
		}

		if err := pop.Replace(next, gen); err != nil {
			return nil, err
		}

		if best := pop.Best(); best != nil {
			logger.Info(gctx, "generation complete: best_fitness=%.4f front_size=%d",
				best.Fitness, countRankZero(pop.Members()))
		}
	}

	fronts := NonDominatedSort(pop.Members())
	for _, front := range fronts {
		CrowdingDistance(front)
	}
	markReady(pop)

	logger.Info(ctx, "run finished: front_size=%d", len(fronts[0]))
	return &Result{
		Population:  pop,
		Front:       fronts[0],
		Generations: e.cfg.Engine.Generations,
	}, nil
}

// variantTags remembers which breeding variants produced an offspring so
// acceptance can be credited back to them.
type variantTags struct {
	crossover OperatorVariant
	mutation  OperatorVariant
}

// breed produces a full offspring cohort: tournament parents, one adaptive
// crossover variant per pairing, one adaptive mutation variant per child.
// Incompatible parents fall back to straight clones, so a cohort is always
// filled.
func (e *NSGAEngine) breed(pop *Population) ([]*Individual, []variantTags, error) {
	size := e.cfg.Engine.PopulationSize
	offspring := make([]*Individual, 0, size)
	tags := make([]variantTags, 0, size)

	for len(offspring) < size {
		xVariant := e.crossoverMgr.Pick(e.rng)
		parentA := TournamentSelect(e.rng, pop, e.cfg.Engine.TournamentSize)
		parentB := TournamentSelect(e.rng, pop, e.cfg.Engine.TournamentSize)

		childA, childB, err := e.ops.Crossover(e.rng, xVariant, parentA, parentB)
		if err != nil {
			if errors.Code(err) != errors.IncompatibleCrossover {
				return nil, nil, err
			}
			childA = parentA.Clone()
			childB = parentB.Clone()
		}

		for _, child := range []*Individual{childA, childB} {
			if len(offspring) == size {
				break
			}
			mVariant := e.mutationMgr.Pick(e.rng)
			mutated, err := e.ops.Mutate(e.rng, mVariant, child)
			if err != nil {
				return nil, nil, err
			}
			offspring = append(offspring, mutated)
			tags = append(tags, variantTags{crossover: xVariant, mutation: mVariant})
		}
	}
	return offspring, tags, nil
}

func logEvalOutcome(ctx context.Context, outcome evalOutcome) {
	ctx = logging.WithEvalInfo(ctx, &logging.EvalInfo{
		Evaluations: outcome.evaluations,
		Failures:    outcome.failures,
		ZeroTrades:  outcome.zeroTrades,
	})
	logging.GetLogger().Debug(ctx, "evaluation batch complete")
}

func countRankZero(individuals []*Individual) int {
	n := 0
	for _, ind := range individuals {
		if ind.Rank == 0 {
			n++
		}
	}
	return n
}
