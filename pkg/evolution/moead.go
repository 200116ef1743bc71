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

// maxSlotReplacements caps how many neighborhood slots a single offspring
// may take over in one update, so one strong individual cannot flood a
// whole neighborhood in a single generation.
const maxSlotReplacements = 2

// MOEADEngine evolves one individual per decomposed sub-problem. Mating is
// restricted to a sub-problem's neighborhood and acceptance is decided by
// Tchebycheff scalarization against the run-wide reference point. The
// population size is the lattice size, C(divisions+m-1, m-1), not the
// configured engine population.
type MOEADEngine struct {
	cfg       *config.Config
	ops       *Operators
	evaluator Evaluator
	extractor *MultiObjectiveExtractor

	crossoverMgr *AdaptiveOperatorManager
	mutationMgr  *AdaptiveOperatorManager

	rng *rand.Rand
}

// NewMOEADEngine validates the configuration and wires the engine.
func NewMOEADEngine(cfg *config.Config, pool *rules.NodePool, evaluator Evaluator, extractor *MultiObjectiveExtractor) (*MOEADEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, errors.New(errors.ConstructionFailed, "engine requires an evaluator")
	}
	if extractor == nil {
		return nil, errors.New(errors.ConstructionFailed, "engine requires an objective extractor")
	}

	return &MOEADEngine{
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

// Run executes the decomposed evolutionary loop. Offspring for all
// sub-problems are generated first, evaluated in parallel, and only then
// applied to neighborhoods in sub-problem order, so acceptance is
// deterministic regardless of evaluation scheduling.
func (e *MOEADEngine) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.GetLogger()

	vectors, err := GenerateWeightVectors(e.extractor.NumObjectives(), e.cfg.Decomposition.Divisions)
	if err != nil {
		return nil, err
	}
	if err := ComputeNeighborhoods(vectors, e.cfg.Decomposition.NeighborhoodSize); err != nil {
		return nil, err
	}

	size := len(vectors)
	logger.Info(ctx, "starting MOEA/D run: subproblems=%d generations=%d seed=%d",
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

	ref := NewReferencePoint(e.extractor.NumObjectives())
	for _, ind := range pop.Members() {
		ref.Update(ind.Objectives)
	}

	for gen := 1; gen <= e.cfg.Engine.Generations; gen++ {
		gctx := logging.WithGeneration(ctx, gen)
		if err := errors.CheckContext(gctx, "generation"); err != nil {
			return nil, err
		}

		members := make([]*Individual, size)
		copy(members, pop.Members())

		offspring := make([]*Individual, size)
		tags := make([]variantTags, size)
		for i, v := range vectors {
			child, tag, err := e.breedFor(members, v)
			if err != nil {
				return nil, err
			}
			offspring[i] = child
			tags[i] = tag
		}

		outcome := evaluateAll(gctx, e.evaluator, e.extractor, offspring, e.cfg.Engine.Concurrency)
		logEvalOutcome(gctx, outcome)

		for i, child := range offspring {
			ref.Update(child.Objectives)

			accepted := e.applyToNeighborhood(members, vectors, i, child, ref)
			e.crossoverMgr.Record(tags[i].crossover, accepted)
			e.mutationMgr.Record(tags[i].mutation, accepted)
		}

		if err := pop.Replace(members, gen); err != nil {
			return nil, err
		}

		if best := pop.Best(); best != nil {
			logger.Info(gctx, "generation complete: best_fitness=%.4f", best.Fitness)
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

// breedFor produces one offspring for a sub-problem from parents drawn
// inside its neighborhood.
func (e *MOEADEngine) breedFor(members []*Individual, v *WeightVector) (*Individual, variantTags, error) {
	parentA := members[v.Neighbors[e.rng.Intn(len(v.Neighbors))]]
	parentB := members[v.Neighbors[e.rng.Intn(len(v.Neighbors))]]

	xVariant := e.crossoverMgr.Pick(e.rng)
	childA, _, err := e.ops.Crossover(e.rng, xVariant, parentA, parentB)
	if err != nil {
		if errors.Code(err) != errors.IncompatibleCrossover {
			return nil, variantTags{}, err
		}
		childA = parentA.Clone()
	}

	mVariant := e.mutationMgr.Pick(e.rng)
	child, err := e.ops.Mutate(e.rng, mVariant, childA)
	if err != nil {
		return nil, variantTags{}, err
	}
	return child, variantTags{crossover: xVariant, mutation: mVariant}, nil
}

// applyToNeighborhood lets an evaluated offspring challenge its own slot
// and its neighbors under each slot's own weights. Later slots taken by the
// same offspring hold clones, so no two slots ever alias one individual.
func (e *MOEADEngine) applyToNeighborhood(members []*Individual, vectors []*WeightVector, i int, child *Individual, ref *ReferencePoint) bool {
	slots := append([]int{i}, vectors[i].Neighbors...)

	replaced := 0
	for _, j := range slots {
		if replaced == maxSlotReplacements {
			break
		}
		challenger := Tchebycheff(child.Objectives, vectors[j].Weights, ref)
		incumbent := Tchebycheff(members[j].Objectives, vectors[j].Weights, ref)
		if challenger >= incumbent {
			continue
		}
		if replaced == 0 {
			members[j] = child
		} else {
			members[j] = child.Clone()
		}
		replaced++
	}
	return replaced > 0
}
