package rules

import (
	"math/rand"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// DefaultTerminalProb is the probability of cutting growth short with a
// terminal before the depth limit forces one.
const DefaultTerminalProb = 0.3

// Grow builds a random, well-typed subtree of the required semantic type.
// At maxDepth only terminals are considered; above it, a terminal is chosen
// with probability terminalProb, otherwise an operator shape is drawn and
// one child is grown per required child type at depth+1. All randomness
// comes from the supplied rng, so a fixed seed reproduces the same tree.
func Grow(rng *rand.Rand, depth, maxDepth int, terminalProb float64, required SemanticType, pool *NodePool) (Node, error) {
	terminals := pool.TerminalsFor(required)

	if depth >= maxDepth {
		if len(terminals) == 0 {
			return nil, errors.WithFields(
				errors.New(errors.ConstructionFailed, "no terminal available for required semantic type"),
				errors.Fields{"required": string(required), "depth": depth},
			)
		}
		return terminals[rng.Intn(len(terminals))].Build(), nil
	}

	operators := pool.OperatorsFor(required)
	if len(terminals) == 0 && len(operators) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "no terminal or operator available for required semantic type"),
			errors.Fields{"required": string(required), "depth": depth},
		)
	}

	pickTerminal := len(operators) == 0 ||
		(len(terminals) > 0 && rng.Float64() < terminalProb)
	if pickTerminal {
		return terminals[rng.Intn(len(terminals))].Build(), nil
	}

	shape := operators[rng.Intn(len(operators))]
	children := make([]Node, len(shape.ChildTypes))
	for i, childType := range shape.ChildTypes {
		child, err := Grow(rng, depth+1, maxDepth, terminalProb, childType, pool)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	return NewOperator(shape.Kind, shape.Return, shape.ChildTypes, children...)
}

// GrowRoot builds a full executable tree: the root is always an operator of
// the required type, grown from depth 1.
func GrowRoot(rng *rand.Rand, maxDepth int, terminalProb float64, required SemanticType, pool *NodePool) (*OperatorNode, error) {
	operators := pool.OperatorsFor(required)
	if len(operators) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "no operator available for root semantic type"),
			errors.Fields{"required": string(required)},
		)
	}

	shape := operators[rng.Intn(len(operators))]
	children := make([]Node, len(shape.ChildTypes))
	for i, childType := range shape.ChildTypes {
		child, err := Grow(rng, 2, maxDepth, terminalProb, childType, pool)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	return NewOperator(shape.Kind, shape.Return, shape.ChildTypes, children...)
}
