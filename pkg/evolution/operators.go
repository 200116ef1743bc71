package evolution

import (
	"fmt"
	"math/rand"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// OperatorVariant identifies a breeding strategy for the adaptive manager.
type OperatorVariant string

const (
	VariantSubtreeCrossover OperatorVariant = "crossover/subtree"
	VariantLeafCrossover    OperatorVariant = "crossover/leaf"
	VariantSubtreeMutation  OperatorVariant = "mutation/subtree"
	VariantPointMutation    OperatorVariant = "mutation/point"
)

// CrossoverVariants and MutationVariants fix the variant ordering used when
// wiring the adaptive manager.
var (
	CrossoverVariants = []OperatorVariant{VariantSubtreeCrossover, VariantLeafCrossover}
	MutationVariants  = []OperatorVariant{VariantSubtreeMutation, VariantPointMutation}
)

// Operators bundles the structural search operators over rule trees. All
// methods deep-copy parent trees before touching structure: parents and
// offspring never alias nodes.
type Operators struct {
	Pool             *rules.NodePool
	RootType         rules.SemanticType
	MaxDepth         int
	MaxMutationDepth int
	TerminalProb     float64
}

// NewIndividual grows a fresh individual of the configured root type.
func (o *Operators) NewIndividual(rng *rand.Rand) (*Individual, error) {
	root, err := rules.GrowRoot(rng, o.MaxDepth, o.TerminalProb, o.RootType, o.Pool)
	if err != nil {
		return nil, err
	}
	rule, err := rules.NewRule(
		fmt.Sprintf("evolved-%s", o.RootType),
		"grown by the evolutionary engine",
		root,
	)
	if err != nil {
		return nil, err
	}
	return NewIndividual(rule), nil
}

// TournamentSelect samples k individuals uniformly (prior picks are not
// excluded) and returns the best under the Individual.Better comparator.
// The comparator's tie policy is first-sampled-wins, which keeps selection
// deterministic for a fixed rng stream.
func TournamentSelect(rng *rand.Rand, pop *Population, k int) *Individual {
	members := pop.Members()
	best := members[rng.Intn(len(members))]
	for i := 1; i < k; i++ {
		challenger := members[rng.Intn(len(members))]
		if !best.Better(challenger) {
			best = challenger
		}
	}
	return best
}

// Crossover applies the requested variant.
func (o *Operators) Crossover(rng *rand.Rand, variant OperatorVariant, a, b *Individual) (*Individual, *Individual, error) {
	switch variant {
	case VariantLeafCrossover:
		return o.crossoverAt(rng, a, b, true)
	default:
		return o.crossoverAt(rng, a, b, false)
	}
}

// crossoverAt swaps one subtree (or terminal, for the leaf variant) between
// deep copies of the two parents. Swap points are grouped by the concrete
// semantic types they can be exchanged under; a type present in both
// parents' indices is drawn, then one position of that type from each. When
// the parents share no compatible type the originals are returned alongside
// an IncompatibleCrossover error so the caller can retry with other parents.
func (o *Operators) crossoverAt(rng *rand.Rand, a, b *Individual, leavesOnly bool) (*Individual, *Individual, error) {
	childA := a.Clone()
	childB := b.Clone()

	refsA := collectSwapRefs(childA, leavesOnly)
	refsB := collectSwapRefs(childB, leavesOnly)
	indexA := rules.IndexRefsByType(refsA)
	indexB := rules.IndexRefsByType(refsB)

	// Concrete types only: the wildcard group would allow pairing nodes
	// whose concrete types disagree with the receiving slot.
	var common []rules.SemanticType
	for _, typ := range rules.AllSemanticTypes {
		if typ == rules.TypeAny {
			continue
		}
		if len(indexA[typ]) > 0 && len(indexB[typ]) > 0 {
			common = append(common, typ)
		}
	}
	if len(common) == 0 {
		return a, b, errors.WithFields(
			errors.New(errors.IncompatibleCrossover, "parents share no compatible semantic type"),
			errors.Fields{"parent_a": a.Rule.RuleID, "parent_b": b.Rule.RuleID},
		)
	}

	typ := common[rng.Intn(len(common))]
	refA := indexA[typ][rng.Intn(len(indexA[typ]))]
	refB := indexB[typ][rng.Intn(len(indexB[typ]))]

	subtreeA := refA.Node
	subtreeB := refB.Node
	if err := refA.Parent.ReplaceChild(refA.Slot, subtreeB); err != nil {
		return a, b, errors.Wrap(err, errors.IncompatibleCrossover, "crossover swap rejected")
	}
	if err := refB.Parent.ReplaceChild(refB.Slot, subtreeA); err != nil {
		return a, b, errors.Wrap(err, errors.IncompatibleCrossover, "crossover swap rejected")
	}

	return childA, childB, nil
}

func collectSwapRefs(ind *Individual, leavesOnly bool) []rules.NodeRef {
	refs := rules.CollectRefs(ind.Rule.Root)
	if !leavesOnly {
		return refs
	}
	var leaves []rules.NodeRef
	for _, ref := range refs {
		if len(ref.Node.Children()) == 0 {
			leaves = append(leaves, ref)
		}
	}
	return leaves
}

// Mutate applies the requested variant to a deep copy of the parent.
func (o *Operators) Mutate(rng *rand.Rand, variant OperatorVariant, parent *Individual) (*Individual, error) {
	switch variant {
	case VariantPointMutation:
		return o.pointMutation(rng, parent)
	default:
		return o.subtreeMutation(rng, parent)
	}
}

// subtreeMutation regrows a brand-new subtree of the selected position's
// required type, bounded by the mutation depth.
func (o *Operators) subtreeMutation(rng *rand.Rand, parent *Individual) (*Individual, error) {
	child := parent.Clone()
	refs := rules.CollectRefs(child.Rule.Root)
	ref := refs[rng.Intn(len(refs))]

	replacement, err := rules.Grow(rng, 1, o.MaxMutationDepth, o.TerminalProb, ref.RequiredType(), o.Pool)
	if err != nil {
		return nil, err
	}
	if err := ref.Parent.ReplaceChild(ref.Slot, replacement); err != nil {
		return nil, err
	}
	return child, nil
}

// pointMutation swaps one terminal for a freshly built terminal of the same
// required type, a small step compared to regrowing a subtree. Trees whose
// non-root nodes are all operators fall back to subtree mutation.
func (o *Operators) pointMutation(rng *rand.Rand, parent *Individual) (*Individual, error) {
	child := parent.Clone()
	leaves := collectSwapRefs(child, true)
	if len(leaves) == 0 {
		return o.subtreeMutation(rng, parent)
	}
	ref := leaves[rng.Intn(len(leaves))]

	terminals := o.Pool.TerminalsFor(ref.RequiredType())
	if len(terminals) == 0 {
		return o.subtreeMutation(rng, parent)
	}
	replacement := terminals[rng.Intn(len(terminals))].Build()
	if err := ref.Parent.ReplaceChild(ref.Slot, replacement); err != nil {
		return nil, err
	}
	return child, nil
}
