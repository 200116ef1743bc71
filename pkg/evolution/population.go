package evolution

import (
	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// Population is an insertion-ordered, capacity-bounded set of individuals
// whose rules all serve one purpose (semantic type). A generation's
// replacement step swaps contents wholesale; individuals are never mutated
// in place across generations.
type Population struct {
	Kind       rules.SemanticType
	Capacity   int
	Generation int

	members []*Individual
}

// NewPopulation creates an empty population of the given kind and capacity.
func NewPopulation(kind rules.SemanticType, capacity int) *Population {
	return &Population{
		Kind:     kind,
		Capacity: capacity,
		members:  make([]*Individual, 0, capacity),
	}
}

// Add appends an individual, enforcing capacity and kind.
func (p *Population) Add(ind *Individual) error {
	if len(p.members) >= p.Capacity {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "population is at capacity"),
			errors.Fields{"capacity": p.Capacity},
		)
	}
	if !ind.Rule.Purpose().CompatibleWith(p.Kind) {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "individual purpose does not match population kind"),
			errors.Fields{"kind": string(p.Kind), "purpose": string(ind.Rule.Purpose())},
		)
	}
	p.members = append(p.members, ind)
	return nil
}

// Members returns the underlying slice in insertion order. Callers must not
// append to it; use Add.
func (p *Population) Members() []*Individual {
	return p.members
}

// Len returns the current population size.
func (p *Population) Len() int {
	return len(p.members)
}

// Replace swaps in the next generation's members wholesale.
func (p *Population) Replace(members []*Individual, generation int) error {
	if len(members) > p.Capacity {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "replacement exceeds population capacity"),
			errors.Fields{"capacity": p.Capacity, "members": len(members)},
		)
	}
	p.members = members
	p.Generation = generation
	return nil
}

// Best returns the individual with the highest scalar fitness, or nil for
// an empty population.
func (p *Population) Best() *Individual {
	var best *Individual
	for _, ind := range p.members {
		if best == nil || ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}
