package rules

// TerminalTemplate describes an available terminal. Build must return a
// fresh node on every call so pooled templates never alias tree nodes.
type TerminalTemplate struct {
	Name  string
	Type  SemanticType
	Build func() Node
}

// OperatorTemplate describes an available typed operator shape: the kind,
// its return semantic type and the required type of each child slot.
type OperatorTemplate struct {
	Name       string
	Kind       OpKind
	Return     SemanticType
	ChildTypes []SemanticType
}

// NodePool holds the terminals and operator shapes the tree builder may
// draw from. Insertion order is preserved so that seeded runs are
// reproducible.
type NodePool struct {
	terminals []TerminalTemplate
	operators []OperatorTemplate
}

func NewNodePool() *NodePool {
	return &NodePool{}
}

func (p *NodePool) AddTerminal(t TerminalTemplate) *NodePool {
	p.terminals = append(p.terminals, t)
	return p
}

func (p *NodePool) AddOperator(t OperatorTemplate) *NodePool {
	p.operators = append(p.operators, t)
	return p
}

// TerminalsFor returns the terminals usable where the given type is
// required: exact matches first, falling back to the wildcard pool when no
// exact match exists. An empty result means the pool cannot satisfy the
// requirement.
func (p *NodePool) TerminalsFor(required SemanticType) []TerminalTemplate {
	if required == TypeAny {
		return p.terminals
	}

	var exact, wildcard []TerminalTemplate
	for _, t := range p.terminals {
		switch t.Type {
		case required:
			exact = append(exact, t)
		case TypeAny:
			wildcard = append(wildcard, t)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return wildcard
}

// OperatorsFor returns the operator shapes whose return type can satisfy
// the given requirement, with the same exact-then-wildcard policy as
// TerminalsFor.
func (p *NodePool) OperatorsFor(required SemanticType) []OperatorTemplate {
	if required == TypeAny {
		return p.operators
	}

	var exact, wildcard []OperatorTemplate
	for _, t := range p.operators {
		switch t.Return {
		case required:
			exact = append(exact, t)
		case TypeAny:
			wildcard = append(wildcard, t)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return wildcard
}
