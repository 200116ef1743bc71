package rules

import (
	"math"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// OpKind enumerates the closed set of operator node kinds. Keeping this a
// compile-time enum (instead of a name-to-constructor registry) lets the
// evaluator switch exhaustively and entity decoding reject unknown kinds.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpNot
	OpGT
	OpGTE
	OpLT
	OpLTE
	OpEQ
	OpIfElse
)

// eqEpsilon is the tolerance for OpEQ over float results.
const eqEpsilon = 1e-9

var opNames = map[OpKind]string{
	OpAdd:    "ADD",
	OpSub:    "SUB",
	OpMul:    "MUL",
	OpDiv:    "DIV",
	OpAnd:    "AND",
	OpOr:     "OR",
	OpNot:    "NOT",
	OpGT:     "GT",
	OpGTE:    "GTE",
	OpLT:     "LT",
	OpLTE:    "LTE",
	OpEQ:     "EQ",
	OpIfElse: "IF_ELSE",
}

var opArities = map[OpKind]int{
	OpAdd:    2,
	OpSub:    2,
	OpMul:    2,
	OpDiv:    2,
	OpAnd:    2,
	OpOr:     2,
	OpNot:    1,
	OpGT:     2,
	OpGTE:    2,
	OpLT:     2,
	OpLTE:    2,
	OpEQ:     2,
	OpIfElse: 3,
}

// String returns the wire name of the operator kind.
func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Arity returns the number of children the operator kind requires.
func (k OpKind) Arity() int {
	return opArities[k]
}

// ParseOpKind converts a wire name back into an OpKind.
func ParseOpKind(name string) (OpKind, error) {
	for k, n := range opNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.WithFields(
		errors.New(errors.InvalidInput, "unknown operator kind"),
		errors.Fields{"kind": name},
	)
}

// OperatorNode is an internal tree node combining child results. Its child
// slots are typed: child i's return type must be compatible with
// ChildTypes[i]. OpIfElse evaluates its first child as a condition and
// routes to the second or third child; every other kind evaluates all
// children and applies a pure function.
type OperatorNode struct {
	Kind       OpKind
	Type       SemanticType
	ChildTypes []SemanticType
	children   []Node
}

// NewOperator constructs a typed operator node, enforcing arity and per-slot
// type compatibility. Violations are construction errors: they indicate
// misconfiguration, not data problems.
func NewOperator(kind OpKind, returnType SemanticType, childTypes []SemanticType, children ...Node) (*OperatorNode, error) {
	arity := kind.Arity()
	if arity == 0 {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "unknown operator kind"),
			errors.Fields{"kind": int(kind)},
		)
	}
	if len(childTypes) != arity {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "child type list does not match operator arity"),
			errors.Fields{"kind": kind.String(), "arity": arity, "child_types": len(childTypes)},
		)
	}
	if len(children) != arity {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "child count does not match operator arity"),
			errors.Fields{"kind": kind.String(), "arity": arity, "children": len(children)},
		)
	}
	for i, child := range children {
		if !child.ReturnType().CompatibleWith(childTypes[i]) {
			return nil, errors.WithFields(
				errors.New(errors.ConstructionFailed, "child semantic type incompatible with operator slot"),
				errors.Fields{
					"kind":     kind.String(),
					"slot":     i,
					"required": string(childTypes[i]),
					"actual":   string(child.ReturnType()),
				},
			)
		}
	}

	types := make([]SemanticType, arity)
	copy(types, childTypes)
	kids := make([]Node, arity)
	copy(kids, children)

	return &OperatorNode{
		Kind:       kind,
		Type:       returnType,
		ChildTypes: types,
		children:   kids,
	}, nil
}

func (o *OperatorNode) ReturnType() SemanticType { return o.Type }

func (o *OperatorNode) Children() []Node { return o.children }

// ReplaceChild swaps the child at slot i for the given node, enforcing the
// slot's required semantic type.
func (o *OperatorNode) ReplaceChild(i int, node Node) error {
	if i < 0 || i >= len(o.children) {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "child slot out of range"),
			errors.Fields{"slot": i, "arity": len(o.children)},
		)
	}
	if !node.ReturnType().CompatibleWith(o.ChildTypes[i]) {
		return errors.WithFields(
			errors.New(errors.ConstructionFailed, "replacement semantic type incompatible with operator slot"),
			errors.Fields{
				"kind":     o.Kind.String(),
				"slot":     i,
				"required": string(o.ChildTypes[i]),
				"actual":   string(node.ReturnType()),
			},
		)
	}
	o.children[i] = node
	return nil
}

// Evaluate applies the operator over child results. The boolean convention
// is strictly-positive-is-true; boolean results are encoded as 1 and 0.
func (o *OperatorNode) Evaluate(report Report) float64 {
	if o.Kind == OpIfElse {
		if o.children[0].Evaluate(report) > 0 {
			return o.children[1].Evaluate(report)
		}
		return o.children[2].Evaluate(report)
	}

	switch o.Kind {
	case OpAdd:
		return o.children[0].Evaluate(report) + o.children[1].Evaluate(report)
	case OpSub:
		return o.children[0].Evaluate(report) - o.children[1].Evaluate(report)
	case OpMul:
		return o.children[0].Evaluate(report) * o.children[1].Evaluate(report)
	case OpDiv:
		denom := o.children[1].Evaluate(report)
		if denom == 0 {
			return 0
		}
		return o.children[0].Evaluate(report) / denom
	case OpAnd:
		if o.children[0].Evaluate(report) > 0 && o.children[1].Evaluate(report) > 0 {
			return 1
		}
		return 0
	case OpOr:
		if o.children[0].Evaluate(report) > 0 || o.children[1].Evaluate(report) > 0 {
			return 1
		}
		return 0
	case OpNot:
		if o.children[0].Evaluate(report) > 0 {
			return 0
		}
		return 1
	case OpGT:
		return boolToScore(o.children[0].Evaluate(report) > o.children[1].Evaluate(report))
	case OpGTE:
		return boolToScore(o.children[0].Evaluate(report) >= o.children[1].Evaluate(report))
	case OpLT:
		return boolToScore(o.children[0].Evaluate(report) < o.children[1].Evaluate(report))
	case OpLTE:
		return boolToScore(o.children[0].Evaluate(report) <= o.children[1].Evaluate(report))
	case OpEQ:
		return boolToScore(math.Abs(o.children[0].Evaluate(report)-o.children[1].Evaluate(report)) < eqEpsilon)
	default:
		return 0
	}
}

func boolToScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (o *OperatorNode) Clone() Node {
	types := make([]SemanticType, len(o.ChildTypes))
	copy(types, o.ChildTypes)

	kids := make([]Node, len(o.children))
	for i, child := range o.children {
		kids[i] = child.Clone()
	}

	return &OperatorNode{
		Kind:       o.Kind,
		Type:       o.Type,
		ChildTypes: types,
		children:   kids,
	}
}
