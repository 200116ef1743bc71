package rules

import (
	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// NodeRef identifies a non-root node position inside a tree: the owning
// operator, the child slot, and the node currently attached there.
type NodeRef struct {
	Parent *OperatorNode
	Slot   int
	Node   Node
}

// RequiredType is the semantic type the position's slot demands.
func (r NodeRef) RequiredType() SemanticType {
	return r.Parent.ChildTypes[r.Slot]
}

// CollectRefs gathers every non-root node position in depth-first preorder.
// The root itself has no position and is never collected; structural
// operators (crossover, mutation) only rewrite below the root so a rule's
// purpose never changes.
func CollectRefs(root *OperatorNode) []NodeRef {
	var refs []NodeRef
	var walk func(op *OperatorNode)
	walk = func(op *OperatorNode) {
		for slot, child := range op.Children() {
			refs = append(refs, NodeRef{Parent: op, Slot: slot, Node: child})
			if childOp, ok := child.(*OperatorNode); ok {
				walk(childOp)
			}
		}
	}
	walk(root)
	return refs
}

// IndexRefsByType groups node positions by every semantic type they can be
// exchanged under: the node's return type must be compatible with the group
// type, and the group type must be compatible with the slot's requirement.
// Wildcard-typed nodes and slots therefore appear under every group.
func IndexRefsByType(refs []NodeRef) map[SemanticType][]NodeRef {
	index := make(map[SemanticType][]NodeRef)
	for _, ref := range refs {
		for _, typ := range AllSemanticTypes {
			if ref.Node.ReturnType().CompatibleWith(typ) && typ.CompatibleWith(ref.RequiredType()) {
				index[typ] = append(index[typ], ref)
			}
		}
	}
	return index
}

// Depth returns the height of the subtree rooted at node, counting the node
// itself as 1.
func Depth(node Node) int {
	max := 0
	for _, child := range node.Children() {
		if d := Depth(child); d > max {
			max = d
		}
	}
	return max + 1
}

// CountNodes returns the total node count of the subtree rooted at node.
func CountNodes(node Node) int {
	total := 1
	for _, child := range node.Children() {
		total += CountNodes(child)
	}
	return total
}

// ValidateTree checks the structural invariants of a whole tree: every
// operator's child count matches its arity and every child's return type is
// compatible with its slot.
func ValidateTree(node Node) error {
	op, ok := node.(*OperatorNode)
	if !ok {
		return nil
	}

	if len(op.Children()) != op.Kind.Arity() {
		return errors.WithFields(
			errors.New(errors.ConstructionFailed, "operator child count does not match arity"),
			errors.Fields{"kind": op.Kind.String(), "arity": op.Kind.Arity(), "children": len(op.Children())},
		)
	}
	if len(op.ChildTypes) != op.Kind.Arity() {
		return errors.WithFields(
			errors.New(errors.ConstructionFailed, "operator child type list does not match arity"),
			errors.Fields{"kind": op.Kind.String(), "arity": op.Kind.Arity(), "child_types": len(op.ChildTypes)},
		)
	}

	for i, child := range op.Children() {
		if !child.ReturnType().CompatibleWith(op.ChildTypes[i]) {
			return errors.WithFields(
				errors.New(errors.ConstructionFailed, "child semantic type incompatible with operator slot"),
				errors.Fields{
					"kind":     op.Kind.String(),
					"slot":     i,
					"required": string(op.ChildTypes[i]),
					"actual":   string(child.ReturnType()),
				},
			)
		}
		if err := ValidateTree(child); err != nil {
			return err
		}
	}
	return nil
}
