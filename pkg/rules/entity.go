package rules

import (
	"time"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// Entity forms are the structural serialization of rules: plain structs a
// storage collaborator can marshal however it likes (the bundled store uses
// JSON). The round trip is structural, not binary — decoding re-validates
// every invariant.

const (
	nodeKindConstant = "constant"
	nodeKindVariable = "variable"
	nodeKindOperator = "operator"
)

// RangeEntity mirrors Range.
type RangeEntity struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NodeEntity is the serialized form of one tree node.
type NodeEntity struct {
	Kind       string `json:"kind"`
	ReturnType string `json:"return_type"`

	// Constant fields
	Value     float64      `json:"value,omitempty"`
	Normalize bool         `json:"normalize,omitempty"`
	Source    *RangeEntity `json:"source,omitempty"`
	Target    *RangeEntity `json:"target,omitempty"`

	// Variable fields
	Path    string             `json:"path,omitempty"`
	Mapping map[string]float64 `json:"mapping,omitempty"`
	Default float64            `json:"default,omitempty"`

	// Operator fields
	OpKind     string       `json:"op_kind,omitempty"`
	ChildTypes []string     `json:"child_types,omitempty"`
	Children   []NodeEntity `json:"children,omitempty"`
}

// RuleEntity is the serialized form of a rule and its metadata.
type RuleEntity struct {
	RuleID      string             `json:"rule_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	Purpose     string             `json:"purpose"`
	CreatedAt   int64              `json:"created_at"`
	UpdatedAt   int64              `json:"updated_at"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Root        NodeEntity         `json:"root"`
}

// ToEntity converts a node tree into its structural form.
func nodeToEntity(node Node) NodeEntity {
	switch n := node.(type) {
	case *ConstantNode:
		e := NodeEntity{
			Kind:       nodeKindConstant,
			ReturnType: string(n.Type),
			Value:      n.Value,
			Normalize:  n.Normalize,
		}
		if n.Normalize {
			e.Source = &RangeEntity{Lower: n.Source.Lower, Upper: n.Source.Upper}
			e.Target = &RangeEntity{Lower: n.Target.Lower, Upper: n.Target.Upper}
		}
		return e
	case *VarNode:
		e := NodeEntity{
			Kind:       nodeKindVariable,
			ReturnType: string(n.Type),
			Path:       n.Path,
			Default:    n.Default,
		}
		if len(n.Mapping) > 0 {
			e.Mapping = make(map[string]float64, len(n.Mapping))
			for k, v := range n.Mapping {
				e.Mapping[k] = v
			}
		} else {
			e.Source = &RangeEntity{Lower: n.Source.Lower, Upper: n.Source.Upper}
			e.Target = &RangeEntity{Lower: n.Target.Lower, Upper: n.Target.Upper}
		}
		return e
	case *OperatorNode:
		e := NodeEntity{
			Kind:       nodeKindOperator,
			ReturnType: string(n.Type),
			OpKind:     n.Kind.String(),
		}
		for _, t := range n.ChildTypes {
			e.ChildTypes = append(e.ChildTypes, string(t))
		}
		for _, child := range n.Children() {
			e.Children = append(e.Children, nodeToEntity(child))
		}
		return e
	default:
		// The node set is closed; this is unreachable for trees built
		// through this package.
		return NodeEntity{}
	}
}

// nodeFromEntity rebuilds a node tree, re-validating types and arities.
func nodeFromEntity(e NodeEntity) (Node, error) {
	returnType := SemanticType(e.ReturnType)
	if !returnType.Valid() {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "unknown semantic type in entity"),
			errors.Fields{"return_type": e.ReturnType},
		)
	}

	switch e.Kind {
	case nodeKindConstant:
		node := &ConstantNode{Value: e.Value, Type: returnType, Normalize: e.Normalize}
		if e.Normalize {
			if e.Source == nil || e.Target == nil {
				return nil, errors.New(errors.ValidationFailed, "normalized constant entity missing ranges")
			}
			node.Source = Range{Lower: e.Source.Lower, Upper: e.Source.Upper}
			node.Target = Range{Lower: e.Target.Lower, Upper: e.Target.Upper}
		}
		return node, nil

	case nodeKindVariable:
		if e.Path == "" {
			return nil, errors.New(errors.ValidationFailed, "variable entity missing path")
		}
		node := &VarNode{Path: e.Path, Type: returnType, Default: e.Default}
		if len(e.Mapping) > 0 {
			node.Mapping = make(map[string]float64, len(e.Mapping))
			for k, v := range e.Mapping {
				node.Mapping[k] = v
			}
		} else {
			if e.Source == nil || e.Target == nil {
				return nil, errors.New(errors.ValidationFailed, "numeric variable entity missing ranges")
			}
			node.Source = Range{Lower: e.Source.Lower, Upper: e.Source.Upper}
			node.Target = Range{Lower: e.Target.Lower, Upper: e.Target.Upper}
		}
		return node, nil

	case nodeKindOperator:
		kind, err := ParseOpKind(e.OpKind)
		if err != nil {
			return nil, err
		}
		childTypes := make([]SemanticType, len(e.ChildTypes))
		for i, t := range e.ChildTypes {
			childTypes[i] = SemanticType(t)
			if !childTypes[i].Valid() {
				return nil, errors.WithFields(
					errors.New(errors.ValidationFailed, "unknown child semantic type in entity"),
					errors.Fields{"child_type": t},
				)
			}
		}
		children := make([]Node, len(e.Children))
		for i, childEntity := range e.Children {
			child, err := nodeFromEntity(childEntity)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return NewOperator(kind, returnType, childTypes, children...)

	default:
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "unknown node kind in entity"),
			errors.Fields{"kind": e.Kind},
		)
	}
}

// ToEntity converts a rule into its structural, storage-friendly form.
func (r *Rule) ToEntity() RuleEntity {
	return RuleEntity{
		RuleID:      r.RuleID,
		Name:        r.Name,
		Description: r.Description,
		Status:      string(r.Status),
		Purpose:     string(r.Purpose()),
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   r.UpdatedAt.Unix(),
		Metrics:     r.Metrics,
		Root:        nodeToEntity(r.Root),
	}
}

// FromEntity rebuilds a rule from its structural form, validating the whole
// tree in the process.
func FromEntity(e RuleEntity) (*Rule, error) {
	node, err := nodeFromEntity(e.Root)
	if err != nil {
		return nil, err
	}
	root, ok := node.(*OperatorNode)
	if !ok {
		return nil, errors.New(errors.ValidationFailed, "rule entity root must be an operator")
	}

	status := RuleStatus(e.Status)
	switch status {
	case StatusReady, StatusEvolving, StatusDeprecated:
	default:
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "unknown rule status in entity"),
			errors.Fields{"status": e.Status},
		)
	}

	rule := &Rule{
		RuleID:      e.RuleID,
		Name:        e.Name,
		Description: e.Description,
		Status:      status,
		Root:        root,
		CreatedAt:   time.Unix(e.CreatedAt, 0).UTC(),
		UpdatedAt:   time.Unix(e.UpdatedAt, 0).UTC(),
	}
	if len(e.Metrics) > 0 {
		rule.Metrics = make(map[string]float64, len(e.Metrics))
		for k, v := range e.Metrics {
			rule.Metrics[k] = v
		}
	}
	return rule, nil
}
