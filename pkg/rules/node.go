package rules

// Node is one vertex of a rule expression tree. Exactly three kinds exist:
// ConstantNode, VarNode and OperatorNode. The set is closed; entity decoding
// and the tree builder only ever produce these.
type Node interface {
	// ReturnType is the semantic type of the value this node produces.
	ReturnType() SemanticType
	// Children returns the owned child nodes, empty for terminals.
	Children() []Node
	// Evaluate computes the node's value against a read-only report.
	Evaluate(report Report) float64
	// Clone returns a deep copy sharing no nodes with the receiver.
	Clone() Node
}

// Range is a closed numeric interval used for value normalization.
type Range struct {
	Lower float64
	Upper float64
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Lower + r.Upper) / 2
}

// rescale linearly maps v from src into tgt, clamping v into src first.
// A degenerate source range maps everything to the target midpoint.
func rescale(v float64, src, tgt Range) float64 {
	if src.Upper <= src.Lower {
		return tgt.Mid()
	}
	if v < src.Lower {
		v = src.Lower
	}
	if v > src.Upper {
		v = src.Upper
	}
	ratio := (v - src.Lower) / (src.Upper - src.Lower)
	return tgt.Lower + ratio*(tgt.Upper-tgt.Lower)
}

// ConstantNode is a terminal holding a fixed value, optionally rescaled from
// a source range into a target range.
type ConstantNode struct {
	Value     float64
	Type      SemanticType
	Normalize bool
	Source    Range
	Target    Range
}

// NewConstant creates a plain constant terminal.
func NewConstant(value float64, typ SemanticType) *ConstantNode {
	return &ConstantNode{Value: value, Type: typ}
}

// NewNormalizedConstant creates a constant whose raw value is rescaled from
// src into tgt on every evaluation.
func NewNormalizedConstant(value float64, typ SemanticType, src, tgt Range) *ConstantNode {
	return &ConstantNode{Value: value, Type: typ, Normalize: true, Source: src, Target: tgt}
}

func (c *ConstantNode) ReturnType() SemanticType { return c.Type }

func (c *ConstantNode) Children() []Node { return nil }

func (c *ConstantNode) Evaluate(_ Report) float64 {
	if c.Normalize {
		return rescale(c.Value, c.Source, c.Target)
	}
	return c.Value
}

func (c *ConstantNode) Clone() Node {
	clone := *c
	return &clone
}

// VarNode is a terminal that extracts a value from the analysis report and
// encodes it into the target range. Numeric variables are linearly rescaled
// from Source into Target; categorical variables are looked up in Mapping.
// Missing or unmapped values encode to Default.
type VarNode struct {
	Path    string
	Type    SemanticType
	Source  Range
	Target  Range
	Mapping map[string]float64
	Default float64
}

// NewNumericVar creates a variable terminal over a numeric report field.
func NewNumericVar(path string, typ SemanticType, src, tgt Range) *VarNode {
	return &VarNode{
		Path:    path,
		Type:    typ,
		Source:  src,
		Target:  tgt,
		Default: tgt.Mid(),
	}
}

// NewCategoricalVar creates a variable terminal over a categorical report
// field, encoded through an explicit mapping table.
func NewCategoricalVar(path string, typ SemanticType, mapping map[string]float64, def float64) *VarNode {
	return &VarNode{
		Path:    path,
		Type:    typ,
		Mapping: mapping,
		Default: def,
	}
}

func (v *VarNode) ReturnType() SemanticType { return v.Type }

func (v *VarNode) Children() []Node { return nil }

func (v *VarNode) Evaluate(report Report) float64 {
	if len(v.Mapping) > 0 {
		s, ok := report.LookupString(v.Path)
		if !ok {
			return v.Default
		}
		encoded, ok := v.Mapping[s]
		if !ok {
			return v.Default
		}
		return encoded
	}

	raw, ok := report.LookupFloat(v.Path)
	if !ok {
		return v.Default
	}
	return rescale(raw, v.Source, v.Target)
}

func (v *VarNode) Clone() Node {
	clone := *v
	if v.Mapping != nil {
		clone.Mapping = make(map[string]float64, len(v.Mapping))
		for k, val := range v.Mapping {
			clone.Mapping[k] = val
		}
	}
	return &clone
}
