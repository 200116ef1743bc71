package rules

// SemanticType tags what a node's result means. Operators declare the
// semantic type of each child slot and the type of their own result; a tree
// is only valid when every connection is type-compatible.
type SemanticType string

const (
	// TypeAny is the wildcard: compatible with every other type.
	TypeAny SemanticType = "any"

	TypeNumerical         SemanticType = "numerical"
	TypePrice             SemanticType = "price"
	TypePercentage        SemanticType = "percentage"
	TypeMomentum          SemanticType = "momentum"
	TypeBoolean           SemanticType = "boolean"
	TypeDecisionSignal    SemanticType = "decision-signal"
	TypeRiskLevel         SemanticType = "risk-level"
	TypeOpportunityRating SemanticType = "opportunity-rating"
)

// AllSemanticTypes lists every concrete type plus the wildcard.
var AllSemanticTypes = []SemanticType{
	TypeAny,
	TypeNumerical,
	TypePrice,
	TypePercentage,
	TypeMomentum,
	TypeBoolean,
	TypeDecisionSignal,
	TypeRiskLevel,
	TypeOpportunityRating,
}

// CompatibleWith reports whether a node of type t may fill a slot that
// requires the given type. Either side being the wildcard is a match.
func (t SemanticType) CompatibleWith(required SemanticType) bool {
	return t == TypeAny || required == TypeAny || t == required
}

// Valid reports whether t is one of the known semantic types.
func (t SemanticType) Valid() bool {
	for _, known := range AllSemanticTypes {
		if t == known {
			return true
		}
	}
	return false
}
