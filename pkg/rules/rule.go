package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// RuleStatus is the lifecycle state of a rule.
type RuleStatus string

const (
	StatusReady      RuleStatus = "ready"
	StatusEvolving   RuleStatus = "evolving"
	StatusDeprecated RuleStatus = "deprecated"
)

// NeutralScore is what a deprecated rule reports instead of executing.
const NeutralScore = 0.0

// Rule owns an executable expression tree plus its metadata. The root is
// always an operator node; a bare terminal is not an executable rule.
type Rule struct {
	RuleID      string
	Name        string
	Description string
	Status      RuleStatus
	Root        *OperatorNode
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Metrics holds the most recent raw performance numbers reported by an
	// evaluator, if any. The rule core does not interpret them.
	Metrics map[string]float64
}

// NewRule wraps a root operator into a rule with a fresh identifier. The
// tree is validated once at construction.
func NewRule(name, description string, root *OperatorNode) (*Rule, error) {
	if root == nil {
		return nil, errors.New(errors.ConstructionFailed, "rule requires an operator root")
	}
	if err := ValidateTree(root); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Rule{
		RuleID:      uuid.New().String(),
		Name:        name,
		Description: description,
		Status:      StatusEvolving,
		Root:        root,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Purpose is derived, not stored: it is the semantic type the root
// produces, which is what downstream consumers key on.
func (r *Rule) Purpose() SemanticType {
	return r.Root.ReturnType()
}

// Execute evaluates the tree against a report. A deprecated rule
// short-circuits to the neutral score without touching the tree; the typed
// error lets callers distinguish that from a genuine zero.
func (r *Rule) Execute(report Report) (float64, error) {
	if r.Status == StatusDeprecated {
		return NeutralScore, errors.WithFields(
			errors.New(errors.DeprecatedRuleExecution, "rule is deprecated"),
			errors.Fields{"rule_id": r.RuleID},
		)
	}
	return r.Root.Evaluate(report), nil
}

// Clone deep-copies the rule under a new identifier. Offspring rules start
// in the evolving state with no metrics.
func (r *Rule) Clone() *Rule {
	now := time.Now().UTC()
	return &Rule{
		RuleID:      uuid.New().String(),
		Name:        r.Name,
		Description: r.Description,
		Status:      StatusEvolving,
		Root:        r.Root.Clone().(*OperatorNode),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStatus transitions the lifecycle state and bumps the update stamp.
func (r *Rule) SetStatus(status RuleStatus) {
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
}

// RecordMetrics attaches the latest raw performance numbers.
func (r *Rule) RecordMetrics(metrics map[string]float64) {
	r.Metrics = make(map[string]float64, len(metrics))
	for k, v := range metrics {
		r.Metrics[k] = v
	}
	r.UpdatedAt = time.Now().UTC()
}
