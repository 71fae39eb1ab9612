// Package rules evaluates the architectural rule set against a graph
// snapshot and its coupling metrics, producing severity-tagged violations
// with remediation hints.
package rules

import (
	"fmt"

	"archscope/internal/depgraph"
	archerrors "archscope/internal/errors"
	"archscope/internal/logging"
	"archscope/internal/metrics"
	"archscope/internal/ruleset"
)

// Severity of a violation
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// EdgeRef names the exact edge a violation points at, detached from the
// graph so downstream consumers need no back-references.
type EdgeRef struct {
	Source string            `json:"source"`
	Target string            `json:"target"`
	Kind   depgraph.EdgeKind `json:"kind,omitempty"`
}

// Violation is one architectural rule finding
type Violation struct {
	Rule        string    `json:"rule"`
	Severity    Severity  `json:"severity"`
	Nodes       []string  `json:"nodes,omitempty"`
	Edges       []EdgeRef `json:"edges,omitempty"`
	Description string    `json:"description"`
	Remediation string    `json:"remediation,omitempty"`
}

// Input is the immutable snapshot a rule evaluates against
type Input struct {
	TypeGraph       *depgraph.Graph
	PackageGraph    *depgraph.Graph
	Coupling        map[string]metrics.CouplingRecord // type-level
	PackageCoupling map[string]metrics.CouplingRecord
	Thresholds      metrics.Thresholds
}

// Rule is one independently pluggable check. An evaluation error means the
// rule's configuration is unusable; the engine skips it and keeps going.
type Rule interface {
	ID() string
	Evaluate(in Input) ([]Violation, error)
}

// Engine runs rules in the fixed, configuration-defined order
type Engine struct {
	rules  []Rule
	diags  []archerrors.Diagnostic
	logger *logging.Logger
}

// NewEngine builds the rule chain from the configured rule order. Unknown
// rule identifiers become configuration diagnostics, not failures.
func NewEngine(rs *ruleset.RuleSet, logger *logging.Logger) *Engine {
	e := &Engine{logger: logger}
	for _, id := range rs.RuleOrder {
		switch id {
		case ruleset.RuleLayerAccess:
			e.rules = append(e.rules, NewLayerAccessRule(rs))
		case ruleset.RuleGodObject:
			e.rules = append(e.rules, NewGodObjectRule(rs))
		case ruleset.RuleUnstableDependency:
			e.rules = append(e.rules, NewUnstableDependencyRule())
		default:
			e.diags = append(e.diags, archerrors.Diag(
				archerrors.ConfigurationError, id,
				fmt.Sprintf("unknown rule %q in rule_order; skipped", id)))
		}
	}
	return e
}

// Evaluate runs every rule over the snapshot. A failing rule is reported
// once as a structured diagnostic and does not prevent the others from
// running.
func (e *Engine) Evaluate(in Input) ([]Violation, []archerrors.Diagnostic) {
	violations := make([]Violation, 0)
	diags := append([]archerrors.Diagnostic(nil), e.diags...)

	for _, rule := range e.rules {
		found, err := rule.Evaluate(in)
		if err != nil {
			diags = append(diags, archerrors.Diag(
				archerrors.ConfigurationError, rule.ID(), err.Error()))
			if e.logger != nil {
				e.logger.Warn("Rule skipped", map[string]interface{}{
					"rule":  rule.ID(),
					"error": err.Error(),
				})
			}
			continue
		}
		violations = append(violations, found...)
	}
	return violations, diags
}
