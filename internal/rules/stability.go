package rules

import (
	"fmt"

	"archscope/internal/ruleset"
)

// UnstableDependencyRule flags an edge A -> B where B's instability is
// higher than A's: a stable component leaning on a less stable one, against
// the stable-dependencies principle.
type UnstableDependencyRule struct{}

// NewUnstableDependencyRule creates the rule.
func NewUnstableDependencyRule() *UnstableDependencyRule {
	return &UnstableDependencyRule{}
}

// ID implements Rule.
func (r *UnstableDependencyRule) ID() string { return ruleset.RuleUnstableDependency }

// Evaluate implements Rule. The check runs at package granularity, where
// the stable-dependencies principle is defined; type-level noise would
// drown the signal.
func (r *UnstableDependencyRule) Evaluate(in Input) ([]Violation, error) {
	if in.PackageGraph == nil {
		return nil, nil
	}

	var violations []Violation
	seen := make(map[string]bool)

	for _, e := range in.PackageGraph.Edges() {
		source, ok := in.PackageCoupling[e.Source]
		if !ok {
			continue
		}
		target, ok := in.PackageCoupling[e.Target]
		if !ok {
			continue
		}
		if target.Instability <= source.Instability {
			continue
		}

		pair := e.Source + "->" + e.Target
		if seen[pair] {
			continue
		}
		seen[pair] = true

		violations = append(violations, Violation{
			Rule:     r.ID(),
			Severity: SeverityMedium,
			Nodes:    []string{e.Source, e.Target},
			Edges:    []EdgeRef{{Source: e.Source, Target: e.Target, Kind: e.Kind}},
			Description: fmt.Sprintf("%s (instability %.2f) depends on less stable %s (instability %.2f)",
				e.Source, source.Instability, e.Target, target.Instability),
			Remediation: fmt.Sprintf("extract an abstraction %s can depend on instead of concrete %s", e.Source, e.Target),
		})
	}
	return violations, nil
}
