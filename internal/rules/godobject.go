package rules

import (
	"fmt"

	"archscope/internal/ruleset"
)

// GodObjectRule flags types whose member counts or estimated size exceed
// the configured thresholds, and packages that accumulate too many types.
type GodObjectRule struct {
	methodThreshold  int
	fieldThreshold   int
	sizeThreshold    int
	packageThreshold int
}

// NewGodObjectRule creates the rule from the configured size thresholds.
func NewGodObjectRule(rs *ruleset.RuleSet) *GodObjectRule {
	return &GodObjectRule{
		methodThreshold:  rs.GodObjectMethodThreshold,
		fieldThreshold:   rs.GodObjectFieldThreshold,
		sizeThreshold:    rs.GodObjectSizeThreshold,
		packageThreshold: rs.GodPackageTypeThreshold,
	}
}

// ID implements Rule.
func (r *GodObjectRule) ID() string { return ruleset.RuleGodObject }

// Evaluate implements Rule.
func (r *GodObjectRule) Evaluate(in Input) ([]Violation, error) {
	var violations []Violation

	for _, n := range in.TypeGraph.Nodes() {
		if n.External {
			continue
		}

		var reason string
		switch {
		case n.MethodCount > r.methodThreshold:
			reason = fmt.Sprintf("%d methods (threshold %d)", n.MethodCount, r.methodThreshold)
		case n.FieldCount > r.fieldThreshold:
			reason = fmt.Sprintf("%d fields (threshold %d)", n.FieldCount, r.fieldThreshold)
		case n.CodeSize > r.sizeThreshold:
			reason = fmt.Sprintf("estimated size %d instructions (threshold %d)", n.CodeSize, r.sizeThreshold)
		default:
			continue
		}

		violations = append(violations, Violation{
			Rule:        r.ID(),
			Severity:    SeverityHigh,
			Nodes:       []string{n.ID},
			Description: fmt.Sprintf("%s is a god object: %s", n.ID, reason),
			Remediation: fmt.Sprintf("split %s along its responsibilities into smaller collaborating types", n.ID),
		})
	}

	if in.PackageGraph != nil {
		for _, n := range in.PackageGraph.Nodes() {
			if n.External || n.TypeCount <= r.packageThreshold {
				continue
			}
			violations = append(violations, Violation{
				Rule:        r.ID(),
				Severity:    SeverityMedium,
				Nodes:       []string{n.ID},
				Description: fmt.Sprintf("%s is a god package: %d contained types (threshold %d)", n.ID, n.TypeCount, r.packageThreshold),
				Remediation: fmt.Sprintf("partition %s into cohesive sub-packages", n.ID),
			})
		}
	}

	return violations, nil
}
