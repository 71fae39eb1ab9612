package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"archscope/internal/ruleset"
)

// LayerAccessRule flags every edge whose (source layer -> target layer)
// pair is absent from the allowed adjacency table. Nodes matching no layer
// pattern are unlayered and exempt.
type LayerAccessRule struct {
	layers  map[string][]string
	allowed []ruleset.LayerEdge
}

// NewLayerAccessRule creates the rule from the configured layer tables.
func NewLayerAccessRule(rs *ruleset.RuleSet) *LayerAccessRule {
	return &LayerAccessRule{
		layers:  rs.Layers,
		allowed: rs.AllowedLayerEdges,
	}
}

// ID implements Rule.
func (r *LayerAccessRule) ID() string { return ruleset.RuleLayerAccess }

// Evaluate implements Rule. An adjacency table referencing an undeclared
// layer is a configuration error; the engine reports it once and skips the
// rule.
func (r *LayerAccessRule) Evaluate(in Input) ([]Violation, error) {
	if len(r.layers) == 0 {
		return nil, nil
	}

	compiled, err := compileLayers(r.layers)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(r.allowed))
	for _, edge := range r.allowed {
		if _, ok := r.layers[edge.From]; !ok {
			return nil, fmt.Errorf("allowed_layer_edges references unknown layer %q", edge.From)
		}
		if _, ok := r.layers[edge.To]; !ok {
			return nil, fmt.Errorf("allowed_layer_edges references unknown layer %q", edge.To)
		}
		allowed[edge.From+"->"+edge.To] = true
	}

	var violations []Violation
	for _, e := range in.TypeGraph.Edges() {
		fromLayer := matchLayer(e.Source, compiled)
		toLayer := matchLayer(e.Target, compiled)
		if fromLayer == "" || toLayer == "" || fromLayer == toLayer {
			continue
		}
		if allowed[fromLayer+"->"+toLayer] {
			continue
		}

		violations = append(violations, Violation{
			Rule:     r.ID(),
			Severity: SeverityHigh,
			Nodes:    []string{e.Source, e.Target},
			Edges:    []EdgeRef{{Source: e.Source, Target: e.Target, Kind: e.Kind}},
			Description: fmt.Sprintf("%s (layer %s) depends on %s (layer %s), which the layer adjacency table does not allow",
				e.Source, fromLayer, e.Target, toLayer),
			Remediation: fmt.Sprintf("invert the dependency or route %s -> %s access through an allowed layer", fromLayer, toLayer),
		})
	}
	return violations, nil
}

// compiledLayer pairs a layer name with its compiled patterns; kept in a
// slice sorted by name so matching is deterministic.
type compiledLayer struct {
	name     string
	patterns []*regexp.Regexp
}

func compileLayers(layers map[string][]string) ([]compiledLayer, error) {
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)

	compiled := make([]compiledLayer, 0, len(names))
	for _, name := range names {
		cl := compiledLayer{name: name}
		for _, pattern := range layers[name] {
			re, err := compilePattern(pattern)
			if err != nil {
				return nil, fmt.Errorf("layer %q has invalid pattern %q: %w", name, pattern, err)
			}
			cl.patterns = append(cl.patterns, re)
		}
		compiled = append(compiled, cl)
	}
	return compiled, nil
}

// compilePattern turns a '*' glob over type names into an anchored regexp.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("^" + strings.Join(parts, ".*") + "$")
}

func matchLayer(node string, layers []compiledLayer) string {
	for _, layer := range layers {
		for _, re := range layer.patterns {
			if re.MatchString(node) {
				return layer.name
			}
		}
	}
	return ""
}
