// Package diagram renders the package-level dependency graph as Mermaid
// markup. It is a downstream consumer of the analysis result, not part of
// the core pipeline.
package diagram

import (
	"fmt"
	"sort"
	"strings"

	"archscope/internal/cycles"
	"archscope/internal/depgraph"
	"archscope/internal/rules"
)

// Generator produces a Mermaid flowchart for one graph snapshot
type Generator struct {
	graph      *depgraph.Graph
	cycles     []cycles.Cycle
	violations []rules.Violation
}

// NewGenerator creates a generator over the given graph.
func NewGenerator(g *depgraph.Graph) *Generator {
	return &Generator{graph: g}
}

// SetCycles highlights members of the given cycles.
func (m *Generator) SetCycles(cs []cycles.Cycle) {
	m.cycles = cs
}

// SetViolations marks edges named by the given violations.
func (m *Generator) SetViolations(vs []rules.Violation) {
	m.violations = vs
}

// Generate renders the flowchart.
func (m *Generator) Generate() string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	inCycle := make(map[string]bool)
	for _, c := range m.cycles {
		for _, n := range c.Nodes {
			inCycle[n] = true
		}
	}

	violating := make(map[string]bool)
	for _, v := range m.violations {
		for _, e := range v.Edges {
			violating[e.Source+"->"+e.Target] = true
		}
	}

	ids := make(map[string]string, m.graph.NodeCount())
	for i, n := range m.graph.Nodes() {
		id := fmt.Sprintf("n%d", i)
		ids[n.ID] = id
		label := n.ID
		if n.External {
			b.WriteString(fmt.Sprintf("    %s[/%q/]\n", id, label))
			continue
		}
		b.WriteString(fmt.Sprintf("    %s[%q]\n", id, label))
	}

	for _, e := range m.graph.Edges() {
		arrow := "-->"
		if violating[e.Source+"->"+e.Target] {
			arrow = "==>"
		}
		b.WriteString(fmt.Sprintf("    %s %s|%s x%d| %s\n",
			ids[e.Source], arrow, e.Kind, e.Count, ids[e.Target]))
	}

	if len(inCycle) > 0 {
		b.WriteString("    classDef cycle fill:#fdd,stroke:#c33\n")
		members := make([]string, 0, len(inCycle))
		for n := range inCycle {
			if id, ok := ids[n]; ok {
				members = append(members, id)
			}
		}
		sort.Strings(members)
		b.WriteString("    class " + strings.Join(members, ",") + " cycle\n")
	}

	return b.String()
}
