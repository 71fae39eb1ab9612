package diagram

import (
	"strings"
	"testing"

	"archscope/internal/cycles"
	"archscope/internal/depgraph"
	"archscope/internal/rules"
)

func packageGraph() *depgraph.Graph {
	g := depgraph.New(depgraph.GranularityPackage)
	g.AddNode(&depgraph.Node{ID: "com.app.core"})
	g.AddNode(&depgraph.Node{ID: "com.app.web"})
	g.AddNode(&depgraph.Node{ID: "org.lib", External: true})
	g.AddEdge(depgraph.Edge{Source: "com.app.web", Target: "com.app.core", Kind: depgraph.KindUsage, Op: depgraph.UsageCall, Count: 5})
	g.AddEdge(depgraph.Edge{Source: "com.app.core", Target: "org.lib", Kind: depgraph.KindUsage, Op: depgraph.UsageCall, Count: 2})
	return g
}

func TestGenerateFlowchart(t *testing.T) {
	out := NewGenerator(packageGraph()).Generate()

	if !strings.HasPrefix(out, "flowchart LR\n") {
		t.Errorf("output must start with the flowchart header:\n%s", out)
	}
	for _, want := range []string{`"com.app.core"`, `"com.app.web"`, "x5", "x2", "-->"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// external nodes render with the trapezoid shape
	if !strings.Contains(out, `[/"org.lib"/]`) {
		t.Errorf("external node not shaped:\n%s", out)
	}
}

func TestGenerateHighlightsCycles(t *testing.T) {
	gen := NewGenerator(packageGraph())
	gen.SetCycles([]cycles.Cycle{{Nodes: []string{"com.app.core", "com.app.web"}}})
	out := gen.Generate()

	if !strings.Contains(out, "classDef cycle") {
		t.Errorf("cycle class definition missing:\n%s", out)
	}
	if !strings.Contains(out, "class n0,n1 cycle") {
		t.Errorf("cycle members not tagged:\n%s", out)
	}
}

func TestGenerateMarksViolatingEdges(t *testing.T) {
	gen := NewGenerator(packageGraph())
	gen.SetViolations([]rules.Violation{{
		Edges: []rules.EdgeRef{{Source: "com.app.web", Target: "com.app.core"}},
	}})
	out := gen.Generate()

	if !strings.Contains(out, "==>") {
		t.Errorf("violating edge not emphasized:\n%s", out)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := NewGenerator(packageGraph()).Generate()
	for i := 0; i < 5; i++ {
		if again := NewGenerator(packageGraph()).Generate(); again != first {
			t.Fatal("output changed between runs")
		}
	}
}
