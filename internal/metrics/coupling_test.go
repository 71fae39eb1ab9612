package metrics

import (
	"math"
	"testing"

	"archscope/internal/depgraph"
)

func TestInstability(t *testing.T) {
	tests := []struct {
		name     string
		afferent int
		efferent int
		want     float64
	}{
		{"isolated node", 0, 0, 0.0},
		{"fully stable", 5, 0, 0.0},
		{"fully unstable", 0, 5, 1.0},
		{"balanced", 3, 3, 0.5},
		{"mostly stable", 9, 1, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Instability(tt.afferent, tt.efferent)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Instability(%d, %d) = %v, want %v", tt.afferent, tt.efferent, got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("instability %v out of [0,1]", got)
			}
		})
	}
}

func TestComputeCountsDistinctCounterparties(t *testing.T) {
	g := depgraph.New(depgraph.GranularityType)
	g.AddNode(&depgraph.Node{ID: "a"})
	g.AddNode(&depgraph.Node{ID: "b"})
	g.AddNode(&depgraph.Node{ID: "c"})

	// two relationship kinds a->b still count b once
	g.AddEdge(depgraph.Edge{Source: "a", Target: "b", Kind: depgraph.KindUsage, Op: depgraph.UsageCall})
	g.AddEdge(depgraph.Edge{Source: "a", Target: "b", Kind: depgraph.KindAssociation})
	g.AddEdge(depgraph.Edge{Source: "a", Target: "c", Kind: depgraph.KindUsage, Op: depgraph.UsageCall})
	g.AddEdge(depgraph.Edge{Source: "c", Target: "b", Kind: depgraph.KindUsage, Op: depgraph.UsageCall})

	records := Compute(g)

	if got := records["a"]; got.Efferent != 2 || got.Afferent != 0 {
		t.Errorf("a = %+v, want Ce=2 Ca=0", got)
	}
	if got := records["b"]; got.Afferent != 2 || got.Efferent != 0 {
		t.Errorf("b = %+v, want Ca=2 Ce=0", got)
	}
	if got := records["b"]; got.Instability != 0.0 {
		t.Errorf("b instability = %v, want 0.0", got.Instability)
	}
	if got := records["a"]; got.Instability != 1.0 {
		t.Errorf("a instability = %v, want 1.0", got.Instability)
	}
}

func TestComputeSkipsExternalNodes(t *testing.T) {
	g := depgraph.New(depgraph.GranularityType)
	g.AddNode(&depgraph.Node{ID: "a"})
	g.AddNode(&depgraph.Node{ID: "ext", External: true})
	g.AddEdge(depgraph.Edge{Source: "a", Target: "ext", Kind: depgraph.KindUsage, Op: depgraph.UsageCall})

	records := Compute(g)

	if _, ok := records["ext"]; ok {
		t.Error("external nodes must not get coupling records")
	}
	// the edge toward the external still counts for a's efferent coupling
	if got := records["a"]; got.Efferent != 1 {
		t.Errorf("a efferent = %d, want 1", got.Efferent)
	}
}

func TestEdgeScore(t *testing.T) {
	e := &depgraph.Edge{Count: 10, Members: []string{"a", "b", "c"}}
	want := 0.7*10 + 0.3*3
	if got := EdgeScore(e); math.Abs(got-want) > 1e-9 {
		t.Errorf("EdgeScore = %v, want %v", got, want)
	}
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		score float64
		want  StrengthLevel
	}{
		{0, StrengthWeak},
		{19.9, StrengthWeak},
		{20, StrengthModerate},
		{50, StrengthModerate},
		{50.1, StrengthStrong},
		{500, StrengthStrong},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClassifyEdge(t *testing.T) {
	th := DefaultThresholds()
	weak := &depgraph.Edge{Count: 1, Members: []string{"m"}}
	strong := &depgraph.Edge{Count: 100, Members: []string{"m"}}

	if got := th.ClassifyEdge(weak); got != StrengthWeak {
		t.Errorf("weak edge classified %s", got)
	}
	if got := th.ClassifyEdge(strong); got != StrengthStrong {
		t.Errorf("strong edge classified %s", got)
	}
}
