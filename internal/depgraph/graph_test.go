package depgraph

import (
	"errors"
	"testing"

	archerrors "archscope/internal/errors"
	"archscope/internal/metadata"
)

func TestAddEdgeFoldsDuplicates(t *testing.T) {
	g := New(GranularityType)
	g.AddNode(&Node{ID: "com.app.A", Package: "com.app"})
	g.AddNode(&Node{ID: "com.app.B", Package: "com.app"})

	g.AddEdge(Edge{Source: "com.app.A", Target: "com.app.B", Kind: KindUsage, Op: UsageCall, Members: []string{"run"}})
	g.AddEdge(Edge{Source: "com.app.A", Target: "com.app.B", Kind: KindUsage, Op: UsageCall, Members: []string{"run"}})
	g.AddEdge(Edge{Source: "com.app.A", Target: "com.app.B", Kind: KindUsage, Op: UsageCall, Members: []string{"stop"}})

	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 folded edge, got %d", g.EdgeCount())
	}

	e := g.Edges()[0]
	if e.Count != 3 {
		t.Errorf("expected count 3, got %d", e.Count)
	}
	if len(e.Members) != 2 || e.Members[0] != "run" || e.Members[1] != "stop" {
		t.Errorf("expected sorted members [run stop], got %v", e.Members)
	}
}

func TestAddEdgeKeepsKindsSeparate(t *testing.T) {
	g := New(GranularityType)
	g.AddNode(&Node{ID: "a"})
	g.AddNode(&Node{ID: "b"})

	g.AddEdge(Edge{Source: "a", Target: "b", Kind: KindUsage, Op: UsageCall})
	g.AddEdge(Edge{Source: "a", Target: "b", Kind: KindUsage, Op: UsageInstantiate})
	g.AddEdge(Edge{Source: "a", Target: "b", Kind: KindAssociation})

	if g.EdgeCount() != 3 {
		t.Errorf("expected 3 edges for distinct kinds/ops, got %d", g.EdgeCount())
	}
}

func TestMultiplicityUpgrade(t *testing.T) {
	g := New(GranularityType)
	g.AddNode(&Node{ID: "a"})
	g.AddNode(&Node{ID: "b"})

	g.AddEdge(Edge{Source: "a", Target: "b", Kind: KindAssociation, Multiplicity: MultiplicityOne})
	g.AddEdge(Edge{Source: "a", Target: "b", Kind: KindAssociation, Multiplicity: MultiplicityOneToMany})

	if got := g.Edges()[0].Multiplicity; got != MultiplicityOneToMany {
		t.Errorf("expected one-to-many after fold, got %s", got)
	}
}

func TestAssembleCreatesExternalPlaceholders(t *testing.T) {
	nodes := []*Node{{ID: "com.app.A", Package: "com.app"}}
	edges := []Edge{{
		Source: "com.app.A", Target: "org.lib.Client", Kind: KindUsage,
		Op: UsageCall, ExternalTarget: true,
	}}

	g, err := Assemble(nodes, edges)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	ext := g.Node("org.lib.Client")
	if ext == nil {
		t.Fatal("expected external placeholder node")
	}
	if !ext.External {
		t.Error("placeholder should be tagged external")
	}
	if ext.Package != "org.lib" {
		t.Errorf("expected package org.lib, got %s", ext.Package)
	}
}

func TestAssembleRejectsUntaggedDanglingTarget(t *testing.T) {
	nodes := []*Node{{ID: "a"}}
	edges := []Edge{{Source: "a", Target: "ghost", Kind: KindUsage, Op: UsageCall}}

	_, err := Assemble(nodes, edges)
	if err == nil {
		t.Fatal("expected invariant violation")
	}
	var ae *archerrors.AnalysisError
	if !errors.As(err, &ae) || ae.Code != archerrors.InvariantViolation {
		t.Errorf("expected INVARIANT_VIOLATION, got %v", err)
	}
	if !ae.IsFatal() {
		t.Error("invariant violations must be fatal")
	}
}

func TestValidateRejectsExternalSource(t *testing.T) {
	g := New(GranularityType)
	g.AddNode(&Node{ID: "ext", External: true})
	g.AddNode(&Node{ID: "a"})
	g.AddEdge(Edge{Source: "ext", Target: "a", Kind: KindUsage, Op: UsageCall})

	if err := g.Validate(); err == nil {
		t.Error("expected invariant violation for external edge source")
	}
}

func TestExternalClosure(t *testing.T) {
	// for every external target, that target is never an edge source
	nodes := []*Node{{ID: "com.app.A", Package: "com.app"}, {ID: "com.app.B", Package: "com.app"}}
	edges := []Edge{
		{Source: "com.app.A", Target: "com.app.B", Kind: KindUsage, Op: UsageCall},
		{Source: "com.app.B", Target: "org.x.Y", Kind: KindUsage, Op: UsageCall, ExternalTarget: true},
	}

	g, err := Assemble(nodes, edges)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	for _, n := range g.Nodes() {
		if !n.External {
			continue
		}
		if len(g.OutEdges(n.ID)) != 0 {
			t.Errorf("external node %s has outgoing edges", n.ID)
		}
	}
}

func TestNodesAndEdgesAreSorted(t *testing.T) {
	g := New(GranularityType)
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(&Node{ID: id})
	}
	g.AddEdge(Edge{Source: "c", Target: "a", Kind: KindUsage, Op: UsageCall})
	g.AddEdge(Edge{Source: "a", Target: "b", Kind: KindUsage, Op: UsageCall})

	nodes := g.Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].ID > nodes[i].ID {
			t.Fatalf("nodes not sorted: %s > %s", nodes[i-1].ID, nodes[i].ID)
		}
	}

	edges := g.Edges()
	if edges[0].Source != "a" || edges[1].Source != "c" {
		t.Errorf("edges not sorted by source: %s, %s", edges[0].Source, edges[1].Source)
	}
}

func TestPackageHelper(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"com.app.service.Billing", "com.app.service"},
		{"TopLevel", ""},
		{"a.B", "a"},
	}
	for _, tt := range tests {
		if got := metadata.Package(tt.name); got != tt.want {
			t.Errorf("Package(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
