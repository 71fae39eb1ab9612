// Package metrics computes Martin-style coupling and stability figures from
// an assembled dependency graph snapshot.
package metrics

import (
	"archscope/internal/depgraph"
)

// CouplingRecord holds the per-node coupling figures
type CouplingRecord struct {
	Afferent    int     `json:"afferent"`    // distinct nodes depending on this one
	Efferent    int     `json:"efferent"`    // distinct nodes this one depends on
	Instability float64 `json:"instability"` // efferent / (afferent + efferent)
}

// StrengthLevel classifies a dependency's strength
type StrengthLevel string

const (
	StrengthWeak     StrengthLevel = "weak"
	StrengthModerate StrengthLevel = "moderate"
	StrengthStrong   StrengthLevel = "strong"
)

// Thresholds are the tunable strength cutoffs. They are configuration, not
// hard-coded constants, so rule sets can be tuned per project.
type Thresholds struct {
	ModerateEdgeScore float64 `json:"moderateEdgeScore"`
	StrongEdgeScore   float64 `json:"strongEdgeScore"`
}

// DefaultThresholds returns the default strength cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ModerateEdgeScore: 20,
		StrongEdgeScore:   50,
	}
}

// Compute derives a CouplingRecord for every non-external node. Afferent
// and efferent counts are distinct counterparties, not edge counts, so
// multiple relationship kinds between the same pair count once.
func Compute(g *depgraph.Graph) map[string]CouplingRecord {
	records := make(map[string]CouplingRecord, g.NodeCount())

	for _, n := range g.Nodes() {
		if n.External {
			continue
		}

		efferent := make(map[string]bool)
		for _, e := range g.OutEdges(n.ID) {
			efferent[e.Target] = true
		}
		afferent := make(map[string]bool)
		for _, e := range g.InEdges(n.ID) {
			afferent[e.Source] = true
		}

		records[n.ID] = CouplingRecord{
			Afferent:    len(afferent),
			Efferent:    len(efferent),
			Instability: Instability(len(afferent), len(efferent)),
		}
	}
	return records
}

// Instability computes Ce / (Ca + Ce), clamped to [0,1] and defined as 0.0
// for a fully stable or isolated node.
func Instability(afferent, efferent int) float64 {
	total := afferent + efferent
	if total == 0 {
		return 0.0
	}
	v := float64(efferent) / float64(total)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EdgeScore computes dependency strength for one edge: occurrence volume
// weighted at 0.7 plus member spread weighted at 0.3.
func EdgeScore(e *depgraph.Edge) float64 {
	return 0.7*float64(e.Count) + 0.3*float64(len(e.Members))
}

// Classify maps an edge score onto a strength level using the configured
// cutoffs.
func (t Thresholds) Classify(score float64) StrengthLevel {
	switch {
	case score > t.StrongEdgeScore:
		return StrengthStrong
	case score >= t.ModerateEdgeScore:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// ClassifyEdge is shorthand for Classify(EdgeScore(e)).
func (t Thresholds) ClassifyEdge(e *depgraph.Edge) StrengthLevel {
	return t.Classify(EdgeScore(e))
}
