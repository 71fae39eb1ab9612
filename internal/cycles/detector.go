// Package cycles finds dependency cycles as strongly connected components
// of the dependency graph. The detector is granularity-agnostic: it runs
// identically over type-level and package-level graphs.
package cycles

import (
	"sort"

	"archscope/internal/depgraph"
	"archscope/internal/metrics"
)

// Severity classifies how damaging a cycle is
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Cycle is a derived, read-only result: the member nodes in an
// adjacency-preserving order plus the edges that close the cycle.
type Cycle struct {
	Nodes       []string         `json:"nodes"`
	Edges       []*depgraph.Edge `json:"edges"`
	Severity    Severity         `json:"severity"`
	Occurrences int              `json:"occurrences"` // total folded edge count
	StrongEdges int              `json:"strongEdges"`
}

// Find computes all strongly connected components of size > 1 via an
// iterative, explicit-stack Tarjan walk. A recursive formulation would risk
// stack exhaustion on large graphs, so the DFS state lives on the heap.
// Size-1 components are never reported; self-loops were already suppressed
// at extraction.
func Find(g *depgraph.Graph, thresholds metrics.Thresholds) []Cycle {
	ids := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}

	succ := make(map[string][]string, len(ids))
	for _, id := range ids {
		seen := make(map[string]bool)
		for _, e := range g.OutEdges(id) {
			if !seen[e.Target] {
				seen[e.Target] = true
				succ[id] = append(succ[id], e.Target)
			}
		}
	}

	t := &tarjan{
		succ:    succ,
		indices: make(map[string]int, len(ids)),
		low:     make(map[string]int, len(ids)),
		onStack: make(map[string]bool, len(ids)),
	}
	for _, id := range ids {
		if _, visited := t.indices[id]; !visited {
			t.walk(id)
		}
	}

	cycles := make([]Cycle, 0, len(t.components))
	for _, comp := range t.components {
		if len(comp) < 2 {
			continue
		}
		cycles = append(cycles, buildCycle(g, comp, thresholds))
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Nodes[0] < cycles[j].Nodes[0]
	})
	return cycles
}

// tarjan holds the explicit DFS state of the SCC computation
type tarjan struct {
	succ       map[string][]string
	indices    map[string]int
	low        map[string]int
	onStack    map[string]bool
	stack      []string
	next       int
	components [][]string
}

type frame struct {
	node string
	pos  int // next successor to consider
}

func (t *tarjan) walk(root string) {
	frames := []frame{{node: root}}
	t.open(root)

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		v := top.node
		succs := t.succ[v]

		if top.pos < len(succs) {
			w := succs[top.pos]
			top.pos++
			if _, visited := t.indices[w]; !visited {
				t.open(w)
				frames = append(frames, frame{node: w})
			} else if t.onStack[w] && t.indices[w] < t.low[v] {
				t.low[v] = t.indices[w]
			}
			continue
		}

		// v is finished; pop its component if it is a root
		if t.low[v] == t.indices[v] {
			var comp []string
			for {
				w := t.stack[len(t.stack)-1]
				t.stack = t.stack[:len(t.stack)-1]
				t.onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			t.components = append(t.components, comp)
		}

		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := frames[len(frames)-1].node
			if t.low[v] < t.low[parent] {
				t.low[parent] = t.low[v]
			}
		}
	}
}

func (t *tarjan) open(v string) {
	t.indices[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
}

// buildCycle orders the component along edge adjacency, gathers its internal
// edges, and classifies severity from edge strength and occurrence volume.
func buildCycle(g *depgraph.Graph, comp []string, thresholds metrics.Thresholds) Cycle {
	members := make(map[string]bool, len(comp))
	for _, id := range comp {
		members[id] = true
	}

	cycle := Cycle{Nodes: orderAlongEdges(g, comp, members)}

	for _, id := range cycle.Nodes {
		for _, e := range g.OutEdges(id) {
			if !members[e.Target] {
				continue
			}
			cycle.Edges = append(cycle.Edges, e)
			cycle.Occurrences += e.Count
			if thresholds.ClassifyEdge(e) == metrics.StrengthStrong {
				cycle.StrongEdges++
			}
		}
	}

	switch {
	case cycle.StrongEdges > 3 || cycle.Occurrences > 100:
		cycle.Severity = SeverityHigh
	case cycle.StrongEdges > 1 || cycle.Occurrences > 50:
		cycle.Severity = SeverityMedium
	default:
		cycle.Severity = SeverityLow
	}
	return cycle
}

// orderAlongEdges walks the component from its lexicographically smallest
// node, preferring unvisited successors inside the component, so consecutive
// nodes in the result are connected by an edge wherever the topology allows.
func orderAlongEdges(g *depgraph.Graph, comp []string, members map[string]bool) []string {
	sorted := make([]string, len(comp))
	copy(sorted, comp)
	sort.Strings(sorted)

	start := sorted[0]
	visited := map[string]bool{start: true}
	order := []string{start}
	current := start

	for len(order) < len(comp) {
		next := ""
		for _, e := range g.OutEdges(current) {
			if members[e.Target] && !visited[e.Target] {
				next = e.Target
				break
			}
		}
		if next == "" {
			// walk stepped into visited territory; restart from the
			// smallest unvisited member
			for _, id := range sorted {
				if !visited[id] {
					next = id
					break
				}
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}
