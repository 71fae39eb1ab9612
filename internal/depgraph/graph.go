// Package depgraph holds the typed dependency graph the analysis pipeline
// assembles and every downstream consumer reads. A Graph is mutable while
// being assembled and treated as an immutable snapshot afterwards.
package depgraph

import (
	"fmt"
	"sort"

	archerrors "archscope/internal/errors"
	"archscope/internal/metadata"
)

// Granularity of a graph instantiation
type Granularity string

const (
	// GranularityType is the per-type graph
	GranularityType Granularity = "type"
	// GranularityPackage is the projected per-package graph
	GranularityPackage Granularity = "package"
)

// EdgeKind classifies a dependency relationship
type EdgeKind string

const (
	KindInheritance EdgeKind = "inheritance"
	KindComposition EdgeKind = "composition"
	KindAggregation EdgeKind = "aggregation"
	KindAssociation EdgeKind = "association"
	KindUsage       EdgeKind = "usage"
)

// UsageOp refines a usage edge
type UsageOp string

const (
	UsageCall        UsageOp = "call"
	UsageInstantiate UsageOp = "instantiate"
	UsageTypeCheck   UsageOp = "typeCheck"
)

// Multiplicity of a structural relationship
type Multiplicity string

const (
	MultiplicityOne       Multiplicity = "one"
	MultiplicityOneToMany Multiplicity = "one-to-many"
)

// Node is a single vertex: an analyzed type, or a package after projection.
type Node struct {
	ID         string              `json:"id"`
	Package    string              `json:"package,omitempty"`
	Kind       metadata.TypeKind   `json:"kind,omitempty"`
	Visibility metadata.Visibility `json:"visibility,omitempty"`
	Abstract   bool                `json:"abstract,omitempty"`

	// External marks a target outside the analyzed unit set. External
	// nodes never appear as edge sources.
	External bool `json:"external,omitempty"`

	// Partial marks a type whose metadata could not be fully parsed
	Partial bool `json:"partial,omitempty"`

	// Size facts consumed by the rule engine
	MethodCount int `json:"methodCount,omitempty"`
	FieldCount  int `json:"fieldCount,omitempty"`
	CodeSize    int `json:"codeSize,omitempty"` // total instruction count

	// TypeCount is the number of contained types (package granularity)
	TypeCount int `json:"typeCount,omitempty"`
}

// Edge is an immutable, attributed relationship between two nodes. Repeated
// sightings of the same (source, target, kind, member) fold into one edge
// with an incremented occurrence count; distinct members accumulate.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`

	// Interface tags an inheritance edge whose target is an interface
	Interface bool `json:"interface,omitempty"`

	// Op refines usage edges
	Op UsageOp `json:"op,omitempty"`

	// Multiplicity of structural edges
	Multiplicity Multiplicity `json:"multiplicity,omitempty"`

	// Members are the distinct originating member names, sorted
	Members []string `json:"members,omitempty"`

	// Count is the folded occurrence count
	Count int `json:"count"`

	// ExternalTarget is set by the extractor when the target could not be
	// resolved inside the analyzed set
	ExternalTarget bool `json:"-"`
}

func edgeKey(source, target string, kind EdgeKind, op UsageOp) string {
	return source + "\x00" + target + "\x00" + string(kind) + "\x00" + string(op)
}

// Graph is a set of nodes plus an adjacency index keyed by source node.
type Graph struct {
	granularity Granularity
	nodes       map[string]*Node
	out         map[string][]*Edge
	in          map[string][]*Edge
	index       map[string]*Edge
}

// New creates an empty graph at the given granularity.
func New(granularity Granularity) *Graph {
	return &Graph{
		granularity: granularity,
		nodes:       make(map[string]*Node),
		out:         make(map[string][]*Edge),
		in:          make(map[string][]*Edge),
		index:       make(map[string]*Edge),
	}
}

// Granularity returns the graph's granularity.
func (g *Graph) Granularity() Granularity {
	return g.granularity
}

// AddNode inserts a node. A non-external node replaces a previously created
// external placeholder with the same ID.
func (g *Graph) AddNode(n *Node) {
	existing, ok := g.nodes[n.ID]
	if ok && !existing.External {
		return
	}
	g.nodes[n.ID] = n
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// AddEdge folds the given edge into the graph, merging with an existing
// edge of the same (source, target, kind, op).
func (g *Graph) AddEdge(e Edge) {
	if e.Count <= 0 {
		e.Count = 1
	}

	key := edgeKey(e.Source, e.Target, e.Kind, e.Op)
	if existing, ok := g.index[key]; ok {
		existing.Count += e.Count
		existing.Members = mergeMembers(existing.Members, e.Members)
		if e.Multiplicity == MultiplicityOneToMany {
			existing.Multiplicity = MultiplicityOneToMany
		}
		return
	}

	stored := e
	stored.Members = mergeMembers(nil, e.Members)
	g.index[key] = &stored
	g.out[e.Source] = append(g.out[e.Source], &stored)
	g.in[e.Target] = append(g.in[e.Target], &stored)
}

func mergeMembers(dst, src []string) []string {
	seen := make(map[string]bool, len(dst)+len(src))
	merged := make([]string, 0, len(dst)+len(src))
	for _, lists := range [][]string{dst, src} {
		for _, m := range lists {
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			merged = append(merged, m)
		}
	}
	sort.Strings(merged)
	return merged
}

// OutEdges returns the edges leaving the given node, sorted.
func (g *Graph) OutEdges(id string) []*Edge {
	return sortedEdges(g.out[id])
}

// InEdges returns the edges entering the given node, sorted.
func (g *Graph) InEdges(id string) []*Edge {
	return sortedEdges(g.in[id])
}

// Edges returns every edge sorted by (source, target, kind, op).
func (g *Graph) Edges() []*Edge {
	all := make([]*Edge, 0, len(g.index))
	for _, e := range g.index {
		all = append(all, e)
	}
	return sortedEdges(all)
}

// EdgeCount returns the number of folded edges.
func (g *Graph) EdgeCount() int {
	return len(g.index)
}

func sortedEdges(edges []*Edge) []*Edge {
	out := make([]*Edge, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		if out[i].Target != out[j].Target {
			return out[i].Target < out[j].Target
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Op < out[j].Op
	})
	return out
}

// Validate checks the graph's closure invariant: every edge endpoint exists
// in the node set, and external nodes are never edge sources. A failure is
// an invariant violation, the only fatal error class.
func (g *Graph) Validate() error {
	for _, e := range g.index {
		src, ok := g.nodes[e.Source]
		if !ok {
			return archerrors.Invariantf("edge %s -> %s references unknown source node", e.Source, e.Target)
		}
		if src.External {
			return archerrors.Invariantf("external node %s appears as edge source (target %s)", e.Source, e.Target)
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return archerrors.Invariantf("edge %s -> %s references unknown target node", e.Source, e.Target)
		}
	}
	return nil
}

// Assemble merges per-type node and edge lists into a validated type-level
// graph. Targets flagged external by the extractor get external placeholder
// nodes; an unflagged dangling target aborts assembly.
func Assemble(nodes []*Node, edges []Edge) (*Graph, error) {
	g := New(GranularityType)
	for _, n := range nodes {
		g.AddNode(n)
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.Target]; !ok {
			if !e.ExternalTarget {
				return nil, archerrors.Invariantf(
					"edge %s -> %s (%s) targets a node absent from the graph and not tagged external",
					e.Source, e.Target, e.Kind)
			}
			g.AddNode(&Node{
				ID:       e.Target,
				Package:  metadata.Package(e.Target),
				External: true,
			})
		}
		g.AddEdge(e)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// String implements fmt.Stringer for debugging output.
func (g *Graph) String() string {
	return fmt.Sprintf("graph[%s] nodes=%d edges=%d", g.granularity, len(g.nodes), len(g.index))
}
