// Package extract derives typed, attributed dependency edges from one
// type's structural metadata and per-method instruction streams. Extraction
// is pure: it reads only the type's own records plus the read-only symbol
// table, which makes the per-type fan-out embarrassingly parallel.
package extract

import (
	"fmt"
	"strings"

	"archscope/internal/depgraph"
	archerrors "archscope/internal/errors"
	"archscope/internal/metadata"
)

// primitives are never recorded as relationship targets
var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
	"void": true,
}

// immutableUtilities are well-known platform value types excluded from
// field classification
var immutableUtilities = map[string]bool{
	"java.lang.String":     true,
	"java.lang.Boolean":    true,
	"java.lang.Byte":       true,
	"java.lang.Character":  true,
	"java.lang.Short":      true,
	"java.lang.Integer":    true,
	"java.lang.Long":       true,
	"java.lang.Float":      true,
	"java.lang.Double":     true,
	"java.lang.Object":     true,
	"java.math.BigDecimal": true,
	"java.math.BigInteger": true,
}

// defaultContainers are the multi-element container types recognized when
// the configuration supplies none
var defaultContainers = []string{
	"java.util.List", "java.util.Set", "java.util.Map",
	"java.util.Collection", "java.util.Queue", "java.util.Deque",
	"java.util.ArrayList", "java.util.LinkedList", "java.util.HashSet",
	"java.util.HashMap", "java.util.Optional",
}

// Options tunes extraction behavior.
type Options struct {
	// ContainerTypes are declared types treated as multi-element
	// containers for multiplicity classification
	ContainerTypes []string
}

// TypeResult is the output of extracting a single type: the node, its
// outgoing edges, and anything that could not be fully resolved.
type TypeResult struct {
	Node        *depgraph.Node
	Edges       []depgraph.Edge
	Partial     bool
	Diagnostics []archerrors.Diagnostic
}

// Extractor emits edges for one type at a time. Safe for concurrent use.
type Extractor struct {
	symbols    *SymbolTable
	containers map[string]bool
}

// New creates an extractor over the given symbol table.
func New(symbols *SymbolTable, opts Options) *Extractor {
	containers := opts.ContainerTypes
	if len(containers) == 0 {
		containers = defaultContainers
	}
	set := make(map[string]bool, len(containers))
	for _, c := range containers {
		set[c] = true
	}
	return &Extractor{symbols: symbols, containers: set}
}

// Extract derives all edges for one type. It never mutates its input and
// never fails the batch: malformed method bodies yield a best-effort edge
// set with the type flagged partial.
func (e *Extractor) Extract(t metadata.TypeMetadata) TypeResult {
	res := TypeResult{
		Node: &depgraph.Node{
			ID:          t.Name,
			Package:     metadata.Package(t.Name),
			Kind:        t.Kind,
			Visibility:  t.Visibility,
			Abstract:    t.Abstract,
			MethodCount: len(t.Methods),
			FieldCount:  len(t.Fields),
		},
	}
	for _, m := range t.Methods {
		res.Node.CodeSize += len(m.Body)
	}

	e.extractInheritance(t, &res)
	e.extractFields(t, &res)
	e.extractUsage(t, &res)

	res.Node.Partial = res.Partial
	return res
}

func (e *Extractor) extractInheritance(t metadata.TypeMetadata, res *TypeResult) {
	if t.SuperClass != "" && !e.symbols.IsPlatformRoot(t.SuperClass) {
		e.addEdge(res, t.Name, t.SuperClass, depgraph.Edge{
			Kind:      depgraph.KindInheritance,
			Interface: e.symbols.IsInterface(t.SuperClass),
		})
	}
	for _, iface := range t.Interfaces {
		e.addEdge(res, t.Name, iface, depgraph.Edge{
			Kind:      depgraph.KindInheritance,
			Interface: true,
		})
	}
}

// fieldWrites records where a field gets assigned, derived from the
// owning type's constructor and setter instruction streams.
type fieldWrites struct {
	inConstructor bool
	inSetter      bool
}

func (e *Extractor) extractFields(t metadata.TypeMetadata, res *TypeResult) {
	writes := collectFieldWrites(t)

	for _, f := range t.Fields {
		target, multiplicity := e.classifyFieldType(f.TypeName)
		if target == "" {
			continue
		}
		if primitives[target] || immutableUtilities[target] {
			continue
		}

		// Injection markers win over the constructor heuristic: an
		// injected value's lifetime is independent of the owner even
		// when the write happens in a constructor.
		kind := depgraph.KindAssociation
		switch {
		case f.Injected():
			kind = depgraph.KindAggregation
		case writes[f.Name].inConstructor:
			kind = depgraph.KindComposition
		case writes[f.Name].inSetter:
			kind = depgraph.KindAggregation
		}

		e.addEdge(res, t.Name, target, depgraph.Edge{
			Kind:         kind,
			Multiplicity: multiplicity,
			Members:      []string{f.Name},
		})
	}
}

func collectFieldWrites(t metadata.TypeMetadata) map[string]fieldWrites {
	writes := make(map[string]fieldWrites, len(t.Fields))
	for _, m := range t.Methods {
		if !m.IsConstructor() && !m.IsSetter() {
			continue
		}
		for _, ins := range m.Body {
			if ins.Op != metadata.OpFieldWrite || ins.Member == "" {
				continue
			}
			w := writes[ins.Member]
			if m.IsConstructor() {
				w.inConstructor = true
			} else {
				w.inSetter = true
			}
			writes[ins.Member] = w
		}
	}
	return writes
}

// classifyFieldType resolves a declared field type to its relationship
// target and multiplicity. Arrays and recognized containers are
// one-to-many; for generic containers the element type is the target.
func (e *Extractor) classifyFieldType(declared string) (string, depgraph.Multiplicity) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return "", ""
	}

	if strings.HasSuffix(declared, "[]") {
		elem := strings.TrimSuffix(declared, "[]")
		return strings.TrimSpace(elem), depgraph.MultiplicityOneToMany
	}

	if open := strings.IndexByte(declared, '<'); open > 0 && strings.HasSuffix(declared, ">") {
		base := declared[:open]
		if e.containers[base] {
			args := declared[open+1 : len(declared)-1]
			return lastTypeArgument(args), depgraph.MultiplicityOneToMany
		}
		// unrecognized generic: depend on the base type itself
		return base, depgraph.MultiplicityOne
	}

	if e.containers[declared] {
		// raw container with no element type to point at
		return "", ""
	}
	return declared, depgraph.MultiplicityOne
}

// lastTypeArgument picks the value type of a generic argument list, so a
// Map<K, V> dependency points at V.
func lastTypeArgument(args string) string {
	depth := 0
	last := ""
	current := strings.Builder{}
	for _, r := range args {
		switch r {
		case '<':
			depth++
			current.WriteRune(r)
		case '>':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				last = current.String()
				current.Reset()
				continue
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		last = current.String()
	}
	return strings.TrimSpace(last)
}

func (e *Extractor) extractUsage(t metadata.TypeMetadata, res *TypeResult) {
	for _, m := range t.Methods {
		if m.Truncated {
			res.Partial = true
			res.Diagnostics = append(res.Diagnostics, archerrors.Diag(
				archerrors.PartialExtraction, t.Name,
				fmt.Sprintf("method %s has a truncated body; edges derived from the readable prefix only", m.Name)))
		}

		for _, ins := range m.Body {
			var op depgraph.UsageOp
			switch ins.Op {
			case metadata.OpInvoke:
				op = depgraph.UsageCall
			case metadata.OpNew:
				op = depgraph.UsageInstantiate
			case metadata.OpTypeCheck:
				op = depgraph.UsageTypeCheck
			case metadata.OpFieldWrite:
				continue
			default:
				res.Partial = true
				res.Diagnostics = append(res.Diagnostics, archerrors.Diag(
					archerrors.PartialExtraction, t.Name,
					fmt.Sprintf("method %s contains unclassifiable instruction %q", m.Name, ins.Op)))
				continue
			}

			if ins.Target == "" {
				res.Partial = true
				res.Diagnostics = append(res.Diagnostics, archerrors.Diag(
					archerrors.PartialExtraction, t.Name,
					fmt.Sprintf("method %s contains a %s instruction with no target", m.Name, ins.Op)))
				continue
			}

			e.addEdge(res, t.Name, ins.Target, depgraph.Edge{
				Kind:    depgraph.KindUsage,
				Op:      op,
				Members: []string{m.Name},
			})
		}
	}
}

// addEdge records one edge occurrence, suppressing self-edges and tagging
// targets outside the analyzed set as external. Dropping unresolved targets
// would silently understate coupling, so they are recorded regardless.
func (e *Extractor) addEdge(res *TypeResult, source, target string, edge depgraph.Edge) {
	if target == "" || target == source {
		return
	}
	if primitives[target] {
		return
	}

	edge.Source = source
	edge.Target = target
	edge.Count = 1

	if !e.symbols.Known(target) {
		edge.ExternalTarget = true
		if !e.symbols.IsPlatform(target) {
			res.Diagnostics = append(res.Diagnostics, archerrors.Diag(
				archerrors.UnresolvedTarget, source,
				fmt.Sprintf("target %s is outside the analyzed set; recorded as external", target)))
		}
	}

	res.Edges = append(res.Edges, edge)
}
