package depgraph

import (
	"strings"
)

// ProjectPackages derives the package-level graph from a type-level graph.
// Type nodes group by declaring package; edges whose endpoints differ only
// by type but share packages merge, summing occurrence counts. Intra-package
// edges and edges into recognized platform namespaces are dropped: neither
// is an inter-package dependency of the analyzed unit. No new relationships
// are invented, so the package edge set is a strict aggregation of the type
// edge set.
func ProjectPackages(g *Graph, platformNamespaces []string) *Graph {
	pkg := New(GranularityPackage)

	for _, n := range g.Nodes() {
		if n.External {
			continue
		}
		id := packageID(n)
		existing := pkg.Node(id)
		if existing == nil || existing.External {
			pkg.AddNode(&Node{ID: id})
			existing = pkg.Node(id)
		}
		existing.TypeCount++
		existing.MethodCount += n.MethodCount
		existing.FieldCount += n.FieldCount
		existing.CodeSize += n.CodeSize
		if n.Partial {
			existing.Partial = true
		}
	}

	for _, e := range g.Edges() {
		srcPkg := packageID(g.Node(e.Source))
		dstPkg := packageID(g.Node(e.Target))
		if srcPkg == dstPkg {
			continue
		}
		if isPlatformPackage(dstPkg, platformNamespaces) {
			continue
		}

		target := g.Node(e.Target)
		if target.External && pkg.Node(dstPkg) == nil {
			pkg.AddNode(&Node{ID: dstPkg, External: true})
		}

		pkg.AddEdge(Edge{
			Source:       srcPkg,
			Target:       dstPkg,
			Kind:         e.Kind,
			Interface:    e.Interface,
			Op:           e.Op,
			Multiplicity: e.Multiplicity,
			Members:      e.Members,
			Count:        e.Count,
		})
	}

	return pkg
}

func packageID(n *Node) string {
	if n.Package != "" {
		return n.Package
	}
	// default package
	return "(default)"
}

func isPlatformPackage(pkg string, platformNamespaces []string) bool {
	for _, prefix := range platformNamespaces {
		if strings.HasPrefix(pkg+".", prefix) || strings.HasPrefix(pkg, prefix) {
			return true
		}
	}
	return false
}
