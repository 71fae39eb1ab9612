// Package analysis orchestrates one full run: parallel relationship
// extraction, single-threaded graph assembly, and concurrent downstream
// consumers over the immutable snapshot. A run is a pure function of the
// input type set; no state survives between runs.
package analysis

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"archscope/internal/cycles"
	"archscope/internal/depgraph"
	archerrors "archscope/internal/errors"
	"archscope/internal/extract"
	"archscope/internal/logging"
	"archscope/internal/metadata"
	"archscope/internal/metrics"
	"archscope/internal/rules"
	"archscope/internal/ruleset"
)

// Options configures a run
type Options struct {
	// Workers bounds the extraction worker pool; defaults to NumCPU
	Workers int

	// Manifest describes the analyzed unit; defaults apply when nil
	Manifest *metadata.Manifest

	// RuleSet drives thresholds and the rule engine; defaults apply when nil
	RuleSet *ruleset.RuleSet

	Logger *logging.Logger
}

// Result is everything one analysis run produces. All collections are
// plain serializable structures with no behavior attached.
type Result struct {
	RunID string `json:"runId"`
	Unit  string `json:"unit,omitempty"`

	TypeGraph    *depgraph.Graph `json:"-"`
	PackageGraph *depgraph.Graph `json:"-"`

	Coupling        map[string]metrics.CouplingRecord `json:"coupling"`
	PackageCoupling map[string]metrics.CouplingRecord `json:"packageCoupling"`

	Cycles        []cycles.Cycle `json:"cycles"`
	PackageCycles []cycles.Cycle `json:"packageCycles"`

	Violations []rules.Violation `json:"violations"`

	Diagnostics []archerrors.Diagnostic `json:"diagnostics"`

	Duration time.Duration `json:"durationNs"`
}

// Run executes the full pipeline over an in-memory unit. The caller always
// receives a best-effort result plus diagnostics; only an invariant
// violation aborts the run. Timeouts are the caller's concern via ctx.
func Run(ctx context.Context, unit *metadata.Unit, opts Options) (*Result, error) {
	start := time.Now()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	manifest := opts.Manifest
	if manifest == nil {
		manifest = metadata.DefaultManifest()
	}
	rs := opts.RuleSet
	if rs == nil {
		rs = ruleset.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel})
	}

	// The symbol table is built once before the fan-out and only read
	// afterwards, so the parallel phase needs no locking.
	symbols := extract.NewSymbolTable(unit.Types, manifest)
	extractor := extract.New(symbols, extract.Options{ContainerTypes: rs.ContainerTypes})

	logger.Debug("Starting extraction", map[string]interface{}{
		"types":   len(unit.Types),
		"workers": workers,
	})

	results := extractAll(ctx, extractor, unit.Types, workers)

	var nodes []*depgraph.Node
	var edges []depgraph.Edge
	var diags []archerrors.Diagnostic
	for _, r := range results {
		nodes = append(nodes, r.Node)
		edges = append(edges, r.Edges...)
		diags = append(diags, r.Diagnostics...)
	}

	typeGraph, err := depgraph.Assemble(nodes, edges)
	if err != nil {
		// broken precondition, not a data-quality issue
		return nil, err
	}
	pkgGraph := depgraph.ProjectPackages(typeGraph, symbols.PlatformNamespaces())

	thresholds := rs.Thresholds()
	res := &Result{
		RunID: uuid.NewString(),
		Unit:  unit.Name,

		TypeGraph:    typeGraph,
		PackageGraph: pkgGraph,
	}

	// Independent consumers of the same immutable snapshot.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Coupling = metrics.Compute(typeGraph)
		return nil
	})
	g.Go(func() error {
		res.PackageCoupling = metrics.Compute(pkgGraph)
		return nil
	})
	g.Go(func() error {
		res.Cycles = cycles.Find(typeGraph, thresholds)
		return nil
	})
	g.Go(func() error {
		res.PackageCycles = cycles.Find(pkgGraph, thresholds)
		return nil
	})
	_ = g.Wait()

	engine := rules.NewEngine(rs, logger)
	violations, ruleDiags := engine.Evaluate(rules.Input{
		TypeGraph:       typeGraph,
		PackageGraph:    pkgGraph,
		Coupling:        res.Coupling,
		PackageCoupling: res.PackageCoupling,
		Thresholds:      thresholds,
	})
	res.Violations = violations
	res.Diagnostics = dedupeDiagnostics(append(diags, ruleDiags...))
	res.Duration = time.Since(start)

	logger.Info("Analysis complete", map[string]interface{}{
		"nodes":       typeGraph.NodeCount(),
		"edges":       typeGraph.EdgeCount(),
		"cycles":      len(res.Cycles),
		"violations":  len(res.Violations),
		"diagnostics": len(res.Diagnostics),
		"durationMs":  res.Duration.Milliseconds(),
	})
	return res, nil
}

// extractAll fans the type set out over a bounded worker pool. Each worker
// reads only its own type plus the read-only symbol table; results merge on
// the collecting goroutine.
func extractAll(ctx context.Context, extractor *extract.Extractor, types []metadata.TypeMetadata, workers int) []extract.TypeResult {
	jobs := make(chan metadata.TypeMetadata, workers)
	out := make(chan extract.TypeResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				out <- extractor.Extract(t)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range types {
			select {
			case <-ctx.Done():
				return
			case jobs <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]extract.TypeResult, 0, len(types))
	for r := range out {
		results = append(results, r)
	}

	// worker completion order is nondeterministic; restore input order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Node.ID < results[j].Node.ID
	})
	return results
}

func dedupeDiagnostics(diags []archerrors.Diagnostic) []archerrors.Diagnostic {
	seen := make(map[string]bool, len(diags))
	unique := make([]archerrors.Diagnostic, 0, len(diags))
	for _, d := range diags {
		key := string(d.Code) + "\x00" + d.Subject + "\x00" + d.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, d)
	}
	sort.Slice(unique, func(i, j int) bool {
		if unique[i].Code != unique[j].Code {
			return unique[i].Code < unique[j].Code
		}
		if unique[i].Subject != unique[j].Subject {
			return unique[i].Subject < unique[j].Subject
		}
		return unique[i].Message < unique[j].Message
	})
	return unique
}
