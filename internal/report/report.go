// Package report assembles the plain serializable report downstream tools
// consume, and writes it as JSON, zstd-compressed when the output path ends
// in .zst.
package report

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"archscope/internal/analysis"
	"archscope/internal/cycles"
	"archscope/internal/depgraph"
	archerrors "archscope/internal/errors"
	"archscope/internal/metrics"
	"archscope/internal/rules"
	"archscope/internal/version"
)

// Report is the full serializable analysis output
type Report struct {
	RunID       string    `json:"runId"`
	Unit        string    `json:"unit,omitempty"`
	Tool        string    `json:"tool"`
	GeneratedAt time.Time `json:"generatedAt"`

	TypeNodes    []*depgraph.Node `json:"typeNodes"`
	TypeEdges    []*depgraph.Edge `json:"typeEdges"`
	PackageNodes []*depgraph.Node `json:"packageNodes"`
	PackageEdges []*depgraph.Edge `json:"packageEdges"`

	Coupling        map[string]metrics.CouplingRecord `json:"coupling"`
	PackageCoupling map[string]metrics.CouplingRecord `json:"packageCoupling"`

	Cycles        []cycles.Cycle `json:"cycles"`
	PackageCycles []cycles.Cycle `json:"packageCycles"`

	Violations  []rules.Violation       `json:"violations"`
	Diagnostics []archerrors.Diagnostic `json:"diagnostics"`

	DurationMs int64 `json:"durationMs"`
}

// Build flattens an analysis result into a report.
func Build(res *analysis.Result) *Report {
	return &Report{
		RunID:       res.RunID,
		Unit:        res.Unit,
		Tool:        "archscope " + version.Info(),
		GeneratedAt: time.Now().UTC(),

		TypeNodes:    res.TypeGraph.Nodes(),
		TypeEdges:    res.TypeGraph.Edges(),
		PackageNodes: res.PackageGraph.Nodes(),
		PackageEdges: res.PackageGraph.Edges(),

		Coupling:        res.Coupling,
		PackageCoupling: res.PackageCoupling,

		Cycles:        res.Cycles,
		PackageCycles: res.PackageCycles,

		Violations:  res.Violations,
		Diagnostics: res.Diagnostics,

		DurationMs: res.Duration.Milliseconds(),
	}
}

// Write serializes the report to path as indented JSON, compressing with
// zstd when the path ends in .zst.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, ".zst") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		enc, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return err
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			_ = f.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	return os.WriteFile(path, data, 0o644)
}
