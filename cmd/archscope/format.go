package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"archscope/internal/analysis"
	"archscope/internal/cycles"
	"archscope/internal/rules"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *analysis.Result:
		return formatResultHuman(v), nil
	case []cycles.Cycle:
		return formatCyclesHuman(v), nil
	case []rules.Violation:
		return formatViolationsHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatResultHuman(res *analysis.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Analysis of %s\n", res.Unit))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Types:      %d (%d edges)\n", res.TypeGraph.NodeCount(), res.TypeGraph.EdgeCount()))
	b.WriteString(fmt.Sprintf("Packages:   %d (%d edges)\n", res.PackageGraph.NodeCount(), res.PackageGraph.EdgeCount()))
	b.WriteString(fmt.Sprintf("Cycles:     %d type-level, %d package-level\n", len(res.Cycles), len(res.PackageCycles)))
	b.WriteString(fmt.Sprintf("Violations: %d\n", len(res.Violations)))

	if len(res.Violations) > 0 {
		b.WriteString("\n" + formatViolationsHuman(res.Violations))
	}
	if len(res.Cycles) > 0 {
		b.WriteString("\nType-level cycles:\n")
		b.WriteString(formatCyclesHuman(res.Cycles))
	}
	if len(res.Diagnostics) > 0 {
		b.WriteString("\nDiagnostics:\n")
		for _, d := range res.Diagnostics {
			b.WriteString(fmt.Sprintf("  [%s] %s: %s\n", d.Code, d.Subject, d.Message))
		}
	}

	b.WriteString(fmt.Sprintf("\nCompleted in %dms\n", res.Duration.Milliseconds()))
	return b.String()
}

func formatCyclesHuman(cs []cycles.Cycle) string {
	if len(cs) == 0 {
		return "No cycles detected.\n"
	}

	var b strings.Builder
	for _, c := range cs {
		b.WriteString(fmt.Sprintf("  [%s] %s (%d edges, %d occurrences)\n",
			c.Severity, strings.Join(c.Nodes, " -> "), len(c.Edges), c.Occurrences))
	}
	return b.String()
}

func formatViolationsHuman(vs []rules.Violation) string {
	if len(vs) == 0 {
		return "No violations found.\n"
	}

	var b strings.Builder
	for _, v := range vs {
		b.WriteString(fmt.Sprintf("  [%s] %s: %s\n", v.Severity, v.Rule, v.Description))
		if v.Remediation != "" {
			b.WriteString(fmt.Sprintf("      fix: %s\n", v.Remediation))
		}
	}
	return b.String()
}
