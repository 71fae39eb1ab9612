package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"archscope/internal/diagram"
)

var (
	diagramInput  string
	diagramRules  string
	diagramOutput string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Render the package dependency graph as Mermaid",
	Long: `Render the package-level dependency graph as a Mermaid flowchart,
highlighting cycle members and rule-violating edges.

Examples:
  archscope diagram --input dump.json
  archscope diagram --input dump.json --output arch.mmd`,
	Run: runDiagram,
}

func init() {
	diagramCmd.Flags().StringVar(&diagramInput, "input", "", "Metadata dump path (required)")
	diagramCmd.Flags().StringVar(&diagramRules, "rules", "", "Rule set file (YAML or TOML)")
	diagramCmd.Flags().StringVar(&diagramOutput, "output", "", "Write markup to file instead of stdout")
	_ = diagramCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(diagramCmd)
}

func runDiagram(cmd *cobra.Command, args []string) {
	logger := newLogger("human")

	res, err := loadAndRun(diagramInput, diagramRules, 0, logger)
	if err != nil {
		fail(err)
	}

	gen := diagram.NewGenerator(res.PackageGraph)
	gen.SetCycles(res.PackageCycles)
	gen.SetViolations(res.Violations)
	markup := gen.Generate()

	if diagramOutput != "" {
		if err := os.WriteFile(diagramOutput, []byte(markup), 0o644); err != nil {
			fail(err)
		}
		return
	}
	fmt.Print(markup)
}
