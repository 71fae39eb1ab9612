package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cyclesInput       string
	cyclesRules       string
	cyclesFormat      string
	cyclesGranularity string
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Detect dependency cycles",
	Long: `Detect dependency cycles (strongly connected components) at type or
package granularity and classify their severity.

Examples:
  archscope cycles --input dump.json
  archscope cycles --input dump.json --granularity package`,
	Run: runCycles,
}

func init() {
	cyclesCmd.Flags().StringVar(&cyclesInput, "input", "", "Metadata dump path (required)")
	cyclesCmd.Flags().StringVar(&cyclesRules, "rules", "", "Rule set file (YAML or TOML)")
	cyclesCmd.Flags().StringVar(&cyclesFormat, "format", "json", "Output format (json, human)")
	cyclesCmd.Flags().StringVar(&cyclesGranularity, "granularity", "type", "Granularity: type, package")
	_ = cyclesCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(cyclesCmd)
}

func runCycles(cmd *cobra.Command, args []string) {
	logger := newLogger(cyclesFormat)

	res, err := loadAndRun(cyclesInput, cyclesRules, 0, logger)
	if err != nil {
		fail(err)
	}

	found := res.Cycles
	if cyclesGranularity == "package" {
		found = res.PackageCycles
	}

	output, err := FormatResponse(found, OutputFormat(cyclesFormat))
	if err != nil {
		fail(err)
	}
	fmt.Println(output)
}
