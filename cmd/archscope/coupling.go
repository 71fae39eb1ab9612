package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	couplingInput       string
	couplingFormat      string
	couplingGranularity string
)

var couplingCmd = &cobra.Command{
	Use:   "coupling",
	Short: "Compute coupling and instability metrics",
	Long: `Compute afferent/efferent coupling and the instability index per node.

Examples:
  archscope coupling --input dump.json
  archscope coupling --input dump.json --granularity package`,
	Run: runCoupling,
}

func init() {
	couplingCmd.Flags().StringVar(&couplingInput, "input", "", "Metadata dump path (required)")
	couplingCmd.Flags().StringVar(&couplingFormat, "format", "json", "Output format (json, human)")
	couplingCmd.Flags().StringVar(&couplingGranularity, "granularity", "type", "Granularity: type, package")
	_ = couplingCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(couplingCmd)
}

func runCoupling(cmd *cobra.Command, args []string) {
	logger := newLogger(couplingFormat)

	res, err := loadAndRun(couplingInput, "", 0, logger)
	if err != nil {
		fail(err)
	}

	records := res.Coupling
	if couplingGranularity == "package" {
		records = res.PackageCoupling
	}

	output, err := FormatResponse(records, OutputFormat(couplingFormat))
	if err != nil {
		fail(err)
	}
	fmt.Println(output)
}
