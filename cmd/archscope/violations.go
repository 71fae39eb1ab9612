package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archscope/internal/rules"
)

var (
	violationsInput    string
	violationsRules    string
	violationsFormat   string
	violationsSeverity string
)

var violationsCmd = &cobra.Command{
	Use:   "violations",
	Short: "Evaluate architectural rules",
	Long: `Evaluate the configured architectural rule set (layer access, god
object, unstable dependency) and list violations.

Examples:
  archscope violations --input dump.json --rules rules.yaml
  archscope violations --input dump.json --severity HIGH`,
	Run: runViolations,
}

func init() {
	violationsCmd.Flags().StringVar(&violationsInput, "input", "", "Metadata dump path (required)")
	violationsCmd.Flags().StringVar(&violationsRules, "rules", "", "Rule set file (YAML or TOML)")
	violationsCmd.Flags().StringVar(&violationsFormat, "format", "json", "Output format (json, human)")
	violationsCmd.Flags().StringVar(&violationsSeverity, "severity", "", "Only show this severity (LOW, MEDIUM, HIGH)")
	_ = violationsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(violationsCmd)
}

func runViolations(cmd *cobra.Command, args []string) {
	logger := newLogger(violationsFormat)

	res, err := loadAndRun(violationsInput, violationsRules, 0, logger)
	if err != nil {
		fail(err)
	}

	found := res.Violations
	if violationsSeverity != "" {
		filtered := make([]rules.Violation, 0, len(found))
		for _, v := range found {
			if string(v.Severity) == violationsSeverity {
				filtered = append(filtered, v)
			}
		}
		found = filtered
	}

	output, err := FormatResponse(found, OutputFormat(violationsFormat))
	if err != nil {
		fail(err)
	}
	fmt.Println(output)
}
