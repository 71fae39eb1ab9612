package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"archscope/internal/config"
	"archscope/internal/history"
	"archscope/internal/report"
)

var (
	analyzeInput   string
	analyzeRules   string
	analyzeWorkers int
	analyzeFormat  string
	analyzeOutput  string
	analyzeSave    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full architecture analysis",
	Long: `Run the full analysis pipeline over a compiled-unit metadata dump:
relationship extraction, graph assembly, coupling metrics, cycle detection,
and architectural rule evaluation.

Examples:
  archscope analyze --input dump.json
  archscope analyze --input dump.json.zst --rules rules.yaml
  archscope analyze --input dump.json --output report.json.zst --save`,
	Run: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Metadata dump path (required)")
	analyzeCmd.Flags().StringVar(&analyzeRules, "rules", "", "Rule set file (YAML or TOML)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Extraction worker count (default: NumCPU)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Output format (json, human)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "Write full report to file (.zst compresses)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist a run summary to the history database")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	logger := newLogger(analyzeFormat)

	res, err := loadAndRun(analyzeInput, analyzeRules, analyzeWorkers, logger)
	if err != nil {
		fail(err)
	}

	if analyzeOutput != "" {
		if err := report.Build(res).Write(analyzeOutput); err != nil {
			fail(fmt.Errorf("failed to write report: %w", err))
		}
		logger.Info("Report written", map[string]interface{}{"path": analyzeOutput})
	}

	if analyzeSave {
		dir := filepath.Join(filepath.Dir(analyzeInput), config.ConfigDir)
		store, err := history.OpenStore(dir, logger)
		if err != nil {
			fail(err)
		}
		defer func() { _ = store.Close() }()
		if err := store.SaveRun(history.Summarize(res)); err != nil {
			fail(err)
		}
	}

	output, err := FormatResponse(res, OutputFormat(analyzeFormat))
	if err != nil {
		fail(err)
	}
	fmt.Println(output)
}
