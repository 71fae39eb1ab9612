package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archscope/internal/history"
)

var (
	historyDir    string
	historyUnit   string
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved analysis runs",
	Long: `List run summaries saved with 'archscope analyze --save' and the
violation trend across them.

Examples:
  archscope history --dir .archscope
  archscope history --dir .archscope --unit billing-service -n 10`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDir, "dir", ".archscope", "History database directory")
	historyCmd.Flags().StringVar(&historyUnit, "unit", "", "Filter by unit name")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := newLogger(historyFormat)

	store, err := history.OpenStore(historyDir, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.RecentRuns(historyUnit, historyLimit)
	if err != nil {
		return err
	}

	if historyFormat == "json" {
		output, err := FormatResponse(struct {
			Runs  []history.RunSummary `json:"runs"`
			Trend *history.Trend       `json:"trend"`
		}{runs, history.CalculateTrend(runs)}, FormatJSON)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}

	trend := history.CalculateTrend(runs)
	fmt.Printf("Violation trend: %s (%.2f/day over %d runs)\n\n", trend.Direction, trend.Velocity, trend.DataPoints)
	for _, r := range runs {
		fmt.Printf("%s  %-20s types=%-5d cycles=%-3d violations=%-3d instability=%.2f\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Unit, r.TypeCount,
			r.CycleCount, r.ViolationCount, r.AvgInstability)
	}
	return nil
}
