package main

import (
	"github.com/spf13/cobra"

	"archscope/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "archscope",
	Short: "archscope - compiled-unit architecture analysis",
	Long: `archscope reverse-engineers the architecture of a compiled application
from its compiled-unit metadata. It reconstructs a typed dependency graph,
computes coupling and instability metrics, detects dependency cycles, and
evaluates configurable architectural rules.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("archscope version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info",
		"Log level: debug, info, warn, error")
}
