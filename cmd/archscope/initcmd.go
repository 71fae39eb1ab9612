package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archscope/internal/config"
)

var initRoot string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long: `Write the default archscope configuration to <root>/.archscope/config.json.

Examples:
  archscope init
  archscope init --root ./build`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initRoot, "root", ".", "Directory to initialize")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if err := cfg.Save(initRoot); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("Wrote %s/%s/config.json\n", initRoot, config.ConfigDir)
	return nil
}
