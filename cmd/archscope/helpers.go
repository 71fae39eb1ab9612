package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"archscope/internal/analysis"
	"archscope/internal/config"
	"archscope/internal/logging"
	"archscope/internal/metadata"
	"archscope/internal/ruleset"
)

func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.LogLevel(logLevelFlag),
	})
}

// loadAndRun loads the metadata dump, resolves manifest and rule set, and
// executes the full pipeline. Shared by every analysis-backed command.
func loadAndRun(inputPath, rulesPath string, workers int, logger *logging.Logger) (*analysis.Result, error) {
	unit, err := metadata.NewFileLoader(inputPath).Load()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(filepath.Dir(inputPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if workers <= 0 {
		workers = cfg.Workers
	}
	if rulesPath == "" {
		rulesPath = cfg.RulesPath
	}

	var manifest *metadata.Manifest
	manifestPath := filepath.Join(filepath.Dir(inputPath), metadata.ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		manifest, err = metadata.ParseManifest(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
		}
	}

	rs := ruleset.Default()
	if rulesPath != "" {
		rs, err = ruleset.Load(rulesPath)
		if err != nil {
			return nil, err
		}
	}

	return analysis.Run(context.Background(), unit, analysis.Options{
		Workers:  workers,
		Manifest: manifest,
		RuleSet:  rs,
		Logger:   logger,
	})
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
