package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-knots/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrTooManyInputs = errors.New("too many inputs")
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: expected one file or directory, got %d", ErrTooManyInputs, len(positionalArgs))
	}

	// Load configuration
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		env.Logger.Debug("config loaded", "name", flags.common.config)
	}

	// Merge CLI flags into config (CLI wins), then re-check the result
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, cfg.Input.Format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	workers := resolveWorkers(flags.workers)
	env.Logger.Debug("starting conversion", "files", len(files), "workers", workers)

	results := convertBatch(ctx, files, workers, cfg, env)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return newBatchError(results, failed)
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Input.Format = flags.format
	}

	// Document flags
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if len(flags.document.authors) > 0 {
		cfg.Document.Authors = flags.document.authors
	}
	if flags.document.license != "" {
		cfg.Document.License = flags.document.license
	}

	// Summary toggles
	if flags.summary.enabled {
		cfg.Summary.Enabled = true
	}
	if flags.summary.disabled {
		cfg.Summary.Enabled = false
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
