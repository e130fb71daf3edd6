package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	knots "github.com/alnah/go-knots"
	"github.com/alnah/go-knots/internal/config"
	"github.com/alnah/go-knots/internal/docfile"
	"github.com/alnah/go-knots/internal/fileutil"
	"github.com/alnah/go-knots/internal/mdimport"
	"github.com/alnah/go-knots/internal/pathrewrite"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadInput        = errors.New("failed to read input file")
	ErrCreateOutputDir  = errors.New("failed to create output directory")
	ErrWriteOutput      = errors.New("failed to write output file")
	ErrConversionFailed = errors.New("conversion failed")
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// batchError reports failed conversions. With a single input it also
// unwraps to that file's error so the exit code reflects the cause.
type batchError struct {
	failed int
	total  int
	cause  error
}

func newBatchError(results []ConversionResult, failed int) error {
	e := &batchError{failed: failed, total: len(results)}
	if len(results) == 1 {
		e.cause = results[0].Err
	}
	return e
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%s: %d of %d file(s)", ErrConversionFailed, e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrConversionFailed}
	}
	return []error{ErrConversionFailed, e.cause}
}

// resolveWorkers determines the worker count.
// Priority: explicit flag > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return min(max(runtime.GOMAXPROCS(0), 1), MaxWorkers)
}

// convertBatch processes files concurrently with a bounded worker pool.
// Results keep the order of files. Once ctx is done, files not yet started
// are reported with the context error.
func convertBatch(ctx context.Context, files []FileToConvert, workers int, cfg *config.Config, env *Environment) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(max(workers, 1), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, files[idx], cfg, env)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, f FileToConvert, cfg *config.Config, env *Environment) ConversionResult {
	start := env.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = env.Now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	doc, err := loadDocument(ctx, content, f, cfg, env.Importer)
	if err != nil {
		return fail(err)
	}
	doc, err = pathrewrite.Rebase(doc, filepath.Dir(f.InputPath), filepath.Dir(f.OutputPath))
	if err != nil {
		return fail(err)
	}

	page := knots.Render(doc, knots.Options{Summary: cfg.Summary.Enabled})

	if env.Logger.Enabled(ctx, slog.LevelDebug) {
		report := knots.Inspect(doc)
		env.Logger.Debug("rendered",
			"input", f.InputPath,
			"format", f.Format,
			"headings", len(report.Summary),
			"katex", report.Features.Katex,
			"prism", report.Features.Prism,
			"mermaid", report.Features.Mermaid,
			"plugins", report.PrismPlugins,
			"bytes", len(page),
		)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrCreateOutputDir, err))
	}

	// #nosec G306 -- pages are meant to be readable
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(page), filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Duration = env.Now().Sub(start)
	return result
}

// loadDocument decodes one input according to its format. Config metadata
// drives Markdown documents and fills what tree files leave empty.
func loadDocument(ctx context.Context, content []byte, f FileToConvert, cfg *config.Config, importer *mdimport.Importer) (knots.Document, error) {
	if f.Format == config.FormatMarkdown {
		return importer.Import(ctx, content, mdimport.Options{
			Title:   cfg.Document.Title,
			Authors: cfg.Document.Authors,
			License: cfg.Document.License,
			Name:    f.InputPath,
		})
	}

	doc, err := docfile.Decode(content)
	if err != nil {
		return knots.Document{}, err
	}
	if doc.Title == "" {
		doc.Title = cfg.Document.Title
	}
	if doc.Title == "" {
		name := filepath.Base(f.InputPath)
		doc.Title = name[:len(name)-len(filepath.Ext(name))]
	}
	if len(doc.Authors) == 0 {
		doc.Authors = cfg.Document.Authors
	}
	if doc.License == "" {
		doc.License = cfg.Document.License
	}
	return doc, nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
