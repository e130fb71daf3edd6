package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-knots/internal/config"
	"github.com/alnah/go-knots/internal/fileutil"
)

// MaxWorkers caps the worker pool.
const MaxWorkers = 32

// Sentinel errors for file discovery.
var (
	ErrUnsupportedInput   = errors.New("unsupported input file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoFiles            = errors.New("no convertible files found")
)

// Extensions recognized per format.
var (
	markdownExtensions = []string{".md", ".markdown"}
	treeExtensions     = []string{".yaml", ".yml", ".json"}
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Format     string // config.FormatMarkdown or config.FormatTree
}

func supportedExtensions() []string {
	return slices.Concat(markdownExtensions, treeExtensions)
}

// detectFormat resolves the format of one file. An explicit format wins;
// "auto" picks by extension.
func detectFormat(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case config.FormatMarkdown:
		return config.FormatMarkdown, nil
	case config.FormatTree:
		return config.FormatTree, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(markdownExtensions, ext):
		return config.FormatMarkdown, nil
	case slices.Contains(treeExtensions, ext):
		return config.FormatTree, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}
}

// discoverFiles finds all files to convert. A single file must have a
// recognized extension unless format forces one; directory walks skip
// anything unrecognized, and with a forced format only pick that format's
// extensions. Format names are case-insensitive.
func discoverFiles(inputPath, outputDir, format string) ([]FileToConvert, error) {
	format = strings.ToLower(format)

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		fileFormat, err := detectFormat(inputPath, format)
		if err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "")
		if err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath, Format: fileFormat}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		fileFormat, err := detectFormat(path, config.FormatAuto)
		if err != nil {
			return nil
		}
		if format != "" && format != config.FormatAuto && fileFormat != format {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath)
		if err != nil {
			return err
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath, Format: fileFormat})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}
	return files, nil
}

// resolveOutputPath determines the HTML output path for an input file.
// Without an output dir the page lands next to its source. An output
// ending in .html names the file itself. Directory inputs are mirrored.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) (string, error) {
	if outputDir == "" {
		return fileutil.ReplaceExtension(inputPath, "html")
	}

	if strings.HasSuffix(strings.ToLower(outputDir), ".html") && baseInputDir == "" {
		return outputDir, nil
	}

	name, err := fileutil.ReplaceExtension(filepath.Base(inputPath), "html")
	if err != nil {
		return "", err
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}
