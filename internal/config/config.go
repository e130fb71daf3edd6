package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-knots/internal/fileutil"
	"github.com/alnah/go-knots/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidFormat   = errors.New("invalid input format")
	ErrTooManyAuthors  = errors.New("too many authors")
)

// Field length limits.
const (
	MaxTitleLength   = 200  // Document title
	MaxAuthorLength  = 100  // One author name
	MaxAuthors       = 50   // Author list length
	MaxLicenseLength = 100  // "MIT", "CC-BY-SA-4.0", ...
	MaxPathLength    = 4096 // PATH_MAX on Linux
)

// Input format names.
const (
	FormatAuto     = "auto"     // pick by file extension
	FormatMarkdown = "markdown" // CommonMark/GFM through the importer
	FormatTree     = "tree"     // YAML or JSON document tree
)

// configDirName is the directory under os.UserConfigDir searched for configs.
const configDirName = "go-knots"

// Config holds all configuration for page generation.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Document DocumentConfig `yaml:"document"`
	Summary  SummaryConfig  `yaml:"summary"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Format     string `yaml:"format"`     // "auto", "markdown", "tree" (empty = auto)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// DocumentConfig supplies document metadata. Tree files carry their own;
// these values fill in what they leave empty, and Markdown input relies
// on them.
type DocumentConfig struct {
	Title   string   `yaml:"title"`   // Empty = first level-one heading, then file name
	Authors []string `yaml:"authors"` // Rendered in order
	License string   `yaml:"license"` // Empty = no license block
}

// SummaryConfig defines table of contents options.
type SummaryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Input.Format) {
	case "", FormatAuto, FormatMarkdown, FormatTree:
		// valid
	default:
		return fmt.Errorf("%w: input.format %q (must be auto, markdown, or tree)", ErrInvalidFormat, c.Input.Format)
	}

	if err := validateFieldLength("document.title", c.Document.Title, MaxTitleLength); err != nil {
		return err
	}
	if len(c.Document.Authors) > MaxAuthors {
		return fmt.Errorf("%w: document.authors (%d, max %d)", ErrTooManyAuthors, len(c.Document.Authors), MaxAuthors)
	}
	for i, author := range c.Document.Authors {
		if err := validateFieldLength(fmt.Sprintf("document.authors[%d]", i), author, MaxAuthorLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("document.license", c.Document.License, MaxLicenseLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: automatic input format,
// output next to the source, no metadata, no summary panel.
func DefaultConfig() *Config {
	return &Config{
		Input:   InputConfig{DefaultDir: "", Format: FormatAuto},
		Output:  OutputConfig{DefaultDir: ""},
		Summary: SummaryConfig{Enabled: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
// Extensions: .yaml, .yml. Locations: current directory, then
// <user config dir>/go-knots/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
