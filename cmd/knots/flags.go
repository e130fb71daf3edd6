package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// errHelp reports that -h or --help was given.
var errHelp = flag.ErrHelp

// commonFlags holds flags shared by every invocation.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title   string
	authors []string
	license string
}

// summaryFlags holds the table of contents toggles. Both unset means the
// config decides.
type summaryFlags struct {
	enabled  bool
	disabled bool
}

// convertFlags holds all flags.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	format   string
	document documentFlags
	summary  summaryFlags
	version  bool
}

// ErrConflictingFlags is returned when mutually exclusive flags are combined.
var ErrConflictingFlags = errors.New("conflicting flags")

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = from file)")
	fs.StringArrayVar(&f.authors, "author", nil, "author name (repeatable)")
	fs.StringVar(&f.license, "license", "", "license shown above the content")
}

// addSummaryFlags adds table of contents flags to a FlagSet.
func addSummaryFlags(fs *flag.FlagSet, f *summaryFlags) {
	fs.BoolVar(&f.enabled, "summary", false, "add a table of contents panel")
	fs.BoolVar(&f.disabled, "no-summary", false, "omit the table of contents panel")
}

// newConvertFlagSet registers every flag on a new FlagSet bound to f.
// Parsing and shell completion share it.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("knots", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.format, "format", "", "input format: auto, markdown, tree")
	fs.BoolVar(&f.version, "version", false, "show version information")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addSummaryFlags(fs, &f.summary)

	fs.Usage = func() {}
	return fs
}

// parseConvertFlags parses flags (without the program name) and returns
// positional args. Parse errors are returned, not printed.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if f.summary.enabled && f.summary.disabled {
		return nil, nil, fmt.Errorf("%w: --summary and --no-summary", ErrConflictingFlags)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose", ErrConflictingFlags)
	}

	return f, fs.Args(), nil
}
