package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-knots/internal/config"
	"github.com/alnah/go-knots/internal/docfile"
	"github.com/alnah/go-knots/internal/fileutil"
	"github.com/alnah/go-knots/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain parses arguments, runs the conversion and maps the outcome to an
// exit code. It never calls os.Exit so tests can drive it.
func runMain(args []string, env *Environment) int {
	if len(args) > 1 && args[1] == completionCommand {
		if err := runCompletion(args[2:], env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}

	flags, positional, err := parseConvertFlags(args[1:])
	if err != nil {
		if errors.Is(err, errHelp) {
			printUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "%v\nRun 'knots --help' for usage.\n", err)
		return ExitUsage
	}

	if flags.version {
		fmt.Fprintf(env.Stdout, "go-knots %s\n", Version)
		return ExitSuccess
	}

	env.Logger = newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		env.Logger.Debug(fmt.Sprintf(format, args...))
	}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, err.Error()+hintFor(err, flags.common.config))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for errors users can fix themselves.
// configName is the --config value, used to list the searched locations.
func hintFor(err error, configName string) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		if configName == "" || fileutil.IsFilePath(configName) {
			return hints.ForConfigNotFound(nil)
		}
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, ErrUnsupportedInput):
		return hints.ForUnsupportedInput(supportedExtensions())
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, docfile.ErrUnknownKind):
		return hints.ForTreeDecode(docfile.Kinds())
	default:
		return ""
	}
}

// newLogger builds the diagnostic logger: warnings by default, errors only
// with quiet, everything with verbose.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if quiet {
		level.Set(slog.LevelError)
	}
	if verbose {
		level.Set(slog.LevelDebug)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
