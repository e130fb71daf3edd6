// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-knots/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnsupportedInput returns hints for files whose format cannot be inferred.
func ForUnsupportedInput(extensions []string) string {
	if len(extensions) == 0 {
		return format("pass --format markdown or --format tree")
	}
	return formatHints([]string{
		"supported extensions: " + strings.Join(extensions, ", "),
		"or pass --format markdown|tree",
	})
}

// ForTreeDecode returns hints for tree file decoding errors.
func ForTreeDecode(kinds []string) string {
	if len(kinds) == 0 {
		return ""
	}
	return format("node kinds: " + strings.Join(kinds, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
