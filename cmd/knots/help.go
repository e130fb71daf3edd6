package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: knots [flags] <input>")
	fmt.Fprintln(w, "       knots completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown or document tree files to self-contained HTML pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           Markdown: .md, .markdown   Tree: .yaml, .yml, .json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --format <s>          Input format: auto, markdown, tree")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = first H1, then file name)")
	fmt.Fprintln(w, "      --author <s>          Author name, repeat for several")
	fmt.Fprintln(w, "      --license <s>         License shown above the content")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintln(w, "      --summary             Add a table of contents panel")
	fmt.Fprintln(w, "      --no-summary          Omit the table of contents panel")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w, "      --version             Show version information")
}
