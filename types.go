package knots

// Document is a parsed Knots document.
type Document struct {
	Title   string
	Authors []string // may be empty
	License string   // empty means no license block
	Root    Node
}

// Options configures a single Render call.
type Options struct {
	// Summary adds a table of contents panel built from the headings.
	// The panel is omitted when the document has no headings.
	Summary bool
}

// SummaryEntry is one table of contents line, in document order.
type SummaryEntry struct {
	Level  int
	Anchor string
	Name   string
}

// Features records which client-side libraries a document needs.
// Each flag only ever goes from false to true during a traversal.
type Features struct {
	Katex   bool // math typesetting
	Prism   bool // code highlighting
	Mermaid bool // diagrams
}

// Report is what a traversal learns about a document.
type Report struct {
	Summary      []SummaryEntry
	Features     Features
	PrismPlugins []string // code block languages, first-seen order
}
