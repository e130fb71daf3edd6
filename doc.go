// Package knots renders parsed Knots documents into self-contained HTML pages.
//
// # Quick Start
//
//	doc := knots.Document{
//	    Title:   "Field notes",
//	    Authors: []string{"Alice", "Bob"},
//	    License: "CC-BY-4.0",
//	    Root: knots.Container{Children: []knots.Node{
//	        knots.Heading{Level: 1, Anchor: "intro", Title: "Introduction", Children: []knots.Node{
//	            knots.Paragraph{Text: "Hello."},
//	            knots.CodeBlock{Language: "go", Source: `fmt.Println("hi")`},
//	        }},
//	    }},
//	}
//	page := knots.Render(doc, knots.Options{Summary: true})
//
// The page embeds every stylesheet, script and icon it uses. It never
// references external assets.
//
// # Rendering Pipeline
//
// Render runs in two phases:
//
//  1. Traversal walks the tree depth-first, emitting the main content into
//     its own buffer and collecting the summary, the feature flags, the
//     code block languages and the math initialization script.
//  2. Assembly writes the head, header, main content, license, summary
//     panel and finally the trailer blocks for KaTeX, Prism and mermaid.
//     Trailers come last because only a finished traversal knows whether
//     the page needs them.
//
// # Escaping
//
// All text from the document (title, authors, license, node content,
// attribute values) is HTML-escaped. Embedded assets are written verbatim.
// Math sources reach the KaTeX script as JSON string literals with <, >
// and & escaped, so they cannot terminate the enclosing script element.
//
// # Concurrency
//
// Render has no shared mutable state and performs no I/O. Concurrent calls
// are safe, and identical inputs produce byte-identical output.
//
// # Errors
//
// Render does not validate the document: duplicate anchors or odd heading
// levels produce a valid page with an odd table of contents. Render panics
// only on internal tag imbalance, with an error wrapping ErrEmptyStack,
// ErrUnclosedTags or ErrFinalized.
package knots
