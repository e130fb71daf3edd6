package knots

import (
	"encoding/json"
	"strconv"

	"github.com/alnah/go-knots/internal/assets"
	"github.com/alnah/go-knots/internal/builder"
)

// mermaidThemeScript picks the diagram theme from the reader's color scheme.
const mermaidThemeScript = "mermaid.initialize({theme: window.matchMedia('(prefers-color-scheme: dark)').matches ? 'dark' : 'base'})"

// Render produces a complete, self-contained HTML5 page for doc.
func Render(doc Document, opts Options) string {
	tree, main := traverse(doc.Root)
	return assemble(doc, opts, tree, main, assets.Default())
}

// Inspect traverses doc like Render and returns what it found, without
// assembling a page.
func Inspect(doc Document) Report {
	tree, _ := traverse(doc.Root)
	return tree.report()
}

// assemble writes the page around the already rendered main content.
// tree is only read here.
func assemble(doc Document, opts Options, tree *treeRenderer, main string, bundle *assets.Bundle) string {
	b := builder.New()

	b.OrphanTag("!DOCTYPE html")
	b.StartTag("html")

	writeHead(b, doc.Title, bundle)

	b.StartTag("body")
	writeHeader(b, doc, bundle)

	b.StartTag("div", builder.A("class", "flex-container"))
	b.StartTag("div", builder.A("class", "main-content"))
	b.WriteRaw(main)
	if doc.License != "" {
		writeLicense(b, doc.License, bundle)
	}
	b.EndTag() // .main-content

	if opts.Summary && len(tree.summary) > 0 {
		writeSummary(b, tree.summary)
	}
	b.EndTag() // .flex-container

	// Trailers sit at the end of the body: whether they are needed is only
	// known once the traversal is done.
	if tree.features.Katex {
		writeStyle(b, bundle.KatexCSS)
		b.StartTag("script")
		b.WriteRaw(bundle.KatexJS)
		b.WriteRaw(tree.katex.String())
		b.EndTag()
	}

	if tree.features.Prism {
		writeStyle(b, bundle.PrismCSS)
		b.StartTag("script")
		b.WriteRaw(bundle.PrismJS)
		writePrismPlugins(b, tree.prismPlugins)
		b.EndTag()
	}

	if tree.features.Mermaid {
		writeScript(b, bundle.MermaidJS)
		writeScript(b, mermaidThemeScript)
	}

	b.EndTag() // body
	b.EndTag() // html

	return b.Result()
}

func writeHead(b *builder.Builder, title string, bundle *assets.Bundle) {
	b.StartTag("head")
	b.OrphanTag("meta", builder.A("charset", "utf-8"))
	b.OrphanTag("meta",
		builder.A("name", "viewport"),
		builder.A("content", "width=device-width, initial-scale=1"),
	)
	b.InlineTag("title", title)
	writeStyle(b, bundle.NormalizeCSS)
	writeStyle(b, bundle.StyleCSS)
	b.EndTag()
}

func writeHeader(b *builder.Builder, doc Document, bundle *assets.Bundle) {
	b.StartTag("header")
	b.InlineTag("p", doc.Title, builder.A("id", "doctitle"))

	if len(doc.Authors) > 0 {
		b.StartTag("div", builder.A("class", "docinfo"))
		b.WriteRaw(bundle.ProfileIcon)
		b.WriteContent(joinAuthors(doc.Authors))
		b.EndTag()
	}

	b.EndTag()
}

// joinAuthors folds names left to right with ", " between them.
func joinAuthors(authors []string) string {
	joined := authors[0]
	for _, author := range authors[1:] {
		joined += ", " + author
	}
	return joined
}

func writeLicense(b *builder.Builder, license string, bundle *assets.Bundle) {
	b.StartTag("div", builder.A("class", "docinfo discreet"), builder.A("id", "license"))
	b.OrphanTag("hr")
	b.WriteRaw(bundle.LicenseIcon)
	b.WriteContent("This work is available under the " + license + " license")
	b.EndTag()
}

func writeSummary(b *builder.Builder, summary []SummaryEntry) {
	b.StartTag("div", builder.A("class", "summary-container"))
	b.StartTag("div", builder.A("class", "summary"))
	b.InlineTag("p", "Summary")
	b.StartTag("div", builder.A("class", "summary-content"))

	for _, entry := range summary {
		b.InlineTag("a", entry.Name,
			builder.A("href", "#"+entry.Anchor),
			builder.A("class", "lvl"+strconv.Itoa(entry.Level)),
		)
	}

	b.EndTag() // .summary-content
	b.EndTag() // .summary
	b.EndTag() // .summary-container
}

// writePrismPlugins appends the plugin script of every recorded language,
// in first-seen order. Aliases of one language share a single copy, and
// each alias gets the grammar registered under its own name so that
// language-{alias} blocks are highlighted.
func writePrismPlugins(b *builder.Builder, languages []string) {
	written := make(map[string]bool, len(languages))
	for _, language := range languages {
		name, script, ok := assets.PrismPlugin(language)
		if !ok {
			continue
		}
		if !written[name] {
			written[name] = true
			b.WriteRaw(script)
		}
		if name != language {
			b.WriteRaw(prismAlias(language, name))
		}
	}
}

// prismAlias registers the grammar name under alias. Both names are JSON
// string literals, which escape <, > and & and cannot close the script.
func prismAlias(alias, name string) string {
	a, _ := json.Marshal(alias)
	n, _ := json.Marshal(name)
	return "\nPrism.languages[" + string(a) + "] = Prism.languages[" + string(n) + "];\n"
}

func writeStyle(b *builder.Builder, css string) {
	b.StartTag("style")
	b.WriteRaw(css)
	b.EndTag()
}

func writeScript(b *builder.Builder, js string) {
	b.StartTag("script")
	b.WriteRaw(js)
	b.EndTag()
}
