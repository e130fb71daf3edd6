package knots

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alnah/go-knots/internal/builder"
)

// mathIDPrefix prefixes the ids of math placeholders.
const mathIDPrefix = "knots-math-"

// treeRenderer turns a node tree into main-content markup and collects
// what the assembler needs afterwards. One per Render call.
type treeRenderer struct {
	b            *builder.Builder
	summary      []SummaryEntry
	features     Features
	prismPlugins []string
	katex        strings.Builder
	mathCount    int
}

// traverse renders root inside the level-one container and returns the
// finished state. The builder is finalized, so an imbalance panics here,
// before any page assembly.
func traverse(root Node) (*treeRenderer, string) {
	r := &treeRenderer{b: builder.New()}

	r.b.StartTag("div", builder.A("class", "container-lvl1"))
	r.render(root)
	r.b.EndTag()

	return r, r.b.Result()
}

func (r *treeRenderer) report() Report {
	return Report{
		Summary:      slices.Clone(r.summary),
		Features:     r.features,
		PrismPlugins: slices.Clone(r.prismPlugins),
	}
}

func (r *treeRenderer) render(n Node) {
	if n == nil {
		return
	}
	n.accept(r)
}

func (r *treeRenderer) renderAll(nodes []Node) {
	for _, n := range nodes {
		r.render(n)
	}
}

// wrap renders children inside a single element.
func (r *treeRenderer) wrap(tag string, children []Node, attrs ...builder.Attr) {
	r.b.StartTag(tag, attrs...)
	r.renderAll(children)
	r.b.EndTag()
}

func (r *treeRenderer) visitContainer(n Container) {
	r.renderAll(n.Children)
}

func (r *treeRenderer) visitHeading(n Heading) {
	level := clampHeadingLevel(n.Level)

	var attrs []builder.Attr
	if n.Anchor != "" {
		attrs = append(attrs, builder.A("id", n.Anchor))
	}
	r.b.InlineTag("h"+strconv.Itoa(level), n.Title, attrs...)

	r.summary = append(r.summary, SummaryEntry{
		Level:  n.Level,
		Anchor: n.Anchor,
		Name:   n.Title,
	})

	if len(n.Children) == 0 {
		return
	}
	r.wrap("div", n.Children, builder.A("class", "container-lvl"+strconv.Itoa(level+1)))
}

func (r *treeRenderer) visitParagraph(n Paragraph) {
	r.b.StartTag("p")
	r.b.WriteContent(n.Text)
	r.renderAll(n.Children)
	r.b.EndTag()
}

func (r *treeRenderer) visitText(n Text) {
	r.b.WriteContent(n.Text)
}

func (r *treeRenderer) visitEmphasis(n Emphasis) {
	r.wrap("em", n.Children)
}

func (r *treeRenderer) visitStrong(n Strong) {
	r.wrap("strong", n.Children)
}

func (r *treeRenderer) visitInlineCode(n InlineCode) {
	r.b.InlineTag("code", n.Code)
}

func (r *treeRenderer) visitLink(n Link) {
	if len(n.Children) == 0 {
		r.b.InlineTag("a", n.Href, builder.A("href", n.Href))
		return
	}
	r.wrap("a", n.Children, builder.A("href", n.Href))
}

func (r *treeRenderer) visitImage(n Image) {
	r.b.OrphanTag("img", builder.A("src", n.Src), builder.A("alt", n.Alt))
}

func (r *treeRenderer) visitList(n List) {
	tag := "ul"
	if n.Ordered {
		tag = "ol"
	}
	r.b.StartTag(tag)
	for _, item := range n.Items {
		r.wrap("li", item.Children)
	}
	r.b.EndTag()
}

func (r *treeRenderer) visitQuote(n Quote) {
	r.wrap("blockquote", n.Children)
}

func (r *treeRenderer) visitRule(Rule) {
	r.b.OrphanTag("hr")
}

func (r *treeRenderer) visitCodeBlock(n CodeBlock) {
	r.features.Prism = true

	language := strings.TrimSpace(n.Language)
	if language == "" {
		language = "none"
	}
	if !slices.Contains(r.prismPlugins, language) {
		r.prismPlugins = append(r.prismPlugins, language)
	}

	r.b.StartTag("pre")
	r.b.InlineTag("code", n.Source, builder.A("class", "language-"+language))
	r.b.EndTag()
}

// visitMathExpr writes a placeholder showing the raw source and queues a
// katex.render call for it. All calls run in one script after the page
// content.
func (r *treeRenderer) visitMathExpr(n MathExpr) {
	r.features.Katex = true

	id := mathIDPrefix + strconv.Itoa(r.mathCount)
	r.mathCount++

	tag, class := "span", "math"
	if n.Display {
		tag, class = "div", "math math-display"
	}
	r.b.InlineTag(tag, n.Source, builder.A("class", class), builder.A("id", id))

	// json.Marshal escapes <, > and & in strings, so the literal cannot
	// close the script element. Marshaling a string never fails.
	source, _ := json.Marshal(n.Source)
	fmt.Fprintf(&r.katex,
		"katex.render(%s, document.getElementById(%q), {displayMode: %t, throwOnError: false});\n",
		source, id, n.Display)
}

// visitDiagram keeps the diagram grammar intact. HTML escaping is undone
// by the browser before mermaid reads the element text.
func (r *treeRenderer) visitDiagram(n Diagram) {
	r.features.Mermaid = true
	r.b.InlineTag("pre", n.Source, builder.A("class", "mermaid"))
}

func clampHeadingLevel(level int) int {
	return min(max(level, 1), 6)
}

// Compile-time interface check.
var _ visitor = (*treeRenderer)(nil)
