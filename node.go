package knots

// Node is an element of a parsed Knots document.
//
// The set of node kinds is closed: every kind implements the unexported
// accept method and has a matching method on the visitor interface, so a
// new kind does not compile until every traversal handles it.
type Node interface {
	accept(v visitor)
}

// visitor dispatches on node kinds. One method per kind.
type visitor interface {
	visitContainer(n Container)
	visitHeading(n Heading)
	visitParagraph(n Paragraph)
	visitText(n Text)
	visitEmphasis(n Emphasis)
	visitStrong(n Strong)
	visitInlineCode(n InlineCode)
	visitLink(n Link)
	visitImage(n Image)
	visitList(n List)
	visitQuote(n Quote)
	visitRule(n Rule)
	visitCodeBlock(n CodeBlock)
	visitMathExpr(n MathExpr)
	visitDiagram(n Diagram)
}

// Container groups children without markup of its own.
type Container struct {
	Children []Node
}

// Heading opens a section. Anchor must be unique within a document; the
// parser guarantees it. An empty Anchor leaves the heading without an id and
// its summary link points at the top of the page. Children are the
// section's content.
type Heading struct {
	Level    int
	Anchor   string
	Title    string
	Children []Node
}

// Paragraph holds leading text followed by inline children.
type Paragraph struct {
	Text     string
	Children []Node
}

// Text is a run of plain inline text.
type Text struct {
	Text string
}

// Emphasis renders its children emphasized.
type Emphasis struct {
	Children []Node
}

// Strong renders its children with strong importance.
type Strong struct {
	Children []Node
}

// InlineCode is a code span.
type InlineCode struct {
	Code string
}

// Link points at Href. With no children the Href itself is the label.
type Link struct {
	Href     string
	Children []Node
}

// Image is an inline image.
type Image struct {
	Src string
	Alt string
}

// List is an ordered or bulleted list.
type List struct {
	Ordered bool
	Items   []ListItem
}

// ListItem is one entry of a List.
type ListItem struct {
	Children []Node
}

// Quote is a block quotation.
type Quote struct {
	Children []Node
}

// Rule is a thematic break.
type Rule struct{}

// CodeBlock is a block of source code highlighted client-side.
// Language names the highlighting plugin the page needs.
type CodeBlock struct {
	Language string
	Source   string
}

// MathExpr is a TeX expression typeset client-side.
type MathExpr struct {
	Source  string
	Display bool
}

// Diagram is a mermaid diagram description rendered client-side.
type Diagram struct {
	Source string
}

func (n Container) accept(v visitor)  { v.visitContainer(n) }
func (n Heading) accept(v visitor)    { v.visitHeading(n) }
func (n Paragraph) accept(v visitor)  { v.visitParagraph(n) }
func (n Text) accept(v visitor)       { v.visitText(n) }
func (n Emphasis) accept(v visitor)   { v.visitEmphasis(n) }
func (n Strong) accept(v visitor)     { v.visitStrong(n) }
func (n InlineCode) accept(v visitor) { v.visitInlineCode(n) }
func (n Link) accept(v visitor)       { v.visitLink(n) }
func (n Image) accept(v visitor)      { v.visitImage(n) }
func (n List) accept(v visitor)       { v.visitList(n) }
func (n Quote) accept(v visitor)      { v.visitQuote(n) }
func (n Rule) accept(v visitor)       { v.visitRule(n) }
func (n CodeBlock) accept(v visitor)  { v.visitCodeBlock(n) }
func (n MathExpr) accept(v visitor)   { v.visitMathExpr(n) }
func (n Diagram) accept(v visitor)    { v.visitDiagram(n) }
