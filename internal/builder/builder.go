package builder

import (
	"fmt"
	"html"
	"slices"
	"strings"
)

// Attr is a single HTML attribute. Values are escaped when written.
type Attr struct {
	Key   string
	Value string
}

// A is shorthand for constructing an Attr.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Builder accumulates an HTML document. The zero value is ready to use.
// A Builder must not be shared between goroutines.
type Builder struct {
	out   strings.Builder
	stack []string
	done  bool
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{}
}

// StartTag writes <name attrs...> and pushes name on the tag stack.
func (b *Builder) StartTag(name string, attrs ...Attr) {
	b.mustBeOpen()
	b.writeOpening(name, attrs)
	b.stack = append(b.stack, name)
}

// EndTag pops the innermost open tag and writes its closing tag.
// Panics with ErrEmptyStack if no tag is open.
func (b *Builder) EndTag() {
	b.mustBeOpen()
	if len(b.stack) == 0 {
		panic(ErrEmptyStack)
	}
	last := len(b.stack) - 1
	name := b.stack[last]
	b.stack = b.stack[:last]

	b.out.WriteString("</")
	b.out.WriteString(name)
	b.out.WriteByte('>')
}

// OrphanTag writes a void element such as <hr> or <meta>.
// The tag stack is not touched.
func (b *Builder) OrphanTag(name string, attrs ...Attr) {
	b.mustBeOpen()
	b.writeOpening(name, attrs)
}

// InlineTag writes <name attrs...>content</name> with content escaped.
func (b *Builder) InlineTag(name, content string, attrs ...Attr) {
	b.StartTag(name, attrs...)
	b.WriteContent(content)
	b.EndTag()
}

// WriteContent appends text with &, <, >, " and ' escaped.
func (b *Builder) WriteContent(text string) {
	b.mustBeOpen()
	b.out.WriteString(html.EscapeString(text))
}

// WriteRaw appends text verbatim. Only trusted constants and markup
// produced by another Builder may go through here.
func (b *Builder) WriteRaw(text string) {
	b.mustBeOpen()
	b.out.WriteString(text)
}

// Depth returns the number of currently open tags.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Result finalizes the Builder and returns the document.
// Panics with ErrUnclosedTags if any tag is still open.
func (b *Builder) Result() string {
	b.mustBeOpen()
	if len(b.stack) > 0 {
		open := slices.Clone(b.stack)
		slices.Reverse(open)
		panic(fmt.Errorf("%w: %s", ErrUnclosedTags, strings.Join(open, ", ")))
	}
	b.done = true
	return b.out.String()
}

func (b *Builder) writeOpening(name string, attrs []Attr) {
	b.out.WriteByte('<')
	b.out.WriteString(name)
	for _, a := range attrs {
		b.out.WriteByte(' ')
		b.out.WriteString(a.Key)
		b.out.WriteString(`="`)
		b.out.WriteString(html.EscapeString(a.Value))
		b.out.WriteByte('"')
	}
	b.out.WriteByte('>')
}

func (b *Builder) mustBeOpen() {
	if b.done {
		panic(ErrFinalized)
	}
}
