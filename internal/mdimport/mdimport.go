// Package mdimport builds Knots document trees from CommonMark/GFM Markdown.
//
// Headings open sections: blocks following a heading nest under it until a
// heading of the same or a shallower level closes it. Fenced blocks tagged
// mermaid become diagrams; fenced blocks tagged math, latex or katex become
// display math. Everything else maps to the closest node kind.
package mdimport

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	knots "github.com/alnah/go-knots"
)

// ErrEmptyMarkdown is returned for input holding nothing but whitespace.
var ErrEmptyMarkdown = errors.New("markdown content cannot be empty")

// Options supplies document metadata Markdown has no syntax for.
type Options struct {
	Title   string // Empty = first level-one heading, then Name
	Authors []string
	License string
	Name    string // Source file name, used as the last-resort title
}

// Importer converts Markdown to document trees. It is safe for concurrent use.
type Importer struct {
	md goldmark.Markdown
}

// New creates an Importer with GFM extensions, automatic heading ids and
// {#id} heading attributes.
func New() *Importer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	)
	return &Importer{md: md}
}

// Import parses src into a document.
// Goldmark has no notion of cancellation, so the parse runs in a goroutine
// and ctx only bounds how long the caller waits.
func (imp *Importer) Import(ctx context.Context, src []byte, opts Options) (knots.Document, error) {
	if err := ctx.Err(); err != nil {
		return knots.Document{}, err
	}
	if len(strings.TrimSpace(string(src))) == 0 {
		return knots.Document{}, ErrEmptyMarkdown
	}

	done := make(chan knots.Document, 1)

	go func() {
		root := imp.md.Parser().Parse(text.NewReader(src))
		w := &walker{src: src}
		container := w.sections(root)

		title := opts.Title
		if title == "" {
			title = w.firstTitle
		}
		if title == "" {
			title = baseName(opts.Name)
		}

		done <- knots.Document{
			Title:   title,
			Authors: opts.Authors,
			License: opts.License,
			Root:    container,
		}
	}()

	select {
	case <-ctx.Done():
		return knots.Document{}, ctx.Err()
	case doc := <-done:
		return doc, nil
	}
}

func baseName(name string) string {
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// walker converts one parsed AST. src backs every segment in it.
type walker struct {
	src        []byte
	firstTitle string
}

// section is a heading whose children are still being collected.
type section struct {
	level    int
	heading  knots.Heading
	children []knots.Node
}

// sections walks the top-level blocks, nesting content under headings.
func (w *walker) sections(doc ast.Node) knots.Container {
	root := &section{level: 0}
	stack := []*section{root}

	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		top.heading.Children = top.children
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, top.heading)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			top := stack[len(stack)-1]
			top.children = append(top.children, w.block(n)...)
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			closeTop()
		}
		stack = append(stack, &section{level: h.Level, heading: w.heading(h)})
	}
	for len(stack) > 1 {
		closeTop()
	}

	return knots.Container{Children: root.children}
}

func (w *walker) heading(h *ast.Heading) knots.Heading {
	title := strings.TrimSpace(w.plainText(h))
	if h.Level == 1 && w.firstTitle == "" {
		w.firstTitle = title
	}

	var anchor string
	if id, ok := h.AttributeString("id"); ok {
		switch v := id.(type) {
		case []byte:
			anchor = string(v)
		case string:
			anchor = v
		}
	}

	return knots.Heading{Level: h.Level, Anchor: anchor, Title: title}
}

// blocks converts the block children of n, without sectioning.
func (w *walker) blocks(n ast.Node) []knots.Node {
	var nodes []knots.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		nodes = append(nodes, w.block(c)...)
	}
	return nodes
}

func (w *walker) block(n ast.Node) []knots.Node {
	switch v := n.(type) {
	case *ast.Heading:
		return []knots.Node{w.heading(v)}
	case *ast.Paragraph:
		return []knots.Node{knots.Paragraph{Children: w.inlines(v)}}
	case *ast.TextBlock:
		// Tight list items hold bare text, not paragraphs.
		return w.inlines(v)
	case *ast.FencedCodeBlock:
		return []knots.Node{w.fenced(v)}
	case *ast.CodeBlock:
		return []knots.Node{knots.CodeBlock{Source: w.lines(v)}}
	case *ast.List:
		items := make([]knots.ListItem, 0, v.ChildCount())
		for li := v.FirstChild(); li != nil; li = li.NextSibling() {
			items = append(items, knots.ListItem{Children: w.blocks(li)})
		}
		return []knots.Node{knots.List{Ordered: v.IsOrdered(), Items: items}}
	case *ast.Blockquote:
		return []knots.Node{knots.Quote{Children: w.blocks(v)}}
	case *ast.ThematicBreak:
		return []knots.Node{knots.Rule{}}
	case *ast.HTMLBlock:
		raw := w.lines(v)
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(w.src))
		}
		return []knots.Node{knots.Paragraph{Text: strings.TrimRight(raw, "\n")}}
	case *east.Table:
		return w.table(v)
	default:
		return w.blocks(n)
	}
}

func (w *walker) fenced(v *ast.FencedCodeBlock) knots.Node {
	lang := string(v.Language(w.src))
	source := w.lines(v)

	switch strings.ToLower(lang) {
	case "mermaid":
		return knots.Diagram{Source: source}
	case "math", "latex", "katex":
		return knots.MathExpr{Source: source, Display: true}
	default:
		return knots.CodeBlock{Language: lang, Source: source}
	}
}

// table flattens a GFM table into one paragraph per row, cells separated
// by " | ". Header cells are strong.
func (w *walker) table(t *east.Table) []knots.Node {
	var rows []knots.Node
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		var cells []knots.Node
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if len(cells) > 0 {
				cells = append(cells, knots.Text{Text: " | "})
			}
			content := w.inlines(cell)
			if header {
				cells = append(cells, knots.Strong{Children: content})
			} else {
				cells = append(cells, content...)
			}
		}
		rows = append(rows, knots.Paragraph{Children: cells})
	}
	return rows
}

// inlines converts the inline children of n. Adjacent text runs merge.
func (w *walker) inlines(n ast.Node) []knots.Node {
	var nodes []knots.Node
	appendText := func(s string) {
		if s == "" {
			return
		}
		if last := len(nodes) - 1; last >= 0 {
			if t, ok := nodes[last].(knots.Text); ok {
				nodes[last] = knots.Text{Text: t.Text + s}
				return
			}
		}
		nodes = append(nodes, knots.Text{Text: s})
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			s := string(v.Segment.Value(w.src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				s += "\n"
			}
			appendText(s)
		case *ast.String:
			appendText(string(v.Value))
		case *ast.Emphasis:
			if v.Level >= 2 {
				nodes = append(nodes, knots.Strong{Children: w.inlines(v)})
			} else {
				nodes = append(nodes, knots.Emphasis{Children: w.inlines(v)})
			}
		case *ast.CodeSpan:
			nodes = append(nodes, knots.InlineCode{Code: w.plainText(v)})
		case *ast.Link:
			nodes = append(nodes, knots.Link{Href: string(v.Destination), Children: w.inlines(v)})
		case *ast.AutoLink:
			label := string(v.Label(w.src))
			nodes = append(nodes, knots.Link{
				Href:     string(v.URL(w.src)),
				Children: []knots.Node{knots.Text{Text: label}},
			})
		case *ast.Image:
			nodes = append(nodes, knots.Image{Src: string(v.Destination), Alt: w.plainText(v)})
		case *ast.RawHTML:
			var b strings.Builder
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				b.Write(seg.Value(w.src))
			}
			appendText(b.String())
		case *east.TaskCheckBox:
			if v.IsChecked {
				appendText("[x] ")
			} else {
				appendText("[ ] ")
			}
		default:
			// Strikethrough and unknown inlines keep their content.
			for _, child := range w.inlines(c) {
				if t, ok := child.(knots.Text); ok {
					appendText(t.Text)
				} else {
					nodes = append(nodes, child)
				}
			}
		}
	}
	return nodes
}

// plainText concatenates the text under n, dropping markup.
func (w *walker) plainText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(w.src))
			if v.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(w.src))
		default:
			b.WriteString(w.plainText(c))
		}
	}
	return b.String()
}

// lines joins the raw source lines of a block, without the final newline.
func (w *walker) lines(n ast.Node) string {
	var b strings.Builder
	l := n.Lines()
	for i := 0; i < l.Len(); i++ {
		seg := l.At(i)
		b.Write(seg.Value(w.src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
