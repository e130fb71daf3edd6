// Package docfile decodes Knots document trees stored as YAML or JSON.
//
// A tree file holds the document metadata and a root node:
//
//	title: Guide
//	authors: [Alice, Bob]
//	license: MIT
//	root:
//	  kind: container
//	  children:
//	    - {kind: heading, level: 1, anchor: intro, title: Intro}
//	    - {kind: paragraph, text: Hello}
//
// Every node names its kind. Fields belonging to another kind are
// rejected rather than ignored, as are keys the format does not define.
package docfile

import (
	"fmt"
	"slices"

	knots "github.com/alnah/go-knots"
	"github.com/alnah/go-knots/internal/yamlutil"
)

// MaxTreeSize limits tree file input (default 16MB).
var MaxTreeSize = 16 << 20

// Node kind names.
const (
	KindContainer  = "container"
	KindHeading    = "heading"
	KindParagraph  = "paragraph"
	KindText       = "text"
	KindEmphasis   = "emphasis"
	KindStrong     = "strong"
	KindCode       = "code"
	KindInlineCode = "inline-code"
	KindLink       = "link"
	KindImage      = "image"
	KindList       = "list"
	KindItem       = "item"
	KindQuote      = "quote"
	KindRule       = "rule"
	KindMath       = "math"
	KindDiagram    = "diagram"
)

// kindFields lists, per kind, the fields a node may carry besides "kind".
var kindFields = map[string][]string{
	KindContainer:  {"children"},
	KindHeading:    {"level", "anchor", "title", "children"},
	KindParagraph:  {"text", "children"},
	KindText:       {"text"},
	KindEmphasis:   {"children"},
	KindStrong:     {"children"},
	KindCode:       {"language", "source"},
	KindInlineCode: {"code"},
	KindLink:       {"href", "children"},
	KindImage:      {"src", "alt"},
	KindList:       {"ordered", "items"},
	KindItem:       {"children"},
	KindQuote:      {"children"},
	KindRule:       {},
	KindMath:       {"source", "display"},
	KindDiagram:    {"source"},
}

var requiredFields = map[string][]string{
	KindHeading:    {"level"},
	KindText:       {"text"},
	KindInlineCode: {"code"},
	KindLink:       {"href"},
	KindImage:      {"src"},
	KindMath:       {"source"},
	KindDiagram:    {"source"},
}

// Kinds returns the node kind names in a stable order.
func Kinds() []string {
	kinds := make([]string, 0, len(kindFields))
	for k := range kindFields {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

type rawDocument struct {
	Title   string   `yaml:"title"`
	Authors []string `yaml:"authors"`
	License string   `yaml:"license"`
	Root    *rawNode `yaml:"root"`
}

// rawNode is the union of every kind's fields. Pointers record presence
// so that fields foreign to a node's kind can be reported.
type rawNode struct {
	Kind     string      `yaml:"kind"`
	Level    *int        `yaml:"level"`
	Anchor   *string     `yaml:"anchor"`
	Title    *string     `yaml:"title"`
	Text     *string     `yaml:"text"`
	Code     *string     `yaml:"code"`
	Href     *string     `yaml:"href"`
	Src      *string     `yaml:"src"`
	Alt      *string     `yaml:"alt"`
	Ordered  *bool       `yaml:"ordered"`
	Language *string     `yaml:"language"`
	Source   *string     `yaml:"source"`
	Display  *bool       `yaml:"display"`
	Items    *[]*rawNode `yaml:"items"`
	Children *[]*rawNode `yaml:"children"`
}

func (r *rawNode) present() []string {
	var names []string
	add := func(name string, set bool) {
		if set {
			names = append(names, name)
		}
	}
	add("level", r.Level != nil)
	add("anchor", r.Anchor != nil)
	add("title", r.Title != nil)
	add("text", r.Text != nil)
	add("code", r.Code != nil)
	add("href", r.Href != nil)
	add("src", r.Src != nil)
	add("alt", r.Alt != nil)
	add("ordered", r.Ordered != nil)
	add("language", r.Language != nil)
	add("source", r.Source != nil)
	add("display", r.Display != nil)
	add("items", r.Items != nil)
	add("children", r.Children != nil)
	return names
}

// Decode parses a YAML or JSON tree file into a document.
func Decode(data []byte) (knots.Document, error) {
	var raw rawDocument
	if err := yamlutil.UnmarshalStrictLimit(data, &raw, MaxTreeSize); err != nil {
		return knots.Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw.Root == nil {
		return knots.Document{}, ErrMissingRoot
	}

	root, err := decodeNode(raw.Root, "root")
	if err != nil {
		return knots.Document{}, err
	}

	return knots.Document{
		Title:   raw.Title,
		Authors: raw.Authors,
		License: raw.License,
		Root:    root,
	}, nil
}

func checkFields(r *rawNode, path string) error {
	allowed, ok := kindFields[r.Kind]
	if !ok {
		if r.Kind == "" {
			return fmt.Errorf("%s: %w", path, ErrMissingKind)
		}
		return fmt.Errorf("%s: %w: %q", path, ErrUnknownKind, r.Kind)
	}

	present := r.present()
	for _, name := range present {
		if !slices.Contains(allowed, name) {
			return fmt.Errorf("%s: %w: %q on %s", path, ErrUnexpectedField, name, r.Kind)
		}
	}
	for _, name := range requiredFields[r.Kind] {
		if !slices.Contains(present, name) {
			return fmt.Errorf("%s: %w: %q on %s", path, ErrMissingField, name, r.Kind)
		}
	}
	return nil
}

func decodeNode(r *rawNode, path string) (knots.Node, error) {
	if r == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingKind)
	}
	if err := checkFields(r, path); err != nil {
		return nil, err
	}

	switch r.Kind {
	case KindItem:
		return nil, fmt.Errorf("%s: %w outside a list", path, ErrMisplacedItem)
	case KindRule:
		return knots.Rule{}, nil
	case KindText:
		return knots.Text{Text: *r.Text}, nil
	case KindInlineCode:
		return knots.InlineCode{Code: *r.Code}, nil
	case KindImage:
		return knots.Image{Src: *r.Src, Alt: deref(r.Alt)}, nil
	case KindCode:
		return knots.CodeBlock{Language: deref(r.Language), Source: deref(r.Source)}, nil
	case KindMath:
		return knots.MathExpr{Source: *r.Source, Display: r.Display != nil && *r.Display}, nil
	case KindDiagram:
		return knots.Diagram{Source: *r.Source}, nil
	case KindList:
		items, err := decodeItems(r.Items, path)
		if err != nil {
			return nil, err
		}
		return knots.List{Ordered: r.Ordered != nil && *r.Ordered, Items: items}, nil
	}

	children, err := decodeChildren(r.Children, path)
	if err != nil {
		return nil, err
	}

	switch r.Kind {
	case KindContainer:
		return knots.Container{Children: children}, nil
	case KindHeading:
		return knots.Heading{
			Level:    *r.Level,
			Anchor:   deref(r.Anchor),
			Title:    deref(r.Title),
			Children: children,
		}, nil
	case KindParagraph:
		return knots.Paragraph{Text: deref(r.Text), Children: children}, nil
	case KindEmphasis:
		return knots.Emphasis{Children: children}, nil
	case KindStrong:
		return knots.Strong{Children: children}, nil
	case KindLink:
		return knots.Link{Href: *r.Href, Children: children}, nil
	default: // KindQuote; checkFields rejected everything else
		return knots.Quote{Children: children}, nil
	}
}

func decodeChildren(raw *[]*rawNode, path string) ([]knots.Node, error) {
	if raw == nil {
		return nil, nil
	}
	nodes := make([]knots.Node, 0, len(*raw))
	for i, child := range *raw {
		node, err := decodeNode(child, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeItems(raw *[]*rawNode, path string) ([]knots.ListItem, error) {
	if raw == nil {
		return nil, nil
	}
	items := make([]knots.ListItem, 0, len(*raw))
	for i, item := range *raw {
		itemPath := fmt.Sprintf("%s.items[%d]", path, i)
		if item == nil {
			return nil, fmt.Errorf("%s: %w", itemPath, ErrMissingKind)
		}
		if err := checkFields(item, itemPath); err != nil {
			return nil, err
		}
		if item.Kind != KindItem {
			return nil, fmt.Errorf("%s: %w, got %q", itemPath, ErrMisplacedItem, item.Kind)
		}
		children, err := decodeChildren(item.Children, itemPath)
		if err != nil {
			return nil, err
		}
		items = append(items, knots.ListItem{Children: children})
	}
	return items, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
