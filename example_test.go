package knots_test

import (
	"fmt"
	"strings"

	knots "github.com/alnah/go-knots"
)

// Example renders a small document with a table of contents.
func Example() {
	doc := knots.Document{
		Title:   "Field notes",
		Authors: []string{"Alice", "Bob"},
		Root: knots.Container{Children: []knots.Node{
			knots.Heading{Level: 1, Anchor: "intro", Title: "Introduction", Children: []knots.Node{
				knots.Paragraph{Text: "Hello."},
			}},
		}},
	}

	page := knots.Render(doc, knots.Options{Summary: true})

	fmt.Println(strings.Contains(page, `<h1 id="intro">Introduction</h1>`))
	fmt.Println(strings.Contains(page, `<a href="#intro" class="lvl1">Introduction</a>`))
	// Output:
	// true
	// true
}

// ExampleInspect reports which client-side libraries a page will embed.
func ExampleInspect() {
	doc := knots.Document{
		Title: "Cheatsheet",
		Root: knots.Container{Children: []knots.Node{
			knots.CodeBlock{Language: "go", Source: "go test ./..."},
			knots.MathExpr{Source: "O(n \\log n)"},
		}},
	}

	report := knots.Inspect(doc)
	fmt.Printf("katex=%v prism=%v mermaid=%v plugins=%v\n",
		report.Features.Katex, report.Features.Prism, report.Features.Mermaid, report.PrismPlugins)
	// Output: katex=true prism=true mermaid=false plugins=[go]
}
