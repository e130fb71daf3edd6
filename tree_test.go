package knots

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// renderMain renders root and strips the level-one container.
func renderMain(t *testing.T, root Node) string {
	t.Helper()

	_, main := traverse(root)
	const open, close = `<div class="container-lvl1">`, `</div>`
	if !strings.HasPrefix(main, open) || !strings.HasSuffix(main, close) {
		t.Fatalf("main content not wrapped in level-one container: %q", main)
	}
	return strings.TrimSuffix(strings.TrimPrefix(main, open), close)
}

func TestTraverse_Markup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		root Node
		want string
	}{
		{
			name: "nil root",
			root: nil,
			want: "",
		},
		{
			name: "empty container",
			root: Container{},
			want: "",
		},
		{
			name: "paragraph with text and inline children",
			root: Paragraph{Text: "Hello ", Children: []Node{
				Strong{Children: []Node{Text{Text: "big"}}},
				Text{Text: " & "},
				Emphasis{Children: []Node{Text{Text: "small"}}},
			}},
			want: "<p>Hello <strong>big</strong> &amp; <em>small</em></p>",
		},
		{
			name: "heading without children",
			root: Heading{Level: 2, Anchor: "setup", Title: "Set <up>"},
			want: `<h2 id="setup">Set &lt;up&gt;</h2>`,
		},
		{
			name: "heading nests its children one level deeper",
			root: Heading{Level: 1, Anchor: "intro", Title: "Intro", Children: []Node{
				Paragraph{Text: "x"},
			}},
			want: `<h1 id="intro">Intro</h1><div class="container-lvl2"><p>x</p></div>`,
		},
		{
			name: "heading level above six is clamped",
			root: Heading{Level: 9, Anchor: "deep", Title: "Deep"},
			want: `<h6 id="deep">Deep</h6>`,
		},
		{
			name: "heading level below one is clamped",
			root: Heading{Level: 0, Anchor: "zero", Title: "Zero", Children: []Node{Rule{}}},
			want: `<h1 id="zero">Zero</h1><div class="container-lvl2"><hr></div>`,
		},
		{
			name: "heading without anchor has no id",
			root: Heading{Level: 3, Title: "Anonymous"},
			want: `<h3>Anonymous</h3>`,
		},
		{
			name: "code block",
			root: CodeBlock{Language: "go", Source: "if a < b {\n}"},
			want: `<pre><code class="language-go">if a &lt; b {` + "\n" + `}</code></pre>`,
		},
		{
			name: "code block without language",
			root: CodeBlock{Source: "plain"},
			want: `<pre><code class="language-none">plain</code></pre>`,
		},
		{
			name: "inline math",
			root: MathExpr{Source: "x^2"},
			want: `<span class="math" id="knots-math-0">x^2</span>`,
		},
		{
			name: "display math",
			root: MathExpr{Source: `\frac{a}{b}`, Display: true},
			want: `<div class="math math-display" id="knots-math-0">\frac{a}{b}</div>`,
		},
		{
			name: "diagram keeps grammar through escaping",
			root: Diagram{Source: "graph TD; A-->B"},
			want: `<pre class="mermaid">graph TD; A--&gt;B</pre>`,
		},
		{
			name: "link with label",
			root: Link{Href: "https://example.com/?a=1&b=2", Children: []Node{Text{Text: "site"}}},
			want: `<a href="https://example.com/?a=1&amp;b=2">site</a>`,
		},
		{
			name: "link without label shows href",
			root: Link{Href: "https://example.com"},
			want: `<a href="https://example.com">https://example.com</a>`,
		},
		{
			name: "image",
			root: Image{Src: "cat.png", Alt: `a "cat"`},
			want: `<img src="cat.png" alt="a &#34;cat&#34;">`,
		},
		{
			name: "inline code",
			root: InlineCode{Code: "<br>"},
			want: `<code>&lt;br&gt;</code>`,
		},
		{
			name: "ordered list",
			root: List{Ordered: true, Items: []ListItem{
				{Children: []Node{Text{Text: "one"}}},
				{Children: []Node{Text{Text: "two"}}},
			}},
			want: "<ol><li>one</li><li>two</li></ol>",
		},
		{
			name: "bulleted list",
			root: List{Items: []ListItem{{Children: []Node{Text{Text: "only"}}}}},
			want: "<ul><li>only</li></ul>",
		},
		{
			name: "quote",
			root: Quote{Children: []Node{Paragraph{Text: "said"}}},
			want: "<blockquote><p>said</p></blockquote>",
		},
		{
			name: "nil children are skipped",
			root: Container{Children: []Node{nil, Text{Text: "a"}, nil}},
			want: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := renderMain(t, tt.root); got != tt.want {
				t.Errorf("markup mismatch\n got: %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestTraverse_SummaryFollowsDocumentOrder(t *testing.T) {
	t.Parallel()

	root := Container{Children: []Node{
		Heading{Level: 1, Anchor: "a", Title: "A", Children: []Node{
			Heading{Level: 2, Anchor: "b", Title: "B"},
			Heading{Level: 2, Anchor: "c", Title: "C"},
		}},
		Heading{Level: 1, Anchor: "d", Title: "D"},
	}}

	tree, _ := traverse(root)

	want := []SummaryEntry{
		{Level: 1, Anchor: "a", Name: "A"},
		{Level: 2, Anchor: "b", Name: "B"},
		{Level: 2, Anchor: "c", Name: "C"},
		{Level: 1, Anchor: "d", Name: "D"},
	}
	if diff := cmp.Diff(want, tree.summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestTraverse_DuplicateAnchorsAreKept(t *testing.T) {
	t.Parallel()

	root := Container{Children: []Node{
		Heading{Level: 1, Anchor: "same", Title: "First"},
		Heading{Level: 1, Anchor: "same", Title: "Second"},
	}}

	tree, _ := traverse(root)
	if len(tree.summary) != 2 {
		t.Fatalf("summary has %d entries, want 2", len(tree.summary))
	}
	for _, entry := range tree.summary {
		if entry.Anchor != "same" {
			t.Errorf("anchor = %q, want %q", entry.Anchor, "same")
		}
	}
}

func TestTraverse_PrismPluginsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	root := Container{Children: []Node{
		CodeBlock{Language: "go"},
		CodeBlock{Language: "rust"},
		CodeBlock{Language: "go"},
		CodeBlock{Language: "python"},
		CodeBlock{Language: "rust"},
	}}

	tree, _ := traverse(root)

	want := []string{"go", "rust", "python"}
	if diff := cmp.Diff(want, tree.prismPlugins); diff != "" {
		t.Errorf("prism plugins mismatch (-want +got):\n%s", diff)
	}
	if !tree.features.Prism {
		t.Error("prism flag not set")
	}
}

func TestTraverse_FeatureFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		root Node
		want Features
	}{
		{name: "text only", root: Paragraph{Text: "plain"}, want: Features{}},
		{name: "math", root: MathExpr{Source: "x"}, want: Features{Katex: true}},
		{name: "code", root: CodeBlock{Language: "go"}, want: Features{Prism: true}},
		{name: "diagram", root: Diagram{Source: "graph TD"}, want: Features{Mermaid: true}},
		{
			name: "all nested under headings",
			root: Heading{Level: 1, Anchor: "h", Title: "H", Children: []Node{
				Quote{Children: []Node{MathExpr{Source: "y"}}},
				List{Items: []ListItem{{Children: []Node{CodeBlock{Language: "sh"}}}}},
				Diagram{Source: "graph LR"},
			}},
			want: Features{Katex: true, Prism: true, Mermaid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, _ := traverse(tt.root)
			if tree.features != tt.want {
				t.Errorf("features = %+v, want %+v", tree.features, tt.want)
			}
		})
	}
}

func TestTraverse_KatexBuffer(t *testing.T) {
	t.Parallel()

	root := Container{Children: []Node{
		MathExpr{Source: "a < b && </script>"},
		MathExpr{Source: "e^{i\\pi}", Display: true},
	}}

	tree, main := traverse(root)
	script := tree.katex.String()

	wantCalls := []string{
		`katex.render("a \u003c b \u0026\u0026 \u003c/script\u003e", document.getElementById("knots-math-0"), {displayMode: false, throwOnError: false});`,
		`katex.render("e^{i\\pi}", document.getElementById("knots-math-1"), {displayMode: true, throwOnError: false});`,
	}
	for _, call := range wantCalls {
		if !strings.Contains(script, call) {
			t.Errorf("katex buffer missing call\n want: %s\n  got: %s", call, script)
		}
	}
	if strings.Contains(strings.ToLower(script), "</script") {
		t.Error("katex buffer can close the script element")
	}
	if !strings.Contains(main, `id="knots-math-1"`) {
		t.Error("placeholder for second expression missing")
	}
}

func TestTraverse_TagStackBalanced(t *testing.T) {
	t.Parallel()

	// traverse finalizes its builder, which panics on imbalance.
	tree, _ := traverse(sampleDocument().Root)
	if tree.b.Depth() != 0 {
		t.Errorf("tag stack depth = %d after traversal, want 0", tree.b.Depth())
	}
}
