package knots

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/alnah/go-knots/internal/assets"
	"github.com/alnah/go-knots/internal/builder"
)

// sampleDocument exercises every node kind and every trailer.
func sampleDocument() Document {
	return Document{
		Title:   "Field <notes>",
		Authors: []string{"Alice", "Bob"},
		License: "MIT",
		Root: Container{Children: []Node{
			Heading{Level: 1, Anchor: "intro", Title: "Introduction", Children: []Node{
				Paragraph{Text: "Read ", Children: []Node{
					Link{Href: "#usage", Children: []Node{Text{Text: "usage"}}},
					Text{Text: " first."},
				}},
				Image{Src: "diagram.png", Alt: "overview"},
				Heading{Level: 2, Anchor: "usage", Title: "Usage", Children: []Node{
					CodeBlock{Language: "go", Source: `fmt.Println("<hi>")`},
					CodeBlock{Language: "golang", Source: "package main"},
					MathExpr{Source: "E = mc^2", Display: true},
					List{Ordered: true, Items: []ListItem{
						{Children: []Node{InlineCode{Code: "go run ."}}},
						{Children: []Node{Emphasis{Children: []Node{Text{Text: "then"}}}}},
					}},
				}},
			}},
			Rule{},
			Heading{Level: 1, Anchor: "design", Title: "Design", Children: []Node{
				Quote{Children: []Node{Paragraph{Children: []Node{Strong{Children: []Node{Text{Text: "Keep it small."}}}}}}},
				Diagram{Source: "graph TD; A-->B"},
			}},
		}},
	}
}

// voidElements never have end tags in rendered pages.
var voidElements = map[string]bool{"meta": true, "hr": true, "img": true}

// assertBalanced tokenizes page and checks every start tag has a matching
// end tag in LIFO order.
func assertBalanced(t *testing.T, page string) {
	t.Helper()

	z := html.NewTokenizer(strings.NewReader(page))
	var stack []string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				t.Fatalf("tokenizer error: %v", z.Err())
			}
			if len(stack) != 0 {
				t.Fatalf("unclosed elements at end of page: %v", stack)
			}
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 {
				t.Fatalf("end tag </%s> with nothing open", name)
			}
			if top := stack[len(stack)-1]; top != string(name) {
				t.Fatalf("end tag </%s> closes <%s>", name, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func TestRender_WellFormed(t *testing.T) {
	t.Parallel()

	page := Render(sampleDocument(), Options{Summary: true})

	if !strings.HasPrefix(page, "<!DOCTYPE html><html><head>") {
		t.Errorf("page should start with doctype and head, got %q", page[:min(len(page), 60)])
	}
	if !strings.HasSuffix(page, "</body></html>") {
		t.Error("page should end with </body></html>")
	}
	assertBalanced(t, page)
}

func TestRender_NoExternalReferences(t *testing.T) {
	t.Parallel()

	page := Render(sampleDocument(), Options{Summary: true})

	for _, ref := range []string{"<link", "<script src", "<script type=\"module\" src"} {
		if strings.Contains(page, ref) {
			t.Errorf("page contains external reference %q", ref)
		}
	}
}

func TestRender_EscapesDocumentText(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title:   "<script>alert(1)</script>",
		Authors: []string{"<b>Mallory</b>"},
		License: `"quoted" & <i>`,
		Root:    Paragraph{Text: "<script>"},
	}
	page := Render(doc, Options{})

	if strings.Contains(page, "<script>") {
		t.Error("document text reached the page unescaped")
	}
	wants := []string{
		"<title>&lt;script&gt;alert(1)&lt;/script&gt;</title>",
		`<p id="doctitle">&lt;script&gt;alert(1)&lt;/script&gt;</p>`,
		"&lt;b&gt;Mallory&lt;/b&gt;",
		"This work is available under the &#34;quoted&#34; &amp; &lt;i&gt; license",
		"<p>&lt;script&gt;</p>",
	}
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRender_AssetsVerbatim(t *testing.T) {
	t.Parallel()

	bundle := assets.Default()
	page := Render(sampleDocument(), Options{})

	verbatim := map[string]string{
		"normalize.css": bundle.NormalizeCSS,
		"style.css":     bundle.StyleCSS,
		"katex.css":     bundle.KatexCSS,
		"katex.js":      bundle.KatexJS,
		"prism.css":     bundle.PrismCSS,
		"prism.js":      bundle.PrismJS,
		"mermaid.js":    bundle.MermaidJS,
		"profile.svg":   bundle.ProfileIcon,
		"ereader.svg":   bundle.LicenseIcon,
	}
	for name, content := range verbatim {
		if !strings.Contains(page, content) {
			t.Errorf("%s not embedded byte for byte", name)
		}
	}
}

func TestRender_SummaryEntries(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title: "Levels",
		Root: Container{Children: []Node{
			Heading{Level: 1, Anchor: "a", Title: "A"},
			Heading{Level: 2, Anchor: "b", Title: "B"},
			Heading{Level: 2, Anchor: "c", Title: "C"},
			Heading{Level: 1, Anchor: "d", Title: "D"},
		}},
	}

	report := Inspect(doc)
	want := []SummaryEntry{
		{Level: 1, Anchor: "a", Name: "A"},
		{Level: 2, Anchor: "b", Name: "B"},
		{Level: 2, Anchor: "c", Name: "C"},
		{Level: 1, Anchor: "d", Name: "D"},
	}
	if diff := cmp.Diff(want, report.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	page := Render(doc, Options{Summary: true})
	links := []string{
		`<a href="#a" class="lvl1">A</a>`,
		`<a href="#b" class="lvl2">B</a>`,
		`<a href="#c" class="lvl2">C</a>`,
		`<a href="#d" class="lvl1">D</a>`,
	}
	last := -1
	for _, link := range links {
		idx := strings.Index(page, link)
		if idx < 0 {
			t.Fatalf("summary link %q missing", link)
		}
		if idx < last {
			t.Errorf("summary link %q out of order", link)
		}
		last = idx
	}
	if !strings.Contains(page, `<div class="summary"><p>Summary</p>`) {
		t.Error("summary panel heading missing")
	}
}

func TestRender_HeadingWithoutAnchor(t *testing.T) {
	t.Parallel()

	doc := Document{Title: "t", Root: Heading{Level: 1, Title: "Untitled"}}
	page := Render(doc, Options{Summary: true})

	if !strings.Contains(page, "<h1>Untitled</h1>") {
		t.Error("heading without anchor should have no id")
	}
	if !strings.Contains(page, `<a href="#" class="lvl1">Untitled</a>`) {
		t.Error("summary link should point at the top of the page")
	}
}

func TestRender_SummaryPanelConditions(t *testing.T) {
	t.Parallel()

	withHeadings := Document{Title: "t", Root: Heading{Level: 1, Anchor: "h", Title: "H"}}
	withoutHeadings := Document{Title: "t", Root: Paragraph{Text: "p"}}

	tests := []struct {
		name      string
		doc       Document
		summary   bool
		wantPanel bool
	}{
		{name: "requested with headings", doc: withHeadings, summary: true, wantPanel: true},
		{name: "not requested", doc: withHeadings, summary: false, wantPanel: false},
		{name: "requested without headings", doc: withoutHeadings, summary: true, wantPanel: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := Render(tt.doc, Options{Summary: tt.summary})
			if got := strings.Contains(page, "summary-container"); got != tt.wantPanel {
				t.Errorf("summary panel present = %v, want %v", got, tt.wantPanel)
			}
		})
	}
}

func TestRender_NoFeaturesNoTrailers(t *testing.T) {
	t.Parallel()

	doc := Document{
		Title: "Plain",
		Root: Heading{Level: 1, Anchor: "x", Title: "X", Children: []Node{
			Paragraph{Text: "nothing optional here"},
		}},
	}

	if got := Inspect(doc).Features; got != (Features{}) {
		t.Errorf("features = %+v, want all false", got)
	}

	bundle := assets.Default()
	page := Render(doc, Options{Summary: true})
	for name, content := range map[string]string{
		"katex.css":  bundle.KatexCSS,
		"katex.js":   bundle.KatexJS,
		"prism.css":  bundle.PrismCSS,
		"prism.js":   bundle.PrismJS,
		"mermaid.js": bundle.MermaidJS,
	} {
		if strings.Contains(page, content) {
			t.Errorf("page includes %s without needing it", name)
		}
	}
	if strings.Contains(page, "<script") {
		t.Error("page without features should have no script element")
	}
}

func TestRender_TrailersAfterContentInFixedOrder(t *testing.T) {
	t.Parallel()

	bundle := assets.Default()
	page := Render(sampleDocument(), Options{Summary: true})

	positions := []struct {
		name string
		idx  int
	}{
		{"main content", strings.Index(page, `<div class="container-lvl1">`)},
		{"summary", strings.Index(page, `class="summary-container"`)},
		{"katex", strings.Index(page, bundle.KatexJS)},
		{"prism", strings.Index(page, bundle.PrismJS)},
		{"mermaid", strings.Index(page, bundle.MermaidJS)},
		{"mermaid theme", strings.Index(page, mermaidThemeScript)},
	}
	for i, p := range positions {
		if p.idx < 0 {
			t.Fatalf("%s missing from page", p.name)
		}
		if i > 0 && p.idx < positions[i-1].idx {
			t.Errorf("%s appears before %s", p.name, positions[i-1].name)
		}
	}

	if strings.Index(page, bundle.KatexCSS) < strings.Index(page, "</head>") {
		t.Error("katex stylesheet should be a trailer, not in head")
	}
}

func TestRender_KatexScriptIncludesBuffer(t *testing.T) {
	t.Parallel()

	doc := Document{Title: "m", Root: MathExpr{Source: "x+1"}}
	page := Render(doc, Options{})

	want := "<script>" + assets.Default().KatexJS +
		`katex.render("x+1", document.getElementById("knots-math-0"), {displayMode: false, throwOnError: false});` + "\n" +
		"</script>"
	if !strings.Contains(page, want) {
		t.Error("katex script should hold the library followed by the queued render calls")
	}
}

func TestRender_PrismPluginsInRecordedOrder(t *testing.T) {
	t.Parallel()

	loader := assets.NewEmbeddedLoader()
	plugin := func(name string) string {
		s, err := loader.LoadPrismPlugin(name)
		if err != nil {
			t.Fatalf("LoadPrismPlugin(%q): %v", name, err)
		}
		return s
	}

	doc := Document{Title: "code", Root: Container{Children: []Node{
		CodeBlock{Language: "rust"},
		CodeBlock{Language: "go"},
		CodeBlock{Language: "golang"},
		CodeBlock{Language: "cobol"},
		CodeBlock{Language: "python"},
	}}}
	page := Render(doc, Options{})

	goScript, rustScript, pyScript := plugin("go"), plugin("rust"), plugin("python")
	if n := strings.Count(page, goScript); n != 1 {
		t.Errorf("go plugin embedded %d times, want 1", n)
	}
	rustIdx := strings.Index(page, rustScript)
	goIdx := strings.Index(page, goScript)
	pyIdx := strings.Index(page, pyScript)
	if rustIdx < 0 || goIdx < 0 || pyIdx < 0 {
		t.Fatal("a resolvable plugin is missing")
	}
	if !(rustIdx < goIdx && goIdx < pyIdx) {
		t.Errorf("plugins out of order: rust=%d go=%d python=%d", rustIdx, goIdx, pyIdx)
	}

	report := Inspect(doc)
	if diff := cmp.Diff([]string{"rust", "go", "golang", "cobol", "python"}, report.PrismPlugins); diff != "" {
		t.Errorf("recorded languages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_PrismAliasRegistered(t *testing.T) {
	t.Parallel()

	goScript, err := assets.NewEmbeddedLoader().LoadPrismPlugin("go")
	if err != nil {
		t.Fatalf("LoadPrismPlugin(go): %v", err)
	}

	tests := []struct {
		name      string
		languages []string
		want      []string
		notWant   []string
	}{
		{
			name:      "chroma alias",
			languages: []string{"golang"},
			want:      []string{`class="language-golang"`, `Prism.languages["golang"] = Prism.languages["go"];`},
		},
		{
			name:      "case variant",
			languages: []string{"Go"},
			want:      []string{`class="language-Go"`, `Prism.languages["Go"] = Prism.languages["go"];`},
		},
		{
			name:      "plugin name needs no alias",
			languages: []string{"go"},
			want:      []string{`class="language-go"`},
			notWant:   []string{`Prism.languages["go"] =`},
		},
		{
			name:      "alias after the shared script",
			languages: []string{"go", "golang"},
			want:      []string{`Prism.languages["golang"] = Prism.languages["go"];`},
			notWant:   []string{`Prism.languages["go"] =`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var blocks []Node
			for _, lang := range tt.languages {
				blocks = append(blocks, CodeBlock{Language: lang, Source: "package main"})
			}
			page := Render(Document{Title: "alias", Root: Container{Children: blocks}}, Options{})

			for _, want := range tt.want {
				if !strings.Contains(page, want) {
					t.Errorf("page missing %q", want)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(page, notWant) {
					t.Errorf("page should not contain %q", notWant)
				}
			}
			if n := strings.Count(page, goScript); n != 1 {
				t.Errorf("go plugin embedded %d times, want 1", n)
			}
			if alias := strings.Index(page, "Prism.languages[\"golang\"]"); alias >= 0 && alias < strings.Index(page, goScript) {
				t.Error("alias registered before the grammar it points at")
			}
		})
	}
}

func TestRender_MermaidTheme(t *testing.T) {
	t.Parallel()

	page := Render(Document{Title: "d", Root: Diagram{Source: "graph LR"}}, Options{})
	want := "<script>mermaid.initialize({theme: window.matchMedia('(prefers-color-scheme: dark)').matches ? 'dark' : 'base'})</script>"
	if !strings.Contains(page, want) {
		t.Error("mermaid theme initialization missing")
	}
}

func TestRender_Authors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{name: "three authors", authors: []string{"Alice", "Bob", "Carol"}, want: "Alice, Bob, Carol"},
		{name: "single author", authors: []string{"Alice"}, want: "Alice"},
		{name: "names with commas", authors: []string{"Doe, J.", "Roe"}, want: "Doe, J., Roe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := Render(Document{Title: "t", Authors: tt.authors}, Options{})
			block := `<div class="docinfo">` + assets.Default().ProfileIcon + tt.want + `</div>`
			if n := strings.Count(page, block); n != 1 {
				t.Errorf("author block %q found %d times, want 1", tt.want, n)
			}
		})
	}

	t.Run("no authors omits block", func(t *testing.T) {
		t.Parallel()

		page := Render(Document{Title: "t"}, Options{})
		if strings.Contains(page, assets.Default().ProfileIcon) {
			t.Error("author icon present without authors")
		}
	})
}

func TestRender_License(t *testing.T) {
	t.Parallel()

	doc := Document{Title: "t", License: "MIT", Root: Heading{Level: 1, Anchor: "h", Title: "H"}}

	t.Run("license with summary", func(t *testing.T) {
		t.Parallel()

		page := Render(doc, Options{Summary: true})
		if !strings.Contains(page, "This work is available under the MIT license") {
			t.Error("license sentence missing")
		}
		if !strings.Contains(page, `<div class="docinfo discreet" id="license"><hr>`+assets.Default().LicenseIcon) {
			t.Error("license block should start with a divider and the icon")
		}
		if !strings.Contains(page, "summary-container") {
			t.Error("summary panel missing")
		}
	})

	for _, summary := range []bool{true, false} {
		t.Run("no license", func(t *testing.T) {
			t.Parallel()

			noLicense := doc
			noLicense.License = ""
			page := Render(noLicense, Options{Summary: summary})
			if strings.Contains(page, `id="license"`) || strings.Contains(page, "available under") {
				t.Errorf("license block present without license (summary=%v)", summary)
			}
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	opts := Options{Summary: true}

	first := Render(doc, opts)
	if second := Render(doc, opts); first != second {
		t.Error("two renders of the same document differ")
	}
}

func TestRender_ConcurrentCallsIndependent(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	want := Render(doc, Options{Summary: true})

	const workers = 16
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Render(doc, Options{Summary: true})
		}()
	}
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Errorf("concurrent render %d differs from sequential render", i)
		}
	}
}

func TestTraverse_AbortsOnUnbalancedMarkup(t *testing.T) {
	t.Parallel()

	// A broken visitor that leaves a tag open must abort, not emit markup.
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnclosedTags) {
			t.Errorf("recovered %v, want ErrUnclosedTags", r)
		}
	}()

	r := &treeRenderer{b: builder.New()}
	r.b.StartTag("div")
	r.b.Result()
	t.Fatal("Result with an open tag should panic")
}
