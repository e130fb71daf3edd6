// Package pathrewrite rebases relative references in a document tree so a
// page written to another directory still finds the images and files its
// source pointed at.
package pathrewrite

import (
	"net/url"
	"path/filepath"
	"strings"

	knots "github.com/alnah/go-knots"
)

// Rebase rewrites relative Image.Src and Link.Href values, resolved against
// sourceDir, so they resolve the same way from outputDir. The input document
// is not modified.
//
// Left unchanged:
//   - URLs with a scheme or host (http, https, data, mailto, //cdn)
//   - fragment-only links (#anchor)
//   - absolute paths
//   - paths escaping sourceDir
//
// When both directories are the same the document is returned as is.
func Rebase(doc knots.Document, sourceDir, outputDir string) (knots.Document, error) {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return knots.Document{}, err
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return knots.Document{}, err
	}
	if absSource == absOutput || doc.Root == nil {
		return doc, nil
	}

	r := rebaser{source: absSource, output: absOutput}
	doc.Root = r.node(doc.Root)
	return doc, nil
}

type rebaser struct {
	source string
	output string
}

func (r rebaser) node(n knots.Node) knots.Node {
	switch n := n.(type) {
	case knots.Container:
		n.Children = r.nodes(n.Children)
		return n
	case knots.Heading:
		n.Children = r.nodes(n.Children)
		return n
	case knots.Paragraph:
		n.Children = r.nodes(n.Children)
		return n
	case knots.Emphasis:
		n.Children = r.nodes(n.Children)
		return n
	case knots.Strong:
		n.Children = r.nodes(n.Children)
		return n
	case knots.Quote:
		n.Children = r.nodes(n.Children)
		return n
	case knots.Link:
		n.Href = r.ref(n.Href)
		n.Children = r.nodes(n.Children)
		return n
	case knots.Image:
		n.Src = r.ref(n.Src)
		return n
	case knots.List:
		items := make([]knots.ListItem, len(n.Items))
		for i, item := range n.Items {
			items[i] = knots.ListItem{Children: r.nodes(item.Children)}
		}
		n.Items = items
		return n
	default:
		// Leaf kinds carry no references.
		return n
	}
}

func (r rebaser) nodes(in []knots.Node) []knots.Node {
	if in == nil {
		return nil
	}
	out := make([]knots.Node, len(in))
	for i, n := range in {
		out[i] = r.node(n)
	}
	return out
}

// ref rebases a single reference, keeping any query or fragment suffix.
func (r rebaser) ref(ref string) string {
	if !isRelativePath(ref) {
		return ref
	}

	path, suffix := ref, ""
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		path, suffix = ref[:i], ref[i:]
	}
	if path == "" {
		return ref
	}

	abs := filepath.Join(r.source, filepath.FromSlash(path))
	if !isPathUnderDir(abs, r.source) {
		return ref
	}

	rel, err := filepath.Rel(r.output, abs)
	if err != nil {
		return ref
	}
	return filepath.ToSlash(rel) + suffix
}

// isRelativePath reports whether ref is a relative file reference.
func isRelativePath(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if filepath.IsAbs(ref) || strings.HasPrefix(ref, "/") {
		return false
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
