package assets

import (
	"fmt"
	"sync"
)

// Bundle holds the fixed assets every page may need.
type Bundle struct {
	NormalizeCSS string
	StyleCSS     string
	KatexCSS     string
	KatexJS      string
	PrismCSS     string
	PrismJS      string
	MermaidJS    string
	ProfileIcon  string
	LicenseIcon  string
}

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

var (
	bundleOnce sync.Once
	bundle     *Bundle
)

// Default returns the embedded asset bundle, loading it on first use.
// Panics if a built-in asset is missing, which means a broken build.
func Default() *Bundle {
	bundleOnce.Do(func() {
		b, err := LoadBundle(defaultLoader)
		if err != nil {
			panic(fmt.Sprintf("assets: embedded bundle incomplete: %v", err))
		}
		bundle = b
	})
	return bundle
}

// LoadBundle loads every fixed asset through loader.
func LoadBundle(loader AssetLoader) (*Bundle, error) {
	var (
		b   Bundle
		err error
	)

	load := func(dst *string, fn func(string) (string, error), name string) {
		if err != nil {
			return
		}
		*dst, err = fn(name)
	}

	load(&b.NormalizeCSS, loader.LoadStyle, "normalize")
	load(&b.StyleCSS, loader.LoadStyle, "style")
	load(&b.KatexCSS, loader.LoadStyle, "katex")
	load(&b.PrismCSS, loader.LoadStyle, "prism")
	load(&b.KatexJS, loader.LoadScript, "katex")
	load(&b.PrismJS, loader.LoadScript, "prism")
	load(&b.MermaidJS, loader.LoadScript, "mermaid")
	load(&b.ProfileIcon, loader.LoadIcon, "profile")
	load(&b.LicenseIcon, loader.LoadIcon, "ereader")

	if err != nil {
		return nil, err
	}
	return &b, nil
}

// PrismPlugin resolves language with the default loader.
// See ResolvePrismPlugin.
func PrismPlugin(language string) (name, script string, ok bool) {
	return ResolvePrismPlugin(defaultLoader, language)
}
