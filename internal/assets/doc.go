// Package assets provides the stylesheets, scripts and icons embedded in
// every rendered page.
//
// # Catalogue
//
// All assets are compiled into the binary with go:embed and cannot be
// overridden at runtime:
//
//	styles/
//	├── normalize.css    # base reset, always included
//	├── style.css        # page layout, always included
//	├── katex.css        # math typesetting
//	└── prism.css        # code highlighting
//	scripts/
//	├── katex.js
//	├── prism.js
//	├── mermaid.js
//	└── prism/
//	    └── {language}.js  # per-language highlighting plugins
//	icons/
//	├── profile.svg      # author block
//	└── ereader.svg      # license block
//
// The committed scripts are compact fallbacks that expose the same globals
// as the upstream libraries (katex, Prism, mermaid). `make assets` replaces
// them with the pinned upstream distributions before a release build.
//
// # Prism plugins
//
// Code block languages are free-form strings coming from documents.
// ResolvePrismPlugin validates them as asset names, tries the embedded
// plugin directly, then canonicalizes aliases through chroma's lexer
// registry (golang -> go, sh -> bash, py -> python).
package assets
