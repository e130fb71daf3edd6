package assets

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// chromaToPrism maps lowercased chroma lexer names to Prism component
// names where the two differ.
var chromaToPrism = map[string]string{
	"c++":             "cpp",
	"c#":              "csharp",
	"f#":              "fsharp",
	"plaintext":       "none",
	"objective-c":     "objectivec",
	"protocol buffer": "protobuf",
}

// ResolvePrismPlugin finds the highlighting plugin for a code block language.
// It tries the lowercased language as a plugin name first, then looks the
// language up in chroma's lexer registry and tries the canonical name.
// Returns the resolved plugin name, its script, and false if no embedded
// plugin applies (including languages Prism's core already handles).
func ResolvePrismPlugin(loader AssetLoader, language string) (name, script string, ok bool) {
	candidate := strings.ToLower(strings.TrimSpace(language))
	if candidate == "" {
		return "", "", false
	}

	if script, err := loader.LoadPrismPlugin(candidate); err == nil {
		return candidate, script, true
	}

	canonical, found := canonicalLanguage(candidate)
	if !found || canonical == candidate {
		return "", "", false
	}

	script, err := loader.LoadPrismPlugin(canonical)
	if err != nil {
		return "", "", false
	}
	return canonical, script, true
}

// canonicalLanguage returns the Prism component name chroma associates
// with language through its names, aliases and file extensions.
func canonicalLanguage(language string) (string, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", false
	}

	name := strings.ToLower(lexer.Config().Name)
	if mapped, ok := chromaToPrism[name]; ok {
		return mapped, true
	}
	return strings.ReplaceAll(name, " ", "-"), true
}
