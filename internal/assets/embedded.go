package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed scripts/*.js scripts/prism/*.js
var scripts embed.FS

//go:embed icons/*.svg
var icons embed.FS

// EmbeddedLoader loads assets from the embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS stylesheet from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readAsset(styles, "styles/", name, ".css", ErrStyleNotFound)
}

// LoadScript loads a JavaScript file from embedded assets by name.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return readAsset(scripts, "scripts/", name, ".js", ErrScriptNotFound)
}

// LoadIcon loads an SVG icon from embedded assets by name.
func (e *EmbeddedLoader) LoadIcon(name string) (string, error) {
	return readAsset(icons, "icons/", name, ".svg", ErrIconNotFound)
}

// LoadPrismPlugin loads a Prism language plugin from embedded assets by name.
func (e *EmbeddedLoader) LoadPrismPlugin(name string) (string, error) {
	return readAsset(scripts, "scripts/prism/", name, ".js", ErrPluginNotFound)
}

func readAsset(fsys embed.FS, dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fsys.ReadFile(dir + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
