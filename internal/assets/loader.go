package assets

// AssetLoader defines the contract for loading page assets by name.
// Names never include the file extension or any path component.
type AssetLoader interface {
	// LoadStyle loads a stylesheet (styles/{name}.css).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadScript loads a script (scripts/{name}.js).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadIcon loads an SVG icon (icons/{name}.svg).
	// Returns ErrIconNotFound if the icon doesn't exist.
	LoadIcon(name string) (string, error)

	// LoadPrismPlugin loads a highlighting plugin (scripts/prism/{name}.js).
	// Returns ErrPluginNotFound if no plugin exists under that name.
	LoadPrismPlugin(name string) (string, error)
}
