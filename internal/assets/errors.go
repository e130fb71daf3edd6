package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested stylesheet does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrScriptNotFound indicates the requested script does not exist.
	ErrScriptNotFound = errors.New("script not found")

	// ErrIconNotFound indicates the requested icon does not exist.
	ErrIconNotFound = errors.New("icon not found")

	// ErrPluginNotFound indicates no highlighting plugin exists for a language.
	ErrPluginNotFound = errors.New("highlighting plugin not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")
)
