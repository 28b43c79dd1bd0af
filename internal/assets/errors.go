package assets

import "errors"

// Sentinel errors for asset loading.
var (
	// ErrStyleNotFound means styles/<name>.css exists neither on disk nor embedded.
	ErrStyleNotFound = errors.New("stylesheet not found")

	// ErrTemplateNotFound means templates/<name>.html exists neither on disk nor embedded.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrIncompleteTemplateSet means the layout or a page template could not be loaded.
	ErrIncompleteTemplateSet = errors.New("site templates incomplete")

	// ErrInvalidAssetName rejects names that do not map to a single file.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath means --asset-path is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrAssetRead wraps I/O failures other than "not found".
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal means a resolved asset path left the asset directory.
	ErrPathTraversal = errors.New("asset path escapes asset directory")
)
