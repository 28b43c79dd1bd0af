package assets

// AssetLoader loads the stylesheet and templates of a site theme by name.
// Names go through ValidateAssetName; failures report ErrInvalidAssetName,
// and absent assets ErrStyleNotFound or ErrTemplateNotFound.
type AssetLoader interface {
	LoadStyle(name string) (string, error)    // styles/<name>.css
	LoadTemplate(name string) (string, error) // templates/<name>.html
}
