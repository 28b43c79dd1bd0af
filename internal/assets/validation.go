package assets

import "fmt"

// MaxAssetNameLength bounds template and style names.
const MaxAssetNameLength = 64

// ValidateAssetName accepts lowercase ASCII letters, digits, '-' and '_'.
// Anything else (separators, dots, upper case) gives ErrInvalidAssetName,
// so a name always maps to exactly one file under templates/ or styles/.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > MaxAssetNameLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrInvalidAssetName, len(name), MaxAssetNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
