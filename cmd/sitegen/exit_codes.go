package main

import (
	"errors"
	"os"

	"github.com/rationaleemotions/sitegen"
	"github.com/rationaleemotions/sitegen/internal/config"
	"github.com/rationaleemotions/sitegen/internal/logging"
)

// Exit codes for the sitegen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Site built
	ExitGeneral   = 1 // Unexpected error or per-record failures
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // Content unreadable, output unwritable
	ExitCollision = 4 // Two sources claim the same slug
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, sitegen.ErrSlugCollision) {
		return ExitCollision
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, sitegen.ErrConfiguration) ||
		errors.Is(err, sitegen.ErrInvalidAssetPath) ||
		errors.Is(err, sitegen.ErrTemplateParse) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, sitegen.ErrRead) ||
		errors.Is(err, sitegen.ErrWrite) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
