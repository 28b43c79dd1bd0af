package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"strings"

	"github.com/rationaleemotions/sitegen"
	"github.com/rationaleemotions/sitegen/internal/config"
	"github.com/rationaleemotions/sitegen/internal/hints"
)

// printError writes err and, when one applies, a hint on the next line.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var opErr *net.OpError
	switch {
	case errors.Is(err, sitegen.ErrSlugCollision):
		return hints.ForSlugCollision()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, config.ErrConfigParse):
		return hints.ForConfigParse()
	case errors.Is(err, sitegen.ErrInvalidAssetPath):
		return hints.ForAssetPath()
	case errors.Is(err, sitegen.ErrConfiguration) && errors.Is(err, fs.ErrNotExist):
		return hints.ForContentDir()
	case errors.Is(err, sitegen.ErrMalformedFrontmatter):
		return hints.ForFrontmatter()
	case errors.Is(err, sitegen.ErrWrite):
		return hints.ForOutputDirectory()
	case errors.As(err, &opErr) && opErr.Op == "listen":
		return hints.ForListen()
	}
	return ""
}

// triedPaths extracts the searched locations from a config-not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
