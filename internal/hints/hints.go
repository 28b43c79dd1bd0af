// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config path.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/sitegen.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/sitegen") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForConfigParse points at the usual cause of a rejected config file.
func ForConfigParse() string {
	return format("check the YAML syntax and key spelling; unknown keys are rejected")
}

// ForContentDir returns hints for a missing or unreadable content directory.
func ForContentDir() string {
	return formatHints([]string{
		"create the directory",
		"pass --content, set SITEGEN_CONTENT_DIR or content.dir in sitegen.yaml",
	})
}

// ForSlugCollision explains how to resolve two sources claiming one URL.
func ForSlugCollision() string {
	return format("rename or move one of the files; /, /page/N and /tags are reserved")
}

// ForFrontmatter describes the header every post needs.
func ForFrontmatter() string {
	return format("posts start with a --- block holding title and date (YYYY-MM-DD)")
}

// ForOutputDirectory returns hints for output directory write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAssetPath lists the files a custom asset directory may provide.
func ForAssetPath() string {
	return format("expected templates/*.html and styles/site.css; missing files fall back to the built-in ones")
}

// ForListen suggests another address when the preview server cannot bind.
func ForListen() string {
	return format("the port may be in use; pick another with --addr")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
