package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrSlugOutsideRoot indicates a path that does not live under its root.
var ErrSlugOutsideRoot = errors.New("path is outside content root")

// DeriveSlug maps a content file to its site path: the root prefix and the
// extension are removed, separators become "/", and a leading "/" is added.
// "<root>/2020-01-01-hello.md" gives "/2020-01-01-hello". Distinct paths
// under one root with the same extension give distinct slugs.
func DeriveSlug(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSlugOutsideRoot, path, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrSlugOutsideRoot, path)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return "/" + filepath.ToSlash(rel), nil
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// symbolWords spells out the symbols that tell common tags apart
// ("C++", "C#", "F#").
var symbolWords = map[rune]string{
	'+': "plus",
	'#': "sharp",
	'&': "and",
	'@': "at",
}

// TagSlug turns a tag into a URL path segment: lowercased, Latin
// diacritics removed, symbolWords spelled out, and other runs of
// non-alphanumerics collapsed to "-". "C++" gives "c-plus-plus", "C#"
// gives "c-sharp". Letters of other scripts are kept as is ("日本"); the
// segment is escaped where it becomes a link, not here, so it names the
// directory on disk the way a server decodes the link.
func TagSlug(tag string) string {
	var parts []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			parts = append(parts, word.String())
			word.Reset()
		}
	}

	for _, r := range strings.ToLower(strings.TrimSpace(tag)) {
		for _, f := range foldRune(r) {
			switch {
			case unicode.IsLetter(f) || unicode.IsDigit(f):
				word.WriteRune(f)
			case symbolWords[f] != "":
				flush()
				parts = append(parts, symbolWords[f])
			default:
				flush()
			}
		}
	}
	flush()
	return strings.Join(parts, "-")
}

// foldRune strips the marks of r when that leaves ASCII ("é" to "e").
// Other runes are returned unchanged, so "ガ" does not become "カ".
func foldRune(r rune) string {
	if r <= unicode.MaxASCII {
		return string(r)
	}
	folded, _, err := transform.String(stripMarks, string(r))
	if err != nil || folded == "" {
		return string(r)
	}
	for i := 0; i < len(folded); i++ {
		if folded[i] > unicode.MaxASCII {
			return string(r)
		}
	}
	return folded
}
