package types

import (
	"strings"
	"unicode"
)

// AnchorSlug converts a heading to the anchor fragment a Markdown
// renderer generates for it: lowercased, punctuation stripped, spaces
// replaced with hyphens. This follows the GitHub convention, which is
// what the catalog's cross-references target.
func AnchorSlug(heading string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out.WriteRune(r)
		case r == ' ':
			out.WriteRune('-')
		case r == '-' || r == '_':
			out.WriteRune(r)
		}
	}
	return out.String()
}
