package types

import (
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDocumentKindString(t *testing.T) {
	assert.Equal(t, "pattern", KindPattern.String())
	assert.Equal(t, "philosophy", KindPhilosophy.String())
	assert.Equal(t, "index", KindIndex.String())
	assert.Equal(t, "unknown", DocumentKind(99).String())
}

func TestLinkIsExternal(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		external    bool
	}{
		{"https URL", "https://example.com/page", true},
		{"http URL", "http://example.com", true},
		{"mailto", "mailto:maintainers@example.com", true},
		{"ftp", "ftp://example.com/file", true},
		{"relative sibling", "./honest-functions.md", false},
		{"relative parent", "../go/philosophy.md", false},
		{"bare file", "philosophy.md", false},
		{"fragment only", "#intent", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link := Link{Destination: tt.destination}
			assert.Equal(t, tt.external, link.IsExternal())
		})
	}
}

func TestAnchorSlug(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"Intent", "intent"},
		{"Related Patterns", "related-patterns"},
		{"Why this works", "why-this-works"},
		{"FAQ: when not to use it?", "faq-when-not-to-use-it"},
		{"snake_case_heading", "snake_case_heading"},
		{"already-hyphenated", "already-hyphenated"},
		{"  padded  ", "padded"},
		{"Héading with ünïcode", "héading-with-ünïcode"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, AnchorSlug(tt.heading))
		})
	}
}

func TestAnchorSlugProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("idempotent", prop.ForAll(
		func(heading string) bool {
			once := AnchorSlug(heading)
			return AnchorSlug(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("output has no uppercase or spaces", prop.ForAll(
		func(heading string) bool {
			for _, r := range AnchorSlug(heading) {
				if unicode.IsUpper(r) || r == ' ' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("output restricted to letters, digits, hyphen, underscore", prop.ForAll(
		func(heading string) bool {
			for _, r := range AnchorSlug(heading) {
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
