package lint

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/curator-dev/curator/internal/types"
	"golang.org/x/net/html"
)

// DefaultRules returns the full rule set in report order.
func DefaultRules() []Rule {
	return []Rule{
		&BrokenLinkRule{},
		&OrphanRule{},
		&IndexSyncRule{},
		&FenceLanguageRule{},
		&UnknownLanguageRule{},
		&FrontMatterRule{},
		&IssueTemplateRule{},
		&RawHTMLRule{},
	}
}

// BrokenLinkRule verifies that every relative link target exists and,
// for markdown targets the scanner parsed, that anchor fragments match
// a heading in the target document.
type BrokenLinkRule struct{}

func (r *BrokenLinkRule) Name() string              { return "broken-link" }
func (r *BrokenLinkRule) DefaultSeverity() Severity { return SeverityError }

func (r *BrokenLinkRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, doc := range catalog.Documents {
		for _, link := range doc.Links {
			if link.IsExternal() {
				continue
			}

			target, inside := ResolveLink(doc, link)
			if !inside {
				collect(Issue{
					File:    doc.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("link %q escapes the catalog root", link.Destination),
				})
				continue
			}

			if !catalog.FileExists(target) {
				collect(Issue{
					File:    doc.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("link target %q does not exist (resolved to %s)", link.Destination, target),
				})
				continue
			}

			if link.Fragment == "" || link.Image {
				continue
			}
			targetDoc, ok := catalog.Lookup(target)
			if !ok {
				// Non-markdown target, nothing to check anchors against.
				continue
			}
			if !hasAnchor(targetDoc, link.Fragment) {
				collect(Issue{
					File:    doc.Path,
					Line:    link.Line,
					Message: fmt.Sprintf("anchor %q not found in %s", link.Fragment, target),
					Related: target,
				})
			}
		}
	}
}

func hasAnchor(doc *types.DocumentInfo, fragment string) bool {
	for _, heading := range doc.Headings {
		if types.AnchorSlug(heading) == fragment {
			return true
		}
	}
	return false
}

// OrphanRule reports pattern documents that no index or philosophy
// document links to. An unreferenced pattern is invisible to readers
// navigating the catalog.
type OrphanRule struct{}

func (r *OrphanRule) Name() string              { return "orphan" }
func (r *OrphanRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *OrphanRule) Check(catalog *Catalog, collect func(Issue)) {
	referenced := make(map[string]bool)
	for _, doc := range catalog.Documents {
		if doc.Kind == types.KindPattern {
			continue
		}
		for _, link := range doc.Links {
			if link.IsExternal() || link.Image {
				continue
			}
			if target, inside := ResolveLink(doc, link); inside {
				referenced[target] = true
			}
		}
	}

	for _, doc := range catalog.Documents {
		if doc.Kind != types.KindPattern {
			continue
		}
		if strings.HasPrefix(doc.Path, ".github/") {
			// Issue templates and contribution guides are process
			// documents, not catalog content.
			continue
		}
		if !referenced[doc.Path] {
			collect(Issue{
				File:    doc.Path,
				Message: "document is not referenced by any index or philosophy document",
			})
		}
	}
}

// IndexSyncRule keeps each directory index consistent with the pattern
// files beside it: every pattern appears exactly once, and duplicate
// entries are reported. Missing entry targets are the broken-link
// rule's job.
type IndexSyncRule struct{}

func (r *IndexSyncRule) Name() string              { return "index-sync" }
func (r *IndexSyncRule) DefaultSeverity() Severity { return SeverityError }

func (r *IndexSyncRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, index := range catalog.Documents {
		if index.Kind != types.KindIndex {
			continue
		}

		entries := make(map[string][]types.Link)
		for _, link := range index.Links {
			if link.IsExternal() || link.Image {
				continue
			}
			target, inside := ResolveLink(index, link)
			if !inside || !strings.HasSuffix(target, ".md") {
				continue
			}
			entries[target] = append(entries[target], link)
		}

		for target, links := range entries {
			if len(links) > 1 {
				collect(Issue{
					File:    index.Path,
					Line:    links[1].Line,
					Message: fmt.Sprintf("%s is listed %d times in the index", target, len(links)),
					Related: target,
				})
			}
		}

		for _, doc := range catalog.Documents {
			if doc.Kind != types.KindPattern || doc.Topic != index.Topic {
				continue
			}
			if _, listed := entries[doc.Path]; !listed {
				collect(Issue{
					File:    index.Path,
					Message: fmt.Sprintf("%s is missing from the index", doc.Path),
					Related: doc.Path,
				})
			}
		}
	}
}

// FenceLanguageRule requires a language tag on every fenced code block
// so renderers can highlight the snippet.
type FenceLanguageRule struct{}

func (r *FenceLanguageRule) Name() string              { return "fence-language" }
func (r *FenceLanguageRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *FenceLanguageRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, doc := range catalog.Documents {
		for _, fence := range doc.Fences {
			if fence.Language == "" {
				collect(Issue{
					File:    doc.Path,
					Line:    fence.Line,
					Message: "fenced code block has no language tag",
				})
			}
		}
	}
}

// UnknownLanguageRule flags language tags no syntax highlighter knows.
// Tags are resolved against the chroma lexer registry, which is what
// most documentation hosts highlight with.
type UnknownLanguageRule struct{}

func (r *UnknownLanguageRule) Name() string              { return "unknown-language" }
func (r *UnknownLanguageRule) DefaultSeverity() Severity { return SeverityInfo }

func (r *UnknownLanguageRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, doc := range catalog.Documents {
		for _, fence := range doc.Fences {
			if fence.Language == "" {
				continue
			}
			if lexers.Get(fence.Language) == nil {
				collect(Issue{
					File:    doc.Path,
					Line:    fence.Line,
					Message: fmt.Sprintf("no known highlighter for language %q", fence.Language),
				})
			}
		}
	}
}

// FrontMatterRule reports front matter blocks that opened but failed to
// parse. The scanner treats such files as having no front matter, which
// usually hides fields the author intended to set.
type FrontMatterRule struct{}

func (r *FrontMatterRule) Name() string              { return "front-matter" }
func (r *FrontMatterRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *FrontMatterRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, doc := range catalog.Documents {
		if doc.FrontMatterErr != nil {
			collect(Issue{
				File:    doc.Path,
				Line:    1,
				Message: doc.FrontMatterErr.Error(),
			})
		}
	}
}

// IssueTemplateRule validates GitHub issue template front matter: the
// intake UI silently ignores templates without a name and about field.
type IssueTemplateRule struct{}

func (r *IssueTemplateRule) Name() string              { return "issue-template" }
func (r *IssueTemplateRule) DefaultSeverity() Severity { return SeverityError }

func (r *IssueTemplateRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, doc := range catalog.Documents {
		if !strings.HasPrefix(doc.Path, ".github/ISSUE_TEMPLATE/") {
			continue
		}
		if doc.FrontMatter == nil {
			collect(Issue{
				File:    doc.Path,
				Line:    1,
				Message: "issue template has no YAML front matter",
			})
			continue
		}
		for _, field := range []string{"name", "about"} {
			value, ok := doc.FrontMatter[field].(string)
			if !ok || strings.TrimSpace(value) == "" {
				collect(Issue{
					File:    doc.Path,
					Line:    1,
					Message: fmt.Sprintf("issue template front matter is missing %q", field),
				})
			}
		}
	}
}

// RawHTMLRule tokenizes raw HTML fragments and reports unbalanced tags.
// Renderers drop malformed fragments silently, so an unclosed <details>
// or stray </td> disappears without any visible error.
type RawHTMLRule struct{}

func (r *RawHTMLRule) Name() string              { return "raw-html" }
func (r *RawHTMLRule) DefaultSeverity() Severity { return SeverityWarning }

// voidElements never take closing tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func (r *RawHTMLRule) Check(catalog *Catalog, collect func(Issue)) {
	for _, doc := range catalog.Documents {
		// Tag balance is tracked across all fragments in a document:
		// inline HTML legitimately opens in one fragment and closes in
		// another (e.g. <sup>text</sup> split around markdown).
		var stack []string
		firstLine := 0

		for _, block := range doc.RawHTML {
			if firstLine == 0 {
				firstLine = block.Line
			}
			tokenizer := html.NewTokenizer(strings.NewReader(block.Content))
			for {
				tokenType := tokenizer.Next()
				if tokenType == html.ErrorToken {
					break
				}
				switch tokenType {
				case html.StartTagToken:
					name, _ := tokenizer.TagName()
					tag := string(name)
					if !voidElements[tag] {
						stack = append(stack, tag)
					}
				case html.EndTagToken:
					name, _ := tokenizer.TagName()
					tag := string(name)
					if len(stack) > 0 && stack[len(stack)-1] == tag {
						stack = stack[:len(stack)-1]
					} else {
						collect(Issue{
							File:    doc.Path,
							Line:    block.Line,
							Message: fmt.Sprintf("unmatched closing tag </%s>", tag),
						})
					}
				}
			}
		}

		for _, tag := range stack {
			collect(Issue{
				File:    doc.Path,
				Line:    firstLine,
				Message: fmt.Sprintf("unclosed HTML tag <%s>", tag),
			})
		}
	}
}
