package scanner

import (
	"sort"
	"strings"
	"sync"

	"github.com/curator-dev/curator/internal/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to share;
// actual parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// extractMarkdown parses a document body and fills in title, headings,
// links, fences, and raw HTML blocks. lineOffset is the number of
// source lines consumed by front matter, so reported line numbers match
// the original file.
func extractMarkdown(body []byte, lineOffset int, doc *types.DocumentInfo) error {
	reader := text.NewReader(body)
	root := getMarkdownParser().Parser().Parse(reader)

	lines := newLineIndex(body)

	return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindHeading:
			heading := n.(*ast.Heading)
			content := nodeText(n, body)
			doc.Headings = append(doc.Headings, content)
			if heading.Level == 1 && doc.Title == "" {
				doc.Title = content
			}

		case ast.KindLink:
			link := n.(*ast.Link)
			dest := string(link.Destination)
			doc.Links = append(doc.Links, types.Link{
				Destination: dest,
				Fragment:    fragmentOf(dest),
				Text:        nodeText(n, body),
				Line:        lineOffset + lines.lineOf(firstSegmentStart(n)),
			})

		case ast.KindAutoLink:
			auto := n.(*ast.AutoLink)
			dest := string(auto.URL(body))
			doc.Links = append(doc.Links, types.Link{
				Destination: dest,
				Text:        dest,
				Line:        lineOffset + lines.lineOf(firstSegmentStart(n)),
			})

		case ast.KindImage:
			img := n.(*ast.Image)
			dest := string(img.Destination)
			doc.Links = append(doc.Links, types.Link{
				Destination: dest,
				Fragment:    fragmentOf(dest),
				Text:        nodeText(n, body),
				Line:        lineOffset + lines.lineOf(firstSegmentStart(n)),
				Image:       true,
			})
			return ast.WalkSkipChildren, nil

		case ast.KindFencedCodeBlock:
			fence := n.(*ast.FencedCodeBlock)
			doc.Fences = append(doc.Fences, types.CodeFence{
				Language: string(fence.Language(body)),
				Line:     lineOffset + fenceLine(fence, lines),
			})
			return ast.WalkSkipChildren, nil

		case ast.KindHTMLBlock:
			block := n.(*ast.HTMLBlock)
			var content strings.Builder
			segments := block.Lines()
			for i := 0; i < segments.Len(); i++ {
				segment := segments.At(i)
				content.Write(segment.Value(body))
			}
			line := 0
			if segments.Len() > 0 {
				line = lineOffset + lines.lineOf(segments.At(0).Start)
			}
			doc.RawHTML = append(doc.RawHTML, types.HTMLBlock{
				Content: content.String(),
				Line:    line,
			})
			return ast.WalkSkipChildren, nil

		case ast.KindRawHTML:
			raw := n.(*ast.RawHTML)
			var content strings.Builder
			for i := 0; i < raw.Segments.Len(); i++ {
				segment := raw.Segments.At(i)
				content.Write(segment.Value(body))
			}
			line := 0
			if raw.Segments.Len() > 0 {
				line = lineOffset + lines.lineOf(raw.Segments.At(0).Start)
			}
			doc.RawHTML = append(doc.RawHTML, types.HTMLBlock{
				Content: content.String(),
				Line:    line,
			})
		}

		return ast.WalkContinue, nil
	})
}

// fragmentOf returns the anchor portion of a destination, without the '#'.
func fragmentOf(dest string) string {
	if idx := strings.Index(dest, "#"); idx >= 0 {
		return dest[idx+1:]
	}
	return ""
}

// fenceLine returns the 1-based line of a fence's opening delimiter
// within the body.
func fenceLine(fence *ast.FencedCodeBlock, lines *lineIndex) int {
	if segments := fence.Lines(); segments.Len() > 0 {
		// Content starts the line after the opening fence.
		return lines.lineOf(segments.At(0).Start) - 1
	}
	if fence.Info != nil {
		return lines.lineOf(fence.Info.Segment.Start)
	}
	return 0
}

// nodeText collects the plain text content of a node's descendants.
func nodeText(n ast.Node, source []byte) string {
	var out strings.Builder
	collectText(n, source, &out)
	return out.String()
}

func collectText(n ast.Node, source []byte, out *strings.Builder) {
	switch node := n.(type) {
	case *ast.Text:
		out.Write(node.Segment.Value(source))
		return
	case *ast.String:
		out.Write(node.Value)
		return
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		collectText(child, source, out)
	}
}

// firstSegmentStart finds the byte offset of the first text segment
// under a node, or -1 when the node carries no text.
func firstSegmentStart(n ast.Node) int {
	if textNode, ok := n.(*ast.Text); ok {
		return textNode.Segment.Start
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if start := firstSegmentStart(child); start >= 0 {
			return start
		}
	}
	return -1
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// lineOf returns the 1-based line containing offset. Unknown offsets
// (negative) map to line 1.
func (li *lineIndex) lineOf(offset int) int {
	if offset < 0 {
		return 1
	}
	return sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
}
