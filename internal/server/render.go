package server

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/curator-dev/curator/internal/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 4px; }
code { font-family: ui-monospace, monospace; font-size: 0.9em; }
nav { color: #57606a; margin-bottom: 1.5rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #d0d7de; padding: 0.3rem 0.7rem; }
</style>
</head>
<body>
<nav><a href="/">catalog</a></nav>
%s
<script>
(function () {
	var ws = new WebSocket("ws://" + location.host + "/ws");
	ws.onmessage = function (msg) {
		if (msg.data === "reload") location.reload();
	};
})();
</script>
</body>
</html>
`

// handleIndex renders the catalog overview grouped by topic.
func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var body strings.Builder
	body.WriteString("<h1>Catalog</h1>\n")

	for _, topic := range s.registry.Topics() {
		title := topic
		if title == "" {
			title = "(root)"
		}
		body.WriteString(fmt.Sprintf("<h2>%s</h2>\n<ul>\n", html.EscapeString(title)))
		for _, doc := range s.registry.ByTopic(topic) {
			label := doc.Title
			if label == "" {
				label = path.Base(doc.Path)
			}
			body.WriteString(fmt.Sprintf("<li><a href=\"/doc/%s\">%s</a> <small>(%s)</small></li>\n",
				html.EscapeString(doc.Path), html.EscapeString(label), doc.Kind))
		}
		body.WriteString("</ul>\n")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell, "Catalog", body.String())
}

// handleDocument renders a single document to HTML.
func (s *PreviewServer) handleDocument(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/doc/")
	rel = path.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}

	doc, ok := s.registry.Get(rel)
	if !ok {
		http.NotFound(w, r)
		return
	}

	content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		http.Error(w, "document unreadable", http.StatusInternalServerError)
		return
	}

	rendered, err := renderDocument(content, doc)
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	title := doc.Title
	if title == "" {
		title = path.Base(doc.Path)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell, html.EscapeString(title), rendered)
}

// renderDocument converts markdown to HTML with chroma-highlighted
// fences and catalog links rewritten to server routes. A goldmark
// instance is built per call because the link rewriter needs the
// document's directory.
func renderDocument(source []byte, doc *types.DocumentInfo) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&catalogNodeRenderer{docDir: path.Dir(doc.Path)}, 100),
			),
		),
	)

	var out strings.Builder
	if err := md.Convert(stripFrontMatter(source), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// stripFrontMatter removes a leading YAML front matter block so it is
// not rendered as a table or thematic break.
func stripFrontMatter(source []byte) []byte {
	str := string(source)
	if !strings.HasPrefix(str, "---\n") && !strings.HasPrefix(str, "---\r\n") {
		return source
	}
	if idx := strings.Index(str[3:], "\n---"); idx >= 0 {
		rest := str[3+idx+4:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			return []byte(rest[nl+1:])
		}
		return nil
	}
	return source
}

// catalogNodeRenderer overrides goldmark's fence and link rendering:
// fences get chroma highlighting, relative markdown links get routed
// through /doc/.
type catalogNodeRenderer struct {
	docDir string
}

func (r *catalogNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindLink, r.renderLink)
}

func (r *catalogNodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	fence := node.(*ast.FencedCodeBlock)
	language := string(fence.Language(source))

	var code strings.Builder
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	var highlighted strings.Builder
	if language != "" {
		if err := quick.Highlight(&highlighted, code.String(), language, "html", "github"); err == nil {
			w.WriteString(highlighted.String())
			return ast.WalkSkipChildren, nil
		}
	}

	w.WriteString("<pre><code>")
	w.WriteString(html.EscapeString(code.String()))
	w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (r *catalogNodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	link := node.(*ast.Link)
	if !entering {
		w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	dest := string(link.Destination)
	w.WriteString(`<a href="`)
	w.WriteString(html.EscapeString(r.rewriteDestination(dest)))
	w.WriteString(`">`)
	return ast.WalkContinue, nil
}

// rewriteDestination maps relative markdown links onto /doc/ routes so
// catalog cross-references stay navigable in the preview.
func (r *catalogNodeRenderer) rewriteDestination(dest string) string {
	for _, prefix := range []string{"http://", "https://", "mailto:", "#", "/"} {
		if strings.HasPrefix(dest, prefix) {
			return dest
		}
	}

	fragment := ""
	target := dest
	if idx := strings.Index(dest, "#"); idx >= 0 {
		target = dest[:idx]
		fragment = dest[idx:]
	}
	if !strings.HasSuffix(target, ".md") {
		return dest
	}

	resolved := path.Clean(path.Join(r.docDir, target))
	if strings.HasPrefix(resolved, "..") {
		return dest
	}
	return "/doc/" + resolved + fragment
}
