// Package types defines the core document model shared across the
// scanner, registry, lint engine, and preview server.
//
// A catalog is a tree of Markdown files grouped into topic directories.
// Three kinds of document exist, distinguished purely by file name:
// an index file enumerating a directory's patterns, a philosophy essay
// describing the principles behind a topic, and pattern documents for
// everything else.
package types

import "time"

// DocumentKind classifies a catalog document by its role.
type DocumentKind int

const (
	KindPattern DocumentKind = iota
	KindPhilosophy
	KindIndex
)

// String returns the string representation of the document kind.
func (k DocumentKind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindPhilosophy:
		return "philosophy"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Link is an outbound link extracted from a document.
type Link struct {
	// Destination as written in the source, e.g. "./honest-functions.md#intent".
	Destination string
	// Fragment is the anchor portion of the destination, without the '#'.
	Fragment string
	// Text is the link's display text.
	Text string
	// Line is the 1-based source line the link starts on.
	Line int
	// Image marks image links, which are exempt from markdown-target checks.
	Image bool
}

// IsExternal reports whether the link points outside the catalog
// (absolute URLs, mailto). External links are never resolved on disk.
func (l Link) IsExternal() bool {
	for _, prefix := range []string{"http://", "https://", "mailto:", "ftp://"} {
		if len(l.Destination) >= len(prefix) && l.Destination[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// CodeFence is a fenced code block found in a document.
type CodeFence struct {
	// Language is the info-string language tag, "" when the fence is untagged.
	Language string
	// Line is the 1-based line of the opening fence.
	Line int
}

// DocumentInfo holds everything the catalog knows about one Markdown file.
type DocumentInfo struct {
	// Path is the path relative to the catalog root, using forward slashes.
	Path string
	// AbsPath is the location on disk.
	AbsPath string
	// Topic is the directory the document lives in, relative to the
	// catalog root, "" for documents at the root itself.
	Topic string
	// Kind is derived from the file name (index/philosophy/pattern).
	Kind DocumentKind
	// Title is the text of the first level-1 heading, "" when absent.
	Title string
	// Headings lists all heading texts in document order, used for
	// anchor resolution.
	Headings []string
	// FrontMatter is the parsed YAML front matter, nil when absent.
	FrontMatter map[string]any
	// FrontMatterErr records a front matter block that failed to parse.
	FrontMatterErr error
	// Links are all outbound links in document order.
	Links []Link
	// Fences are all fenced code blocks in document order.
	Fences []CodeFence
	// RawHTML holds raw HTML blocks for well-formedness checking.
	RawHTML []HTMLBlock
	// Hash is a CRC32 of the file contents, used for change detection.
	Hash string
	// LastMod is the file modification time at scan.
	LastMod time.Time
}

// HTMLBlock is a raw HTML fragment embedded in a document.
type HTMLBlock struct {
	Content string
	Line    int
}
