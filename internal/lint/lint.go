// Package lint implements the catalog integrity rules: broken
// cross-references, orphaned pattern documents, out-of-sync indexes,
// untagged code fences, malformed front matter, incomplete issue
// templates, and unbalanced raw HTML.
//
// Rules operate over a Catalog snapshot taken from the document
// registry. Findings are values, not errors; only error-severity
// findings fail a check run.
package lint

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/curator-dev/curator/internal/types"
)

// Severity represents the severity of a lint issue
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes severities as their string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// ParseSeverity parses a severity name as written in config files.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", name)
	}
}

// Issue is one lint finding.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	// Related names a second file involved in the finding, e.g. the
	// index that should reference an orphaned pattern.
	Related string `json:"related,omitempty"`
}

// Error formats the issue in file:line: severity: message form.
func (i Issue) Error() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", i.File, i.Line, i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.File, i.Severity, i.Message)
}

// IssueCollector accumulates findings from concurrently running rules.
type IssueCollector struct {
	issues []Issue
	mutex  sync.RWMutex
}

// NewIssueCollector creates a new issue collector
func NewIssueCollector() *IssueCollector {
	return &IssueCollector{issues: make([]Issue, 0)}
}

// Add records an issue.
func (c *IssueCollector) Add(issue Issue) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.issues = append(c.issues, issue)
}

// All returns the collected issues sorted by file, line, rule.
func (c *IssueCollector) All() []Issue {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]Issue, len(c.issues))
	copy(result, c.issues)
	sort.Slice(result, func(i, j int) bool {
		if result[i].File != result[j].File {
			return result[i].File < result[j].File
		}
		if result[i].Line != result[j].Line {
			return result[i].Line < result[j].Line
		}
		return result[i].Rule < result[j].Rule
	})
	return result
}

// ByFile returns issues for a specific file.
func (c *IssueCollector) ByFile(file string) []Issue {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var fileIssues []Issue
	for _, issue := range c.issues {
		if issue.File == file {
			fileIssues = append(fileIssues, issue)
		}
	}
	return fileIssues
}

// HasErrors returns true when any error-severity issue was collected.
func (c *IssueCollector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, issue := range c.issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Catalog is an immutable snapshot of the registry plus the filesystem
// context rules need to resolve links against.
type Catalog struct {
	// Root is the catalog root on disk.
	Root string
	// IndexName is the file name marking index documents.
	IndexName string
	// Documents holds every scanned document.
	Documents []*types.DocumentInfo

	byPath map[string]*types.DocumentInfo
}

// NewCatalog builds a catalog snapshot.
func NewCatalog(root, indexName string, docs []*types.DocumentInfo) *Catalog {
	byPath := make(map[string]*types.DocumentInfo, len(docs))
	for _, doc := range docs {
		byPath[doc.Path] = doc
	}
	return &Catalog{
		Root:      root,
		IndexName: indexName,
		Documents: docs,
		byPath:    byPath,
	}
}

// Lookup finds a scanned document by catalog-relative path.
func (c *Catalog) Lookup(rel string) (*types.DocumentInfo, bool) {
	doc, ok := c.byPath[rel]
	return doc, ok
}

// FileExists reports whether a catalog-relative path exists, consulting
// the registry first and the filesystem for non-markdown targets.
func (c *Catalog) FileExists(rel string) bool {
	if _, ok := c.byPath[rel]; ok {
		return true
	}
	_, err := os.Stat(filepath.Join(c.Root, filepath.FromSlash(rel)))
	return err == nil
}

// ResolveLink resolves a link destination against the document it was
// written in. The second return is false when the link escapes the
// catalog root.
func ResolveLink(from *types.DocumentInfo, link types.Link) (string, bool) {
	dest := link.Destination
	if idx := strings.IndexByte(dest, '#'); idx >= 0 {
		dest = dest[:idx]
	}
	if dest == "" {
		// Pure fragment: the link targets the document itself.
		return from.Path, true
	}

	resolved := path.Clean(path.Join(path.Dir(from.Path), dest))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return resolved, false
	}
	return resolved, true
}

// Rule checks one integrity property over the catalog.
type Rule interface {
	// Name is the rule's identifier as used in config and reports.
	Name() string
	// DefaultSeverity is applied when config does not override it.
	DefaultSeverity() Severity
	// Check inspects the catalog and reports findings via collect. The
	// issue severity is filled in by the linter.
	Check(catalog *Catalog, collect func(Issue))
}

// Config controls which rules run and at what severity.
type Config struct {
	// Disabled lists rule names to skip.
	Disabled map[string]bool
	// Severity overrides a rule's default severity.
	Severity map[string]Severity
}

// Linter runs a rule set over a catalog.
type Linter struct {
	rules  []Rule
	config Config
}

// NewLinter creates a linter with the default rule set.
func NewLinter(config Config) *Linter {
	return &Linter{
		rules:  DefaultRules(),
		config: config,
	}
}

// Rules returns the linter's rule set.
func (l *Linter) Rules() []Rule {
	return l.rules
}

// Run checks every enabled rule and returns the resulting report.
func (l *Linter) Run(catalog *Catalog) *Report {
	started := time.Now()
	collector := NewIssueCollector()

	for _, rule := range l.rules {
		if l.config.Disabled[rule.Name()] {
			continue
		}

		severity := rule.DefaultSeverity()
		if override, ok := l.config.Severity[rule.Name()]; ok {
			severity = override
		}

		rule.Check(catalog, func(issue Issue) {
			issue.Rule = rule.Name()
			issue.Severity = severity
			collector.Add(issue)
		})
	}

	return newReport(catalog, collector.All(), time.Since(started))
}
