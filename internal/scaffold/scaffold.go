// Package scaffold writes the starting files for catalogs, topics, and
// pattern documents. Generated documents follow the catalog anatomy the
// lint rules expect: a level-1 title, language-tagged fences, and a
// Related Patterns section.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const configTemplate = `catalog:
  roots:
    - .
  exclude:
    - "**/node_modules/**"
    - "_site/**"
    - "vendor/**"

rules:
  # disabled:
  #   - unknown-language
  # severity:
  #   orphan: error

server:
  host: localhost
  port: 8090

watch:
  debounce: 300ms
`

const bugReportTemplate = `---
name: Bug report
about: A document is wrong, misleading, or broken
labels: bug
---

## Which document?

<!-- Path to the file, e.g. typescript/patterns/discriminated-unions.md -->

## What is wrong?

## What should it say instead?
`

const newPatternTemplate = `---
name: New pattern
about: Propose a pattern the catalog should document
labels: pattern-proposal
---

## Pattern name

## Problem it solves

## Example

` + "```" + `text
(sketch of before/after)
` + "```" + `
`

const philosophyTemplate = `# %s Philosophy

Why the patterns in this directory exist, and the principles that tie
them together.

## Principles

1. TODO

## Related Patterns

<!-- Link patterns as they are added, e.g. [Example](./patterns/example.md) -->
`

const indexTemplate = `# %s Patterns

<!-- One entry per pattern file in this directory. -->

## Uncategorized
`

const patternTemplate = `# %s

## Problem

Describe the situation this pattern addresses.

## Before

` + "```%s" + `
// code that exhibits the problem
` + "```" + `

## After

` + "```%s" + `
// code applying the pattern
` + "```" + `

## Why

## Related Patterns
`

// CatalogOptions configures catalog initialization.
type CatalogOptions struct {
	Dir   string
	Force bool
}

// Catalog writes a catalog skeleton: config file and GitHub issue
// templates. Existing files are preserved unless Force is set.
func Catalog(opts CatalogOptions) ([]string, error) {
	files := map[string]string{
		".curator.yml": configTemplate,
		filepath.Join(".github", "ISSUE_TEMPLATE", "bug-report.md"):  bugReportTemplate,
		filepath.Join(".github", "ISSUE_TEMPLATE", "new-pattern.md"): newPatternTemplate,
	}

	var written []string
	for rel, content := range files {
		target := filepath.Join(opts.Dir, rel)
		if err := writeFile(target, content, opts.Force); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// TopicOptions configures topic scaffolding.
type TopicOptions struct {
	// Dir is the topic directory to create, relative to the catalog root.
	Dir string
	// Title is the human name used in the philosophy and index stubs.
	Title string
	// IndexName and PhilosophyName match the catalog configuration.
	IndexName      string
	PhilosophyName string
	Force          bool
}

// Topic writes a topic directory with philosophy and index stubs.
func Topic(opts TopicOptions) ([]string, error) {
	if opts.Title == "" {
		opts.Title = titleFromSlug(filepath.Base(opts.Dir))
	}

	files := map[string]string{
		filepath.Join(opts.Dir, opts.PhilosophyName): fmt.Sprintf(philosophyTemplate, opts.Title),
		filepath.Join(opts.Dir, opts.IndexName):      fmt.Sprintf(indexTemplate, opts.Title),
	}

	var written []string
	for target, content := range files {
		if err := writeFile(target, content, opts.Force); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// PatternOptions configures pattern document scaffolding.
type PatternOptions struct {
	// Dir is the directory the pattern belongs in.
	Dir string
	// Slug is the file name without extension, e.g. "honest-functions".
	Slug string
	// Title defaults to the slug in title case.
	Title string
	// Language tags the Before/After fences, "text" when empty.
	Language string
	Force    bool
}

// Pattern writes one pattern document and returns its path plus the
// index entry the contributor should add. The index itself is never
// touched: the contribution workflow updates the shared index last,
// after rebasing, to keep conflicts off the high-contention file.
func Pattern(opts PatternOptions) (string, string, error) {
	if opts.Slug == "" {
		return "", "", fmt.Errorf("pattern slug is required")
	}
	if strings.ContainsAny(opts.Slug, "/\\ ") {
		return "", "", fmt.Errorf("pattern slug must be a bare file name: %q", opts.Slug)
	}
	if opts.Title == "" {
		opts.Title = titleFromSlug(opts.Slug)
	}
	if opts.Language == "" {
		opts.Language = "text"
	}

	target := filepath.Join(opts.Dir, opts.Slug+".md")
	content := fmt.Sprintf(patternTemplate, opts.Title, opts.Language, opts.Language)
	if err := writeFile(target, content, opts.Force); err != nil {
		return "", "", err
	}

	indexEntry := fmt.Sprintf("- [%s](./%s.md)", opts.Title, opts.Slug)
	return target, indexEntry, nil
}

// titleFromSlug converts "honest-functions" to "Honest Functions".
func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// writeFile creates a file and its parent directories, refusing to
// overwrite unless force is set.
func writeFile(target, content string, force bool) error {
	if !force {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
