package scanner

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter separates an optional YAML front matter block from a
// document body. It returns the parsed front matter (nil when absent),
// the body, and the number of source lines the block consumed so
// downstream line numbers can be rebased onto the original file.
//
// A block that opens with "---" but never closes, or whose YAML fails
// to parse, degrades to "no front matter": the whole content is
// returned as the body along with the parse error, and the lint engine
// reports it.
func splitFrontMatter(content []byte) (map[string]any, []byte, int, error) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, content, 0, nil
	}

	// Skip the opening delimiter and its line ending.
	start := len("---")
	if start < len(content) && content[start] == '\r' {
		start++
	}
	if start < len(content) && content[start] == '\n' {
		start++
	}

	closeIdx := bytes.Index(content[start:], []byte("\n---"))
	if closeIdx == -1 {
		return nil, content, 0, fmt.Errorf("front matter: no closing delimiter")
	}

	yamlContent := content[start : start+closeIdx]

	// Body starts after the closing delimiter line.
	bodyStart := start + closeIdx + 1 + len("---")
	if bodyStart < len(content) && content[bodyStart] == '\r' {
		bodyStart++
	}
	if bodyStart < len(content) && content[bodyStart] == '\n' {
		bodyStart++
	}

	var body []byte
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var frontMatter map[string]any
	if err := yaml.Unmarshal(yamlContent, &frontMatter); err != nil {
		return nil, content, 0, fmt.Errorf("front matter: %w", err)
	}

	lineOffset := bytes.Count(content[:bodyStart], []byte("\n"))
	return frontMatter, body, lineOffset, nil
}
