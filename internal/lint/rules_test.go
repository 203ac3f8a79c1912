package lint

import (
	"errors"
	"testing"

	"github.com/curator-dev/curator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRule checks a single rule against an in-memory catalog.
func runRule(t *testing.T, rule Rule, docs []*types.DocumentInfo) []Issue {
	t.Helper()

	catalog := NewCatalog(t.TempDir(), "__index__.md", docs)
	var issues []Issue
	rule.Check(catalog, func(issue Issue) {
		issue.Rule = rule.Name()
		issue.Severity = rule.DefaultSeverity()
		issues = append(issues, issue)
	})
	return issues
}

func TestBrokenLinkRuleRenamedTarget(t *testing.T) {
	// The index still references the old file name after a rename. The
	// stale entry must surface as exactly one finding, citing the index
	// file and line.
	docs := []*types.DocumentInfo{
		{
			Path: "go/__index__.md",
			Kind: types.KindIndex, Topic: "go",
			Links: []types.Link{
				{Destination: "./error-wrapping.md", Line: 7},
			},
		},
		{Path: "go/wrapping-errors.md", Kind: types.KindPattern, Topic: "go"},
	}

	issues := runRule(t, &BrokenLinkRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, "go/__index__.md", issues[0].File)
	assert.Equal(t, 7, issues[0].Line)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "./error-wrapping.md")
}

func TestBrokenLinkRuleIgnoresExternalLinks(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/errgroup.md",
			Kind: types.KindPattern,
			Links: []types.Link{
				{Destination: "https://pkg.go.dev/golang.org/x/sync/errgroup", Line: 3},
				{Destination: "mailto:maintainers@example.com", Line: 4},
			},
		},
	}

	assert.Empty(t, runRule(t, &BrokenLinkRule{}, docs))
}

func TestBrokenLinkRuleEscapingLink(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/errgroup.md",
			Kind: types.KindPattern,
			Links: []types.Link{
				{Destination: "../../outside.md", Line: 9},
			},
		},
	}

	issues := runRule(t, &BrokenLinkRule{}, docs)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "escapes the catalog root")
}

func TestBrokenLinkRuleAnchors(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/philosophy.md",
			Kind: types.KindPhilosophy,
			Links: []types.Link{
				{Destination: "./errgroup.md#problem", Fragment: "problem", Line: 5},
				{Destination: "./errgroup.md#missing-section", Fragment: "missing-section", Line: 6},
			},
		},
		{
			Path:     "go/errgroup.md",
			Kind:     types.KindPattern,
			Headings: []string{"Errgroup", "Problem"},
		},
	}

	issues := runRule(t, &BrokenLinkRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, 6, issues[0].Line)
	assert.Contains(t, issues[0].Message, "missing-section")
	assert.Equal(t, "go/errgroup.md", issues[0].Related)
}

func TestOrphanRuleFlagsUnreferencedPattern(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/__index__.md",
			Kind: types.KindIndex, Topic: "go",
			Links: []types.Link{{Destination: "./errgroup.md", Line: 3}},
		},
		{Path: "go/errgroup.md", Kind: types.KindPattern, Topic: "go"},
		{Path: "go/context-keys.md", Kind: types.KindPattern, Topic: "go"},
	}

	issues := runRule(t, &OrphanRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, "go/context-keys.md", issues[0].File)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
}

func TestOrphanRuleCountsPhilosophyReferences(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/philosophy.md",
			Kind: types.KindPhilosophy, Topic: "go",
			Links: []types.Link{{Destination: "./errgroup.md", Line: 8}},
		},
		{Path: "go/errgroup.md", Kind: types.KindPattern, Topic: "go"},
	}

	assert.Empty(t, runRule(t, &OrphanRule{}, docs))
}

func TestOrphanRuleIgnoresPatternToPatternLinks(t *testing.T) {
	// A pattern referencing another pattern does not make the target
	// reachable from catalog navigation.
	docs := []*types.DocumentInfo{
		{
			Path: "go/errgroup.md",
			Kind: types.KindPattern, Topic: "go",
			Links: []types.Link{{Destination: "./context-keys.md", Line: 4}},
		},
		{Path: "go/context-keys.md", Kind: types.KindPattern, Topic: "go"},
	}

	issues := runRule(t, &OrphanRule{}, docs)
	assert.Len(t, issues, 2)
}

func TestOrphanRuleSkipsIssueTemplates(t *testing.T) {
	docs := []*types.DocumentInfo{
		{Path: ".github/ISSUE_TEMPLATE/bug-report.md", Kind: types.KindPattern, Topic: ".github/ISSUE_TEMPLATE"},
	}

	assert.Empty(t, runRule(t, &OrphanRule{}, docs))
}

func TestIndexSyncRuleMissingEntry(t *testing.T) {
	// A new pattern document was added but the index was not updated.
	docs := []*types.DocumentInfo{
		{
			Path: "go/__index__.md",
			Kind: types.KindIndex, Topic: "go",
			Links: []types.Link{{Destination: "./errgroup.md", Line: 3}},
		},
		{Path: "go/errgroup.md", Kind: types.KindPattern, Topic: "go"},
		{Path: "go/context-keys.md", Kind: types.KindPattern, Topic: "go"},
	}

	issues := runRule(t, &IndexSyncRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, "go/__index__.md", issues[0].File)
	assert.Equal(t, "go/context-keys.md", issues[0].Related)
	assert.Contains(t, issues[0].Message, "missing from the index")
}

func TestIndexSyncRuleDuplicateEntry(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/__index__.md",
			Kind: types.KindIndex, Topic: "go",
			Links: []types.Link{
				{Destination: "./errgroup.md", Line: 3},
				{Destination: "errgroup.md", Line: 9},
			},
		},
		{Path: "go/errgroup.md", Kind: types.KindPattern, Topic: "go"},
	}

	issues := runRule(t, &IndexSyncRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, 9, issues[0].Line)
	assert.Contains(t, issues[0].Message, "listed 2 times")
}

func TestIndexSyncRuleIgnoresOtherTopics(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/__index__.md",
			Kind: types.KindIndex, Topic: "go",
		},
		{Path: "typescript/narrowing.md", Kind: types.KindPattern, Topic: "typescript"},
	}

	assert.Empty(t, runRule(t, &IndexSyncRule{}, docs))
}

func TestIndexSyncRuleSkipsDirectoriesWithoutIndex(t *testing.T) {
	docs := []*types.DocumentInfo{
		{Path: "go/errgroup.md", Kind: types.KindPattern, Topic: "go"},
	}

	assert.Empty(t, runRule(t, &IndexSyncRule{}, docs))
}

func TestFenceLanguageRule(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/errgroup.md",
			Kind: types.KindPattern,
			Fences: []types.CodeFence{
				{Language: "go", Line: 10},
				{Language: "", Line: 20},
			},
		},
	}

	issues := runRule(t, &FenceLanguageRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, 20, issues[0].Line)
}

func TestUnknownLanguageRule(t *testing.T) {
	docs := []*types.DocumentInfo{
		{
			Path: "go/errgroup.md",
			Kind: types.KindPattern,
			Fences: []types.CodeFence{
				{Language: "go", Line: 10},
				{Language: "typescript", Line: 15},
				{Language: "klingon", Line: 20},
				{Language: "", Line: 25},
			},
		},
	}

	issues := runRule(t, &UnknownLanguageRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, 20, issues[0].Line)
	assert.Contains(t, issues[0].Message, "klingon")
}

func TestFrontMatterRule(t *testing.T) {
	docs := []*types.DocumentInfo{
		{Path: "go/good.md", Kind: types.KindPattern},
		{
			Path:           "go/bad.md",
			Kind:           types.KindPattern,
			FrontMatterErr: errors.New("front matter: no closing delimiter"),
		},
	}

	issues := runRule(t, &FrontMatterRule{}, docs)
	require.Len(t, issues, 1)
	assert.Equal(t, "go/bad.md", issues[0].File)
	assert.Equal(t, 1, issues[0].Line)
}

func TestIssueTemplateRule(t *testing.T) {
	tests := []struct {
		name        string
		frontMatter map[string]any
		wantIssues  int
	}{
		{"complete", map[string]any{"name": "Bug report", "about": "Something is wrong"}, 0},
		{"missing about", map[string]any{"name": "Bug report"}, 1},
		{"blank name", map[string]any{"name": "  ", "about": "x"}, 1},
		{"no front matter", nil, 1},
		{"both missing", map[string]any{"labels": "bug"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := []*types.DocumentInfo{
				{
					Path:        ".github/ISSUE_TEMPLATE/bug-report.md",
					Kind:        types.KindPattern,
					FrontMatter: tt.frontMatter,
				},
			}
			assert.Len(t, runRule(t, &IssueTemplateRule{}, docs), tt.wantIssues)
		})
	}
}

func TestIssueTemplateRuleIgnoresCatalogDocuments(t *testing.T) {
	docs := []*types.DocumentInfo{
		{Path: "go/errgroup.md", Kind: types.KindPattern},
	}

	assert.Empty(t, runRule(t, &IssueTemplateRule{}, docs))
}

func TestRawHTMLRule(t *testing.T) {
	tests := []struct {
		name       string
		blocks     []types.HTMLBlock
		wantIssues int
		contains   string
	}{
		{
			"balanced",
			[]types.HTMLBlock{{Content: "<details><summary>More</summary></details>", Line: 4}},
			0, "",
		},
		{
			"unclosed tag",
			[]types.HTMLBlock{{Content: "<details><summary>More</summary>", Line: 4}},
			1, "unclosed HTML tag <details>",
		},
		{
			"unmatched closing tag",
			[]types.HTMLBlock{{Content: "</td>", Line: 9}},
			1, "unmatched closing tag </td>",
		},
		{
			"balanced across fragments",
			[]types.HTMLBlock{
				{Content: "<sup>", Line: 3},
				{Content: "</sup>", Line: 3},
			},
			0, "",
		},
		{
			"void elements need no close",
			[]types.HTMLBlock{{Content: "<br><img src=\"x.png\"><hr>", Line: 2}},
			0, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := []*types.DocumentInfo{
				{Path: "go/errgroup.md", Kind: types.KindPattern, RawHTML: tt.blocks},
			}
			issues := runRule(t, &RawHTMLRule{}, docs)
			require.Len(t, issues, tt.wantIssues)
			if tt.contains != "" {
				assert.Contains(t, issues[0].Message, tt.contains)
			}
		})
	}
}

func TestDefaultRuleNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range DefaultRules() {
		assert.False(t, seen[rule.Name()], "duplicate rule name %s", rule.Name())
		seen[rule.Name()] = true
	}
}
