package lint

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCombinesReports(t *testing.T) {
	first := &Report{
		Documents: 10,
		Errors:    1,
		Warnings:  2,
		Issues:    []Issue{{File: "go/a.md", Severity: SeverityError}},
	}
	second := &Report{
		Documents: 4,
		Infos:     3,
		Issues:    []Issue{{File: "ts/b.md", Severity: SeverityInfo}},
	}

	merged := Merge(first, second)
	assert.Equal(t, 14, merged.Documents)
	assert.Equal(t, 1, merged.Errors)
	assert.Equal(t, 2, merged.Warnings)
	assert.Equal(t, 3, merged.Infos)
	assert.Len(t, merged.Issues, 2)
	assert.False(t, merged.Clean())
}

func TestMergeEmpty(t *testing.T) {
	merged := Merge()
	assert.Equal(t, 0, merged.Documents)
	assert.True(t, merged.Clean())
}

func TestWriteTextGroupsByFile(t *testing.T) {
	report := &Report{
		Documents: 3,
		Errors:    1,
		Warnings:  1,
		Issues: []Issue{
			{Rule: "broken-link", Severity: SeverityError, File: "go/__index__.md", Line: 7, Message: "link target missing"},
			{Rule: "orphan", Severity: SeverityWarning, File: "go/context-keys.md", Message: "not referenced"},
		},
	}

	var out strings.Builder
	require.NoError(t, report.WriteText(&out))

	text := out.String()
	assert.Contains(t, text, "go/__index__.md\n  7: error: link target missing [broken-link]")
	assert.Contains(t, text, "go/context-keys.md\n  warning: not referenced [orphan]")
	assert.Contains(t, text, "Checked 3 documents: 1 errors, 1 warnings, 0 info")
}

func TestWriteTextCleanRun(t *testing.T) {
	report := &Report{Documents: 5}

	var out strings.Builder
	require.NoError(t, report.WriteText(&out))
	assert.Equal(t, "Checked 5 documents: 0 errors, 0 warnings, 0 info\n", out.String())
}

func TestWriteJSON(t *testing.T) {
	report := &Report{
		Documents: 1,
		Warnings:  1,
		Issues: []Issue{
			{Rule: "orphan", Severity: SeverityWarning, File: "go/a.md", Message: "not referenced"},
		},
	}

	var out strings.Builder
	require.NoError(t, report.WriteJSON(&out))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.String()), &decoded))
	assert.Equal(t, float64(1), decoded["documents"])
	issues, ok := decoded["issues"].([]any)
	require.True(t, ok)
	require.Len(t, issues, 1)
	issue := issues[0].(map[string]any)
	assert.Equal(t, "warning", issue["severity"])
	assert.Equal(t, "orphan", issue["rule"])
}
