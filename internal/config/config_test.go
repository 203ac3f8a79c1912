package config

import (
	"testing"
	"time"

	"github.com/curator-dev/curator/internal/lint"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"."}, config.Catalog.Roots)
	assert.Contains(t, config.Catalog.Exclude, "**/node_modules/**")
	assert.Equal(t, "__index__.md", config.Catalog.IndexName)
	assert.Equal(t, "philosophy.md", config.Catalog.PhilosophyName)
	assert.Equal(t, 8090, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 300*time.Millisecond, config.Watch.Debounce)
}

func TestLoadFromViperValues(t *testing.T) {
	resetViper(t)

	viper.Set("catalog.roots", []string{"docs"})
	viper.Set("catalog.exclude", []string{"drafts/**"})
	viper.Set("catalog.index_name", "README.md")
	viper.Set("server.port", 9000)
	viper.Set("watch.debounce", "1s")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"docs"}, config.Catalog.Roots)
	assert.Equal(t, []string{"drafts/**"}, config.Catalog.Exclude)
	assert.Equal(t, "README.md", config.Catalog.IndexName)
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, time.Second, config.Watch.Debounce)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	resetViper(t)
	viper.Set("server.port", 70000)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadRejectsDangerousHost(t *testing.T) {
	resetViper(t)
	viper.Set("server.host", "localhost; rm -rf /")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsTraversalRoot(t *testing.T) {
	resetViper(t)
	viper.Set("catalog.roots", []string{"../outside"})

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidExcludeGlob(t *testing.T) {
	resetViper(t)
	viper.Set("catalog.exclude", []string{"[unclosed"})

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsPathlikeIndexName(t *testing.T) {
	resetViper(t)
	viper.Set("catalog.index_name", "docs/__index__.md")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownRuleNames(t *testing.T) {
	resetViper(t)
	viper.Set("rules.disabled", []string{"no-such-rule"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-rule")
}

func TestLoadRejectsUnknownSeverity(t *testing.T) {
	resetViper(t)
	viper.Set("rules.severity", map[string]string{"orphan": "fatal"})

	_, err := Load()
	assert.Error(t, err)
}

func TestLintConfigConversion(t *testing.T) {
	resetViper(t)
	viper.Set("rules.disabled", []string{"unknown-language"})
	viper.Set("rules.severity", map[string]string{"orphan": "error"})

	config, err := Load()
	require.NoError(t, err)

	lintConfig, err := config.LintConfig()
	require.NoError(t, err)
	assert.True(t, lintConfig.Disabled["unknown-language"])
	assert.Equal(t, lint.SeverityError, lintConfig.Severity["orphan"])
}
