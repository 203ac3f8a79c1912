// Package config provides configuration management for curator using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the CURATOR_ prefix, and validation. It manages the
// catalog layout (roots, exclude globs, index and philosophy file
// names), lint rule switches and severity overrides, preview server
// settings, and watch behavior.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/curator-dev/curator/internal/lint"
	"github.com/spf13/viper"
)

type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Rules   RulesConfig   `yaml:"rules" mapstructure:"rules"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

type CatalogConfig struct {
	// Roots are the catalog directories to scan.
	Roots []string `yaml:"roots" mapstructure:"roots"`
	// Exclude holds doublestar globs matched against catalog-relative paths.
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
	// IndexName is the file name marking a directory index document.
	IndexName string `yaml:"index_name" mapstructure:"index_name"`
	// PhilosophyName is the file name marking a topic philosophy essay.
	PhilosophyName string `yaml:"philosophy_name" mapstructure:"philosophy_name"`
}

type RulesConfig struct {
	// Disabled lists rule names to skip entirely.
	Disabled []string `yaml:"disabled" mapstructure:"disabled"`
	// Severity maps rule names to severity overrides (info/warning/error).
	Severity map[string]string `yaml:"severity" mapstructure:"severity"`
}

type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Host string `yaml:"host" mapstructure:"host"`
	Open bool   `yaml:"open" mapstructure:"open"`
}

type WatchConfig struct {
	// Debounce is how long to wait after the last file event before
	// re-running checks.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle slices set via viper (workaround for viper slice handling)
	if viper.IsSet("catalog.roots") && len(config.Catalog.Roots) == 0 {
		config.Catalog.Roots = viper.GetStringSlice("catalog.roots")
	}
	if viper.IsSet("catalog.exclude") && len(config.Catalog.Exclude) == 0 {
		config.Catalog.Exclude = viper.GetStringSlice("catalog.exclude")
	}
	if viper.IsSet("rules.disabled") && len(config.Rules.Disabled) == 0 {
		config.Rules.Disabled = viper.GetStringSlice("rules.disabled")
	}

	// Apply defaults for anything not explicitly set
	if len(config.Catalog.Roots) == 0 {
		config.Catalog.Roots = []string{"."}
	}
	if !viper.IsSet("catalog.exclude") && len(config.Catalog.Exclude) == 0 {
		config.Catalog.Exclude = []string{
			"**/node_modules/**",
			"_site/**",
			"vendor/**",
		}
	}
	if config.Catalog.IndexName == "" {
		config.Catalog.IndexName = "__index__.md"
	}
	if config.Catalog.PhilosophyName == "" {
		config.Catalog.PhilosophyName = "philosophy.md"
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8090
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if viper.IsSet("server.open") {
		config.Server.Open = viper.GetBool("server.open")
	}

	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LintConfig converts the rules section into the lint engine's config.
func (c *Config) LintConfig() (lint.Config, error) {
	lintConfig := lint.Config{
		Disabled: make(map[string]bool),
		Severity: make(map[string]lint.Severity),
	}
	for _, name := range c.Rules.Disabled {
		lintConfig.Disabled[name] = true
	}
	for name, severityName := range c.Rules.Severity {
		severity, err := lint.ParseSeverity(severityName)
		if err != nil {
			return lint.Config{}, fmt.Errorf("rules.severity[%s]: %w", name, err)
		}
		lintConfig.Severity[name] = severity
	}
	return lintConfig, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateCatalogConfig(&config.Catalog); err != nil {
		return fmt.Errorf("catalog config: %w", err)
	}
	if err := validateRulesConfig(&config.Rules); err != nil {
		return fmt.Errorf("rules config: %w", err)
	}
	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validateCatalogConfig validates catalog roots and exclude globs
func validateCatalogConfig(config *CatalogConfig) error {
	for _, root := range config.Roots {
		if err := validatePath(root); err != nil {
			return fmt.Errorf("invalid catalog root '%s': %w", root, err)
		}
	}

	for _, pattern := range config.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude glob '%s'", pattern)
		}
	}

	if strings.ContainsRune(config.IndexName, '/') {
		return fmt.Errorf("index_name must be a bare file name: %s", config.IndexName)
	}
	if strings.ContainsRune(config.PhilosophyName, '/') {
		return fmt.Errorf("philosophy_name must be a bare file name: %s", config.PhilosophyName)
	}

	return nil
}

// validateRulesConfig checks rule names and severities against the rule set
func validateRulesConfig(config *RulesConfig) error {
	known := make(map[string]bool)
	for _, rule := range lint.DefaultRules() {
		known[rule.Name()] = true
	}

	for _, name := range config.Disabled {
		if !known[name] {
			return fmt.Errorf("unknown rule in disabled list: %s", name)
		}
	}
	for name, severityName := range config.Severity {
		if !known[name] {
			return fmt.Errorf("unknown rule in severity overrides: %s", name)
		}
		if _, err := lint.ParseSeverity(severityName); err != nil {
			return fmt.Errorf("rule %s: %w", name, err)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
