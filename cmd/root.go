// Package cmd provides the command-line interface for curator with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. CURATOR_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (CURATOR_SERVER_PORT, etc.)
//	4. Configuration files (.curator.yml) - lowest priority
//
// Environment Variables:
//
//	CURATOR_CONFIG_FILE: Path to custom configuration file
//	CURATOR_SERVER_PORT: Override preview server port
//	CURATOR_CATALOG_INDEX_NAME: Override the index file name
//	And more following the CURATOR_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Integrity and preview toolkit for Markdown pattern catalogs",
	Long: `Curator keeps a Markdown pattern catalog honest: cross-references
resolve, every pattern is reachable from an index, code fences carry
language tags, and GitHub issue templates stay well-formed.

Key Features:
  • Document discovery and scanning
  • Link, orphan, and index integrity checks
  • Preview server with live reload
  • Continuous checking in watch mode
  • Catalog, topic, and pattern scaffolding

Quick Start:
  curator init                    Initialize a new catalog
  curator check                   Run all integrity checks
  curator list                    List all documents
  curator serve                   Start the preview server
  curator new pattern typescript/patterns my-pattern

Command Aliases (for faster typing):
  check (c), list (l), serve (s), watch (w), new (n)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .curator.yml, can also use CURATOR_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. CURATOR_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .curator.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CURATOR_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".curator")
	}

	// Enable automatic environment variable binding with CURATOR_ prefix
	// Examples: CURATOR_SERVER_PORT, CURATOR_CATALOG_INDEX_NAME
	viper.SetEnvPrefix("CURATOR")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the file doesn't exist or has errors, Viper falls back to
	// defaults so the tool still works in an unconfigured catalog.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
