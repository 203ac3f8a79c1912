package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/curator-dev/curator/internal/version"
	"github.com/spf13/cobra"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the curator version, git commit, build time, Go version,
and platform.

Examples:
  curator version
  curator version --format json`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().
		StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	if err := ValidateFormat(versionFormat, []string{"text", "json"}); err != nil {
		return err
	}

	info := version.GetBuildInfo()

	if versionFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	fmt.Printf("curator %s\n", info.Version)
	fmt.Printf("  commit:     %s\n", info.GitCommit)
	if !info.BuildTime.IsZero() {
		fmt.Printf("  built:      %s\n", info.BuildTime.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Printf("  go version: %s\n", info.GoVersion)
	fmt.Printf("  platform:   %s\n", info.Platform)
	return nil
}
