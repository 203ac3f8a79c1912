package cmd

import (
	"fmt"
	"os"

	"github.com/curator-dev/curator/internal/config"
	"github.com/curator-dev/curator/internal/lint"
	"github.com/curator-dev/curator/internal/registry"
	"github.com/curator-dev/curator/internal/scanner"
	"github.com/spf13/cobra"
)

var (
	checkFormat string
	checkPaths  []string
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"c"},
	Short:   "Run all catalog integrity checks",
	Long: `Check the catalog for integrity issues including:

- Broken relative links and missing anchors
- Pattern documents unreachable from any index or philosophy document
- Directory indexes out of sync with their pattern files
- Code fences without language tags
- Malformed YAML front matter
- Incomplete GitHub issue templates
- Unbalanced raw HTML

Examples:
  curator check                   # Check all configured catalog roots
  curator check --format json     # Output results as JSON
  curator check --path docs       # Check an additional root`,
	RunE: runCheckCommand,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().
		StringVarP(&checkFormat, "format", "f", "text", "Output format (text, json)")
	checkCmd.Flags().
		StringSliceVar(&checkPaths, "path", nil, "Additional catalog roots to check")
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	if err := ValidateFormat(checkFormat, []string{"text", "json"}); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	report, err := runChecks(cfg, checkPaths)
	if err != nil {
		return err
	}

	switch checkFormat {
	case "json":
		if err := report.WriteJSON(os.Stdout); err != nil {
			return err
		}
	default:
		if err := report.WriteText(os.Stdout); err != nil {
			return err
		}
	}

	if !report.Clean() {
		return fmt.Errorf("check failed: %d errors", report.Errors)
	}
	return nil
}

// runChecks scans every configured root and lints each as its own
// catalog, merging the results.
func runChecks(cfg *config.Config, extraRoots []string) (*lint.Report, error) {
	lintConfig, err := cfg.LintConfig()
	if err != nil {
		return nil, err
	}
	linter := lint.NewLinter(lintConfig)

	roots := append([]string{}, cfg.Catalog.Roots...)
	roots = append(roots, extraRoots...)

	var reports []*lint.Report
	for _, root := range roots {
		reg := registry.NewDocumentRegistry()
		docScanner := scanner.NewDocumentScanner(reg, scanner.Options{
			ExcludePatterns: cfg.Catalog.Exclude,
			IndexName:       cfg.Catalog.IndexName,
			PhilosophyName:  cfg.Catalog.PhilosophyName,
		})

		if err := docScanner.ScanDirectory(root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to scan root %s: %v\n", root, err)
		}
		docScanner.Close()

		catalog := lint.NewCatalog(root, cfg.Catalog.IndexName, reg.GetAll())
		reports = append(reports, linter.Run(catalog))
	}

	return lint.Merge(reports...), nil
}
