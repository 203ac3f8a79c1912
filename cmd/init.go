package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/curator-dev/curator/internal/scaffold"
	"github.com/curator-dev/curator/internal/scanner"
	"github.com/spf13/cobra"
)

var (
	initForce bool
	initTopic string
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new pattern catalog",
	Long: `Initialize a pattern catalog in the given directory (default:
current directory). Writes a .curator.yml config file and the GitHub
issue templates for bug reports and pattern proposals.

Examples:
  curator init                    # Initialize in the current directory
  curator init docs               # Initialize in ./docs
  curator init --topic go         # Also scaffold a first topic directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	initCmd.Flags().StringVar(&initTopic, "topic", "", "Also scaffold a topic directory")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	written, err := scaffold.Catalog(scaffold.CatalogOptions{
		Dir:   dir,
		Force: initForce,
	})
	for _, path := range written {
		fmt.Printf("Created %s\n", path)
	}
	if err != nil {
		return err
	}

	if initTopic != "" {
		topicFiles, err := scaffold.Topic(scaffold.TopicOptions{
			Dir:            filepath.Join(dir, initTopic),
			IndexName:      scanner.DefaultIndexName,
			PhilosophyName: scanner.DefaultPhilosophyName,
			Force:          initForce,
		})
		for _, path := range topicFiles {
			fmt.Printf("Created %s\n", path)
		}
		if err != nil {
			return err
		}
	}

	fmt.Println("\nCatalog initialized. Run 'curator check' to verify it.")
	return nil
}
