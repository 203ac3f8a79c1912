package cmd

import (
	"fmt"

	"github.com/curator-dev/curator/internal/config"
	"github.com/curator-dev/curator/internal/scaffold"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:     "new",
	Aliases: []string{"n"},
	Short:   "Scaffold catalog content",
	Long:    `Scaffold new topic directories and pattern documents.`,
}

var (
	newForce    bool
	newTitle    string
	newLanguage string
)

var newTopicCmd = &cobra.Command{
	Use:   "topic <directory>",
	Short: "Scaffold a topic directory with philosophy and index stubs",
	Long: `Create a topic directory containing a philosophy document and an
empty index, named per the catalog configuration.

Examples:
  curator new topic typescript
  curator new topic go --title "Go"`,
	Args: cobra.ExactArgs(1),
	RunE: runNewTopic,
}

var newPatternCmd = &cobra.Command{
	Use:   "pattern <directory> <slug>",
	Short: "Scaffold a pattern document",
	Long: `Create a pattern document skeleton with Problem, Before, After,
Why, and Related Patterns sections. Prints the index entry to add; the
index is not modified, so the entry can be added after rebasing.

Examples:
  curator new pattern typescript/patterns discriminated-unions
  curator new pattern go/patterns errgroup --language go`,
	Args: cobra.ExactArgs(2),
	RunE: runNewPattern,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.AddCommand(newTopicCmd)
	newCmd.AddCommand(newPatternCmd)

	newTopicCmd.Flags().StringVar(&newTitle, "title", "", "Human title (defaults from the directory name)")
	newTopicCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite existing files")

	newPatternCmd.Flags().StringVar(&newTitle, "title", "", "Human title (defaults from the slug)")
	newPatternCmd.Flags().StringVar(&newLanguage, "language", "", "Language tag for the Before/After fences")
	newPatternCmd.Flags().BoolVar(&newForce, "force", false, "Overwrite existing files")
}

func runNewTopic(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	written, err := scaffold.Topic(scaffold.TopicOptions{
		Dir:            args[0],
		Title:          newTitle,
		IndexName:      cfg.Catalog.IndexName,
		PhilosophyName: cfg.Catalog.PhilosophyName,
		Force:          newForce,
	})
	for _, path := range written {
		fmt.Printf("Created %s\n", path)
	}
	return err
}

func runNewPattern(cmd *cobra.Command, args []string) error {
	path, indexEntry, err := scaffold.Pattern(scaffold.PatternOptions{
		Dir:      args[0],
		Slug:     args[1],
		Title:    newTitle,
		Language: newLanguage,
		Force:    newForce,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	fmt.Printf("\nAdd this entry to the directory index:\n\n  %s\n", indexEntry)
	return nil
}
