package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/curator-dev/curator/internal/config"
	"github.com/curator-dev/curator/internal/registry"
	"github.com/curator-dev/curator/internal/scanner"
	"github.com/curator-dev/curator/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all discovered catalog documents",
	Long: `List all discovered documents with their metadata.
Shows paths, kinds, topics, and titles, and optionally outbound links
and code fence languages.

Examples:
  curator list                    # List all documents in table format
  curator list -f json            # Output as JSON (short flag)
  curator list --format csv       # Output as CSV
  curator list -k                 # Include outbound links (short flag)
  curator list -c -f yaml         # Include fences, output as YAML`,
	RunE: runList,
}

var (
	listFlags      *StandardFlags
	listWithLinks  bool
	listWithFences bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd)

	listCmd.Flags().
		BoolVarP(&listWithLinks, "with-links", "k", false, "Include outbound links")
	listCmd.Flags().
		BoolVarP(&listWithFences, "with-fences", "c", false, "Include code fence languages")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	reg := registry.NewDocumentRegistry()
	docScanner := scanner.NewDocumentScanner(reg, scanner.Options{
		ExcludePatterns: cfg.Catalog.Exclude,
		IndexName:       cfg.Catalog.IndexName,
		PhilosophyName:  cfg.Catalog.PhilosophyName,
	})
	defer docScanner.Close()

	for _, root := range cfg.Catalog.Roots {
		if err := docScanner.ScanDirectory(root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to scan root %s: %v\n", root, err)
		}
	}

	documents := reg.GetAll()
	if len(documents) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	if err := ValidateFormat(listFlags.Format, []string{"table", "json", "yaml", "csv"}); err != nil {
		return err
	}

	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputListJSON(documents)
	case "yaml":
		return outputListYAML(documents)
	case "csv":
		return outputListCSV(documents)
	default:
		return outputListTable(documents)
	}
}

func listItem(doc *types.DocumentInfo) map[string]any {
	item := map[string]any{
		"path":  doc.Path,
		"kind":  doc.Kind.String(),
		"topic": doc.Topic,
		"title": doc.Title,
	}

	if listWithLinks {
		links := make([]map[string]any, len(doc.Links))
		for i, link := range doc.Links {
			links[i] = map[string]any{
				"destination": link.Destination,
				"line":        link.Line,
			}
		}
		item["links"] = links
	}

	if listWithFences {
		languages := make([]string, len(doc.Fences))
		for i, fence := range doc.Fences {
			languages[i] = fence.Language
		}
		item["fences"] = languages
	}

	return item
}

func outputListJSON(documents []*types.DocumentInfo) error {
	output := make([]map[string]any, len(documents))
	for i, doc := range documents {
		output[i] = listItem(doc)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputListYAML(documents []*types.DocumentInfo) error {
	output := make([]map[string]any, len(documents))
	for i, doc := range documents {
		output[i] = listItem(doc)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(output)
}

func outputListTable(documents []*types.DocumentInfo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	header := "PATH\tKIND\tTOPIC\tTITLE"
	if listWithLinks {
		header += "\tLINKS"
	}
	if listWithFences {
		header += "\tFENCES"
	}
	fmt.Fprintln(w, header)

	for _, doc := range documents {
		row := fmt.Sprintf("%s\t%s\t%s\t%s", doc.Path, doc.Kind, doc.Topic, doc.Title)
		if listWithLinks {
			row += fmt.Sprintf("\t%d", len(doc.Links))
		}
		if listWithFences {
			var languages []string
			for _, fence := range doc.Fences {
				languages = append(languages, fence.Language)
			}
			row += "\t" + strings.Join(languages, ",")
		}
		fmt.Fprintln(w, row)
	}

	if !listFlags.Quiet {
		fmt.Fprintf(w, "\nTotal: %d documents\n", len(documents))
	}
	return nil
}

func outputListCSV(documents []*types.DocumentInfo) error {
	header := "path,kind,topic,title"
	if listWithLinks {
		header += ",links"
	}
	if listWithFences {
		header += ",fences"
	}
	fmt.Println(header)

	for _, doc := range documents {
		row := fmt.Sprintf("%s,%s,%s,%q", doc.Path, doc.Kind, doc.Topic, doc.Title)
		if listWithLinks {
			row += fmt.Sprintf(",%d", len(doc.Links))
		}
		if listWithFences {
			var languages []string
			for _, fence := range doc.Fences {
				languages = append(languages, fence.Language)
			}
			row += "," + strings.Join(languages, ";")
		}
		fmt.Println(row)
	}

	return nil
}
