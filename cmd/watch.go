package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/curator-dev/curator/internal/config"
	"github.com/curator-dev/curator/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Re-run integrity checks when catalog files change",
	Long: `Watch the configured catalog roots and re-run the full check
suite whenever a Markdown file changes. Results print after each run;
the process keeps running until interrupted.

Examples:
  curator watch                   # Watch and re-check on every change`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.MarkdownFilter)
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddFilter(watcher.NoVendorFilter)
	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			fmt.Printf("%s: %s\n", event.Type, event.Path)
		}
		return reportChecks(cfg)
	})

	for _, root := range cfg.Catalog.Roots {
		if err := fileWatcher.AddRecursive(root); err != nil {
			return fmt.Errorf("failed to watch root %s: %w", root, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	// First run before any change so the baseline is visible.
	if err := reportChecks(cfg); err != nil {
		return err
	}

	fmt.Println("Watching for changes (Ctrl+C to stop)...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Stopping watch.")
	return nil
}

// reportChecks runs the check suite and prints the text report without
// failing the process, so the watch loop survives broken states.
func reportChecks(cfg *config.Config) error {
	report, err := runChecks(cfg, nil)
	if err != nil {
		return err
	}
	return report.WriteText(os.Stdout)
}
