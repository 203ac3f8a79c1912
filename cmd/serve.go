package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/curator-dev/curator/internal/config"
	"github.com/curator-dev/curator/internal/logging"
	"github.com/curator-dev/curator/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the catalog preview server with live reload",
	Long: `Start the preview server. Documents render to HTML with syntax
highlighting, catalog cross-references stay navigable, and connected
browsers reload when a file changes.

Examples:
  curator serve                   # Serve the first configured root
  curator serve --port 9000       # Serve on a custom port`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8090, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().BoolP("open", "o", false, "Open the catalog in a browser")

	viper.BindPFlag("server.port", lookupFlag(serveCmd, "port"))
	viper.BindPFlag("server.host", lookupFlag(serveCmd, "host"))
	viper.BindPFlag("server.open", lookupFlag(serveCmd, "open"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "Shutting down server...")

		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			logger.Warn(ctx, shutdownErr, "error during server shutdown")
		}

		cancel()
	}()

	url := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Serving catalog at %s\n", url)

	if cfg.Server.Open {
		if openErr := openBrowser(url); openErr != nil {
			logger.Warn(ctx, openErr, "could not open browser")
		}
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// openBrowser launches the platform's default browser at the given URL.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
