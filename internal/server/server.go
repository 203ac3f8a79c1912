// Package server implements the catalog preview server: rendered
// document pages, a topic index, and WebSocket-driven live reload on
// file changes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/curator-dev/curator/internal/config"
	"github.com/curator-dev/curator/internal/logging"
	"github.com/curator-dev/curator/internal/registry"
	"github.com/curator-dev/curator/internal/scanner"
	"github.com/curator-dev/curator/internal/watcher"
)

// PreviewServer serves rendered catalog documents with live reload.
type PreviewServer struct {
	config   *config.Config
	registry *registry.DocumentRegistry
	scanner  *scanner.DocumentScanner
	logger   logging.Logger

	// root is the catalog root being served. The preview serves the
	// first configured root; check and list handle multi-root setups.
	root string

	httpServer  *http.Server
	fileWatcher *watcher.FileWatcher

	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	register     chan *Client
	unregister   chan *websocket.Conn
}

// New creates a preview server, scanning the catalog once up front.
func New(cfg *config.Config, logger logging.Logger) (*PreviewServer, error) {
	reg := registry.NewDocumentRegistry()
	docScanner := scanner.NewDocumentScanner(reg, scanner.Options{
		ExcludePatterns: cfg.Catalog.Exclude,
		IndexName:       cfg.Catalog.IndexName,
		PhilosophyName:  cfg.Catalog.PhilosophyName,
	})

	root := "."
	if len(cfg.Catalog.Roots) > 0 {
		root = cfg.Catalog.Roots[0]
	}

	if err := docScanner.ScanDirectory(root); err != nil {
		return nil, fmt.Errorf("scanning catalog: %w", err)
	}

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce)
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	s := &PreviewServer{
		config:      cfg,
		registry:    reg,
		scanner:     docScanner,
		logger:      logger.WithComponent("server"),
		root:        root,
		fileWatcher: fileWatcher,
		clients:     make(map[*websocket.Conn]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *websocket.Conn),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/doc/", s.handleDocument)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Start runs the server until the context is canceled.
func (s *PreviewServer) Start(ctx context.Context) error {
	go s.runWebSocketHub(ctx)
	go s.watchRegistry(ctx)

	s.fileWatcher.AddFilter(watcher.MarkdownFilter)
	s.fileWatcher.AddFilter(watcher.NoHiddenFilter)
	s.fileWatcher.AddHandler(s.onFileChange)
	if err := s.fileWatcher.AddRecursive(s.root); err != nil {
		return fmt.Errorf("watching catalog: %w", err)
	}
	if err := s.fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errChan:
		return err
	}
}

// watchRegistry subscribes to document add/update/remove events and
// tells connected clients to reload. Broadcasting is non-blocking, so a
// burst of events from one rescan collapses into at most a reload per
// pending message slot.
func (s *PreviewServer) watchRegistry(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			s.broadcastReload()
		}
	}
}

// Shutdown stops the server gracefully.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	if err := s.fileWatcher.Stop(); err != nil {
		s.logger.Warn(ctx, err, "stopping file watcher")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// onFileChange rescans changed documents and evicts deleted ones.
// Connected clients reload off the resulting registry events.
func (s *PreviewServer) onFileChange(events []watcher.ChangeEvent) error {
	ctx := context.Background()
	for _, event := range events {
		if !strings.HasSuffix(event.Path, ".md") {
			continue
		}
		switch event.Type {
		case watcher.EventTypeDeleted, watcher.EventTypeRenamed:
			if rel, relErr := filepath.Rel(s.root, event.Path); relErr == nil {
				s.registry.Remove(filepath.ToSlash(rel))
			}
			// A rename's destination only shows up on a rescan.
			if err := s.scanner.ScanDirectory(s.root); err != nil {
				s.logger.Warn(ctx, err, "rescanning catalog", "path", event.Path)
			}
		default:
			if err := s.scanner.ScanFile(s.root, event.Path); err != nil {
				s.logger.Warn(ctx, err, "rescanning document", "path", event.Path)
			}
		}
	}

	return nil
}
