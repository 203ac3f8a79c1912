// Package scanner provides document discovery and analysis for Markdown
// catalogs.
//
// The scanner traverses a catalog root to find .md files, parses them
// with goldmark to extract titles, headings, links, and fenced code
// blocks, and splits YAML front matter when present. It integrates with
// the document registry to broadcast change events and supports
// recursive directory scanning with doublestar exclude patterns. File
// hashes are kept for change detection, and both single-file and batch
// scanning are supported.
package scanner

import (
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/curator-dev/curator/internal/registry"
	"github.com/curator-dev/curator/internal/types"
)

// DefaultIndexName is the file name that marks a directory index document.
const DefaultIndexName = "__index__.md"

// DefaultPhilosophyName is the file name that marks a topic's philosophy essay.
const DefaultPhilosophyName = "philosophy.md"

// Options configures catalog traversal.
type Options struct {
	// ExcludePatterns are doublestar globs matched against
	// catalog-relative paths; matching files and directories are skipped.
	ExcludePatterns []string
	// IndexName overrides the index file name, DefaultIndexName when empty.
	IndexName string
	// PhilosophyName overrides the philosophy file name,
	// DefaultPhilosophyName when empty.
	PhilosophyName string
}

// ScanJob represents a scanning job for the worker pool containing the
// file path to scan and a result channel for asynchronous communication.
type ScanJob struct {
	root     string
	filePath string
	result   chan<- ScanResult
}

// ScanResult represents the result of a scanning operation, containing
// either success status or error information for a specific file.
type ScanResult struct {
	filePath string
	err      error
}

// WorkerPool manages persistent scanning workers so batch scans do not
// pay per-file goroutine creation overhead.
type WorkerPool struct {
	jobQueue    chan ScanJob
	workers     []*scanWorker
	workerCount int
	scanner     *DocumentScanner
	stopped     bool
	mu          sync.RWMutex
}

type scanWorker struct {
	id       int
	jobQueue <-chan ScanJob
	scanner  *DocumentScanner
}

// DocumentScanner discovers and parses catalog documents.
//
// The scanner provides:
// - Recursive directory traversal with doublestar exclude patterns
// - Markdown metadata extraction (title, headings, links, fences)
// - YAML front matter splitting
// - Concurrent processing via worker pool
// - Integration with the document registry for event broadcasting
// - File change detection using CRC32 hashing
type DocumentScanner struct {
	registry   *registry.DocumentRegistry
	opts       Options
	workerPool *WorkerPool
}

// NewDocumentScanner creates a new document scanner backed by the given
// registry.
func NewDocumentScanner(reg *registry.DocumentRegistry, opts Options) *DocumentScanner {
	if opts.IndexName == "" {
		opts.IndexName = DefaultIndexName
	}
	if opts.PhilosophyName == "" {
		opts.PhilosophyName = DefaultPhilosophyName
	}

	scanner := &DocumentScanner{
		registry: reg,
		opts:     opts,
	}

	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8 // Cap at 8 workers for diminishing returns
	}

	scanner.workerPool = newWorkerPool(workerCount, scanner)
	return scanner
}

func newWorkerPool(workerCount int, scanner *DocumentScanner) *WorkerPool {
	pool := &WorkerPool{
		jobQueue:    make(chan ScanJob, workerCount*2),
		workerCount: workerCount,
		scanner:     scanner,
	}

	pool.workers = make([]*scanWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		worker := &scanWorker{
			id:       i,
			jobQueue: pool.jobQueue,
			scanner:  scanner,
		}
		pool.workers[i] = worker
		go worker.start()
	}

	return pool
}

// start drains the job queue until it is closed. A closed queue is the
// shutdown signal, so workers never observe a zero-value job.
func (w *scanWorker) start() {
	for job := range w.jobQueue {
		err := w.scanner.scanFileInternal(job.root, job.filePath)
		job.result <- ScanResult{filePath: job.filePath, err: err}
	}
}

// Stop gracefully shuts down the worker pool
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	p.stopped = true
	close(p.jobQueue)
}

// GetRegistry returns the document registry
func (s *DocumentScanner) GetRegistry() *registry.DocumentRegistry {
	return s.registry
}

// Close gracefully shuts down the scanner and its worker pool
func (s *DocumentScanner) Close() error {
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	return nil
}

// ScanDirectory scans a catalog root for Markdown documents using the
// worker pool. Relative paths in the registry are computed against root.
func (s *DocumentScanner) ScanDirectory(root string) error {
	cleanRoot, err := validatePath(root)
	if err != nil {
		return fmt.Errorf("invalid catalog root: %w", err)
	}

	var files []string
	err = filepath.WalkDir(cleanRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(cleanRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if s.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// Hidden directories are never part of a catalog, except the
			// repo root itself and .github (issue templates live there).
			name := d.Name()
			if strings.HasPrefix(name, ".") && rel != "." && name != ".github" {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	return s.processBatch(cleanRoot, files)
}

// processBatch processes files using the persistent worker pool. Small
// batches run synchronously to avoid scheduling overhead.
func (s *DocumentScanner) processBatch(root string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	if len(files) <= 5 {
		return s.processBatchSynchronous(root, files)
	}

	resultChan := make(chan ScanResult, len(files))

	for _, file := range files {
		job := ScanJob{root: root, filePath: file, result: resultChan}

		select {
		case s.workerPool.jobQueue <- job:
		default:
			// Worker pool is full, process synchronously as fallback
			err := s.scanFileInternal(root, file)
			resultChan <- ScanResult{filePath: file, err: err}
		}
	}

	var errs []error
	for i := 0; i < len(files); i++ {
		result := <-resultChan
		if result.err != nil {
			errs = append(errs, fmt.Errorf("scanning %s: %w", result.filePath, result.err))
		}
	}

	close(resultChan)

	if len(errs) > 0 {
		return fmt.Errorf("scan completed with %d errors: %v", len(errs), errs[0])
	}

	return nil
}

func (s *DocumentScanner) processBatchSynchronous(root string, files []string) error {
	var errs []error

	for _, file := range files {
		if err := s.scanFileInternal(root, file); err != nil {
			errs = append(errs, fmt.Errorf("scanning %s: %w", file, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("scan completed with %d errors: %v", len(errs), errs[0])
	}

	return nil
}

// ScanFile scans a single file, computing its catalog path against root.
func (s *DocumentScanner) ScanFile(root, path string) error {
	cleanRoot, err := validatePath(root)
	if err != nil {
		return fmt.Errorf("invalid catalog root: %w", err)
	}
	return s.scanFileInternal(cleanRoot, path)
}

// scanFileInternal reads, hashes, and parses one document, then
// registers it.
func (s *DocumentScanner) scanFileInternal(root, path string) error {
	cleanPath, err := validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("stat file %s: %w", cleanPath, err)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", cleanPath, err)
	}

	rel, err := filepath.Rel(root, cleanPath)
	if err != nil {
		return fmt.Errorf("computing catalog path for %s: %w", cleanPath, err)
	}
	rel = filepath.ToSlash(rel)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", cleanPath, err)
	}

	doc := &types.DocumentInfo{
		Path:    rel,
		AbsPath: absPath,
		Topic:   topicOf(rel),
		Kind:    s.kindOf(rel),
		Hash:    fmt.Sprintf("%x", crc32.ChecksumIEEE(content)),
		LastMod: info.ModTime(),
	}

	frontMatter, body, lineOffset, fmErr := splitFrontMatter(content)
	doc.FrontMatter = frontMatter
	doc.FrontMatterErr = fmErr

	if err := extractMarkdown(body, lineOffset, doc); err != nil {
		return fmt.Errorf("parsing %s: %w", cleanPath, err)
	}

	s.registry.Register(doc)
	return nil
}

// kindOf derives the document kind from its file name.
func (s *DocumentScanner) kindOf(rel string) types.DocumentKind {
	switch filepath.Base(rel) {
	case s.opts.IndexName:
		return types.KindIndex
	case s.opts.PhilosophyName:
		return types.KindPhilosophy
	default:
		return types.KindPattern
	}
}

// topicOf returns the containing directory of a catalog-relative path,
// "" for files at the root.
func topicOf(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	return dir
}

// excluded reports whether a catalog-relative path matches any exclude
// pattern.
func (s *DocumentScanner) excluded(rel string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range s.opts.ExcludePatterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// validatePath validates and cleans a file path to prevent directory
// traversal outside the working directory.
func validatePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	if !strings.HasPrefix(absPath, cwd) {
		return "", fmt.Errorf("path %s is outside current working directory", path)
	}

	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("path contains directory traversal: %s", path)
	}

	return cleanPath, nil
}
