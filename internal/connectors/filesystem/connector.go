// Package filesystem resolves PDF inputs on the local filesystem and watches them for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfchat/internal/core/domain"
	"github.com/custodia-labs/pdfchat/internal/logger"
)

// PDFExtension is the file extension matched when an input names a directory.
const PDFExtension = ".pdf"

// DefaultRebuildInterval is the minimum time between two watch-triggered rebuilds.
const DefaultRebuildInterval = 2 * time.Second

// Connector reads PDF files named by paths, directories or doublestar globs.
type Connector struct {
	patterns []string
	interval time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a connector for the given inputs.
// Each input is a file, a directory (searched recursively for PDFs) or a glob such as "docs/**/*.pdf".
func New(patterns ...string) *Connector {
	return &Connector{
		patterns: patterns,
		interval: DefaultRebuildInterval,
	}
}

// SetRebuildInterval overrides the minimum time between watch-triggered rebuilds.
func (c *Connector) SetRebuildInterval(d time.Duration) {
	if d > 0 {
		c.interval = d
	}
}

// Patterns returns the inputs the connector was created with.
func (c *Connector) Patterns() []string {
	return c.patterns
}

// Resolve expands the inputs into a list of files in input order, without duplicates.
// A plain path that does not exist is an error; a glob that matches nothing is not.
func (c *Connector) Resolve() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, path)
		}
	}

	for _, pattern := range c.patterns {
		if pattern == "" {
			continue
		}

		if !hasMeta(pattern) {
			info, err := os.Stat(pattern)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", pattern, err)
			}
			if !info.IsDir() {
				add(pattern)
				continue
			}
			pattern = filepath.Join(pattern, "**", "*"+PDFExtension)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", pattern, err)
		}
		base := globBase(pattern)
		for _, m := range matches {
			// Hidden entries below the glob base are skipped; the base itself may be hidden.
			if rel, err := filepath.Rel(base, m); err == nil && isHidden(rel) {
				continue
			}
			add(m)
		}
	}
	return files, nil
}

// Load reads every resolved file.
// Returns domain.ErrNoDocuments when the inputs match no files.
func (c *Connector) Load(ctx context.Context) ([]domain.RawDocument, error) {
	files, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.ErrNoDocuments
	}

	docs := make([]domain.RawDocument, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, domain.RawDocument{
			URI:      path,
			MIMEType: detectMIMEType(path),
			Content:  content,
			Metadata: map[string]any{"size": len(content)},
		})
	}
	logger.Debug("Loaded %d files from %s", len(docs), strings.Join(c.patterns, ", "))
	return docs, nil
}

// Watch calls rebuild whenever a watched input changes, until ctx is cancelled.
// Bursts of events collapse into one rebuild and rebuilds are at least the rebuild
// interval apart. A failed rebuild is logged and watching continues.
func (c *Connector) Watch(ctx context.Context, rebuild func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = watcher.Close()
		return errors.New("connector closed")
	}
	c.watcher = watcher
	c.mu.Unlock()
	defer c.Close()

	dirs, err := c.watchDirs()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("Watching %s", dir)
	}

	pending := make(chan struct{}, 1)
	limiter := rate.NewLimiter(rate.Every(c.interval), 1)
	// The initial build has just run.
	limiter.Allow()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if c.handleFsEvent(event) {
					select {
					case pending <- struct{}{}:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pending:
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		// Events that arrived while waiting are covered by this rebuild.
		select {
		case <-pending:
		default:
		}

		if err := rebuild(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Rebuild failed: %v", err)
		}
	}
}

// Close stops watching.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

// watchDirs returns the directories that hold the inputs.
func (c *Connector) watchDirs() ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range c.patterns {
		if pattern == "" {
			continue
		}
		base := pattern
		if hasMeta(pattern) {
			base = globBase(pattern)
		}

		info, err := os.Stat(base)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", pattern, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(base))
			continue
		}

		// fsnotify is not recursive; add every directory under the base.
		err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != base && isHidden(filepath.Base(path)) {
					return filepath.SkipDir
				}
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", pattern, err)
		}
	}
	return dirs, nil
}

// handleFsEvent reports whether event should trigger a rebuild.
func (c *Connector) handleFsEvent(event fsnotify.Event) bool {
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return false
	}
	return c.matches(event.Name)
}

// matches reports whether path is one of the connector's inputs.
func (c *Connector) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	for _, pattern := range c.patterns {
		if pattern == "" {
			continue
		}
		if !hasMeta(pattern) {
			p, err := filepath.Abs(pattern)
			if err != nil {
				p = pattern
			}
			if p == abs {
				return true
			}
			if info, err := os.Stat(pattern); err == nil && info.IsDir() &&
				strings.HasPrefix(abs, p+string(filepath.Separator)) &&
				strings.EqualFold(filepath.Ext(abs), PDFExtension) {
				return true
			}
			continue
		}
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
		if absPattern, err := filepath.Abs(pattern); err == nil {
			if ok, _ := doublestar.PathMatch(absPattern, abs); ok {
				return true
			}
		}
	}
	return false
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// globBase returns the directory part of pattern that holds no glob metacharacters.
func globBase(pattern string) string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	return filepath.FromSlash(base)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// detectMIMEType guesses the content type from the extension.
// The normaliser checks the content itself.
func detectMIMEType(path string) string {
	if strings.EqualFold(filepath.Ext(path), PDFExtension) {
		return "application/pdf"
	}
	return ""
}
