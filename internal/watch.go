package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/theronib/sql-parser/internal/types"
)

const defaultDebounce = 100 * time.Millisecond

// ReportFunc receives the results of a file re-parsed by a Watcher.
type ReportFunc func(filename string, results []tt.LineResult)

// Watcher re-parses files when they are written.
type Watcher struct {
	engine     *Engine
	logger     *zap.Logger
	watcher    *fsnotify.Watcher
	report     ReportFunc
	extensions map[string]bool
	files      map[string]bool
	cache      *Cache
	debounce   time.Duration
}

// NewWatcher creates a watcher. Files inside watched directories are picked
// up when their extension is one of extensions; files added by name always are.
func NewWatcher(engine *Engine, logger *zap.Logger, extensions []string, report ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[ext] = true
	}

	return &Watcher{
		engine:     engine,
		logger:     logger,
		watcher:    fw,
		report:     report,
		extensions: exts,
		files:      make(map[string]bool),
		cache:      NewCache(),
		debounce:   defaultDebounce,
	}, nil
}

// Add starts watching path. Directories are watched recursively.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		w.files[filepath.Clean(path)] = true
		return w.watcher.Add(path)
	}

	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

// Run handles file events until ctx is done. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !w.accepts(event.Name) {
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cache.Invalidate(event.Name)
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	// let a burst of writes settle before reading the file
	time.Sleep(w.debounce)

	content, err := os.ReadFile(event.Name)
	if err != nil {
		w.logger.Error("error reading file", zap.String("file", event.Name), zap.Error(err))
		return
	}

	// several events often arrive for a single save
	if _, ok := w.cache.Get(event.Name, content); ok {
		w.logger.Debug("file unchanged", zap.String("file", event.Name))
		return
	}

	results := w.engine.RunContent(event.Name, content)
	w.cache.Set(event.Name, content, results)

	failed := 0
	for _, r := range results {
		if !r.Parsed() {
			failed++
		}
	}
	w.logger.Info("re-parsed file",
		zap.String("file", event.Name),
		zap.Int("parsed", len(results)-failed),
		zap.Int("failed", failed),
	)

	if w.report != nil {
		w.report(event.Name, results)
	}
}

func (w *Watcher) accepts(name string) bool {
	return w.files[filepath.Clean(name)] || w.extensions[filepath.Ext(name)]
}
