package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	tt "github.com/gnolang/lineconf/internal/types"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// ResultFunc receives the issues of a file checked after a change.
type ResultFunc func(filename string, issues []tt.Issue, err error)

// Watcher re-checks matching files when they are written.
type Watcher struct {
	engine   *Engine
	logger   *zap.Logger
	dirs     []string
	match    func(string) bool
	onResult ResultFunc
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	running sync.WaitGroup
}

// NewWatcher creates a watcher for the given directories. match selects the
// files to check; onResult may be nil, in which case results are logged.
func NewWatcher(engine *Engine, logger *zap.Logger, dirs []string, match func(string) bool, onResult ResultFunc) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		engine:   engine,
		logger:   logger,
		dirs:     dirs,
		match:    match,
		onResult: onResult,
		debounce: defaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	if w.onResult == nil {
		w.onResult = w.reportIssues
	}
	return w
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				w.logger.Error("Failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if w.match != nil && !w.match(event.Name) {
		return
	}

	// coalesce bursts of writes into a single check
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[event.Name]; ok && timer.Stop() {
		w.running.Done()
	}
	name := event.Name
	var timer *time.Timer
	w.running.Add(1)
	timer = time.AfterFunc(w.debounce, func() {
		defer w.running.Done()

		w.mu.Lock()
		if w.pending[name] == timer {
			delete(w.pending, name)
		}
		w.mu.Unlock()

		issues, err := w.engine.Run(name)
		if err == nil {
			if ferr := w.engine.Flush(); ferr != nil {
				w.logger.Error("Failed to write cache", zap.Error(ferr))
			}
		}
		w.onResult(name, issues, err)
	})
	w.pending[name] = timer
}

// stopPending cancels scheduled checks and waits for running ones.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	for name, timer := range w.pending {
		if timer.Stop() {
			w.running.Done()
		}
		delete(w.pending, name)
	}
	w.mu.Unlock()

	w.running.Wait()
}

func (w *Watcher) reportIssues(filename string, issues []tt.Issue, err error) {
	if err != nil {
		w.logger.Error("Failed to check file", zap.String("file", filename), zap.Error(err))
		return
	}
	if len(issues) == 0 {
		w.logger.Info("No issues found", zap.String("file", filename))
		return
	}

	w.logger.Warn("Found issues", zap.String("file", filename), zap.Int("count", len(issues)))
	for _, issue := range issues {
		w.logger.Warn(issue.Message,
			zap.String("rule", issue.Rule),
			zap.String("file", filename),
			zap.Int("line", issue.Start.Line),
			zap.Int("column", issue.Start.Column),
		)
	}
}
