// Package watch reruns generation whenever the template changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// RunFunc performs one regeneration
type RunFunc func(ctx context.Context) error

// Watcher watches a single template file. The containing directory is
// watched rather than the file so that atomic replacement by editors,
// and by our own writer, keeps being observed.
type Watcher struct {
	path     string
	run      RunFunc
	logger   *zap.Logger
	Debounce time.Duration

	mu    sync.Mutex
	stats Stats
}

// Stats tracks watcher activity
type Stats struct {
	Events int
	Runs   int
	Errors int
}

// New creates a watcher for path. The first run happens on Run, before
// any event arrives.
func New(path string, run RunFunc, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		run:      run,
		logger:   logger,
		Debounce: DefaultDebounce,
	}
}

// Stats returns a snapshot of the counters
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is done. Failed runs are logged and counted; the
// watcher keeps going so the next save can fix the template.
func (w *Watcher) Run(ctx context.Context) error {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching", zap.String("template", path))

	w.trigger(ctx)

	// Stopped timer; armed by the first relevant event
	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !relevant(event.Op) {
				continue
			}
			w.logger.Debug("event", zap.String("op", event.Op.String()))
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()
			timer.Reset(w.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-timer.C:
			w.trigger(ctx)
		}
	}
}

func (w *Watcher) trigger(ctx context.Context) {
	err := w.run(ctx)

	w.mu.Lock()
	w.stats.Runs++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		w.logger.Error("generation failed", zap.Error(err))
	}
}

// relevant ignores chmod, rename and removal. Replacing the template by
// rename shows up as a create on its name.
func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create)
}
