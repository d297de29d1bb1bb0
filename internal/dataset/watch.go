package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/couchcryptid/helpline-analytics-service/internal/observability"
)

// Watcher reloads the store when the call-log file changes on disk.
// It watches the containing directory rather than the file itself so
// rename-over saves (editor atomic writes, scp) are still observed.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewWatcher creates a Watcher for the store's call-log file.
func NewWatcher(store *Store, path string, debounce time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Watcher {
	return &Watcher{
		store:    store,
		path:     path,
		debounce: debounce,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start begins watching until the context is cancelled. Bursts of events
// within the debounce window collapse into a single reload.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		reload := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !w.matches(evt.Name) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				w.metrics.WatchEvents.Inc()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			case <-reload:
				if err := w.store.Load(ctx); err != nil {
					w.logger.Error("reload after file change failed", "path", w.path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", "error", err)
			}
		}
	}()

	w.logger.Info("watching call log for changes", "path", w.path, "debounce", w.debounce)
	return watcher.Add(filepath.Dir(w.path))
}

func (w *Watcher) matches(name string) bool {
	return filepath.Base(name) == filepath.Base(w.path)
}
