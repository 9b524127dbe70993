package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// FileWatcher calls a function once a file has been written or recreated
// and then left alone for a short quiet period.
type FileWatcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc

	onWrite func()
	onError func(error)
}

// WatchFile starts watching path. onWrite and onError run on a goroutine
// owned by the watcher, never concurrently with each other. onError may be
// nil.
func WatchFile(path string, logger *slog.Logger, onWrite func(), onError func(error)) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so that editors replacing the file are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &FileWatcher{
		path:    path,
		logger:  logger,
		watcher: watcher,
		ctx:     ctx,
		cancel:  cancel,
		onWrite: onWrite,
		onError: onError,
	}
	go w.loop()
	return w, nil
}

func (w *FileWatcher) loop() {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			if w.ctx.Err() == nil {
				w.onWrite()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", slog.String("path", w.path), slog.Any("error", err))
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// Close stops watching. No callback starts after Close returns.
func (w *FileWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
