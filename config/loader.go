package config

import (
	"fmt"
	"log/slog"
	"sync"
)

// Loader loads a configuration file and reloads it when it changes on disk.
type Loader struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	config   *Config
	onChange []subscriber

	watcher *FileWatcher
	errChan chan error
}

type subscriber struct {
	post func(func()) bool
	cb   func(*Config)
}

// NewLoader creates a loader for path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		path:    path,
		logger:  logger.With(slog.String("component", "config")),
		errChan: make(chan error, 1),
	}
}

// Load reads the file and makes it the current configuration.
func (l *Loader) Load() (*Config, error) {
	cfg, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.config = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// OnChange registers cb to run after every successful reload. Each call is
// handed to post, which runs it on the goroutine that owns whatever cb
// touches (runloop.Loop.Post, typically). A nil post runs cb directly on the
// watcher's goroutine.
func (l *Loader) OnChange(post func(func()) bool, cb func(*Config)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, subscriber{post: post, cb: cb})
	l.mu.Unlock()
}

// Errors reports reload failures. Failures are dropped when nobody is
// receiving.
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Watch starts reloading the file when it is written or recreated.
func (l *Loader) Watch() error {
	w, err := WatchFile(l.path, l.logger, l.reload, l.report)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()
	return nil
}

func (l *Loader) reload() {
	cfg, err := Load(l.path)
	if err != nil {
		err = fmt.Errorf("reload config: %w", err)
		l.logger.Warn("config reload failed", slog.Any("error", err))
		l.report(err)
		return
	}

	l.mu.Lock()
	l.config = cfg
	subs := append([]subscriber{}, l.onChange...)
	l.mu.Unlock()

	l.logger.Info("configuration reloaded", slog.String("path", l.path))
	for _, s := range subs {
		if s.post == nil {
			s.cb(cfg)
			continue
		}
		cb := s.cb
		if !s.post(func() { cb(cfg) }) {
			l.logger.Debug("reload not delivered; loop stopped")
		}
	}
}

func (l *Loader) report(err error) {
	select {
	case l.errChan <- err:
	default:
	}
}

// Close stops watching.
func (l *Loader) Close() error {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()
	if w != nil {
		return w.Close()
	}
	return nil
}
