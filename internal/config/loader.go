package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Loader holds the current configuration and reloads it when the file
// changes on disk.
type Loader struct {
	path     string
	mu       sync.RWMutex
	config   *Config
	onChange []func(*Config)
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewLoader creates a loader for path. An empty path means ConfigPath().
func NewLoader(path string) *Loader {
	if path == "" {
		path = ConfigPath()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{path: path, ctx: ctx, cancel: cancel}
}

// Path returns the watched file.
func (l *Loader) Path() string { return l.path }

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
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

// OnChange registers a callback invoked after every successful reload.
// Callbacks run on the watcher goroutine.
func (l *Loader) OnChange(cb func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, cb)
}

// Watch starts watching the configuration file's directory.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	l.watcher = watcher

	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	var debounce *time.Timer
	for {
		select {
		case <-l.ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, l.reload)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[CONFIG] Watch error: %v", err)
		}
	}
}

func (l *Loader) reload() {
	cfg, err := Load(l.path)
	if err != nil {
		log.Printf("[CONFIG] Reload failed: %v", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[CONFIG] Ignoring invalid config: %v", err)
		return
	}

	l.mu.Lock()
	l.config = cfg
	callbacks := append([]func(*Config){}, l.onChange...)
	l.mu.Unlock()

	log.Printf("[CONFIG] Reloaded %s", l.path)
	for _, cb := range callbacks {
		cb(cfg)
	}
}

// Close stops the watcher.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}
