package keymap

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("keymap watcher is closed")

// DefaultDebounce is the delay used when none is given.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the reloaded keymap, or the error that prevented
// loading it.
type ReloadFunc func(km *Keymap, err error)

// Watcher reloads a keymap file when it changes. Bursts of writes within
// the debounce delay are coalesced into one reload.
//
// The file's directory is watched rather than the file itself so that
// editors which save by rename keep triggering reloads.
type Watcher struct {
	path     string
	delay    time.Duration
	onReload ReloadFunc
	logger   *zap.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
	reloads sync.WaitGroup
}

// NewWatcher starts watching path. onReload runs on the watcher's timer
// goroutine after each debounced change.
func NewWatcher(path string, delay time.Duration, onReload ReloadFunc, logger *zap.Logger) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving keymap path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		delay:    delay,
		onReload: onReload,
		logger:   logger.Named("keymap.watcher"),
		fsw:      fsw,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	w.logger.Debug("watching keymap", zap.String("path", abs), zap.Duration("debounce", delay))
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.reloads.Add(1)
	w.mu.Unlock()
	defer w.reloads.Done()

	km, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("keymap reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		w.logger.Info("keymap reloaded", zap.String("path", w.path), zap.Int("bindings", len(km.Bindings)))
	}
	if w.onReload != nil {
		w.onReload(km, err)
	}
}

// Close stops watching. Pending reloads are dropped; a reload already
// running is waited for, so onReload must not call Close.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.closeCh)
	err := w.fsw.Close()
	w.wg.Wait()
	w.reloads.Wait()
	return err
}
