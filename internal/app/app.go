// Package app wires configuration, the hotkey registry, the keymap and an
// event source into a running hotkeys process.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/action"
	"github.com/dshills/hotkeys/internal/config"
	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/keymap"
	"github.com/dshills/hotkeys/internal/notify"
	"github.com/dshills/hotkeys/internal/scope"
)

// DefaultQuitKeys is the built-in binding that stops Run.
const DefaultQuitKeys = "ctrl+c"

// QuitID is the entry id of the built-in quit binding.
const QuitID = "builtin.quit"

// changeBuffer is the size of the registry change queue.
const changeBuffer = 64

// Mode selects the event source when Options.Source is nil.
type Mode int

const (
	// ModeAuto uses the terminal when stdin and stdout are terminals.
	ModeAuto Mode = iota
	// ModeTerminal reads keys from the terminal with tcell.
	ModeTerminal
	// ModeHeadless registers bindings without listening.
	ModeHeadless
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeTerminal:
		return "terminal"
	case ModeHeadless:
		return "headless"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "auto", "terminal" or "headless".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "terminal", "tty":
		return ModeTerminal, nil
	case "headless":
		return ModeHeadless, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Options configures the application.
type Options struct {
	// Mode picks the event source when Source is nil.
	Mode Mode

	// Source overrides the event source. If it also has a
	// Run(context.Context) error method, Run drives it.
	Source hotkey.EventSource

	// Output receives print actions. Default: the source when it is an
	// io.Writer, else stdout.
	Output io.Writer

	// Logger defaults to zap.NewNop.
	Logger *zap.Logger

	// Clock overrides the registry clock.
	Clock hotkey.Clock

	// DisableQuitKey skips the built-in ctrl+c binding.
	DisableQuitKey bool
}

// runnable is a source with its own event loop.
type runnable interface {
	Run(ctx context.Context) error
}

// Application owns every component of a hotkeys process.
type Application struct {
	mu sync.Mutex

	cfg    *config.Config
	opts   Options
	logger *zap.Logger

	scope    *scope.Scope
	changes  *notify.Notifier
	source   hotkey.EventSource
	output   io.Writer
	registry *hotkey.Registry
	runner   *action.Runner
	binder   *keymap.Binder
	watcher  *keymap.Watcher

	running      atomic.Bool
	quitCh       chan struct{}
	quitOnce     sync.Once
	shutdownOnce sync.Once
}

// New starts every component. On failure the components already started
// are shut down.
func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	app := &Application{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
		quitCh: make(chan struct{}),
	}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run drives the event source until ctx is done, Quit is called or the
// source stops. It returns ErrQuit after Quit and nil when ctx ends.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.scope.Closed() {
		return ErrShutdown
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-app.quitCh:
			cancel()
		case <-app.scope.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	app.logger.Info("running",
		zap.String("source", fmt.Sprintf("%T", app.source)),
		zap.Int("hotkeys", app.registry.Size()),
	)

	var err error
	if src, ok := app.source.(runnable); ok {
		err = src.Run(runCtx)
	} else {
		<-runCtx.Done()
	}

	select {
	case <-app.quitCh:
		return ErrQuit
	default:
	}
	return err
}

// Quit makes Run return ErrQuit. It is safe to call more than once and
// from any goroutine.
func (app *Application) Quit() {
	app.quitOnce.Do(func() {
		app.logger.Info("quit requested")
		close(app.quitCh)
	})
}

// Reload loads the keymap file again and applies it. On error the current
// bindings stay registered.
func (app *Application) Reload() error {
	km, err := keymap.LoadFile(app.cfg.Keymap.Path)
	app.applyReload(km, err)
	return err
}

func (app *Application) applyReload(km *keymap.Keymap, err error) {
	if err != nil {
		app.logger.Warn("keeping previous keymap", zap.Error(err))
		return
	}
	app.binder.Apply(km)
}

// Shutdown stops the watcher, disposes the registry and releases the
// event source. It is idempotent.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.mu.Lock()
		w := app.watcher
		app.watcher = nil
		app.mu.Unlock()

		if w != nil {
			if err := w.Close(); err != nil {
				app.logger.Warn("closing watcher", zap.Error(err))
			}
		}

		snap := app.registry.Metrics().Snapshot()
		app.scope.Close()
		app.changes.Close()
		app.runner.Close()
		if s, ok := app.source.(interface{ Shutdown() }); ok {
			s.Shutdown()
		}

		app.logger.Info("shut down",
			zap.Uint64("events", snap.EventsTotal),
			zap.Uint64("fired", snap.FiredTotal),
			zap.Uint64("sequence_timeouts", snap.SequenceTimeouts),
		)
		_ = app.logger.Sync()
	})
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration the application started with.
func (app *Application) Config() *config.Config { return app.cfg }

// Registry returns the hotkey registry.
func (app *Application) Registry() *hotkey.Registry { return app.registry }

// Binder returns the keymap binder.
func (app *Application) Binder() *keymap.Binder { return app.binder }

// Subscribe registers an observer for registry changes. Changes are
// delivered on a separate goroutine, in order.
func (app *Application) Subscribe(observer notify.Observer) *notify.Subscription {
	return app.changes.Subscribe(observer)
}

// Source returns the event source.
func (app *Application) Source() hotkey.EventSource { return app.source }
