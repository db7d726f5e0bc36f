package app

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/hotkeys/internal/action"
	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/input/source"
	"github.com/dshills/hotkeys/internal/keymap"
	"github.com/dshills/hotkeys/internal/notify"
	"github.com/dshills/hotkeys/internal/scope"
)

// bootstrapper starts components in dependency order and tears down the
// started ones if a later step fails.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, initOrder: make([]string, 0, 6)}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"source", b.initSource},
		{"registry", b.initRegistry},
		{"runner", b.initRunner},
		{"keymap", b.initKeymap},
		{"quit", b.initQuitKey},
		{"watcher", b.initWatcher},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	return nil
}

func (b *bootstrapper) initSource() error {
	app := b.app
	src := app.opts.Source

	if src == nil {
		switch ResolveMode(app.opts.Mode) {
		case ModeTerminal:
			t, err := source.NewTerminal(app.logger.Named("terminal"))
			if err != nil {
				return err
			}
			if err := t.Init(); err != nil {
				return err
			}
			src = t
		default:
			src = source.Headless{}
		}
	}
	app.source = src

	app.output = app.opts.Output
	if app.output == nil {
		if w, ok := src.(io.Writer); ok {
			app.output = w
		} else {
			app.output = os.Stdout
		}
	}
	return nil
}

// ResolveMode turns ModeAuto into ModeTerminal or ModeHeadless depending
// on whether stdin and stdout are terminals.
func ResolveMode(m Mode) Mode {
	if m != ModeAuto {
		return m
	}
	if isInteractive() {
		return ModeTerminal
	}
	return ModeHeadless
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func (b *bootstrapper) initRegistry() error {
	app := b.app
	app.scope = scope.New()
	app.changes = notify.New(notify.WithAsync(changeBuffer))
	app.changes.Subscribe(app.logChange)

	rc := hotkey.DefaultConfig()
	rc.Source = app.source
	rc.Platform = app.cfg.Platform()
	rc.SequenceTimeout = app.cfg.Hotkeys.SequenceTimeout.Std()
	rc.Logger = app.logger
	rc.Scope = app.scope
	rc.Notifier = app.changes
	if app.opts.Clock != nil {
		rc.Clock = app.opts.Clock
	}
	app.registry = hotkey.NewRegistry(rc)
	return nil
}

func (b *bootstrapper) initRunner() error {
	app := b.app
	app.runner = action.NewRunner(
		action.WithOutput(app.output),
		action.WithQuit(app.Quit),
		action.WithLogger(app.logger),
		action.WithLua(action.LuaConfig{
			CallStackSize: app.cfg.Lua.CallStackSize,
			Timeout:       app.cfg.Lua.Timeout.Std(),
		}),
	)
	app.binder = keymap.NewBinder(app.registry, app.runner, app.logger)
	return nil
}

// initKeymap applies the configured keymap. A missing file starts with no
// bindings; any other load error is fatal.
func (b *bootstrapper) initKeymap() error {
	app := b.app
	path := app.cfg.Keymap.Path
	if path == "" {
		return nil
	}

	km, err := keymap.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			app.logger.Warn("keymap not found, starting without bindings", zap.String("path", path))
			return nil
		}
		return err
	}
	app.binder.Apply(km)
	return nil
}

func (b *bootstrapper) initQuitKey() error {
	app := b.app
	if app.opts.DisableQuitKey {
		return nil
	}
	app.registry.Register(DefaultQuitKeys, func(*key.Event) {
		app.Quit()
	}, hotkey.WithID(QuitID), hotkey.WithAllowInInputs(true))
	return nil
}

func (b *bootstrapper) initWatcher() error {
	app := b.app
	if !app.cfg.Keymap.Watch || app.cfg.Keymap.Path == "" {
		return nil
	}
	w, err := keymap.NewWatcher(app.cfg.Keymap.Path, app.cfg.Keymap.Debounce.Std(), app.applyReload, app.logger)
	if err != nil {
		return err
	}
	app.watcher = w
	return nil
}

// cleanup releases started components in reverse order.
func (b *bootstrapper) cleanup() {
	app := b.app
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			if app.watcher != nil {
				app.watcher.Close()
				app.watcher = nil
			}
		case "runner":
			app.runner.Close()
		case "registry":
			app.scope.Close()
			app.changes.Close()
		case "source":
			if s, ok := app.source.(interface{ Shutdown() }); ok {
				s.Shutdown()
			}
		}
	}
}

func (app *Application) logChange(c notify.Change) {
	app.logger.Debug("registry change",
		zap.String("type", c.Type.String()),
		zap.String("id", c.ID),
		zap.String("pattern", c.Pattern),
	)
}
