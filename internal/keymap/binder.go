package keymap

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
)

// Runner performs a binding's action.
type Runner interface {
	Run(b Binding, ev *key.Event) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(b Binding, ev *key.Event) error

// Run calls f(b, ev).
func (f RunnerFunc) Run(b Binding, ev *key.Event) error { return f(b, ev) }

// Binder registers keymaps onto a registry. Each Apply replaces the
// entries of the previous one.
type Binder struct {
	reg    *hotkey.Registry
	runner Runner
	logger *zap.Logger

	mu      sync.Mutex
	entries []*hotkey.Entry
	current *Keymap
}

// NewBinder creates a binder that registers onto reg and runs actions
// with runner.
func NewBinder(reg *hotkey.Registry, runner Runner, logger *zap.Logger) *Binder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Binder{
		reg:    reg,
		runner: runner,
		logger: logger.Named("keymap"),
	}
}

// Apply unregisters the previous keymap's entries and registers every
// valid binding of km. Invalid bindings are skipped and logged. The
// returned entries are in binding order.
func (b *Binder) Apply(km *Keymap) []*hotkey.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range b.entries {
		e.Stop()
	}
	b.entries = nil
	b.current = km

	for i, bind := range km.Bindings {
		if err := bind.Validate(); err != nil {
			b.logger.Warn("skipping binding",
				zap.String("keymap", km.Name),
				zap.Int("index", i),
				zap.String("keys", bind.Keys),
				zap.Error(err),
			)
			continue
		}

		opts, _ := bind.Options(0)
		bind := bind
		entry := b.reg.Register(bind.Keys, func(ev *key.Event) {
			if err := b.runner.Run(bind, ev); err != nil {
				b.logger.Error("action failed",
					zap.String("keys", bind.Keys),
					zap.String("action", bind.Action),
					zap.Error(err),
				)
			}
		}, opts...)
		if bind.Paused {
			entry.Pause()
		}
		b.entries = append(b.entries, entry)
	}

	b.logger.Info("keymap applied",
		zap.String("keymap", km.Name),
		zap.Int("bindings", len(km.Bindings)),
		zap.Int("registered", len(b.entries)),
	)
	return append([]*hotkey.Entry(nil), b.entries...)
}

// Entries returns the entries registered by the last Apply.
func (b *Binder) Entries() []*hotkey.Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*hotkey.Entry(nil), b.entries...)
}

// Keymap returns the last applied keymap, or nil.
func (b *Binder) Keymap() *Keymap {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Clear unregisters everything the binder registered.
func (b *Binder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		e.Stop()
	}
	b.entries = nil
	b.current = nil
}
