package hotkey

import "github.com/dshills/hotkeys/internal/input/key"

// New creates a single hotkey backed by a private registry. Stopping the
// entry disposes that registry; so does closing config.Scope.
func New(config Config, pattern string, cb func(*key.Event), opts ...Option) *Entry {
	r := NewRegistry(config)
	e := r.Register(pattern, cb, opts...)
	e.ownsRegistry = true
	return e
}

// Registry returns the registry that owns the entry.
func (e *Entry) Registry() *Registry {
	return e.reg
}
