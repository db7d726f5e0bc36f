package hotkey

import (
	"time"

	"github.com/dshills/hotkeys/internal/input/key"
)

// Options holds per-entry settings.
type Options struct {
	// ID identifies the entry. Generated when empty.
	ID string

	// EventType is the event the entry listens for. Default: key.KeyDown.
	EventType key.EventType

	// AllowInInputs keeps the entry matching while an editable element
	// has focus. Default: false.
	AllowInInputs bool

	// PreventDefault marks matched events as default-prevented.
	// Default: true.
	PreventDefault bool

	// StopPropagation marks matched events as propagation-stopped.
	// Default: false.
	StopPropagation bool

	// SequenceTimeout is the time allowed between groups of a sequence.
	// Default: the registry's SequenceTimeout.
	SequenceTimeout time.Duration
}

// Option configures an entry.
type Option func(*Options)

// WithID sets the entry id. Registering an id that is already present
// replaces the old entry.
func WithID(id string) Option {
	return func(o *Options) { o.ID = id }
}

// WithEventType selects keydown or keyup events.
func WithEventType(t key.EventType) Option {
	return func(o *Options) { o.EventType = t }
}

// WithAllowInInputs keeps the entry active inside editable elements.
func WithAllowInInputs(allow bool) Option {
	return func(o *Options) { o.AllowInInputs = allow }
}

// WithPreventDefault controls default-prevention of matched events.
func WithPreventDefault(prevent bool) Option {
	return func(o *Options) { o.PreventDefault = prevent }
}

// WithStopPropagation controls propagation-stopping of matched events.
func WithStopPropagation(stop bool) Option {
	return func(o *Options) { o.StopPropagation = stop }
}

// WithSequenceTimeout sets the time allowed between sequence groups.
// Non-positive durations keep the registry default.
func WithSequenceTimeout(d time.Duration) Option {
	return func(o *Options) { o.SequenceTimeout = d }
}

func buildOptions(def time.Duration, opts []Option) Options {
	o := Options{
		EventType:       key.KeyDown,
		PreventDefault:  true,
		SequenceTimeout: def,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.SequenceTimeout <= 0 {
		o.SequenceTimeout = def
	}
	if o.EventType != key.KeyUp {
		o.EventType = key.KeyDown
	}
	return o
}
