package hotkey

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/input/source"
	"github.com/dshills/hotkeys/internal/notify"
)

// DefaultSequenceTimeout is the time allowed between two groups of a
// sequence before progress resets.
const DefaultSequenceTimeout = 1000 * time.Millisecond

// EventSource delivers key events. Listen returns a function that detaches
// the listener, or nil when the source cannot deliver events at all.
type EventSource interface {
	Listen(t key.EventType, fn func(*key.Event)) (stop func())
}

// FocusTracker reports the element holding input focus. A nil element
// means nothing editable is focused.
type FocusTracker interface {
	ActiveElement() *source.Element
}

// Scope runs registered functions when its owner goes away.
type Scope interface {
	OnDispose(fn func())
}

// Timer is a pending one-shot timer.
type Timer interface {
	Stop() bool
}

// Clock schedules one-shot timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock { return realClock{} }

// Config configures a Registry.
type Config struct {
	// Source delivers key events. Nil means headless: entries register
	// but never listen.
	Source EventSource

	// Focus reports the focused element for input suppression. When nil
	// and Source implements FocusTracker, Source is used.
	Focus FocusTracker

	// Clock schedules sequence reset timers. Default: RealClock.
	Clock Clock

	// Platform decides how cmd and meta resolve. The zero value,
	// key.PlatformAuto, resolves to key.CurrentPlatform.
	Platform key.Platform

	// SequenceTimeout is the default per-entry sequence timeout.
	// Default: 1000ms
	SequenceTimeout time.Duration

	// Logger receives parse warnings and lifecycle debug logs.
	Logger *zap.Logger

	// Scope, when set, disposes the registry when it closes.
	Scope Scope

	// IDGenerator assigns ids to entries registered without WithID.
	// Default: uuid.NewString
	IDGenerator func() string

	// Notifier receives change notifications. The registry creates and
	// owns one when nil.
	Notifier *notify.Notifier

	// Metrics collects counters. The registry creates one when nil.
	Metrics *Metrics
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Clock:           RealClock(),
		Platform:        key.CurrentPlatform(),
		SequenceTimeout: DefaultSequenceTimeout,
		IDGenerator:     uuid.NewString,
	}
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	c.Platform = c.Platform.Resolve()
	if c.Source == nil {
		c.Source = source.Headless{}
	}
	if c.Focus == nil {
		if ft, ok := c.Source.(FocusTracker); ok {
			c.Focus = ft
		}
	}
	if c.Clock == nil {
		c.Clock = RealClock()
	}
	if c.SequenceTimeout <= 0 {
		c.SequenceTimeout = DefaultSequenceTimeout
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.IDGenerator == nil {
		c.IDGenerator = uuid.NewString
	}
	if c.Metrics == nil {
		c.Metrics = NewMetrics()
	}
	return c
}
