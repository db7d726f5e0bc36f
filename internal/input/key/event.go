package key

import (
	"fmt"
	"strings"
	"time"
)

// EventType distinguishes key presses from key releases.
type EventType uint8

const (
	// KeyDown is a key press.
	KeyDown EventType = iota
	// KeyUp is a key release.
	KeyUp
)

// String returns the DOM-style event name.
func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	default:
		return fmt.Sprintf("EventType(%d)", t)
	}
}

// ParseEventType parses "keydown" or "keyup" (case-insensitive).
func ParseEventType(s string) (EventType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keydown", "down", "":
		return KeyDown, true
	case "keyup", "up":
		return KeyUp, true
	default:
		return KeyDown, false
	}
}

// Event represents a single key event delivered by an event source.
type Event struct {
	// Type is keydown or keyup.
	Type EventType

	// Key is the key name as reported by the source ("k", "K", "Enter", "+").
	// Matching compares it lowercased.
	Key string

	// Modifiers contains the modifier keys held during the event.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent creates a keydown event with the current timestamp.
func NewEvent(key string, mods Modifier) *Event {
	return &Event{
		Type:      KeyDown,
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewTypedEvent creates an event of the given type with the current timestamp.
func NewTypedEvent(t EventType, key string, mods Modifier) *Event {
	e := NewEvent(key, mods)
	e.Type = t
	return e
}

// PreventDefault marks the event so the source suppresses its default action.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation marks the event so the source stops forwarding it.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

// Ctrl reports whether Control was held.
func (e *Event) Ctrl() bool { return e.Modifiers.HasCtrl() }

// Shift reports whether Shift was held.
func (e *Event) Shift() bool { return e.Modifiers.HasShift() }

// Alt reports whether Alt was held.
func (e *Event) Alt() bool { return e.Modifiers.HasAlt() }

// Meta reports whether Meta was held.
func (e *Event) Meta() bool { return e.Modifiers.HasMeta() }

// String returns the event in pattern spelling, e.g. "ctrl+shift+k".
func (e *Event) String() string {
	name := strings.ToLower(e.Key)
	switch name {
	case " ":
		name = "space"
	case "":
		name = "?"
	}
	if e.Modifiers.IsEmpty() {
		return name
	}
	return e.Modifiers.String() + "+" + name
}

// GoString implements fmt.GoStringer for debugging.
func (e *Event) GoString() string {
	return fmt.Sprintf("Event{Type: %s, Key: %q, Modifiers: %s}",
		e.Type, e.Key, e.Modifiers.String())
}
