// Package source provides key event sources for the hotkey registry.
//
// A source delivers key events to listeners attached per event type and
// reports which element currently holds input focus. Three sources are
// provided: Dispatcher (in-process, driven by the caller), Headless (no
// events at all) and Terminal (tcell-backed).
package source

import (
	"strings"
	"sync"

	"github.com/dshills/hotkeys/internal/input/key"
)

// Element describes the element that currently holds input focus.
type Element struct {
	// Tag is the element kind, e.g. "input", "textarea", "div".
	Tag string

	// ContentEditable marks a free-form editable region.
	ContentEditable bool
}

// IsEditable reports whether typing into the element inserts text.
// A nil element is never editable.
func (e *Element) IsEditable() bool {
	if e == nil {
		return false
	}
	if e.ContentEditable {
		return true
	}
	switch strings.ToLower(e.Tag) {
	case "input", "textarea":
		return true
	}
	return false
}

// Input returns an <input> element.
func Input() *Element { return &Element{Tag: "input"} }

// TextArea returns a <textarea> element.
func TextArea() *Element { return &Element{Tag: "textarea"} }

// Listener receives key events.
type Listener func(ev *key.Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Dispatcher is an in-process event source and focus tracker.
// Listeners run synchronously on the goroutine that calls Dispatch,
// in attach order, outside the dispatcher's lock.
type Dispatcher struct {
	mu        sync.Mutex
	listeners map[key.EventType][]listenerEntry
	nextID    uint64
	focus     *Element
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[key.EventType][]listenerEntry),
	}
}

// Listen attaches fn for events of type t and returns a function that
// detaches it. The returned function is safe to call more than once.
func (d *Dispatcher) Listen(t key.EventType, fn func(*key.Event)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[t] = append(d.listeners[t], listenerEntry{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(t, id) })
	}
}

func (d *Dispatcher) remove(t key.EventType, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.listeners[t]
	for i, l := range list {
		if l.id == id {
			d.listeners[t] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(d.listeners[t]) == 0 {
		delete(d.listeners, t)
	}
}

// Dispatch delivers ev to every listener attached for its type and returns
// ev so callers can inspect DefaultPrevented. A panicking listener
// propagates to the caller; listeners after it do not run.
func (d *Dispatcher) Dispatch(ev *key.Event) *key.Event {
	if ev == nil {
		return nil
	}

	d.mu.Lock()
	list := make([]listenerEntry, len(d.listeners[ev.Type]))
	copy(list, d.listeners[ev.Type])
	d.mu.Unlock()

	for _, l := range list {
		l.fn(ev)
	}
	return ev
}

// Press dispatches a keydown event for k with the given modifiers.
func (d *Dispatcher) Press(k string, mods key.Modifier) *key.Event {
	return d.Dispatch(key.NewEvent(k, mods))
}

// Release dispatches a keyup event for k with the given modifiers.
func (d *Dispatcher) Release(k string, mods key.Modifier) *key.Event {
	return d.Dispatch(key.NewTypedEvent(key.KeyUp, k, mods))
}

// ListenerCount returns the number of attached listeners across all types.
func (d *Dispatcher) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, list := range d.listeners {
		n += len(list)
	}
	return n
}

// Focus moves input focus to el. A nil element blurs.
func (d *Dispatcher) Focus(el *Element) {
	d.mu.Lock()
	d.focus = el
	d.mu.Unlock()
}

// Blur clears input focus.
func (d *Dispatcher) Blur() {
	d.Focus(nil)
}

// ActiveElement returns the focused element, or nil.
func (d *Dispatcher) ActiveElement() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focus
}
