package source

import "github.com/dshills/hotkeys/internal/input/key"

// Headless is an event source for non-interactive processes. It never
// delivers events: Listen returns a nil handle and nothing is attached.
type Headless struct{}

// Listen attaches nothing and returns nil.
func (Headless) Listen(key.EventType, func(*key.Event)) func() {
	return nil
}

// ActiveElement always returns nil.
func (Headless) ActiveElement() *Element {
	return nil
}
