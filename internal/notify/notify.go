// Package notify delivers hotkey registry change notifications.
//
// A Notifier implements an observer pattern: components subscribe to every
// change or to the changes of a single entry id and receive a callback when
// an entry is registered, removed, activated, paused or fired.
package notify

import (
	"sync"
)

// ChangeType represents the kind of registry change.
type ChangeType int

const (
	// ChangeRegistered indicates a new entry was added.
	ChangeRegistered ChangeType = iota

	// ChangeUnregistered indicates an entry was removed.
	ChangeUnregistered

	// ChangeActivated indicates an entry started listening for events.
	ChangeActivated

	// ChangeDeactivated indicates an entry stopped listening for events.
	ChangeDeactivated

	// ChangePaused indicates an entry, or the whole registry, was paused.
	ChangePaused

	// ChangeResumed indicates an entry, or the whole registry, was resumed.
	ChangeResumed

	// ChangeFired indicates an entry's callback was invoked.
	ChangeFired
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeRegistered:
		return "registered"
	case ChangeUnregistered:
		return "unregistered"
	case ChangeActivated:
		return "activated"
	case ChangeDeactivated:
		return "deactivated"
	case ChangePaused:
		return "paused"
	case ChangeResumed:
		return "resumed"
	case ChangeFired:
		return "fired"
	default:
		return "unknown"
	}
}

// Change describes a single registry change.
type Change struct {
	// ID is the entry id. Empty for registry-wide changes such as
	// pausing every entry at once.
	ID string

	// Pattern is the entry's hotkey pattern.
	Pattern string

	// Type is the kind of change.
	Type ChangeType
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	entryID  string
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id, s.entryID)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Observers that receive every change
	globalObservers map[uint64]Observer

	// Observers keyed by entry id
	entryObservers map[string]map[uint64]Observer

	nextID uint64

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup

	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous delivery through a buffered channel.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		globalObservers: make(map[uint64]Observer),
		entryObservers:  make(map[string]map[uint64]Observer),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribeEntry registers an observer for changes to one entry id.
// Registry-wide changes (empty ID) are delivered to entry observers too.
func (n *Notifier) SubscribeEntry(entryID string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.entryObservers[entryID] == nil {
		n.entryObservers[entryID] = make(map[uint64]Observer)
	}
	n.entryObservers[entryID][id] = observer

	return &Subscription{id: id, entryID: entryID, notifier: n}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	count := len(n.globalObservers)
	for _, observers := range n.entryObservers {
		count += len(observers)
	}
	return count
}

// Notify sends a change to all relevant observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliverChange(change)
}

// Close shuts down the notifier, draining pending async changes.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64, entryID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if entryID == "" {
		delete(n.globalObservers, id)
	}
	observers := n.entryObservers[entryID]
	delete(observers, id)
	if len(observers) == 0 {
		delete(n.entryObservers, entryID)
	}
}

// deliverChange sends a change to all matching observers.
func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()

	var observers []Observer
	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}

	if change.ID != "" {
		for _, obs := range n.entryObservers[change.ID] {
			observers = append(observers, obs)
		}
	} else {
		for _, entryObs := range n.entryObservers {
			for _, obs := range entryObs {
				observers = append(observers, obs)
			}
		}
	}

	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliverChange(change)
		case <-n.done:
			for {
				select {
				case change := <-n.buffer:
					n.deliverChange(change)
				default:
					return
				}
			}
		}
	}
}
