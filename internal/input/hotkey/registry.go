package hotkey

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/notify"
)

// Registry owns a set of hotkey entries that share pause and lifecycle
// controls.
type Registry struct {
	mu sync.Mutex

	config  Config
	logger  *zap.Logger
	parser  *key.Parser
	metrics *Metrics

	notifier     *notify.Notifier
	ownsNotifier bool

	entries map[string]*Entry
	order   []*Entry

	paused   bool
	disposed bool
}

// NewRegistry creates a registry. When config.Scope is set, closing the
// scope disposes the registry.
func NewRegistry(config Config) *Registry {
	config = config.withDefaults()
	logger := config.Logger.Named("hotkey")

	r := &Registry{
		config:   config,
		logger:   logger,
		parser:   key.NewParser(logger),
		metrics:  config.Metrics,
		notifier: config.Notifier,
		entries:  make(map[string]*Entry),
	}
	if r.notifier == nil {
		r.notifier = notify.New()
		r.ownsNotifier = true
	}

	if config.Scope != nil {
		config.Scope.OnDispose(r.Dispose)
	}
	return r
}

// Register compiles pattern and adds an entry that invokes cb when the
// pattern matches. A malformed pattern yields an inert entry and a logged
// warning, never an error.
func (r *Registry) Register(pattern string, cb func(*key.Event), opts ...Option) *Entry {
	o := buildOptions(r.config.SequenceTimeout, opts)
	if o.ID == "" {
		o.ID = r.config.IDGenerator()
	}
	if cb == nil {
		cb = func(*key.Event) {}
	}

	pattern = strings.ToLower(strings.TrimSpace(pattern))
	groups := r.parser.SplitSequence(pattern)

	e := &Entry{
		reg:      r,
		id:       o.ID,
		pattern:  pattern,
		callback: cb,
		opts:     o,
	}
	for _, g := range groups {
		c, err := key.ParseCombination(g)
		if err != nil {
			// SplitSequence already validated every group.
			e.keyGroups, e.combos = nil, nil
			break
		}
		if !c.Valid() {
			r.logger.Warn("hotkey group names more than one key and can never match",
				zap.String("pattern", pattern), zap.String("group", g))
		}
		e.keyGroups = append(e.keyGroups, g)
		e.combos = append(e.combos, c)
	}

	var changes []notify.Change

	r.mu.Lock()
	if r.disposed {
		e.removed = true
		r.mu.Unlock()
		r.logger.Warn("register on disposed registry", zap.String("pattern", pattern))
		return e
	}

	if old, ok := r.entries[e.id]; ok {
		changes = append(changes, r.removeLocked(old)...)
	}
	r.entries[e.id] = e
	r.order = append(r.order, e)
	changes = append(changes, notify.Change{ID: e.id, Pattern: pattern, Type: notify.ChangeRegistered})
	if r.attachLocked(e) {
		changes = append(changes, notify.Change{ID: e.id, Pattern: pattern, Type: notify.ChangeActivated})
	}
	r.mu.Unlock()

	r.logger.Debug("registered hotkey",
		zap.String("id", e.id),
		zap.String("pattern", pattern),
		zap.Strings("groups", e.keyGroups),
		zap.Stringer("event", o.EventType),
	)
	r.publish(changes)
	return e
}

// Unregister removes the entry with the given id, tearing down its
// listener and timer. It returns the removed entry, or nil when no entry
// has that id.
func (r *Registry) Unregister(id string) *Entry {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	changes := r.removeLocked(e)
	r.mu.Unlock()

	r.logger.Debug("unregistered hotkey", zap.String("id", id), zap.String("pattern", e.pattern))
	r.publish(changes)
	return e
}

// Get returns the entry with the given id, or nil.
func (r *Registry) Get(id string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

// Pause pauses the entry with the given id. It returns nil when no entry
// has that id.
func (r *Registry) Pause(id string) *Entry {
	e := r.Get(id)
	if e != nil {
		e.Pause()
	}
	return e
}

// Resume resumes the entry with the given id. It returns nil when no entry
// has that id.
func (r *Registry) Resume(id string) *Entry {
	e := r.Get(id)
	if e != nil {
		e.Resume()
	}
	return e
}

// Entries returns the live entries in registration order.
func (r *Registry) Entries() []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Entry, len(r.order))
	copy(out, r.order)
	return out
}

// IDs returns the ids of the live entries in registration order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.order))
	for i, e := range r.order {
		ids[i] = e.id
	}
	return ids
}

// Size returns the number of live entries.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// PauseAll detaches every entry without touching their own paused flags.
func (r *Registry) PauseAll() {
	r.mu.Lock()
	if r.paused || r.disposed {
		r.mu.Unlock()
		return
	}
	r.paused = true

	changes := []notify.Change{{Type: notify.ChangePaused}}
	for _, e := range r.order {
		if r.detachLocked(e) {
			changes = append(changes, notify.Change{ID: e.id, Pattern: e.pattern, Type: notify.ChangeDeactivated})
		}
	}
	r.mu.Unlock()

	r.logger.Debug("paused all hotkeys")
	r.publish(changes)
}

// ResumeAll clears the registry-wide pause. Entries paused individually
// stay paused.
func (r *Registry) ResumeAll() {
	r.mu.Lock()
	if !r.paused || r.disposed {
		r.mu.Unlock()
		return
	}
	r.paused = false

	changes := []notify.Change{{Type: notify.ChangeResumed}}
	for _, e := range r.order {
		if r.attachLocked(e) {
			changes = append(changes, notify.Change{ID: e.id, Pattern: e.pattern, Type: notify.ChangeActivated})
		}
	}
	r.mu.Unlock()

	r.logger.Debug("resumed all hotkeys")
	r.publish(changes)
}

// IsPaused reports whether the registry-wide pause is set.
func (r *Registry) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	changes := r.clearLocked()
	r.mu.Unlock()

	r.publish(changes)
}

// Dispose clears the registry and releases its resources. Later calls do
// nothing, and later registrations produce inert entries.
func (r *Registry) Dispose() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	changes := r.clearLocked()
	r.disposed = true
	r.mu.Unlock()

	r.publish(changes)
	if r.ownsNotifier {
		r.notifier.Close()
	}
	r.logger.Debug("disposed hotkey registry")
}

// IsDisposed reports whether Dispose has run.
func (r *Registry) IsDisposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// Subscribe registers an observer for every registry change.
func (r *Registry) Subscribe(observer notify.Observer) *notify.Subscription {
	return r.notifier.Subscribe(observer)
}

// Metrics returns the registry's metrics.
func (r *Registry) Metrics() *Metrics {
	return r.metrics
}

// Platform returns the platform used to resolve cmd and meta.
func (r *Registry) Platform() key.Platform {
	return r.config.Platform
}

func (r *Registry) clearLocked() []notify.Change {
	var changes []notify.Change
	for _, e := range append([]*Entry(nil), r.order...) {
		changes = append(changes, r.removeLocked(e)...)
	}
	return changes
}

// removeLocked tears down e and drops it from the registry.
func (r *Registry) removeLocked(e *Entry) []notify.Change {
	var changes []notify.Change
	if r.detachLocked(e) {
		changes = append(changes, notify.Change{ID: e.id, Pattern: e.pattern, Type: notify.ChangeDeactivated})
	}
	e.removed = true

	if r.entries[e.id] == e {
		delete(r.entries, e.id)
	}
	for i, o := range r.order {
		if o == e {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return append(changes, notify.Change{ID: e.id, Pattern: e.pattern, Type: notify.ChangeUnregistered})
}

func (r *Registry) publish(changes []notify.Change) {
	for _, c := range changes {
		r.notifier.Notify(c)
	}
}
