package hotkey

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/notify"
)

// Entry is one registered hotkey and its sequencing state. All mutable
// fields are guarded by the owning registry's mutex.
type Entry struct {
	reg      *Registry
	id       string
	pattern  string
	callback func(*key.Event)
	opts     Options

	keyGroups []string
	combos    []key.Combination

	progress int
	timer    Timer
	timerGen uint64

	stop    func()
	paused  bool
	removed bool

	// ownsRegistry marks a standalone entry whose Stop disposes the registry.
	ownsRegistry bool
}

// ID returns the entry id.
func (e *Entry) ID() string { return e.id }

// Pattern returns the normalized pattern the entry was registered with.
func (e *Entry) Pattern() string { return e.pattern }

// Options returns the entry's resolved options.
func (e *Entry) Options() Options { return e.opts }

// KeyGroups returns the parsed combination groups. Empty for a malformed
// pattern.
func (e *Entry) KeyGroups() []string {
	out := make([]string, len(e.keyGroups))
	copy(out, e.keyGroups)
	return out
}

// IsSequence reports whether the pattern has more than one group.
func (e *Entry) IsSequence() bool {
	return len(e.keyGroups) > 1
}

// SequenceTimeout returns the time allowed between sequence groups.
func (e *Entry) SequenceTimeout() time.Duration {
	return e.opts.SequenceTimeout
}

// Progress returns the index of the next group to match.
func (e *Entry) Progress() int {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	return e.progress
}

// IsActive reports whether the entry is attached to its event source.
func (e *Entry) IsActive() bool {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	return e.stop != nil
}

// IsPaused reports the entry's own paused flag. A registry-wide pause
// does not change it.
func (e *Entry) IsPaused() bool {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	return e.paused
}

// IsRegistered reports whether the entry is still part of its registry.
func (e *Entry) IsRegistered() bool {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	return !e.removed
}

// Pause detaches the entry and resets its sequence progress.
func (e *Entry) Pause() {
	r := e.reg

	r.mu.Lock()
	if e.paused {
		r.mu.Unlock()
		return
	}
	e.paused = true
	changes := []notify.Change{{ID: e.id, Pattern: e.pattern, Type: notify.ChangePaused}}
	if r.detachLocked(e) {
		changes = append(changes, notify.Change{ID: e.id, Pattern: e.pattern, Type: notify.ChangeDeactivated})
	}
	r.mu.Unlock()

	r.logger.Debug("paused hotkey", zap.String("id", e.id))
	r.publish(changes)
}

// Resume clears the paused flag and re-attaches the entry unless the
// registry is paused.
func (e *Entry) Resume() {
	r := e.reg

	r.mu.Lock()
	if !e.paused {
		r.mu.Unlock()
		return
	}
	e.paused = false
	changes := []notify.Change{{ID: e.id, Pattern: e.pattern, Type: notify.ChangeResumed}}
	if r.attachLocked(e) {
		changes = append(changes, notify.Change{ID: e.id, Pattern: e.pattern, Type: notify.ChangeActivated})
	}
	r.mu.Unlock()

	r.logger.Debug("resumed hotkey", zap.String("id", e.id))
	r.publish(changes)
}

// Stop unregisters the entry. A standalone entry created by New also
// disposes its private registry.
func (e *Entry) Stop() {
	r := e.reg
	if e.ownsRegistry {
		r.Dispose()
		return
	}

	r.mu.Lock()
	if e.removed {
		r.mu.Unlock()
		return
	}
	changes := r.removeLocked(e)
	r.mu.Unlock()

	r.logger.Debug("stopped hotkey", zap.String("id", e.id))
	r.publish(changes)
}

// OnActiveChange calls fn whenever the entry attaches to or detaches from
// its event source.
func (e *Entry) OnActiveChange(fn func(active bool)) *notify.Subscription {
	return e.reg.notifier.SubscribeEntry(e.id, func(c notify.Change) {
		switch c.Type {
		case notify.ChangeActivated:
			fn(true)
		case notify.ChangeDeactivated:
			fn(false)
		}
	})
}

// String returns the entry pattern.
func (e *Entry) String() string {
	return e.pattern
}
