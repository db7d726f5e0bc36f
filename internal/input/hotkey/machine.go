package hotkey

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/notify"
)

// attachLocked starts listening for e when nothing prevents it. It reports
// whether a listener was attached.
func (r *Registry) attachLocked(e *Entry) bool {
	if e.stop != nil || e.removed || e.paused || r.paused || len(e.keyGroups) == 0 {
		return false
	}
	stop := r.config.Source.Listen(e.opts.EventType, e.handle)
	if stop == nil {
		// Headless source.
		return false
	}
	e.stop = stop
	return true
}

// detachLocked stops listening for e and resets its sequence. It reports
// whether a listener was detached.
func (r *Registry) detachLocked(e *Entry) bool {
	e.resetLocked()
	if e.stop == nil {
		return false
	}
	stop := e.stop
	e.stop = nil
	stop()
	return true
}

// resetLocked returns the entry to Idle. Bumping the generation turns any
// timer already in flight into a no-op.
func (e *Entry) resetLocked() {
	e.progress = 0
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

// handle is the listener attached to the event source.
func (e *Entry) handle(ev *key.Event) {
	r := e.reg
	start := time.Now()

	r.mu.Lock()
	fire, changes := r.stepLocked(e, ev)
	r.mu.Unlock()

	r.metrics.RecordEvent(time.Since(start))
	if !fire {
		return
	}

	r.metrics.RecordFire()
	r.logger.Debug("hotkey fired", zap.String("id", e.id), zap.String("pattern", e.pattern))
	r.publish(changes)
	e.callback(ev)
}

// stepLocked applies one event to e's state machine and reports whether
// the callback should run.
func (r *Registry) stepLocked(e *Entry, ev *key.Event) (bool, []notify.Change) {
	// The source may deliver an event captured before the listener was
	// detached.
	if e.stop == nil || ev == nil || ev.Type != e.opts.EventType || len(e.keyGroups) == 0 {
		return false, nil
	}

	if !e.opts.AllowInInputs && r.config.Focus != nil && r.config.Focus.ActiveElement().IsEditable() {
		r.metrics.RecordSuppressed()
		return false, nil
	}

	if !e.combos[e.progress].Matches(ev, r.config.Platform) {
		if e.IsSequence() {
			if e.progress > 0 {
				r.metrics.RecordSequenceReset()
			}
			e.resetLocked()
		}
		return false, nil
	}

	r.metrics.RecordMatch()
	if e.opts.PreventDefault {
		ev.PreventDefault()
	}
	if e.opts.StopPropagation {
		ev.StopPropagation()
	}

	fired := []notify.Change{{ID: e.id, Pattern: e.pattern, Type: notify.ChangeFired}}
	if !e.IsSequence() {
		return true, fired
	}

	next := e.progress + 1
	e.resetLocked()
	if next == len(e.keyGroups) {
		return true, fired
	}

	e.progress = next
	gen := e.timerGen
	e.timer = r.config.Clock.AfterFunc(e.opts.SequenceTimeout, func() {
		r.expire(e, gen)
	})
	return false, nil
}

// expire resets e when its sequence timer fires, unless the timer was
// superseded.
func (r *Registry) expire(e *Entry, gen uint64) {
	r.mu.Lock()
	if e.timerGen != gen || e.removed {
		r.mu.Unlock()
		return
	}
	e.timer = nil
	e.progress = 0
	e.timerGen++
	r.mu.Unlock()

	r.metrics.RecordSequenceTimeout()
	r.logger.Debug("hotkey sequence timed out", zap.String("id", e.id), zap.String("pattern", e.pattern))
}
