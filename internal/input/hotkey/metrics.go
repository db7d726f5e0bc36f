package hotkey

import (
	"sync/atomic"
	"time"
)

// Metrics tracks hotkey matching counters.
type Metrics struct {
	eventsTotal      atomic.Uint64
	suppressedEvents atomic.Uint64
	matchedGroups    atomic.Uint64
	firedTotal       atomic.Uint64
	sequenceTimeouts atomic.Uint64
	sequenceResets   atomic.Uint64

	// Peak time spent in the matcher for one event, in nanoseconds
	peakMatchLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordEvent records an event reaching an entry and the time the matcher
// spent on it.
func (m *Metrics) RecordEvent(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}
	m.eventsTotal.Add(1)

	ns := latency.Nanoseconds()
	for {
		current := m.peakMatchLatency.Load()
		if ns <= current {
			break
		}
		if m.peakMatchLatency.CompareAndSwap(current, ns) {
			break
		}
	}
}

// RecordSuppressed records an event ignored because an editable element
// had focus.
func (m *Metrics) RecordSuppressed() {
	if m.enabled.Load() {
		m.suppressedEvents.Add(1)
	}
}

// RecordMatch records a matched combination group.
func (m *Metrics) RecordMatch() {
	if m.enabled.Load() {
		m.matchedGroups.Add(1)
	}
}

// RecordFire records a callback invocation.
func (m *Metrics) RecordFire() {
	if m.enabled.Load() {
		m.firedTotal.Add(1)
	}
}

// RecordSequenceTimeout records a sequence reset by its timer.
func (m *Metrics) RecordSequenceTimeout() {
	if m.enabled.Load() {
		m.sequenceTimeouts.Add(1)
	}
}

// RecordSequenceReset records a sequence reset by a mismatching event.
func (m *Metrics) RecordSequenceReset() {
	if m.enabled.Load() {
		m.sequenceResets.Add(1)
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	EventsTotal      uint64
	SuppressedEvents uint64
	MatchedGroups    uint64
	FiredTotal       uint64
	SequenceTimeouts uint64
	SequenceResets   uint64

	PeakMatchLatency time.Duration
	Uptime           time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsTotal:      m.eventsTotal.Load(),
		SuppressedEvents: m.suppressedEvents.Load(),
		MatchedGroups:    m.matchedGroups.Load(),
		FiredTotal:       m.firedTotal.Load(),
		SequenceTimeouts: m.sequenceTimeouts.Load(),
		SequenceResets:   m.sequenceResets.Load(),
		PeakMatchLatency: time.Duration(m.peakMatchLatency.Load()),
		Uptime:           time.Since(m.startTime),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.eventsTotal.Store(0)
	m.suppressedEvents.Store(0)
	m.matchedGroups.Store(0)
	m.firedTotal.Store(0)
	m.sequenceTimeouts.Store(0)
	m.sequenceResets.Store(0)
	m.peakMatchLatency.Store(0)
}
