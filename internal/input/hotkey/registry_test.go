package hotkey

import (
	"reflect"
	"testing"
	"time"

	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/input/source"
	"github.com/dshills/hotkeys/internal/notify"
	"github.com/dshills/hotkeys/internal/scope"
)

func TestRegister_Defaults(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	e := h.reg.Register("  Ctrl+K ", nil)
	if e.ID() == "" {
		t.Error("entry should get a generated id")
	}
	if e.Pattern() != "ctrl+k" {
		t.Errorf("Pattern() = %q, want ctrl+k", e.Pattern())
	}
	if got := e.KeyGroups(); !reflect.DeepEqual(got, []string{"ctrl+k"}) {
		t.Errorf("KeyGroups() = %q, want [ctrl+k]", got)
	}
	if e.IsSequence() {
		t.Error("single combination should not be a sequence")
	}

	o := e.Options()
	if o.EventType != key.KeyDown || !o.PreventDefault || o.StopPropagation || o.AllowInInputs {
		t.Errorf("unexpected default options %+v", o)
	}
	if o.SequenceTimeout != DefaultSequenceTimeout {
		t.Errorf("SequenceTimeout = %v, want %v", o.SequenceTimeout, DefaultSequenceTimeout)
	}
	if !e.IsActive() {
		t.Error("entry should be listening")
	}
	if h.reg.Size() != 1 {
		t.Errorf("Size() = %d, want 1", h.reg.Size())
	}
}

func TestRegister_ConcreteScenario(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	h.reg.Register("ctrl+shift+k", cb)

	ev := h.src.Press("k", key.ModCtrl|key.ModShift)
	if calls() != 1 {
		t.Errorf("callback ran %d times, want 1", calls())
	}
	if !ev.DefaultPrevented() {
		t.Error("matched event should be default-prevented")
	}
	if ev.PropagationStopped() {
		t.Error("propagation should not be stopped by default")
	}
}

func TestRegister_EmptyPattern(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	e := h.reg.Register("", cb)

	if len(e.KeyGroups()) != 0 {
		t.Errorf("KeyGroups() = %q, want empty", e.KeyGroups())
	}
	if e.IsActive() {
		t.Error("empty pattern should not listen")
	}
	if h.src.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", h.src.ListenerCount())
	}

	for _, k := range []string{"a", "", "enter"} {
		h.src.Press(k, key.ModNone)
	}
	if calls() != 0 {
		t.Errorf("callback ran %d times, want 0", calls())
	}
	if h.logs.Len() != 1 {
		t.Errorf("logged %d warnings, want 1", h.logs.Len())
	}

	// Inert entries still count and can be removed.
	if h.reg.Size() != 1 {
		t.Errorf("Size() = %d, want 1", h.reg.Size())
	}
	if h.reg.Unregister(e.ID()) != e {
		t.Error("Unregister should return the inert entry")
	}
}

func TestRegister_MalformedPatterns(t *testing.T) {
	for _, pattern := range []string{"ctrl+", "+k", "g-", "ctrl+/k"} {
		h := newHarness(t, key.PlatformOther)
		e := h.reg.Register(pattern, nil)
		if len(e.KeyGroups()) != 0 || e.IsActive() {
			t.Errorf("Register(%q) should be inert", pattern)
		}
		if h.logs.Len() != 1 {
			t.Errorf("Register(%q) logged %d warnings, want 1", pattern, h.logs.Len())
		}
	}
}

func TestRegister_MultiKeyGroupNeverFires(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	e := h.reg.Register("a+b", cb)
	if len(e.KeyGroups()) != 1 {
		t.Fatalf("KeyGroups() = %q, want one group", e.KeyGroups())
	}

	h.src.Press("a", key.ModNone)
	h.src.Press("b", key.ModNone)
	if calls() != 0 {
		t.Errorf("callback ran %d times, want 0", calls())
	}
	if h.logs.Len() != 1 {
		t.Errorf("logged %d warnings, want 1", h.logs.Len())
	}
}

func TestRegister_ModifierExact(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	h.reg.Register("ctrl+k", cb)

	ev := h.src.Press("k", key.ModCtrl|key.ModShift)
	if calls() != 0 {
		t.Error("ctrl+k should not fire with shift held")
	}
	if ev.DefaultPrevented() {
		t.Error("unmatched event should not be default-prevented")
	}

	h.src.Press("k", key.ModCtrl)
	if calls() != 1 {
		t.Errorf("callback ran %d times, want 1", calls())
	}
}

func TestRegister_PlatformMapping(t *testing.T) {
	tests := []struct {
		platform key.Platform
		match    key.Modifier
		reverse  key.Modifier
	}{
		{key.PlatformMac, key.ModMeta, key.ModCtrl},
		{key.PlatformOther, key.ModCtrl, key.ModMeta},
	}

	for _, tt := range tests {
		h := newHarness(t, tt.platform)
		cb, calls := counter()
		h.reg.Register("cmd+k", cb)

		h.src.Press("k", tt.reverse)
		if calls() != 0 {
			t.Errorf("%v: cmd+k fired on %v", tt.platform, tt.reverse)
		}
		h.src.Press("k", tt.match)
		if calls() != 1 {
			t.Errorf("%v: cmd+k fired %d times on %v, want 1", tt.platform, calls(), tt.match)
		}
	}
}

func TestRegister_EventType(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	h.reg.Register("escape", cb, WithEventType(key.KeyUp))

	h.src.Press("Escape", key.ModNone)
	if calls() != 0 {
		t.Error("keyup entry fired on keydown")
	}
	h.src.Release("Escape", key.ModNone)
	if calls() != 1 {
		t.Errorf("callback ran %d times, want 1", calls())
	}
}

func TestRegister_EventSideEffects(t *testing.T) {
	h := newHarness(t, key.PlatformOther)
	h.reg.Register("a", nil, WithPreventDefault(false), WithStopPropagation(true))

	ev := h.src.Press("a", key.ModNone)
	if ev.DefaultPrevented() {
		t.Error("WithPreventDefault(false) should leave the event alone")
	}
	if !ev.PropagationStopped() {
		t.Error("WithStopPropagation(true) should stop propagation")
	}
}

func TestRegister_ReplaceID(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	oldCb, oldCalls := counter()
	newCb, newCalls := counter()
	old := h.reg.Register("a", oldCb, WithID("save"))
	h.reg.Register("b", newCb, WithID("save"))

	if h.reg.Size() != 1 {
		t.Errorf("Size() = %d, want 1", h.reg.Size())
	}
	if old.IsActive() || old.IsRegistered() {
		t.Error("replaced entry should be torn down")
	}

	h.src.Press("a", key.ModNone)
	h.src.Press("b", key.ModNone)
	if oldCalls() != 0 || newCalls() != 1 {
		t.Errorf("calls old=%d new=%d, want 0 and 1", oldCalls(), newCalls())
	}
}

func TestUnregister(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	e := h.reg.Register("a", cb, WithID("a"))

	if got := h.reg.Unregister("missing"); got != nil {
		t.Errorf("Unregister(missing) = %v, want nil", got)
	}
	if got := h.reg.Unregister("a"); got != e {
		t.Errorf("Unregister(a) = %v, want the entry", got)
	}
	if got := h.reg.Unregister("a"); got != nil {
		t.Error("second Unregister should return nil")
	}

	h.src.Press("a", key.ModNone)
	if calls() != 0 {
		t.Error("unregistered entry fired")
	}
	if e.IsActive() || h.src.ListenerCount() != 0 {
		t.Error("unregistered entry still listening")
	}
	if h.reg.Pause("a") != nil || h.reg.Resume("a") != nil || h.reg.Get("a") != nil {
		t.Error("operations on unknown ids should return nil")
	}
}

func TestEntryStop(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	e := h.reg.Register("g-h", cb)
	h.src.Press("g", key.ModNone)
	if h.clock.pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", h.clock.pending())
	}

	e.Stop()
	e.Stop()
	if h.clock.pending() != 0 {
		t.Error("Stop should cancel the pending timer")
	}
	if h.reg.Size() != 0 {
		t.Errorf("Size() = %d, want 0", h.reg.Size())
	}

	h.src.Press("h", key.ModNone)
	if calls() != 0 {
		t.Error("stopped entry fired")
	}
}

func TestEntriesAndIDs(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	h.reg.Register("a", nil, WithID("one"))
	h.reg.Register("b", nil, WithID("two"))
	h.reg.Register("c", nil, WithID("three"))
	h.reg.Unregister("two")

	if got := h.reg.IDs(); !reflect.DeepEqual(got, []string{"one", "three"}) {
		t.Errorf("IDs() = %q, want [one three]", got)
	}
	entries := h.reg.Entries()
	if len(entries) != 2 || entries[0].Pattern() != "a" || entries[1].Pattern() != "c" {
		t.Errorf("Entries() = %v, want [a c]", entries)
	}
}

func TestInputSuppression(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	h.reg.Register("k", cb)
	allowCb, allowCalls := counter()
	h.reg.Register("k", allowCb, WithAllowInInputs(true))

	for _, el := range []*source.Element{source.Input(), source.TextArea(), {Tag: "div", ContentEditable: true}} {
		h.src.Focus(el)
		h.src.Press("k", key.ModNone)
	}
	if calls() != 0 {
		t.Errorf("callback ran %d times inside editable elements, want 0", calls())
	}
	if allowCalls() != 3 {
		t.Errorf("allow-in-inputs callback ran %d times, want 3", allowCalls())
	}

	h.src.Focus(&source.Element{Tag: "button"})
	h.src.Press("k", key.ModNone)
	h.src.Blur()
	h.src.Press("k", key.ModNone)
	if calls() != 2 {
		t.Errorf("callback ran %d times after leaving inputs, want 2", calls())
	}
	if got := h.reg.Metrics().Snapshot().SuppressedEvents; got != 3 {
		t.Errorf("SuppressedEvents = %d, want 3", got)
	}
}

func TestInputSuppression_DoesNotResetSequence(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	e := h.reg.Register("g-h", cb)

	h.src.Press("g", key.ModNone)
	h.src.Focus(source.Input())
	h.src.Press("x", key.ModNone)
	if e.Progress() != 1 {
		t.Errorf("Progress() = %d, want 1 (suppressed events change nothing)", e.Progress())
	}
	h.src.Blur()
	h.src.Press("h", key.ModNone)
	if calls() != 1 {
		t.Errorf("callback ran %d times, want 1", calls())
	}
}

func TestPauseResume_Idempotent(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	cb, calls := counter()
	e := h.reg.Register("a", cb)

	e.Pause()
	e.Pause()
	if !e.IsPaused() || e.IsActive() {
		t.Error("paused entry should be inactive")
	}
	if h.src.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", h.src.ListenerCount())
	}
	h.src.Press("a", key.ModNone)
	if calls() != 0 {
		t.Error("paused entry fired")
	}

	e.Resume()
	e.Resume()
	if e.IsPaused() || !e.IsActive() {
		t.Error("resumed entry should be active")
	}
	if h.src.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1 (no duplicate listeners)", h.src.ListenerCount())
	}
	h.src.Press("a", key.ModNone)
	if calls() != 1 {
		t.Errorf("callback ran %d times, want 1", calls())
	}
}

func TestPauseAll_Independence(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	aCb, aCalls := counter()
	bCb, bCalls := counter()
	a := h.reg.Register("a", aCb)
	b := h.reg.Register("b", bCb)

	a.Pause()
	h.reg.PauseAll()
	h.reg.PauseAll()
	if !h.reg.IsPaused() {
		t.Error("IsPaused() = false after PauseAll")
	}
	if b.IsPaused() {
		t.Error("PauseAll must not set individual paused flags")
	}
	if a.IsActive() || b.IsActive() {
		t.Error("no entry should listen while the registry is paused")
	}

	// Resuming an entry during a global pause clears its flag only.
	b.Pause()
	b.Resume()
	if b.IsActive() {
		t.Error("entry resumed during a global pause should stay detached")
	}

	h.reg.ResumeAll()
	h.reg.ResumeAll()
	if !a.IsPaused() || a.IsActive() {
		t.Error("individually paused entry should stay paused after ResumeAll")
	}
	if !b.IsActive() {
		t.Error("sibling entry should resume after ResumeAll")
	}
	if h.src.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", h.src.ListenerCount())
	}

	h.src.Press("a", key.ModNone)
	h.src.Press("b", key.ModNone)
	if aCalls() != 0 || bCalls() != 1 {
		t.Errorf("calls a=%d b=%d, want 0 and 1", aCalls(), bCalls())
	}
}

func TestPauseAll_NewRegistrationsStayDetached(t *testing.T) {
	h := newHarness(t, key.PlatformOther)
	h.reg.PauseAll()

	e := h.reg.Register("a", nil)
	if e.IsActive() {
		t.Error("entry registered during a global pause should not listen")
	}
	h.reg.ResumeAll()
	if !e.IsActive() {
		t.Error("entry should listen after ResumeAll")
	}
}

func TestClear(t *testing.T) {
	h := newHarness(t, key.PlatformOther)
	a := h.reg.Register("a", nil)
	h.reg.Register("g-h", nil)
	h.src.Press("g", key.ModNone)

	h.reg.Clear()
	if h.reg.Size() != 0 {
		t.Errorf("Size() = %d, want 0", h.reg.Size())
	}
	if h.src.ListenerCount() != 0 || h.clock.pending() != 0 {
		t.Error("Clear should tear down listeners and timers")
	}
	if a.IsRegistered() {
		t.Error("cleared entry still reports registered")
	}

	// The registry stays usable after Clear.
	cb, calls := counter()
	h.reg.Register("c", cb)
	h.src.Press("c", key.ModNone)
	if calls() != 1 {
		t.Errorf("callback ran %d times, want 1", calls())
	}
}

func TestDispose(t *testing.T) {
	h := newHarness(t, key.PlatformOther)

	var changes []notify.ChangeType
	h.reg.Subscribe(func(c notify.Change) { changes = append(changes, c.Type) })

	h.reg.Register("a", nil)
	h.reg.Dispose()
	h.reg.Dispose()

	if !h.reg.IsDisposed() || h.reg.Size() != 0 {
		t.Error("Dispose should clear the registry")
	}
	want := []notify.ChangeType{
		notify.ChangeRegistered, notify.ChangeActivated,
		notify.ChangeDeactivated, notify.ChangeUnregistered,
	}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("changes = %v, want %v", changes, want)
	}

	e := h.reg.Register("b", nil)
	if e.IsActive() || e.IsRegistered() || h.reg.Size() != 0 {
		t.Error("Register after Dispose should produce an inert entry")
	}
}

func TestScopeDisposesOnce(t *testing.T) {
	s := scope.New()
	src := source.NewDispatcher()
	reg := NewRegistry(Config{Source: src, Scope: s, Clock: &fakeClock{}})

	disposals := 0
	reg.Subscribe(func(c notify.Change) {
		if c.Type == notify.ChangeUnregistered {
			disposals++
		}
	})
	reg.Register("a", nil)

	s.Close()
	s.Close()
	reg.Dispose()

	if !reg.IsDisposed() {
		t.Error("closing the scope should dispose the registry")
	}
	if disposals != 1 {
		t.Errorf("entry torn down %d times, want 1", disposals)
	}
	if src.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", src.ListenerCount())
	}
}

func TestHeadless(t *testing.T) {
	reg := NewRegistry(Config{})
	defer reg.Dispose()

	cb, calls := counter()
	e := reg.Register("ctrl+k", cb)
	if e.IsActive() {
		t.Error("headless entry should never be active")
	}
	e.Pause()
	e.Resume()
	reg.PauseAll()
	reg.ResumeAll()
	if e.IsActive() || calls() != 0 {
		t.Error("headless registry should stay inert")
	}
	if reg.Size() != 1 {
		t.Errorf("Size() = %d, want 1", reg.Size())
	}
}

func TestOnActiveChange(t *testing.T) {
	h := newHarness(t, key.PlatformOther)
	e := h.reg.Register("a", nil)

	var states []bool
	sub := e.OnActiveChange(func(active bool) { states = append(states, active) })

	e.Pause()
	e.Resume()
	h.reg.PauseAll()
	h.reg.ResumeAll()
	sub.Unsubscribe()
	e.Pause()

	want := []bool{false, true, false, true}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("active changes = %v, want %v", states, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SequenceTimeout != time.Second {
		t.Errorf("SequenceTimeout = %v, want 1s", cfg.SequenceTimeout)
	}
	if cfg.Platform != key.CurrentPlatform() {
		t.Errorf("Platform = %v, want %v", cfg.Platform, key.CurrentPlatform())
	}
	if cfg.IDGenerator() == cfg.IDGenerator() {
		t.Error("IDGenerator should produce unique ids")
	}
}

func TestNewRegistry_ZeroPlatformResolves(t *testing.T) {
	reg := NewRegistry(Config{})
	defer reg.Dispose()

	if got := reg.Platform(); got != key.CurrentPlatform() {
		t.Errorf("Platform() = %v, want %v", got, key.CurrentPlatform())
	}

	src := source.NewDispatcher()
	e := New(Config{Source: src, Clock: &fakeClock{}}, "cmd+k", func(*key.Event) {})
	defer e.Stop()
	if got := e.Registry().Platform(); got != key.CurrentPlatform() {
		t.Errorf("standalone Platform() = %v, want %v", got, key.CurrentPlatform())
	}
}
