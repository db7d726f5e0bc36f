package source

import (
	"testing"

	"github.com/dshills/hotkeys/internal/input/key"
)

func TestElementIsEditable(t *testing.T) {
	tests := []struct {
		el   *Element
		want bool
	}{
		{nil, false},
		{&Element{Tag: "div"}, false},
		{&Element{Tag: "button"}, false},
		{Input(), true},
		{TextArea(), true},
		{&Element{Tag: "INPUT"}, true},
		{&Element{Tag: "div", ContentEditable: true}, true},
	}

	for _, tt := range tests {
		if got := tt.el.IsEditable(); got != tt.want {
			t.Errorf("%+v.IsEditable() = %v, want %v", tt.el, got, tt.want)
		}
	}
}

func TestDispatcher_ListenAndDispatch(t *testing.T) {
	d := NewDispatcher()

	var downs, ups []string
	stopDown := d.Listen(key.KeyDown, func(ev *key.Event) { downs = append(downs, ev.Key) })
	d.Listen(key.KeyUp, func(ev *key.Event) { ups = append(ups, ev.Key) })

	if n := d.ListenerCount(); n != 2 {
		t.Fatalf("ListenerCount() = %d, want 2", n)
	}

	d.Press("a", key.ModNone)
	d.Release("a", key.ModNone)
	d.Press("b", key.ModCtrl)

	if len(downs) != 2 || downs[0] != "a" || downs[1] != "b" {
		t.Errorf("keydown listener got %q, want [a b]", downs)
	}
	if len(ups) != 1 || ups[0] != "a" {
		t.Errorf("keyup listener got %q, want [a]", ups)
	}

	stopDown()
	stopDown()
	d.Press("c", key.ModNone)
	if len(downs) != 2 {
		t.Errorf("detached listener still received events: %q", downs)
	}
	if n := d.ListenerCount(); n != 1 {
		t.Errorf("ListenerCount() = %d, want 1", n)
	}
}

func TestDispatcher_ListenerOrder(t *testing.T) {
	d := NewDispatcher()

	var order []int
	for i := 0; i < 3; i++ {
		d.Listen(key.KeyDown, func(*key.Event) { order = append(order, i) })
	}
	d.Press("x", key.ModNone)

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("listener order = %v, want [0 1 2]", order)
	}
}

func TestDispatcher_ListenDuringDispatch(t *testing.T) {
	d := NewDispatcher()

	calls := 0
	d.Listen(key.KeyDown, func(*key.Event) {
		calls++
		d.Listen(key.KeyDown, func(*key.Event) { calls++ })
	})

	d.Press("x", key.ModNone)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (late listener runs on the next event)", calls)
	}
}

func TestDispatcher_PanicPropagates(t *testing.T) {
	d := NewDispatcher()
	d.Listen(key.KeyDown, func(*key.Event) { panic("boom") })

	defer func() {
		if recover() == nil {
			t.Error("listener panic did not reach the caller")
		}
	}()
	d.Press("x", key.ModNone)
}

func TestDispatcher_Focus(t *testing.T) {
	d := NewDispatcher()
	if d.ActiveElement() != nil {
		t.Fatal("fresh dispatcher should have no focus")
	}

	in := Input()
	d.Focus(in)
	if d.ActiveElement() != in {
		t.Error("ActiveElement() did not return the focused element")
	}

	d.Blur()
	if d.ActiveElement() != nil {
		t.Error("Blur() did not clear focus")
	}
}

func TestDispatcher_DispatchNil(t *testing.T) {
	d := NewDispatcher()
	if d.Dispatch(nil) != nil {
		t.Error("Dispatch(nil) should return nil")
	}
}

func TestHeadless(t *testing.T) {
	var h Headless
	called := false
	if stop := h.Listen(key.KeyDown, func(*key.Event) { called = true }); stop != nil {
		t.Error("Headless.Listen should return a nil handle")
	}
	if h.ActiveElement() != nil {
		t.Error("Headless.ActiveElement should be nil")
	}
	if called {
		t.Error("Headless should never call listeners")
	}
}
