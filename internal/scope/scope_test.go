package scope

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestScope_CloseRunsLIFO(t *testing.T) {
	s := New()

	var order []int
	for i := 1; i <= 3; i++ {
		s.OnDispose(func() { order = append(order, i) })
	}
	s.OnDispose(nil)

	s.Close()
	if want := []int{3, 2, 1}; !reflect.DeepEqual(order, want) {
		t.Errorf("cleanup order = %v, want %v", order, want)
	}
	if !s.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestScope_CloseOnce(t *testing.T) {
	s := New()
	calls := 0
	s.OnDispose(func() { calls++ })

	s.Close()
	s.Close()
	if calls != 1 {
		t.Errorf("cleanup ran %d times, want 1", calls)
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after Close")
	}
}

func TestScope_OnDisposeAfterClose(t *testing.T) {
	s := New()
	s.Close()

	ran := false
	s.OnDispose(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after Close should run immediately")
	}
}

func TestFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := FromContext(ctx)

	ran := make(chan struct{})
	s.OnDispose(func() { close(ran) })
	cancel()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("scope did not close after context cancellation")
	}
}
