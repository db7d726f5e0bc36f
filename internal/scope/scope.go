// Package scope provides a closeable resource scope.
//
// A Scope collects cleanup functions and runs them once, in reverse
// registration order, when the scope is closed. Functions registered after
// the scope closed run immediately.
package scope

import (
	"context"
	"sync"
)

// Scope is a closeable owner of cleanup functions.
type Scope struct {
	mu       sync.Mutex
	cleanups []func()
	closed   bool

	closeOnce sync.Once
	done      chan struct{}
}

// New creates an open scope.
func New() *Scope {
	return &Scope{done: make(chan struct{})}
}

// OnDispose registers fn to run when the scope closes.
func (s *Scope) OnDispose(fn func()) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Close runs every registered cleanup in LIFO order. Only the first call
// does any work.
func (s *Scope) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cleanups := s.cleanups
		s.cleanups = nil
		s.mu.Unlock()

		defer close(s.done)
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	})
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Done returns a channel closed once every cleanup has run.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

// FromContext returns a scope that closes when ctx is cancelled.
func FromContext(ctx context.Context) *Scope {
	s := New()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	return s
}
