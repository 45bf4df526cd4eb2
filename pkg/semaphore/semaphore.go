package semaphore

import (
	"container/list"
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Acquire when the semaphore is closed and the call
// would otherwise have to wait.
var ErrClosed = errors.New("semaphore is closed")

// waiter is a parked Acquire call. The granting side writes closed before
// closing ready, so the waiter may read closed without holding the lock.
type waiter struct {
	ready  chan struct{}
	closed bool
}

// Counting is a counting semaphore with close semantics.
//
// Release hands its token directly to the oldest parked waiter instead of
// incrementing the shared count, so wake order is strict FIFO and a stream
// of late releases cannot starve an early waiter.
type Counting struct {
	mu      sync.Mutex
	count   int
	waiters list.List
	closed  bool
}

// New creates a semaphore holding n tokens.
func New(n int) *Counting {
	return &Counting{count: n}
}

// Acquire takes one token, blocking until one is released, the semaphore is
// closed, or ctx is done. A token that is already available is granted even
// after Close; ErrClosed is returned only when Acquire would have to wait on
// a closed semaphore.
func (s *Counting) Acquire(ctx context.Context) error {
	s.mu.Lock()
	if s.count > 0 {
		s.count--
		s.mu.Unlock()
		return nil
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	w := &waiter{ready: make(chan struct{})}
	elem := s.waiters.PushBack(w)
	s.mu.Unlock()

	select {
	case <-w.ready:
		if w.closed {
			return ErrClosed
		}
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		select {
		case <-w.ready:
			// Granted between ctx firing and taking the lock. Keep the
			// token rather than leak it.
			s.mu.Unlock()
			if w.closed {
				return ErrClosed
			}
			return nil
		default:
		}
		s.waiters.Remove(elem)
		s.mu.Unlock()
		return ctx.Err()
	}
}

// TryAcquire takes one token without blocking.
// It keeps granting leftover tokens after Close.
func (s *Counting) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 {
		s.count--
		return true
	}
	return false
}

// Release returns one token. If a waiter is parked, the token is handed to
// the oldest one directly.
func (s *Counting) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if front := s.waiters.Front(); front != nil {
		w := s.waiters.Remove(front).(*waiter)
		close(w.ready)
		return
	}
	s.count++
}

// Close wakes every parked waiter with ErrClosed and makes future blocking
// Acquire calls fail. Tokens already available remain acquirable.
// Close is idempotent.
func (s *Counting) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for {
		front := s.waiters.Front()
		if front == nil {
			return
		}
		w := s.waiters.Remove(front).(*waiter)
		w.closed = true
		close(w.ready)
	}
}
