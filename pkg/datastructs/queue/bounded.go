package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	pkgRuntime "github.com/Thyrister/concurrency/pkg/runtime"
	"github.com/Thyrister/concurrency/pkg/semaphore"
)

var _ BlockingQueue[int] = (*Bounded[int])(nil)

const (
	// Spinning constants for the closed-drain retry window.
	// Active spin: use PAUSE instruction (low power, keeps CPU warm).
	// Passive spin: yield to scheduler.
	activeSpinCycles = 4  // Number of PAUSE cycles per active spin iteration
	activeSpinTries  = 30 // Max active spin iterations before yielding
)

// Bounded is a fixed-capacity blocking FIFO queue for multiple producers and
// multiple consumers.
//
// Two counting semaphores track free slots and filled slots; a mutex protects
// the ring storage during the O(1) append/remove step. A producer acquires a
// free-slot token before taking the mutex and releases a filled-slot token
// after dropping it (consumers symmetrically), so no goroutine ever waits on
// a semaphore while holding the mutex.
//
// Wake order for blocked producers and consumers is FIFO, inherited from
// semaphore.Counting's direct handoff.
type Bounded[T any] struct {
	capacity int
	empty    *semaphore.Counting // free slots, starts at capacity
	filled   *semaphore.Counting // filled slots, starts at zero

	mu    sync.Mutex
	items []T
	head  int
	size  int

	closed atomic.Bool
}

// New creates an empty bounded queue with the given exact capacity.
// Returns ErrInvalidCapacity for capacity < 1.
func New[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Bounded[T]{
		capacity: capacity,
		empty:    semaphore.New(capacity),
		filled:   semaphore.New(0),
		items:    make([]T, capacity),
	}, nil
}

// Enqueue appends item to the tail, blocking while the queue is full.
// Returns ErrClosed once the queue is closed (without blocking) and ctx.Err()
// if ctx is done first. Items are never dropped or reordered.
func (q *Bounded[T]) Enqueue(ctx context.Context, item T) error {
	if q.closed.Load() {
		return ErrClosed
	}

	if err := q.empty.Acquire(ctx); err != nil {
		if errors.Is(err, semaphore.ErrClosed) {
			return ErrClosed
		}
		return err
	}

	q.mu.Lock()
	if q.closed.Load() {
		// Closed between the token grant and the lock.
		q.mu.Unlock()
		q.empty.Release()
		return ErrClosed
	}
	q.items[(q.head+q.size)%q.capacity] = item
	q.size++
	q.mu.Unlock()

	q.filled.Release()
	return nil
}

// Dequeue removes and returns the head item in strict FIFO order, blocking
// while the queue is empty. On a closed queue it keeps returning remaining
// items and only then reports ErrEndOfStream.
func (q *Bounded[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T

	err := q.filled.Acquire(ctx)
	if err == nil {
		return q.take(), nil
	}
	if !errors.Is(err, semaphore.ErrClosed) {
		return zero, err
	}

	// Queue closed. Remaining items must still be drained: a producer that
	// appended just before close may not have released its filled token yet,
	// so poll the token, re-checking the authoritative size each round.
	for spin := 0; ; spin++ {
		if q.filled.TryAcquire() {
			return q.take(), nil
		}

		q.mu.Lock()
		drained := q.size == 0
		q.mu.Unlock()
		if drained {
			return zero, ErrEndOfStream
		}

		if spin < activeSpinTries {
			pkgRuntime.Procyield(activeSpinCycles)
		} else {
			runtime.Gosched()
			spin = 0
		}
	}
}

// take removes the head item. Caller must hold a filled-slot token.
func (q *Bounded[T]) take() T {
	var zero T

	q.mu.Lock()
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % q.capacity
	q.size--
	q.mu.Unlock()

	q.empty.Release()
	return item
}

// EnqueueTimeout is the bounded-wait variant of Enqueue.
// Returns ErrTimeout, without mutating state, if no slot frees up within d.
func (q *Bounded[T]) EnqueueTimeout(item T, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	err := q.Enqueue(ctx, item)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// DequeueTimeout is the bounded-wait variant of Dequeue.
// Returns ErrTimeout, without mutating state, if no item arrives within d.
func (q *Bounded[T]) DequeueTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	item, err := q.Dequeue(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		var zero T
		return zero, ErrTimeout
	}
	return item, err
}

// TryEnqueue adds an item without blocking.
// Returns false if the queue is full or closed.
func (q *Bounded[T]) TryEnqueue(item T) bool {
	if q.closed.Load() || !q.empty.TryAcquire() {
		return false
	}

	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		q.empty.Release()
		return false
	}
	q.items[(q.head+q.size)%q.capacity] = item
	q.size++
	q.mu.Unlock()

	q.filled.Release()
	return true
}

// TryDequeue removes and returns the head item without blocking.
// Returns (zero, false) if the queue is empty.
func (q *Bounded[T]) TryDequeue() (T, bool) {
	if !q.filled.TryAcquire() {
		var zero T
		return zero, false
	}
	return q.take(), true
}

// Close marks the queue as no longer accepting items. Blocked and future
// enqueues fail with ErrClosed; dequeues drain remaining items first.
// Close is idempotent.
func (q *Bounded[T]) Close() {
	q.mu.Lock()
	if q.closed.Load() {
		q.mu.Unlock()
		return
	}
	q.closed.Store(true)
	q.mu.Unlock()

	q.empty.Close()
	q.filled.Close()
}

// IsClosed returns true once Close has been called.
func (q *Bounded[T]) IsClosed() bool { return q.closed.Load() }

// Size returns the current item count.
func (q *Bounded[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Capacity returns maximum queue size.
func (q *Bounded[T]) Capacity() int { return q.capacity }

// IsEmpty returns true if the queue holds no items.
func (q *Bounded[T]) IsEmpty() bool { return q.Size() == 0 }

// IsFull returns true if the queue is at capacity.
func (q *Bounded[T]) IsFull() bool { return q.Size() == q.capacity }
