package queue

import "context"

// Queue is a generic interface for non-blocking FIFO queues.
type Queue[T any] interface {
	// TryEnqueue adds an item to the queue without blocking.
	// Returns true if successful, false if the queue is full or closed.
	TryEnqueue(item T) bool

	// TryDequeue removes and returns an item from the queue without blocking.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	TryDequeue() (T, bool)

	// Capacity returns the total capacity of the queue.
	Capacity() int
}

// BlockingQueue extends Queue with blocking, context-aware operations and
// closure.
type BlockingQueue[T any] interface {
	Queue[T]

	// Enqueue adds an item, blocking while the queue is full.
	// Returns ErrClosed once the queue is closed.
	Enqueue(ctx context.Context, item T) error

	// Dequeue removes and returns the head item, blocking while the queue is
	// empty. On a closed queue it drains remaining items and only then
	// returns ErrEndOfStream.
	Dequeue(ctx context.Context) (T, error)

	// Close marks the queue as no longer accepting items.
	Close()
}
