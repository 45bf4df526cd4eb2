package queue

import "errors"

var (
	// ErrInvalidCapacity is returned by New when capacity is below 1.
	ErrInvalidCapacity = errors.New("queue capacity must be at least 1")

	// ErrClosed is returned by Enqueue once the queue has been closed.
	ErrClosed = errors.New("queue is closed")

	// ErrEndOfStream is returned by Dequeue once the queue is closed and all
	// remaining items have been drained.
	ErrEndOfStream = errors.New("queue is closed and drained")

	// ErrTimeout is returned by the bounded-wait variants when the wait
	// deadline expires before the operation could proceed.
	ErrTimeout = errors.New("queue operation timed out")
)
