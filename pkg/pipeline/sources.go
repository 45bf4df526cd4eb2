package pipeline

import (
	"context"
	"io"
	"sync"
)

// SliceSource serves the elements of a slice in order. It is safe for
// concurrent producers; each item is handed out exactly once.
type SliceSource[T any] struct {
	mu    sync.Mutex
	items []T
	next  int
}

// NewSliceSource creates a Source backed by items.
func NewSliceSource[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

// Next implements Source.
func (s *SliceSource[T]) Next(_ context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.items) {
		var zero T
		return zero, io.EOF
	}
	item := s.items[s.next]
	s.next++
	return item, nil
}

// CollectSink accumulates every consumed item. It is safe for concurrent
// consumers.
type CollectSink[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewCollectSink creates an empty CollectSink.
func NewCollectSink[T any]() *CollectSink[T] {
	return &CollectSink[T]{}
}

// Consume implements Sink.
func (s *CollectSink[T]) Consume(batch []T) error {
	s.mu.Lock()
	s.items = append(s.items, batch...)
	s.mu.Unlock()
	return nil
}

// Items returns a copy of everything consumed so far.
func (s *CollectSink[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
