package queue

import (
	"context"
	"sync"
	"testing"
)

// ===========================================================================
// Benchmark Configuration
// ===========================================================================

// queueBenchConfig holds benchmark test configuration.
type queueBenchConfig struct {
	name     string
	capacity int
}

// benchConfigs defines the capacities for benchmarking.
var benchConfigs = []queueBenchConfig{
	{"Small/Cap64", 64},
	{"Medium/Cap1K", 1024},
	{"Large/Cap64K", 64 * 1024},
}

// ===========================================================================
// Queue Factory Registry
// ===========================================================================

// queueFactory creates a Queue[int] with the given capacity.
type queueFactory func(capacity int) Queue[int]

// chanQueue is a buffered-channel baseline for comparison.
type chanQueue[T any] struct {
	ch chan T
}

func (q *chanQueue[T]) TryEnqueue(item T) bool {
	select {
	case q.ch <- item:
		return true
	default:
		return false
	}
}

func (q *chanQueue[T]) TryDequeue() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *chanQueue[T]) Capacity() int { return cap(q.ch) }

// queueImplementations holds all registered queue implementations.
var queueImplementations = map[string]queueFactory{
	"Bounded": func(capacity int) Queue[int] {
		q, _ := New[int](capacity)
		return q
	},
	"Chan": func(capacity int) Queue[int] {
		return &chanQueue[int]{ch: make(chan int, capacity)}
	},
}

// ===========================================================================
// Single-Threaded Benchmarks
// ===========================================================================

// BenchmarkTryEnqueueDequeue measures non-blocking roundtrip cost.
func BenchmarkTryEnqueueDequeue(b *testing.B) {
	for implName, factory := range queueImplementations {
		for _, cfg := range benchConfigs {
			name := implName + "/" + cfg.name
			b.Run(name, func(b *testing.B) {
				q := factory(cfg.capacity)
				b.ResetTimer()
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					q.TryEnqueue(i)
					q.TryDequeue()
				}
			})
		}
	}
}

// BenchmarkBlockingEnqueueDequeue measures the blocking roundtrip on the
// Bounded queue (the channel baseline has no blocking surface here).
func BenchmarkBlockingEnqueueDequeue(b *testing.B) {
	ctx := context.Background()
	for _, cfg := range benchConfigs {
		b.Run(cfg.name, func(b *testing.B) {
			q, _ := New[int](cfg.capacity)
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = q.Enqueue(ctx, i)
				_, _ = q.Dequeue(ctx)
			}
		})
	}
}

// ===========================================================================
// Concurrent Benchmarks
// ===========================================================================

// concurrencyConfigs defines producer/consumer count combinations.
var concurrencyConfigs = []struct {
	name      string
	producers int
	consumers int
}{
	{"1P1C", 1, 1},
	{"2P2C", 2, 2},
	{"4P4C", 4, 4},
}

// BenchmarkConcurrent_Blocking measures MPMC throughput through the blocking
// path, close included.
func BenchmarkConcurrent_Blocking(b *testing.B) {
	const capacity = 1024
	const itemsPerProducer = 10000
	ctx := context.Background()

	for _, cc := range concurrencyConfigs {
		b.Run(cc.name, func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				q, _ := New[int](capacity)
				var prodWG, consWG sync.WaitGroup

				prodWG.Add(cc.producers)
				for p := 0; p < cc.producers; p++ {
					go func(id int) {
						defer prodWG.Done()
						for i := 0; i < itemsPerProducer; i++ {
							_ = q.Enqueue(ctx, id*itemsPerProducer+i)
						}
					}(p)
				}

				consWG.Add(cc.consumers)
				for c := 0; c < cc.consumers; c++ {
					go func() {
						defer consWG.Done()
						for {
							if _, err := q.Dequeue(ctx); err != nil {
								return
							}
						}
					}()
				}

				prodWG.Wait()
				q.Close()
				consWG.Wait()
			}
		})
	}
}
