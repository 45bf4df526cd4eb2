package pipeline

import "context"

// Source produces items for a pipeline.
type Source[T any] interface {
	// Next returns the next item to feed into the pipeline.
	// It returns io.EOF when no further items will ever be produced.
	Next(ctx context.Context) (T, error)
}

// Sink consumes batches of items drained from the pipeline queue.
// It must be safe for concurrent use when the pipeline runs more than one
// consumer.
type Sink[T any] interface {
	// Consume processes a batch of items. The sink owns the passed slice.
	// Returns an error if processing fails.
	Consume(batch []T) error
}

// Config holds configuration for a Pipeline.
type Config struct {
	// Producers is the number of goroutines pulling from the Source.
	Producers int

	// Consumers is the number of goroutines draining to the Sink.
	Consumers int

	// QueueCapacity bounds the handoff queue between producers and consumers.
	QueueCapacity int

	// BatchSize caps how many items a consumer hands to the Sink at once.
	BatchSize int

	// RateLimit paces production across all producers, in items per second.
	// Zero disables pacing.
	RateLimit float64

	// RateBurst is the limiter burst size. Defaults to 1 when RateLimit is set.
	RateBurst int
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Producers <= 0 {
		c.Producers = 1
	}
	if c.Consumers <= 0 {
		c.Consumers = 1
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 64
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	return c
}
