package pipeline

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Thyrister/concurrency/pkg/datastructs/queue"
)

// Pipeline moves items from a Source to a Sink through a bounded blocking
// queue. Producers block when the queue is full, consumers block when it is
// empty, and the queue is closed exactly once, after the last producer
// finishes.
type Pipeline[T any] struct {
	cfg     Config
	src     Source[T]
	sink    Sink[T]
	queue   *queue.Bounded[T]
	limiter *rate.Limiter
	log     *zap.Logger

	produced atomic.Int64
	consumed atomic.Int64
}

// New creates a pipeline. A nil logger disables logging.
func New[T any](src Source[T], sink Sink[T], cfg Config, log *zap.Logger) (*Pipeline[T], error) {
	if src == nil {
		return nil, errors.New("pipeline: source is nil")
	}
	if sink == nil {
		return nil, errors.New("pipeline: sink is nil")
	}
	cfg = cfg.withDefaults()

	q, err := queue.New[T](cfg.QueueCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: create queue")
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline[T]{
		cfg:     cfg,
		src:     src,
		sink:    sink,
		queue:   q,
		limiter: limiter,
		log:     log,
	}, nil
}

// Run drives the pipeline until the source is exhausted and the queue is
// drained, or until ctx is canceled or a stage fails. It returns the first
// error encountered.
func (p *Pipeline[T]) Run(ctx context.Context) error {
	p.log.Info("pipeline starting",
		zap.Int("producers", p.cfg.Producers),
		zap.Int("consumers", p.cfg.Consumers),
		zap.Int("queue_capacity", p.cfg.QueueCapacity),
		zap.Int("batch_size", p.cfg.BatchSize),
	)

	g, ctx := errgroup.WithContext(ctx)

	prodGroup, prodCtx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.Producers; i++ {
		id := i
		prodGroup.Go(func() error {
			return p.produce(prodCtx, id)
		})
	}

	// The queue closes when the last producer finishes, successfully or not,
	// so consumers always observe end of stream.
	g.Go(func() error {
		defer p.queue.Close()
		return prodGroup.Wait()
	})

	for i := 0; i < p.cfg.Consumers; i++ {
		id := i
		g.Go(func() error {
			return p.consume(ctx, id)
		})
	}

	err := g.Wait()
	p.log.Info("pipeline finished",
		zap.Int64("produced", p.produced.Load()),
		zap.Int64("consumed", p.consumed.Load()),
		zap.Error(err),
	)
	return err
}

// Produced returns the number of items accepted by the queue so far.
func (p *Pipeline[T]) Produced() int64 { return p.produced.Load() }

// Consumed returns the number of items delivered to the sink so far.
func (p *Pipeline[T]) Consumed() int64 { return p.consumed.Load() }

func (p *Pipeline[T]) produce(ctx context.Context, id int) error {
	for {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		item, err := p.src.Next(ctx)
		if err == io.EOF {
			p.log.Debug("producer finished", zap.Int("producer", id))
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "producer %d: source next", id)
		}

		if err := p.queue.Enqueue(ctx, item); err != nil {
			return errors.Wrapf(err, "producer %d: enqueue", id)
		}
		p.produced.Add(1)
	}
}

func (p *Pipeline[T]) consume(ctx context.Context, id int) error {
	for {
		item, err := p.queue.Dequeue(ctx)
		if errors.Is(err, queue.ErrEndOfStream) {
			p.log.Debug("consumer finished", zap.Int("consumer", id))
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "consumer %d: dequeue", id)
		}

		// Top up the batch without blocking, then flush. Bursts coalesce into
		// larger sink calls; a trickle flushes item by item.
		batch := make([]T, 0, p.cfg.BatchSize)
		batch = append(batch, item)
		for len(batch) < p.cfg.BatchSize {
			more, ok := p.queue.TryDequeue()
			if !ok {
				break
			}
			batch = append(batch, more)
		}

		if err := p.sink.Consume(batch); err != nil {
			return errors.Wrapf(err, "consumer %d: sink consume", id)
		}
		p.consumed.Add(int64(len(batch)))
	}
}
